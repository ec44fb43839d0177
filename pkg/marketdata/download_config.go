package marketdata

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

// BaseDownloadConfig contains the fields common to every provider's download configuration.
type BaseDownloadConfig struct {
	Ticker    string `json:"ticker" jsonschema:"title=Ticker,description=The symbol to download bars for (e.g. SCHD),required" validate:"required"`
	StartDate string `json:"startDate" jsonschema:"title=Start Date,description=Start date as YYYY-MM-DD or RFC3339,required" validate:"required"`
	EndDate   string `json:"endDate" jsonschema:"title=End Date,description=End date as YYYY-MM-DD or RFC3339,required" validate:"required"`
	Interval  string `json:"interval" jsonschema:"title=Interval,description=Bar interval,required,enum=1m,enum=5m,enum=15m,enum=30m,enum=1h,enum=4h,enum=1d,enum=1w,enum=1M" validate:"required,oneof=1m 5m 15m 30m 1h 4h 1d 1w 1M"`
}

// PolygonDownloadConfig contains configuration for downloading from Polygon.io.
type PolygonDownloadConfig struct {
	BaseDownloadConfig

	ApiKey string `json:"apiKey" jsonschema:"title=API Key,description=Polygon.io API key for authentication,required" validate:"required"`
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD or RFC3339, got %q", value)
	}

	return t, nil
}

// Validate validates the BaseDownloadConfig fields.
func (c *BaseDownloadConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	start, err := parseDate(c.StartDate)
	if err != nil {
		return fmt.Errorf("invalid startDate: %w", err)
	}

	end, err := parseDate(c.EndDate)
	if err != nil {
		return fmt.Errorf("invalid endDate: %w", err)
	}

	if !end.After(start) {
		return fmt.Errorf("invalid config: endDate must be after startDate")
	}

	return nil
}

// Validate validates the PolygonDownloadConfig.
func (c *PolygonDownloadConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return c.BaseDownloadConfig.Validate()
}

// ToDownloadParams converts a BaseDownloadConfig to DownloadParams.
func (c *BaseDownloadConfig) ToDownloadParams() (DownloadParams, error) {
	startDate, err := parseDate(c.StartDate)
	if err != nil {
		return DownloadParams{}, fmt.Errorf("failed to parse startDate: %w", err)
	}

	endDate, err := parseDate(c.EndDate)
	if err != nil {
		return DownloadParams{}, fmt.Errorf("failed to parse endDate: %w", err)
	}

	timespan := Timespan(c.Interval)

	return DownloadParams{
		Ticker:     c.Ticker,
		StartDate:  startDate,
		EndDate:    endDate,
		Multiplier: timespan.Multiplier(),
		Timespan:   timespan.Timespan(),
	}, nil
}

// ToClientConfig converts a PolygonDownloadConfig to ClientConfig.
func (c *PolygonDownloadConfig) ToClientConfig(dataPath string) ClientConfig {
	return ClientConfig{
		ProviderType:  ProviderPolygon,
		WriterType:    WriterDuckDB,
		DataPath:      dataPath,
		PolygonApiKey: c.ApiKey,
	}
}

// ParsePolygonConfig parses JSON into a PolygonDownloadConfig.
func ParsePolygonConfig(jsonConfig string) (*PolygonDownloadConfig, error) {
	var config PolygonDownloadConfig
	if err := json.Unmarshal([]byte(jsonConfig), &config); err != nil {
		return nil, fmt.Errorf("failed to parse JSON config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
