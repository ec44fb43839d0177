package marketdata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/mkhv12/stk-advisor/pkg/errors"
	"github.com/mkhv12/stk-advisor/pkg/marketdata/provider"
	"github.com/mkhv12/stk-advisor/pkg/marketdata/writer"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderPolygon ProviderType = "polygon"
)

// WriterType defines the type of market data writer.
type WriterType string

const (
	WriterDuckDB WriterType = "duckdb"
)

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType  ProviderType `validate:"required,oneof=polygon"`
	WriterType    WriterType   `validate:"required,oneof=duckdb"`
	DataPath      string       `validate:"required"`
	PolygonApiKey string       `validate:"required_if=ProviderType polygon"`
}

// DownloadParams holds the parameters for a market data download request.
type DownloadParams struct {
	Ticker     string          `validate:"required"`
	StartDate  time.Time       `validate:"required"`
	EndDate    time.Time       `validate:"required,gtfield=StartDate"`
	Multiplier int             `validate:"required,min=1"`
	Timespan   models.Timespan `validate:"required"`
}

// OutputFileName returns the parquet file name a download is written to:
// TICKER_START_END_MULTIPLIER_TIMESPAN.parquet.
func (p DownloadParams) OutputFileName() string {
	return fmt.Sprintf("%s_%s_%s_%d_%s.parquet",
		p.Ticker,
		p.StartDate.Format("2006-01-02"),
		p.EndDate.Format("2006-01-02"),
		p.Multiplier,
		p.Timespan)
}

// Client downloads bars from a provider and stores them with a writer.
type Client struct {
	provider   provider.Provider
	config     ClientConfig
	validate   *validator.Validate
	onProgress provider.OnDownloadProgress
}

// NewClient creates a new market data client with the given configuration.
func NewClient(config ClientConfig, onProgress provider.OnDownloadProgress) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	var marketProvider provider.Provider

	var err error

	switch config.ProviderType {
	case ProviderPolygon:
		marketProvider, err = provider.NewPolygonClient(config.PolygonApiKey)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidProvider, "failed to create Polygon client", err)
		}
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider type: %s", config.ProviderType)
	}

	return &Client{
		provider:   marketProvider,
		config:     config,
		validate:   validate,
		onProgress: onProgress,
	}, nil
}

// Download fetches the bars described by params and returns the path of the written file.
// The context can be used to cancel the download.
func (c *Client) Download(ctx context.Context, params DownloadParams) (string, error) {
	if err := c.validate.Struct(params); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidParameter, "invalid download parameters", err)
	}

	marketWriter, err := c.setupWriter(params)
	if err != nil {
		return "", err
	}

	c.provider.ConfigWriter(marketWriter)

	path, err := c.provider.Download(
		ctx,
		params.Ticker,
		params.StartDate,
		params.EndDate,
		params.Multiplier,
		params.Timespan,
		c.onProgress,
	)
	if err != nil {
		return "", errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "download of %s failed", params.Ticker)
	}

	return path, nil
}

// setupWriter creates the writer for the configured writer type. The provider initializes it.
func (c *Client) setupWriter(params DownloadParams) (writer.MarketDataWriter, error) {
	switch c.config.WriterType {
	case WriterDuckDB:
		if err := os.MkdirAll(c.config.DataPath, 0755); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to create data directory %s", c.config.DataPath)
		}

		return writer.NewDuckDBWriter(filepath.Join(c.config.DataPath, params.OutputFileName())), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "unsupported writer type: %s", c.config.WriterType)
	}
}
