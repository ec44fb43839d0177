package engine

import (
	"encoding/json"
	"maps"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"

	"github.com/mkhv12/stk-advisor/internal/indicator"
	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
)

// Weight profiles shipped with the engine, one per bar timeframe.
const (
	ProfileDay    = "day"
	ProfileHour   = "hour"
	ProfileMinute = "minute"
)

type BacktestEngineV1Config struct {
	InitialCapital    float64                    `yaml:"initial_capital" json:"initial_capital" jsonschema:"title=Initial Capital,description=Starting cash of every simulated symbol,minimum=0" validate:"gte=0"`
	ProfitThreshold   float64                    `yaml:"profit_threshold" json:"profit_threshold" jsonschema:"title=Profit Threshold,description=Minimum gain fraction before a sell signal closes the position,minimum=0" validate:"gte=0"`
	StopLossThreshold float64                    `yaml:"stop_loss_threshold" json:"stop_loss_threshold" jsonschema:"title=Stop Loss Threshold,description=Minimum loss fraction before a sell signal closes the position,minimum=0" validate:"gte=0"`
	StartTime         optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional start time for the backtest period"`
	EndTime           optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional end time for the backtest period"`
	Parallelism       int                        `yaml:"parallelism" json:"parallelism" jsonschema:"title=Parallelism,description=Number of symbols simulated concurrently,minimum=1,default=4" validate:"gte=1"`
	Weights           types.WeightVector         `yaml:"weights" json:"weights" jsonschema:"title=Weights,description=Indicator weights; the day profile is used when empty" validate:"dive,gte=0"`
	Indicators        indicator.Params           `yaml:"indicators" json:"indicators" jsonschema:"title=Indicators,description=Parameters overriding indicator defaults keyed by indicator name (e.g. rsi: [14 30 70])"`
}

// UnmarshalYAML implements custom unmarshaling for BacktestEngineV1Config.
// Missing fields keep their DefaultConfig values.
func (c *BacktestEngineV1Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type Config struct {
		InitialCapital    *float64           `yaml:"initial_capital"`
		ProfitThreshold   *float64           `yaml:"profit_threshold"`
		StopLossThreshold *float64           `yaml:"stop_loss_threshold"`
		StartTime         *time.Time         `yaml:"start_time"`
		EndTime           *time.Time         `yaml:"end_time"`
		Parallelism       *int               `yaml:"parallelism"`
		Weights           types.WeightVector `yaml:"weights"`
		Indicators        indicator.Params   `yaml:"indicators"`
	}

	var config Config
	if err := unmarshal(&config); err != nil {
		return err
	}

	*c = DefaultConfig()

	if config.InitialCapital != nil {
		c.InitialCapital = *config.InitialCapital
	}

	if config.ProfitThreshold != nil {
		c.ProfitThreshold = *config.ProfitThreshold
	}

	if config.StopLossThreshold != nil {
		c.StopLossThreshold = *config.StopLossThreshold
	}

	if config.StartTime != nil {
		c.StartTime = optional.Some(*config.StartTime)
	}

	if config.EndTime != nil {
		c.EndTime = optional.Some(*config.EndTime)
	}

	if config.Parallelism != nil {
		c.Parallelism = *config.Parallelism
	}

	if len(config.Weights) > 0 {
		c.Weights = config.Weights
	}

	c.Indicators = config.Indicators

	return nil
}

// Validate checks field constraints and the time range.
func (c BacktestEngineV1Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid backtest config", err)
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && c.EndTime.Unwrap().Before(c.StartTime.Unwrap()) {
		return errors.New(errors.ErrCodeInvalidConfiguration, "end_time is before start_time")
	}

	return nil
}

// GenerateSchema generates a JSON schema for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "backtest-engine-v1-config"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

func TestConfig(capital float64, profitThreshold float64, stopLossThreshold float64) BacktestEngineV1Config {
	return BacktestEngineV1Config{
		InitialCapital:    capital,
		ProfitThreshold:   profitThreshold,
		StopLossThreshold: stopLossThreshold,
		StartTime:         optional.None[time.Time](),
		EndTime:           optional.None[time.Time](),
		Parallelism:       1,
		Weights:           nil,
	}
}

// EmptyConfig returns a BacktestEngineV1Config with zero values
func EmptyConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		InitialCapital:    0,
		ProfitThreshold:   0,
		StopLossThreshold: 0,
		StartTime:         optional.None[time.Time](),
		EndTime:           optional.None[time.Time](),
		Parallelism:       1,
		Weights:           nil,
	}
}

// DefaultConfig returns the advisor defaults: $500 per symbol, 4% profit
// target and 2% stop loss, with the day profile weights.
func DefaultConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		InitialCapital:    500,
		ProfitThreshold:   0.04,
		StopLossThreshold: 0.02,
		StartTime:         optional.None[time.Time](),
		EndTime:           optional.None[time.Time](),
		Parallelism:       4,
		Weights:           DefaultProfiles()[ProfileDay],
	}
}

// EffectiveWeights returns the configured weights, or the day profile when none are set.
func (c BacktestEngineV1Config) EffectiveWeights() types.WeightVector {
	if len(c.Weights) == 0 {
		return DefaultProfiles()[ProfileDay]
	}

	return c.Weights.Clone()
}

var defaultProfiles = map[string]types.WeightVector{
	ProfileDay: {
		types.IndicatorTypeRSI:              0.5,
		types.IndicatorTypeMACD:             0.5,
		types.IndicatorTypeADX:              0.5,
		types.IndicatorTypeRSIDivergence:    0.5,
		types.IndicatorTypeMACDHistogram:    0.5,
		types.IndicatorTypeParabolicSAR:     0.25,
		types.IndicatorTypeStochastic:       0.5,
		types.IndicatorTypeVolumeTrend:      1.25,
		types.IndicatorTypeVWAP:             0.75,
		types.IndicatorTypeBollingerBands:   0.25,
		types.IndicatorTypeGoldenCross:      0.25,
		types.IndicatorTypeCandlestick:      1.5,
		types.IndicatorTypeFibonacci:        1.25,
		types.IndicatorTypeHeadAndShoulders: 1.25,
		types.IndicatorTypeDoubleTopBottom:  1.25,
	},
	ProfileHour: {
		types.IndicatorTypeRSI:              1.0,
		types.IndicatorTypeMACD:             1.35,
		types.IndicatorTypeADX:              1.25,
		types.IndicatorTypeRSIDivergence:    1.0,
		types.IndicatorTypeMACDHistogram:    1.0,
		types.IndicatorTypeParabolicSAR:     1.0,
		types.IndicatorTypeStochastic:       1.0,
		types.IndicatorTypeVolumeTrend:      1.1,
		types.IndicatorTypeVWAP:             1.0,
		types.IndicatorTypeBollingerBands:   0.75,
		types.IndicatorTypeGoldenCross:      1.0,
		types.IndicatorTypeCandlestick:      1.5,
		types.IndicatorTypeFibonacci:        1.25,
		types.IndicatorTypeHeadAndShoulders: 1.25,
		types.IndicatorTypeDoubleTopBottom:  1.25,
	},
	ProfileMinute: {
		types.IndicatorTypeRSI:              1.25,
		types.IndicatorTypeMACD:             1.5,
		types.IndicatorTypeADX:              0.75,
		types.IndicatorTypeRSIDivergence:    1.25,
		types.IndicatorTypeMACDHistogram:    1.25,
		types.IndicatorTypeParabolicSAR:     0.75,
		types.IndicatorTypeStochastic:       1.15,
		types.IndicatorTypeVolumeTrend:      1.25,
		types.IndicatorTypeVWAP:             0.95,
		types.IndicatorTypeBollingerBands:   1.25,
		types.IndicatorTypeGoldenCross:      0.75,
		types.IndicatorTypeCandlestick:      0.75,
		types.IndicatorTypeFibonacci:        0.75,
		types.IndicatorTypeHeadAndShoulders: 0.75,
		types.IndicatorTypeDoubleTopBottom:  0.75,
	},
}

// DefaultProfiles returns copies of the built-in day, hour and minute weight profiles.
func DefaultProfiles() map[string]types.WeightVector {
	profiles := make(map[string]types.WeightVector, len(defaultProfiles))
	for name, weights := range defaultProfiles {
		profiles[name] = maps.Clone(weights)
	}

	return profiles
}
