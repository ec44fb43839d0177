package optimizer

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"gopkg.in/yaml.v3"

	"github.com/mkhv12/stk-advisor/internal/logger"
	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
)

// Config is the YAML configuration of a weight search.
type Config struct {
	Name        string       `yaml:"name" validate:"required"`
	InitPoints  int          `yaml:"init_points" validate:"gte=0"`
	Iterations  int          `yaml:"iterations" validate:"gte=0"`
	Acquisition Acquisition  `yaml:"acquisition" validate:"oneof=ucb ei"`
	Kappa       float64      `yaml:"kappa" validate:"gte=0"`
	Xi          float64      `yaml:"xi" validate:"gte=0"`
	Seed        int64        `yaml:"seed"`
	Metric      Metric       `yaml:"metric" validate:"oneof=total_wins profit_or_loss win_rate"`
	WorstScore  float64      `yaml:"worst_score"`
	Bounds      types.Bounds `yaml:"bounds" validate:"required,min=1,dive"`
}

// DefaultConfig searches every default indicator weight in [0, 2] maximizing total wins,
// with 5 exploratory and 25 guided evaluations.
func DefaultConfig() Config {
	return Config{
		Name:        "weights",
		InitPoints:  5,
		Iterations:  25,
		Acquisition: AcquisitionUCB,
		Kappa:       2.576,
		Xi:          0,
		Seed:        1,
		Metric:      MetricTotalWins,
		WorstScore:  0,
		Bounds:      DefaultBounds(),
	}
}

// DefaultBounds returns [0, 2] for every default indicator.
func DefaultBounds() types.Bounds {
	bounds := make(types.Bounds, len(types.AllIndicatorTypes))
	for _, name := range types.AllIndicatorTypes {
		bounds[name] = types.Bound{Low: 0, High: 2}
	}

	return bounds
}

// ParseConfig parses YAML on top of DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()
	config.Bounds = nil

	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse optimizer config", err)
	}

	if len(config.Bounds) == 0 {
		config.Bounds = DefaultBounds()
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read optimizer config %s", path)
	}

	return ParseConfig(data)
}

// Validate checks field constraints and the evaluation budget.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid optimizer config", err)
	}

	if c.InitPoints+c.Iterations == 0 {
		return errors.New(errors.ErrCodeInvalidConfiguration, "init_points + iterations must be positive")
	}

	return nil
}

// Options converts the config into Optimize options.
func (c Config) Options(log *logger.Logger) Options {
	bayesian := DefaultBayesianOptions()
	bayesian.Acquisition = c.Acquisition
	bayesian.Kappa = optional.Some(c.Kappa)
	bayesian.Xi = c.Xi
	bayesian.Seed = c.Seed

	return Options{
		Name:       c.Name,
		InitPoints: c.InitPoints,
		Iterations: c.Iterations,
		WorstScore: c.WorstScore,
		Bayesian:   bayesian,
		Logger:     log,
	}
}
