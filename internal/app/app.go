// Package app wires the backtest engine, the parquet datasource and weight files together
// for the command line tools.
package app

import (
	"os"
	"slices"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/mkhv12/stk-advisor/internal/backtest/engine"
	enginev1 "github.com/mkhv12/stk-advisor/internal/backtest/engine/engine_v1"
	"github.com/mkhv12/stk-advisor/internal/backtest/engine/engine_v1/datasource"
	"github.com/mkhv12/stk-advisor/internal/logger"
	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
)

// EngineOptions locates the inputs of a backtest engine.
type EngineOptions struct {
	// ConfigPath is an engine YAML config; empty means defaults
	ConfigPath string
	// DataPath is a parquet file or glob
	DataPath string
	// ResultsFolder receives results.yaml, summary.yaml and trades.parquet when set
	ResultsFolder string
}

// Session is an initialized engine together with the datasource it reads from.
type Session struct {
	Engine     engine.Engine
	DataSource datasource.DataSource
}

// Close releases the datasource.
func (s *Session) Close() error {
	return s.DataSource.Close()
}

// readConfig returns the engine config text, empty when no path is given.
func readConfig(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(errors.ErrCodeBacktestConfigError, err, "failed to read engine config %s", path)
	}

	return string(data), nil
}

// NewSession initializes a BacktestEngineV1 over the parquet data at options.DataPath.
func NewSession(options EngineOptions, log *logger.Logger) (*Session, error) {
	config, err := readConfig(options.ConfigPath)
	if err != nil {
		return nil, err
	}

	backtester := enginev1.NewBacktestEngineV1WithLogger(log)
	if err := backtester.Initialize(config); err != nil {
		return nil, err
	}

	ds, err := datasource.NewDataSource(":memory:", log)
	if err != nil {
		return nil, err
	}

	if err := ds.Initialize(options.DataPath); err != nil {
		ds.Close()

		return nil, err
	}

	if err := backtester.SetDataSource(ds); err != nil {
		ds.Close()

		return nil, err
	}

	if options.ResultsFolder != "" {
		if err := backtester.SetResultsFolder(options.ResultsFolder); err != nil {
			ds.Close()

			return nil, err
		}
	}

	log.Debug("Session ready",
		zap.String("config", options.ConfigPath),
		zap.String("data", options.DataPath),
		zap.String("results", options.ResultsFolder),
	)

	return &Session{Engine: backtester, DataSource: ds}, nil
}

// ProfileNames returns the names of the built-in weight profiles in sorted order.
func ProfileNames() []string {
	names := lo.Keys(enginev1.DefaultProfiles())
	slices.Sort(names)

	return names
}

// ResolveWeights picks the weights of a run: a weights file wins over a profile name.
// Neither returns nil, which lets the engine use the weights of its config.
func ResolveWeights(weightsPath string, profile string) (types.WeightVector, error) {
	if weightsPath != "" {
		weights, err := types.ReadWeightVector(weightsPath)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidWeight, "failed to load weights", err)
		}

		return weights, nil
	}

	if profile == "" {
		return nil, nil
	}

	weights, ok := enginev1.DefaultProfiles()[profile]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "unknown weight profile %q, expected one of %v", profile, ProfileNames())
	}

	return weights, nil
}
