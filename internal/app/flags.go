package app

import (
	"strings"

	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"github.com/mkhv12/stk-advisor/internal/logger"
	"github.com/mkhv12/stk-advisor/internal/types"
	"github.com/mkhv12/stk-advisor/pkg/errors"
	"github.com/mkhv12/stk-advisor/pkg/marketdata"
)

const (
	FlagData     = "data"
	FlagConfig   = "config"
	FlagSymbols  = "symbols"
	FlagWeights  = "weights"
	FlagProfile  = "profile"
	FlagInterval = "interval"
	FlagLogLevel = "log-level"
)

// LogLevelFlag selects the zap level of the command logger.
func LogLevelFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  FlagLogLevel,
		Usage: "Log level (debug, info, warn, error)",
		Value: "warn",
	}
}

// EngineFlags are the flags shared by the commands that run the backtest engine.
func EngineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     FlagData,
			Aliases:  []string{"d"},
			Usage:    "Parquet file or glob with the bars to read",
			Required: true,
		},
		&cli.StringFlag{
			Name:    FlagConfig,
			Aliases: []string{"c"},
			Usage:   "Engine config YAML (defaults apply when omitted)",
		},
		&cli.StringSliceFlag{
			Name:    FlagSymbols,
			Aliases: []string{"s"},
			Usage:   "Symbols to process (all symbols of the data when omitted)",
		},
		&cli.StringFlag{
			Name:    FlagWeights,
			Aliases: []string{"w"},
			Usage:   "Weights YAML, a bare mapping or a saved weight search result",
		},
		&cli.StringFlag{
			Name:  FlagProfile,
			Usage: "Built-in weight profile (" + strings.Join(ProfileNames(), ", ") + ")",
		},
		&cli.StringFlag{
			Name:    FlagInterval,
			Aliases: []string{"i"},
			Usage:   "Bar interval of the data (e.g. 5m, 1h, 1d), selects the matching weight profile",
		},
		LogLevelFlag(),
	}
}

// LoggerFromCommand creates the logger at the level given by --log-level.
func LoggerFromCommand(cmd *cli.Command) (*logger.Logger, error) {
	return logger.NewLoggerWithLevel(cmd.String(FlagLogLevel))
}

// EngineOptionsFromCommand reads --config and --data.
func EngineOptionsFromCommand(cmd *cli.Command) EngineOptions {
	return EngineOptions{
		ConfigPath: cmd.String(FlagConfig),
		DataPath:   cmd.String(FlagData),
	}
}

// WeightsFromCommand resolves --weights, --profile and --interval in that order of precedence.
func WeightsFromCommand(cmd *cli.Command) (types.WeightVector, error) {
	profile := cmd.String(FlagProfile)

	if interval := cmd.String(FlagInterval); profile == "" && interval != "" {
		timespan := marketdata.Timespan(interval)
		if !timespan.IsValid() {
			return nil, errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported interval %q", interval)
		}

		profile = timespan.Profile()
	}

	return ResolveWeights(cmd.String(FlagWeights), profile)
}

// SymbolsFromCommand returns the upper-cased unique symbols of --symbols. Comma separated
// values are split.
func SymbolsFromCommand(cmd *cli.Command) []string {
	return NormalizeSymbols(cmd.StringSlice(FlagSymbols))
}

// NormalizeSymbols splits comma separated entries, trims and upper-cases them and drops
// empty and repeated symbols.
func NormalizeSymbols(values []string) []string {
	symbols := lo.FlatMap(values, func(v string, _ int) []string {
		return strings.Split(v, ",")
	})

	symbols = lo.FilterMap(symbols, func(s string, _ int) (string, bool) {
		s = strings.ToUpper(strings.TrimSpace(s))

		return s, s != ""
	})

	return lo.Uniq(symbols)
}
