package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/mkhv12/stk-advisor/internal/app"
	"github.com/mkhv12/stk-advisor/internal/decision"
	"github.com/mkhv12/stk-advisor/internal/optimizer"
	"github.com/mkhv12/stk-advisor/internal/report"
	"github.com/mkhv12/stk-advisor/internal/types"
)

// dataset is one weight search input: a name for the result and the bars it is scored on.
type dataset struct {
	name string
	path string
}

// parseDatasets reads --dataset values of the form "profile=path" or a bare path. Named
// datasets produce results called after the profile, a bare path uses the config name.
func parseDatasets(values []string, defaultName string) ([]dataset, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("at least one --dataset is required")
	}

	datasets := make([]dataset, 0, len(values))
	seen := map[string]bool{}

	for _, value := range values {
		name, path, found := strings.Cut(value, "=")
		if !found {
			name, path = defaultName, value
		} else {
			name = optimizer.ProfileJobName(strings.TrimSpace(name))
		}

		path = strings.TrimSpace(path)
		if path == "" {
			return nil, fmt.Errorf("dataset %q has no path", value)
		}

		if seen[name] {
			return nil, fmt.Errorf("dataset name %q is used twice", name)
		}

		seen[name] = true

		datasets = append(datasets, dataset{name: name, path: path})
	}

	return datasets, nil
}

// optimizeAction runs one weight search per dataset concurrently and writes the best weights
// of each to <output>/<name>.yaml.
func optimizeAction(ctx context.Context, cmd *cli.Command) error {
	log, err := app.LoggerFromCommand(cmd)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	config := optimizer.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		if config, err = optimizer.LoadConfig(path); err != nil {
			return err
		}
	}

	datasets, err := parseDatasets(cmd.StringSlice("dataset"), config.Name)
	if err != nil {
		return err
	}

	symbols := app.SymbolsFromCommand(cmd)
	evaluations := len(datasets) * (config.InitPoints + config.Iterations)

	var progressOut io.Writer = os.Stderr
	if cmd.Bool("quiet") {
		progressOut = io.Discard
	}

	bar := progressbar.NewOptions(evaluations,
		progressbar.OptionSetWriter(progressOut),
		progressbar.OptionSetDescription("Optimizing"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	jobs := make([]optimizer.Job, 0, len(datasets))

	for _, ds := range datasets {
		session, err := app.NewSession(app.EngineOptions{
			ConfigPath: cmd.String("engine-config"),
			DataPath:   ds.path,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to set up dataset %s: %w", ds.name, err)
		}
		defer session.Close()

		names, err := session.Engine.IndicatorNames()
		if err != nil {
			return fmt.Errorf("failed to resolve indicators of dataset %s: %w", ds.name, err)
		}

		if err := decision.ValidateBounds(names, config.Bounds); err != nil {
			return fmt.Errorf("optimizer bounds do not match the engine indicators: %w", err)
		}

		options := config.Options(log)
		options.Name = ds.name
		options.Indicators = names
		options.OnEvaluation = func(types.Evaluation) {
			bar.Add(1)
		}

		jobs = append(jobs, optimizer.Job{
			Name:      ds.name,
			Objective: optimizer.NewBacktestObjective(session.Engine, symbols, config.Metric),
			Bounds:    config.Bounds,
			Options:   options,
		})
	}

	results, runErr := optimizer.RunParallel(ctx, jobs, int(cmd.Int("jobs")))
	bar.Finish()

	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}

	outputDir := cmd.String("output")
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	failed := 0

	for _, result := range results {
		if result.Err != nil {
			failed++

			log.Warn("Weight search failed", zap.String("name", result.Name), zap.Error(result.Err))
		}

		if len(result.Result.History) == 0 {
			continue
		}

		path := filepath.Join(outputDir, result.Name+".yaml")
		if err := types.WriteWeightSearchResult(path, result.Result); err != nil {
			return err
		}

		fmt.Fprint(out, report.RenderSearch(result.Result))
		fmt.Fprintf(out, "Saved to %s\n\n", path)
	}

	if runErr != nil {
		return fmt.Errorf("optimization interrupted: %w", runErr)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d weight searches failed", failed, len(results))
	}

	return nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "optimize",
		Usage: "Search indicator weights that maximize a backtest metric",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "dataset",
				Usage:    "Bars to score weights on, as PROFILE=PATH (e.g. day=data/daily/*.parquet) or PATH; repeat for parallel searches",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Optimizer config YAML (bounds, iterations, acquisition, metric)",
			},
			&cli.StringFlag{
				Name:  "engine-config",
				Usage: "Engine config YAML used by every evaluation",
			},
			&cli.StringSliceFlag{
				Name:    app.FlagSymbols,
				Aliases: []string{"s"},
				Usage:   "Symbols to backtest (all symbols of the dataset when omitted)",
			},
			&cli.IntFlag{
				Name:  "jobs",
				Usage: "Maximum number of searches running at once (0 runs all)",
				Value: 0,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory the best weights are written to",
				Value:   "weights",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Do not render the progress bar",
			},
			app.LogLevelFlag(),
		},
		Action: optimizeAction,
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
