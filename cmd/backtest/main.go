package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/mkhv12/stk-advisor/internal/app"
	"github.com/mkhv12/stk-advisor/internal/backtest/engine"
	enginev1 "github.com/mkhv12/stk-advisor/internal/backtest/engine/engine_v1"
	"github.com/mkhv12/stk-advisor/internal/report"
)

// backtestAction runs the walk-forward simulation over every requested symbol and prints
// the per-symbol results followed by the batch summary.
func backtestAction(ctx context.Context, cmd *cli.Command) error {
	log, err := app.LoggerFromCommand(cmd)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	weights, err := app.WeightsFromCommand(cmd)
	if err != nil {
		return err
	}

	options := app.EngineOptionsFromCommand(cmd)
	options.ResultsFolder = cmd.String("results")

	session, err := app.NewSession(options, log)
	if err != nil {
		return fmt.Errorf("failed to set up backtest: %w", err)
	}
	defer session.Close()

	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}

	callbacks := progressCallbacks(cmd.Bool("quiet"))

	results, err := session.Engine.Run(ctx, app.SymbolsFromCommand(cmd), weights, callbacks)
	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	if cmd.Bool("trades") {
		for _, result := range enginev1.CompletedResults(results) {
			fmt.Fprintln(out, report.RenderBacktest(result))
		}
	}

	fmt.Fprint(out, report.RenderResults(results))
	fmt.Fprintln(out)
	fmt.Fprint(out, report.RenderSummary(enginev1.SummarizeRun(results)))

	return nil
}

// progressCallbacks advances a progress bar on stderr as symbols complete.
func progressCallbacks(quiet bool) engine.LifecycleCallbacks {
	var (
		mu  sync.Mutex
		bar *progressbar.ProgressBar
	)

	var output io.Writer = os.Stderr
	if quiet {
		output = io.Discard
	}

	onRunStart := engine.OnRunStartCallback(func(runID string, totalSymbols int) error {
		mu.Lock()
		defer mu.Unlock()

		bar = progressbar.NewOptions(totalSymbols,
			progressbar.OptionSetWriter(output),
			progressbar.OptionSetDescription("Backtesting"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)

		return nil
	})

	onSymbolEnd := engine.OnSymbolEndCallback(func(completed int, total int, result engine.SymbolResult) {
		mu.Lock()
		defer mu.Unlock()

		if bar != nil {
			bar.Set(completed)
		}
	})

	onRunEnd := engine.OnRunEndCallback(func(err error) {
		mu.Lock()
		defer mu.Unlock()

		if bar != nil {
			bar.Finish()
		}
	})

	return engine.LifecycleCallbacks{
		OnRunStart:  &onRunStart,
		OnSymbolEnd: &onSymbolEnd,
		OnRunEnd:    &onRunEnd,
	}
}

func newCommand() *cli.Command {
	flags := app.EngineFlags()
	flags = append(flags,
		&cli.StringFlag{
			Name:    "results",
			Aliases: []string{"r"},
			Usage:   "Folder receiving results.yaml, summary.yaml and trades.parquet per run",
		},
		&cli.BoolFlag{
			Name:  "trades",
			Usage: "Print the trade log of every symbol",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Do not render the progress bar",
		},
	)

	return &cli.Command{
		Name:   "backtest",
		Usage:  "Backtest the weighted indicator vote over historical bars",
		Flags:  flags,
		Action: backtestAction,
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
