package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/mkhv12/stk-advisor/internal/app"
	"github.com/mkhv12/stk-advisor/internal/report"
	"github.com/mkhv12/stk-advisor/internal/types"
)

// analyzeAction prints the indicator statuses and the decision on the latest bar of every
// requested symbol.
func analyzeAction(ctx context.Context, cmd *cli.Command) error {
	log, err := app.LoggerFromCommand(cmd)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	only := types.Action(cmd.String("only"))
	switch only {
	case "", types.ActionBuy, types.ActionSell, types.ActionHold:
	default:
		return fmt.Errorf("unknown action %q for --only", only)
	}

	weights, err := app.WeightsFromCommand(cmd)
	if err != nil {
		return err
	}

	session, err := app.NewSession(app.EngineOptionsFromCommand(cmd), log)
	if err != nil {
		return fmt.Errorf("failed to set up analysis: %w", err)
	}
	defer session.Close()

	analyses, err := session.Engine.Analyze(ctx, app.SymbolsFromCommand(cmd), weights)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}

	for _, analysis := range analyses {
		// failures are always shown, they have no decision to filter on
		if only != "" && analysis.Err == nil && analysis.Decision.Action != only {
			continue
		}

		fmt.Fprintln(out, report.RenderAnalysis(analysis))
	}

	return nil
}

func newCommand() *cli.Command {
	flags := app.EngineFlags()
	flags = append(flags, &cli.StringFlag{
		Name:  "only",
		Usage: "Print only symbols whose decision is this action (buy, sell, hold)",
	})

	return &cli.Command{
		Name:   "analyze",
		Usage:  "Show the indicator statuses and the buy/sell/hold decision on the latest bar",
		Flags:  flags,
		Action: analyzeAction,
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
