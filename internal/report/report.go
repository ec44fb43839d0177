// Package report renders analyses, backtest results and weight searches for the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"

	"github.com/mkhv12/stk-advisor/internal/backtest/engine"
	"github.com/mkhv12/stk-advisor/internal/types"
)

const timeLayout = "2006-01-02 15:04"

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return cellStyle
		})
}

// RenderDecision prints the action followed by the three scores.
func RenderDecision(decision types.Decision) string {
	return fmt.Sprintf("%s %s",
		FormatAction(decision.Action),
		HelpStyle.Render(fmt.Sprintf("(buy %.2f / sell %.2f / hold %.2f)",
			decision.BuyScore, decision.SellScore, decision.HoldScore)))
}

// RenderAnalysis prints the indicator statuses and the decision of the latest bar of a symbol.
func RenderAnalysis(analysis types.Analysis) string {
	var b strings.Builder

	if analysis.Err != nil {
		b.WriteString(TitleStyle.Render(analysis.Symbol))
		b.WriteString("  ")
		b.WriteString(ErrorStyle.Render("error: " + analysis.Err.Error()))
		b.WriteString("\n")

		return b.String()
	}

	b.WriteString(TitleStyle.Render(fmt.Sprintf("%s  $%.2f", analysis.Symbol, analysis.CurrentPrice)))
	b.WriteString("\n")
	b.WriteString(RenderPriceDrop(analysis.PriceDrop))
	b.WriteString("\n")

	t := newTable("Indicator", "Signal", "Status")
	for _, name := range types.SortIndicatorTypes(lo.Keys(analysis.Statuses)) {
		status := analysis.Statuses[name]
		t.Row(string(name), FormatDirection(status.Direction), status.Label)
	}

	b.WriteString(t.Render())
	b.WriteString("\nDecision: ")
	b.WriteString(RenderDecision(analysis.Decision))
	b.WriteString("\n")

	return b.String()
}

// RenderPriceDrop describes how far the price is below its highest close.
func RenderPriceDrop(drop types.PriceDrop) string {
	if drop.Significant {
		return ErrorStyle.Render(fmt.Sprintf("Price action: down %.1f%% from high $%.2f", drop.DropPct, drop.High))
	}

	return fmt.Sprintf("Price action: %.1f%% below high $%.2f", drop.DropPct, drop.High)
}

// RenderBacktest prints the account figures and the trade log of one symbol run.
func RenderBacktest(result types.BacktestResult) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Backtesting results for " + result.Symbol))
	b.WriteString("\n")

	if result.NoData {
		b.WriteString(HelpStyle.Render("No data found"))
		b.WriteString("\n")

		return b.String()
	}

	fmt.Fprintf(&b, "Initial capital:  $%.2f\n", result.InitialCapital)
	fmt.Fprintf(&b, "Final value:      $%.2f\n", result.FinalValue)
	fmt.Fprintf(&b, "Profit or loss:   %s (%.2f%%)\n", FormatMoney(result.ProfitOrLoss), result.ReturnPct)
	fmt.Fprintf(&b, "Wins:             %d of %d (%.0f%%)\n", result.WinCount, result.BuyCount, result.WinRate)
	fmt.Fprintf(&b, "Average hold:     %.1f days\n", result.AverageHoldTime)

	if len(result.Trades) > 0 {
		t := newTable("Date", "Action", "Price", "Shares")
		for _, trade := range result.Trades {
			t.Row(
				trade.Time.Format(timeLayout),
				FormatAction(types.Action(trade.Action)),
				fmt.Sprintf("$%.2f", trade.Price),
				fmt.Sprintf("%d", trade.ShareCount),
			)
		}

		b.WriteString(t.Render())
		b.WriteString("\n")
	}

	b.WriteString("Last decision: ")
	b.WriteString(RenderDecision(result.LastDecision))
	b.WriteString("\n")

	return b.String()
}

// RenderResults prints one row per symbol of a batch run. Symbols without data and failed
// symbols are listed with their reason.
func RenderResults(results []engine.SymbolResult) string {
	t := newTable("Symbol", "Buys", "Wins", "Win %", "P&L", "Return %", "Avg hold", "Decision")

	for _, r := range results {
		switch {
		case r.Err != nil:
			t.Row(r.Symbol, "", "", "", "", "", "", ErrorStyle.Render("error: "+r.Err.Error()))
		case r.Result.NoData:
			t.Row(r.Symbol, "", "", "", "", "", "", HelpStyle.Render("no data"))
		default:
			res := r.Result
			t.Row(
				r.Symbol,
				fmt.Sprintf("%d", res.BuyCount),
				fmt.Sprintf("%d", res.WinCount),
				fmt.Sprintf("%.0f", res.WinRate),
				FormatMoney(res.ProfitOrLoss),
				fmt.Sprintf("%.2f", res.ReturnPct),
				fmt.Sprintf("%.1f", res.AverageHoldTime),
				FormatAction(res.LastDecision.Action),
			)
		}
	}

	return t.Render() + "\n"
}

// RenderSummary prints the averages of a batch run.
func RenderSummary(summary types.BatchSummary) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Summary"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Symbols:              %d (%d failed)\n", summary.Symbols, summary.Failed)
	fmt.Fprintf(&b, "Total wins:           %d\n", summary.TotalWins)
	fmt.Fprintf(&b, "Average win signal:   %.0f%%\n", summary.AverageWinSignalPct)
	fmt.Fprintf(&b, "Average buy signals:  %.1f\n", summary.AverageBuySignals)
	fmt.Fprintf(&b, "Average return:       %.2f%%\n", summary.AverageReturnPct)
	fmt.Fprintf(&b, "Average hold time:    %.0f days\n", summary.AverageHoldTime)
	fmt.Fprintf(&b, "Total profit:         %s\n", FormatMoney(summary.TotalProfitOrLoss))

	return b.String()
}

// RenderSearch prints the best weights of an optimizer run.
func RenderSearch(result types.WeightSearchResult) string {
	var b strings.Builder

	title := "Best weights"
	if result.Name != "" {
		title += " for " + result.Name
	}

	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n")

	failed := lo.CountBy(result.History, func(e types.Evaluation) bool { return e.Failed })
	fmt.Fprintf(&b, "Score %.4f after %d evaluations", result.BestScore, len(result.History))
	if failed > 0 {
		fmt.Fprintf(&b, " (%d failed)", failed)
	}
	b.WriteString("\n")

	t := newTable("Indicator", "Weight")
	for _, name := range result.BestWeights.Names() {
		t.Row(string(name), fmt.Sprintf("%.4f", result.BestWeights[name]))
	}

	b.WriteString(t.Render())
	b.WriteString("\n")

	return b.String()
}
