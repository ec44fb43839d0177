package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mkhv12/stk-advisor/internal/types"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for secondary text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for failed symbols.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

	// BuyStyle for buy decisions and signals.
	BuyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	// SellStyle for sell decisions and signals.
	SellStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	// HoldStyle for hold decisions and neutral signals.
	HoldStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// ActionStyle returns the style an action is printed with.
func ActionStyle(action types.Action) lipgloss.Style {
	switch action {
	case types.ActionBuy:
		return BuyStyle
	case types.ActionSell:
		return SellStyle
	default:
		return HoldStyle
	}
}

// FormatAction renders an action in upper case with its color.
func FormatAction(action types.Action) string {
	return ActionStyle(action).Render(strings.ToUpper(string(action)))
}

// FormatDirection renders an indicator direction with the color of the action it votes for.
func FormatDirection(direction types.Direction) string {
	switch direction {
	case types.DirectionBuy:
		return BuyStyle.Render("buy")
	case types.DirectionSell:
		return SellStyle.Render("sell")
	default:
		return HoldStyle.Render("neutral")
	}
}

// FormatMoney formats an amount with a sign and colors gains and losses.
func FormatMoney(amount float64) string {
	text := fmt.Sprintf("$%.2f", amount)

	switch {
	case amount > 0:
		return BuyStyle.Render("+" + text)
	case amount < 0:
		return SellStyle.Render(fmt.Sprintf("-$%.2f", -amount))
	default:
		return text
	}
}
