package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// palette maps release radar outcomes to styles. Colors adapt to light and dark terminals.
type palette struct {
	heading   lipgloss.Style
	confirmed lipgloss.Style
	failed    lipgloss.Style
	pending   lipgloss.Style
	detail    lipgloss.Style
}

var styles = palette{
	heading:   tone("#5A3FC0", "#9D86F7").Bold(true).MarginBottom(1),
	confirmed: tone("#03875A", "#04B575").Bold(true),
	failed:    tone("#C0392B", "#FF5F56").Bold(true),
	pending:   tone("#B36B00", "#FFA500"),
	detail:    tone("#7A7A7A", "#8A8A8A").Italic(true),
}

func tone(light, dark string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: light, Dark: dark})
}

// Success, Failure, Warning and Muted style one-off CLI output with the TUI palette.
func Success(s string) string { return styles.confirmed.Render(s) }
func Failure(s string) string { return styles.failed.Render(s) }
func Warning(s string) string { return styles.pending.Render(s) }
func Muted(s string) string   { return styles.detail.Render(s) }
