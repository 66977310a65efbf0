// Package style provides the colors, icons and table styles shared by console output.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	White  = lipgloss.Color("#FFFFFF")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
	Dot     = "●"
)

var (
	// Title renders section headings.
	Title = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(Iris).
		Foreground(White)

	// Label renders field names in key/value listings.
	Label = lipgloss.NewStyle().
		Foreground(Slate).
		Width(18)

	// Value renders field values in key/value listings.
	Value = lipgloss.NewStyle().
		Bold(true)

	// Muted renders secondary information.
	Muted = lipgloss.NewStyle().
		Foreground(Slate).
		Faint(true)

	// Success renders positive states.
	Success = lipgloss.NewStyle().
		Foreground(Green)

	// Danger renders failed or unset states.
	Danger = lipgloss.NewStyle().
		Foreground(Red)

	headerCell = lipgloss.NewStyle().
			Bold(true).
			Foreground(Iris).
			Padding(0, 1)

	cell = lipgloss.NewStyle().
		Padding(0, 1)
)

// Table renders rows under headers with the shared border and cell styles.
func Table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Slate)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCell
			}
			return cell
		}).
		Headers(headers...).
		Rows(rows...).
		Render()
}

// Field renders one aligned key/value line.
func Field(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, Label.Render(label), Value.Render(value))
}
