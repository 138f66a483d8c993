// Package fancy provides tree rendering and styling for CLI output
package fancy

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
)

var (
	ColorBlue     = lipgloss.Color("39")
	ColorCyan     = lipgloss.Color("45")
	ColorYellow   = lipgloss.Color("228")
	ColorGray     = lipgloss.Color("250")
	ColorWhite    = lipgloss.Color("15")
	ColorDarkGray = lipgloss.Color("240")
)

var (
	RootStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Italic(true)

	BranchStyle = lipgloss.NewStyle().
			Foreground(ColorDarkGray)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	AbsentStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Italic(true)
)

// Tree returns a new tree with common styling applied
func Tree() *tree.Tree {
	t := tree.New()
	t.EnumeratorStyle(BranchStyle)
	t.Enumerator(tree.RoundedEnumerator)
	return t
}

// BranchNode creates a styled section header node
func BranchNode(title string, info string) *tree.Tree {
	return tree.New().Root(
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			HeaderStyle.Render(title),
			" ",
			InfoStyle.Render(info),
		),
	)
}

// Field renders a "name: value" leaf.
func Field(name, value string) string {
	return name + ": " + ValueStyle.Render(value)
}

// OptionalField renders a "name: value" leaf, or a marker when the value is absent.
func OptionalField(name, value string, present bool, absent string) string {
	if !present {
		return name + ": " + AbsentStyle.Render(absent)
	}
	return Field(name, value)
}

// TruncateString truncates a string if it exceeds maxLength
func TruncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return s[:maxLength]
	}
	return s[:maxLength-3] + "..."
}
