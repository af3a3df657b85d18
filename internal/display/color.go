// Package display renders drive state for the terminal.
package display

import (
	"fmt"
	"strings"

	"codeberg.org/mutker/drivemon/internal/biometric"
	"github.com/charmbracelet/lipgloss"
)

var (
	ColorDim    = lipgloss.Color(biometric.StatusInactive.Color())
	ColorHeader = lipgloss.Color("#0A84FF")

	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Bold(true)
)

// StatusStyle returns the foreground style of a status colour.
func StatusStyle(s biometric.Status) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color()))
}

// StatusBadge returns a coloured indicator such as "● Warning".
func StatusBadge(s biometric.Status) string {
	return StatusStyle(s).Render("● " + s.Label())
}

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
