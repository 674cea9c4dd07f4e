package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// truncate shortens a string to max display width with ellipsis
func truncate(s string, max int) string {
	if max <= 3 || lipgloss.Width(s) <= max {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r)) > max-3 {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

// repeat creates a string by repeating s n times
func repeat(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(s, n)
}
