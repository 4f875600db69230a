package components

import (
	"strings"

	lipgloss "charm.land/lipgloss/v2"
)

// Pad returns a string of n spaces.
func Pad(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

// PadRight pads s with spaces to the given display width. Strings already
// wider than width are returned unchanged.
func PadRight(s string, width int) string {
	return s + Pad(width-lipgloss.Width(s))
}
