package styles

import "github.com/charmbracelet/huh"

// FormTheme returns the theme for interactive CLI prompts.
func FormTheme() *huh.Theme {
	return huh.ThemeCharm()
}
