package render

import (
	"fmt"

	"github.com/fatih/color"
)

// Style colors status lines. A disabled Style returns plain text regardless
// of the terminal.
type Style struct {
	title   *color.Color
	success *color.Color
	warn    *color.Color
	failure *color.Color
	info    *color.Color
}

// NewStyle creates a Style; enabled forces color on, disabled forces it off.
func NewStyle(enabled bool) *Style {
	style := &Style{
		title:   color.New(color.FgCyan, color.Bold),
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		failure: color.New(color.FgRed),
		info:    color.New(color.FgBlue),
	}

	for _, c := range []*color.Color{style.title, style.success, style.warn, style.failure, style.info} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return style
}

// Title styles a section heading.
func (s *Style) Title(text string) string {
	return s.title.Sprint(text)
}

// Success formats a completed-action line.
func (s *Style) Success(format string, args ...any) string {
	return s.success.Sprintf(format, args...)
}

// Warn formats a recoverable-problem line, such as a rejected input.
func (s *Style) Warn(format string, args ...any) string {
	return s.warn.Sprintf(format, args...)
}

// Error formats a failure line.
func (s *Style) Error(format string, args ...any) string {
	return s.failure.Sprintf(format, args...)
}

// Info formats a neutral line.
func (s *Style) Info(format string, args ...any) string {
	return s.info.Sprintf(format, args...)
}

// Prompt formats an input prompt.
func (s *Style) Prompt(label string) string {
	return fmt.Sprintf("%s ", s.title.Sprint(label))
}
