// Package report renders Panopticon results for the terminal.
package report

import "github.com/fatih/color"

// Palette holds the colors used in terminal output. Build one per process
// with NewPalette instead of relying on package-level color state.
type Palette struct {
	Red    func(a ...any) string
	Green  func(a ...any) string
	Yellow func(a ...any) string
	Blue   func(a ...any) string
	Cyan   func(a ...any) string
	Gray   func(a ...any) string
}

// NewPalette returns a palette; with enabled false every color is a no-op.
func NewPalette(enabled bool) *Palette {
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return &Palette{
		Red:    mk(color.FgRed),
		Green:  mk(color.FgGreen),
		Yellow: mk(color.FgYellow, color.Bold),
		Blue:   mk(color.FgBlue),
		Cyan:   mk(color.FgCyan),
		Gray:   mk(color.FgHiBlack),
	}
}

// ForPriority returns the color of a gap priority.
func (p *Palette) ForPriority(priority string) func(a ...any) string {
	switch priority {
	case "blocking":
		return p.Red
	case "high":
		return p.Yellow
	case "medium":
		return p.Blue
	case "low":
		return p.Green
	default:
		return p.Gray
	}
}

// NewTerminalPalette enables colors unless disabled is set or stdout is not
// a terminal.
func NewTerminalPalette(disabled bool) *Palette {
	return NewPalette(!disabled && !color.NoColor)
}
