package render

import "github.com/gdamore/tcell/v2"

// Theme collects the styles used by the renderer.
type Theme struct {
	Normal      tcell.Style
	Current     tcell.Style
	Matched     tcell.Style
	CurrentMatched tcell.Style
	Prompt      tcell.Style
	Status      tcell.Style
	StatusError tcell.Style
	Marker      tcell.Style
	CursorArrow tcell.Style
	Header      tcell.Style
	Border      tcell.Style
}

// DefaultTheme mirrors the usual finder coloring: cyan matches, highlighted
// current row, yellow markers.
func DefaultTheme() Theme {
	normal := tcell.StyleDefault
	current := normal.Background(tcell.ColorDarkSlateGray).Bold(true)
	return Theme{
		Normal:         normal,
		Current:        current,
		Matched:        normal.Foreground(tcell.ColorAqua).Bold(true),
		CurrentMatched: current.Foreground(tcell.ColorAqua),
		Prompt:         normal.Foreground(tcell.ColorBlue).Bold(true),
		Status:         normal.Foreground(tcell.ColorGray),
		StatusError:    normal.Foreground(tcell.ColorRed).Bold(true),
		Marker:         normal.Foreground(tcell.ColorYellow).Bold(true),
		CursorArrow:    normal.Foreground(tcell.ColorRed).Bold(true),
		Header:         normal.Foreground(tcell.ColorTeal),
		Border:         normal.Foreground(tcell.ColorGray),
	}
}
