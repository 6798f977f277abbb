// Package ansi strips ANSI escape sequences from input records and converts
// SGR color runs into style spans over the stripped text.
package ansi

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// Span styles the rune range [Start, End) of the stripped text.
type Span struct {
	Start int
	End   int
	Style tcell.Style
}

// Parse strips escape sequences from s and reports the SGR style spans that
// covered the remaining text. Only CSI ... 'm' sequences contribute styling;
// every other escape sequence is dropped.
func Parse(s string) (string, []Span) {
	if !strings.ContainsRune(s, 0x1b) {
		return s, nil
	}

	var b strings.Builder
	var spans []Span
	curr := tcell.StyleDefault
	styled := false
	spanStart := 0
	runePos := 0

	flush := func() {
		if styled && runePos > spanStart {
			spans = append(spans, Span{Start: spanStart, End: runePos, Style: curr})
		}
	}

	i := 0
	for i < len(s) {
		if s[i] != 0x1b {
			r, size := utf8.DecodeRuneInString(s[i:])
			b.WriteRune(r)
			runePos++
			i += size
			continue
		}
		// Escape sequence begins.
		seqEnd, params, isSGR := scanEscape(s[i:])
		if seqEnd == 0 {
			// Lone ESC at end of input.
			i++
			continue
		}
		if isSGR {
			flush()
			next, reset := applySGR(curr, params)
			curr = next
			styled = !reset
			spanStart = runePos
		}
		i += seqEnd
	}
	flush()
	return b.String(), spans
}

// scanEscape measures the escape sequence at the start of s (which begins
// with ESC) and returns its byte length, the CSI parameter string, and
// whether it is an SGR sequence.
func scanEscape(s string) (int, string, bool) {
	if len(s) < 2 {
		return 0, "", false
	}
	switch s[1] {
	case '[':
		for i := 2; i < len(s); i++ {
			c := s[i]
			if c >= 0x40 && c <= 0x7e {
				return i + 1, s[2:i], c == 'm'
			}
		}
		return 0, "", false
	case ']':
		// OSC, terminated by BEL or ST.
		for i := 2; i < len(s); i++ {
			if s[i] == 0x07 {
				return i + 1, "", false
			}
			if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '\\' {
				return i + 2, "", false
			}
		}
		return 0, "", false
	default:
		return 2, "", false
	}
}

func applySGR(style tcell.Style, params string) (tcell.Style, bool) {
	if params == "" {
		return tcell.StyleDefault, true
	}
	parts := strings.Split(params, ";")
	reset := false
	for i := 0; i < len(parts); i++ {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			continue
		}
		switch {
		case n == 0:
			style = tcell.StyleDefault
			reset = true
		case n == 1:
			style = style.Bold(true)
			reset = false
		case n == 4:
			style = style.Underline(true)
			reset = false
		case n == 7:
			style = style.Reverse(true)
			reset = false
		case n >= 30 && n <= 37:
			style = style.Foreground(tcell.PaletteColor(n - 30))
			reset = false
		case n >= 90 && n <= 97:
			style = style.Foreground(tcell.PaletteColor(n - 90 + 8))
			reset = false
		case n >= 40 && n <= 47:
			style = style.Background(tcell.PaletteColor(n - 40))
			reset = false
		case n >= 100 && n <= 107:
			style = style.Background(tcell.PaletteColor(n - 100 + 8))
			reset = false
		case n == 38 || n == 48:
			color, consumed := extendedColor(parts[i+1:])
			if consumed == 0 {
				continue
			}
			if n == 38 {
				style = style.Foreground(color)
			} else {
				style = style.Background(color)
			}
			i += consumed
			reset = false
		case n == 39:
			style = style.Foreground(tcell.ColorDefault)
		case n == 49:
			style = style.Background(tcell.ColorDefault)
		}
	}
	return style, reset
}

func extendedColor(parts []string) (tcell.Color, int) {
	if len(parts) == 0 {
		return tcell.ColorDefault, 0
	}
	switch parts[0] {
	case "5":
		if len(parts) < 2 {
			return tcell.ColorDefault, 0
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil || n < 0 || n > 255 {
			return tcell.ColorDefault, 0
		}
		return tcell.PaletteColor(n), 2
	case "2":
		if len(parts) < 4 {
			return tcell.ColorDefault, 0
		}
		var rgb [3]int32
		for i := 0; i < 3; i++ {
			n, err := strconv.Atoi(parts[1+i])
			if err != nil || n < 0 || n > 255 {
				return tcell.ColorDefault, 0
			}
			rgb[i] = int32(n)
		}
		return tcell.NewRGBColor(rgb[0], rgb[1], rgb[2]), 4
	default:
		return tcell.ColorDefault, 0
	}
}
