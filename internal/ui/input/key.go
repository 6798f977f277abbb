// Package input maps terminal key events onto the action model driving the
// filter. Bind specs follow the usual grammar: ctrl-x, alt-x, shift-tab,
// enter, esc, f1..f12, arrows, backspace, and bare characters.
package input

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Chord is one key with modifiers, the keymap key.
type Chord struct {
	Key  tcell.Key
	Rune rune
	Alt  bool
}

// FromEvent normalizes a tcell key event into a chord.
func FromEvent(ev *tcell.EventKey) Chord {
	alt := ev.Modifiers()&tcell.ModAlt != 0
	key := ev.Key()
	switch key {
	case tcell.KeyRune:
		return Chord{Key: tcell.KeyRune, Rune: ev.Rune(), Alt: alt}
	case tcell.KeyBackspace2:
		return Chord{Key: tcell.KeyBackspace, Alt: alt}
	default:
		return Chord{Key: key, Alt: alt}
	}
}

func (c Chord) String() string {
	prefix := ""
	if c.Alt {
		prefix = "alt-"
	}
	if c.Key == tcell.KeyRune {
		return fmt.Sprintf("%s%c", prefix, c.Rune)
	}
	return prefix + tcell.KeyNames[c.Key]
}

var namedKeys = map[string]tcell.Key{
	"enter":     tcell.KeyEnter,
	"esc":       tcell.KeyEscape,
	"escape":    tcell.KeyEscape,
	"tab":       tcell.KeyTab,
	"shift-tab": tcell.KeyBacktab,
	"btab":      tcell.KeyBacktab,
	"backspace": tcell.KeyBackspace,
	"bspace":    tcell.KeyBackspace,
	"delete":    tcell.KeyDelete,
	"del":       tcell.KeyDelete,
	"insert":    tcell.KeyInsert,
	"up":        tcell.KeyUp,
	"down":      tcell.KeyDown,
	"left":      tcell.KeyLeft,
	"right":     tcell.KeyRight,
	"home":      tcell.KeyHome,
	"end":       tcell.KeyEnd,
	"page-up":   tcell.KeyPgUp,
	"pgup":      tcell.KeyPgUp,
	"page-down": tcell.KeyPgDn,
	"pgdn":      tcell.KeyPgDn,
	"f1":        tcell.KeyF1,
	"f2":        tcell.KeyF2,
	"f3":        tcell.KeyF3,
	"f4":        tcell.KeyF4,
	"f5":        tcell.KeyF5,
	"f6":        tcell.KeyF6,
	"f7":        tcell.KeyF7,
	"f8":        tcell.KeyF8,
	"f9":        tcell.KeyF9,
	"f10":       tcell.KeyF10,
	"f11":       tcell.KeyF11,
	"f12":       tcell.KeyF12,
	"space":     tcell.KeyRune,
}

// ParseChord parses a key name from a bind spec.
func ParseChord(name string) (Chord, error) {
	lower := strings.ToLower(name)

	alt := false
	if strings.HasPrefix(lower, "alt-") && len(lower) > len("alt-") {
		alt = true
		lower = lower[len("alt-"):]
	}

	if strings.HasPrefix(lower, "ctrl-") && len(lower) == len("ctrl-")+1 {
		c := lower[len("ctrl-")]
		if c >= 'a' && c <= 'z' {
			return Chord{Key: tcell.Key(c - 'a' + 1), Alt: alt}, nil
		}
		return Chord{}, fmt.Errorf("unsupported key %q", name)
	}

	if key, ok := namedKeys[lower]; ok {
		if lower == "space" {
			return Chord{Key: tcell.KeyRune, Rune: ' ', Alt: alt}, nil
		}
		return Chord{Key: key, Alt: alt}, nil
	}

	runes := []rune(name)
	if alt {
		runes = []rune(name[len("alt-"):])
	}
	if len(runes) == 1 {
		return Chord{Key: tcell.KeyRune, Rune: runes[0], Alt: alt}, nil
	}
	return Chord{}, fmt.Errorf("unsupported key %q", name)
}
