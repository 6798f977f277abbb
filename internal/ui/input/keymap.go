package input

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Keymap maps key chords to ordered action lists. A user bind replaces the
// default binding for its key; further user binds on the same key append
// left-to-right.
type Keymap struct {
	binds map[Chord][]Action
	user  map[Chord]bool
}

func chord(name string) Chord {
	c, err := ParseChord(name)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultKeymap returns the built-in bindings.
func DefaultKeymap() *Keymap {
	km := &Keymap{
		binds: map[Chord][]Action{},
		user:  map[Chord]bool{},
	}
	bind := func(keys string, actions ...ActionType) {
		acts := make([]Action, len(actions))
		for i, t := range actions {
			acts[i] = Action{Type: t}
		}
		for _, k := range strings.Split(keys, " ") {
			km.binds[chord(k)] = acts
		}
	}

	bind("enter", ActAccept)
	bind("esc ctrl-c ctrl-g", ActAbort)
	bind("up ctrl-p ctrl-k", ActUp)
	bind("down ctrl-n ctrl-j", ActDown)
	bind("tab", ActToggleOut)
	bind("shift-tab", ActToggleIn)
	bind("left ctrl-b", ActBackwardChar)
	bind("right ctrl-f", ActForwardChar)
	bind("home ctrl-a", ActBeginningOfLine)
	bind("end ctrl-e", ActEndOfLine)
	bind("backspace ctrl-h", ActBackwardDeleteChar)
	bind("delete", ActDeleteChar)
	bind("ctrl-u", ActUnixLineDiscard)
	bind("ctrl-w", ActUnixWordRubout)
	bind("ctrl-y", ActYank)
	bind("alt-b", ActBackwardWord)
	bind("alt-f", ActForwardWord)
	bind("alt-d", ActKillWord)
	bind("alt-backspace", ActBackwardKillWord)
	bind("page-up", ActPageUp)
	bind("page-down", ActPageDown)
	bind("ctrl-l", ActClearScreen)
	bind("ctrl-r", ActToggleInteractive)
	bind("ctrl-q", ActToggleInteractive)
	return km
}

// EnableHistoryBindings rebinds ctrl-p/ctrl-n to history recall, the
// convention when a history file is configured.
func (km *Keymap) EnableHistoryBindings() {
	km.binds[chord("ctrl-p")] = []Action{{Type: ActPreviousHistory}}
	km.binds[chord("ctrl-n")] = []Action{{Type: ActNextHistory}}
}

// Bind attaches actions to a key, replacing any default binding. Repeated
// user binds on the same key append.
func (km *Keymap) Bind(c Chord, actions []Action) {
	if km.user[c] {
		km.binds[c] = append(km.binds[c], actions...)
		return
	}
	km.user[c] = true
	km.binds[c] = actions
}

// ApplyBinds parses a --bind spec: "key:action+action,key2:...".
func (km *Keymap) ApplyBinds(spec string) error {
	if strings.TrimSpace(spec) == "" {
		return nil
	}
	for _, b := range splitTopLevel(spec, ',') {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		colon := strings.IndexByte(b, ':')
		if colon <= 0 {
			return fmt.Errorf("invalid bind %q", b)
		}
		c, err := ParseChord(b[:colon])
		if err != nil {
			return err
		}
		actions, err := ParseActionList(b[colon+1:])
		if err != nil {
			return fmt.Errorf("bind %q: %w", b, err)
		}
		km.Bind(c, actions)
	}
	return nil
}

// Resolve maps a key event to its action list. Unbound printable runes
// become add-char; everything else is ignored.
func (km *Keymap) Resolve(ev *tcell.EventKey) []Action {
	c := FromEvent(ev)
	if actions, ok := km.binds[c]; ok {
		return actions
	}
	if c.Key == tcell.KeyRune && !c.Alt {
		return []Action{{Type: ActAddChar, Char: c.Rune}}
	}
	return []Action{{Type: ActIgnore}}
}
