package input

import (
	"fmt"
	"strings"
)

// ActionType enumerates the closed action set.
type ActionType int

const (
	ActIgnore ActionType = iota
	ActAbort
	ActAccept
	ActAddChar
	ActAppendAndSelect
	ActBackwardChar
	ActBackwardDeleteChar
	ActBackwardKillWord
	ActBackwardWord
	ActBeginningOfLine
	ActClearScreen
	ActDeleteChar
	ActDeselectAll
	ActDown
	ActEndOfLine
	ActExecute
	ActExecuteSilent
	ActFirst
	ActForwardChar
	ActForwardWord
	ActHalfPageDown
	ActHalfPageUp
	ActIfNonMatched
	ActIfQueryEmpty
	ActIfQueryNotEmpty
	ActKillLine
	ActKillWord
	ActLast
	ActNextHistory
	ActPageDown
	ActPageUp
	ActPreviewDown
	ActPreviewPageDown
	ActPreviewPageUp
	ActPreviewUp
	ActPreviousHistory
	ActRedraw
	ActRefreshCmd
	ActRefreshPreview
	ActReload
	ActSelectAll
	ActSelectRow
	ActToggle
	ActToggleAll
	ActToggleIn
	ActToggleInteractive
	ActToggleOut
	ActTogglePreview
	ActTogglePreviewWrap
	ActToggleSort
	ActUnixLineDiscard
	ActUnixWordRubout
	ActUp
	ActYank
)

// Action is one keymap entry: a type plus its optional argument. AddChar
// carries the rune instead.
type Action struct {
	Type ActionType
	Arg  string
	Char rune
}

var actionNames = map[string]ActionType{
	"abort":                ActAbort,
	"accept":               ActAccept,
	"append-and-select":    ActAppendAndSelect,
	"backward-char":        ActBackwardChar,
	"backward-delete-char": ActBackwardDeleteChar,
	"backward-kill-word":   ActBackwardKillWord,
	"backward-word":        ActBackwardWord,
	"beginning-of-line":    ActBeginningOfLine,
	"clear-screen":         ActClearScreen,
	"delete-char":          ActDeleteChar,
	"deselect-all":         ActDeselectAll,
	"down":                 ActDown,
	"end-of-line":          ActEndOfLine,
	"execute":              ActExecute,
	"execute-silent":       ActExecuteSilent,
	"first":                ActFirst,
	"forward-char":         ActForwardChar,
	"forward-word":         ActForwardWord,
	"half-page-down":       ActHalfPageDown,
	"half-page-up":         ActHalfPageUp,
	"if-non-matched":       ActIfNonMatched,
	"if-query-empty":       ActIfQueryEmpty,
	"if-query-not-empty":   ActIfQueryNotEmpty,
	"ignore":               ActIgnore,
	"kill-line":            ActKillLine,
	"kill-word":            ActKillWord,
	"last":                 ActLast,
	"next-history":         ActNextHistory,
	"page-down":            ActPageDown,
	"page-up":              ActPageUp,
	"preview-down":         ActPreviewDown,
	"preview-page-down":    ActPreviewPageDown,
	"preview-page-up":      ActPreviewPageUp,
	"preview-up":           ActPreviewUp,
	"previous-history":     ActPreviousHistory,
	"redraw":               ActRedraw,
	"refresh-cmd":          ActRefreshCmd,
	"refresh-preview":      ActRefreshPreview,
	"reload":               ActReload,
	"select-all":           ActSelectAll,
	"select-row":           ActSelectRow,
	"toggle":               ActToggle,
	"toggle-all":           ActToggleAll,
	"toggle-in":            ActToggleIn,
	"toggle-interactive":   ActToggleInteractive,
	"toggle-out":           ActToggleOut,
	"toggle-preview":       ActTogglePreview,
	"toggle-preview-wrap":  ActTogglePreviewWrap,
	"toggle-sort":          ActToggleSort,
	"unix-line-discard":    ActUnixLineDiscard,
	"unix-word-rubout":     ActUnixWordRubout,
	"up":                   ActUp,
	"yank":                 ActYank,
}

// ParseAction parses one action spec such as "accept" or "execute(less {})".
func ParseAction(spec string) (Action, error) {
	name := spec
	arg := ""
	if open := strings.IndexByte(spec, '('); open >= 0 {
		if !strings.HasSuffix(spec, ")") {
			return Action{}, fmt.Errorf("unbalanced parens in action %q", spec)
		}
		name = spec[:open]
		arg = spec[open+1 : len(spec)-1]
	} else if colon := strings.IndexByte(spec, ':'); colon >= 0 {
		// Alternative argument syntax: execute:command.
		name = spec[:colon]
		arg = spec[colon+1:]
	}
	typ, ok := actionNames[name]
	if !ok {
		return Action{}, fmt.Errorf("unknown action %q", name)
	}
	return Action{Type: typ, Arg: arg}, nil
}

// splitTopLevel splits spec at sep, ignoring separators inside parens so
// execute(...) arguments survive.
func splitTopLevel(spec string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(spec); i++ {
		switch spec[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, spec[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, spec[start:])
	return parts
}

// ParseActionList parses "action+action+..." as bound to a single key.
func ParseActionList(spec string) ([]Action, error) {
	var actions []Action
	for _, part := range splitTopLevel(spec, '+') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		act, err := ParseAction(part)
		if err != nil {
			return nil, err
		}
		actions = append(actions, act)
	}
	if len(actions) == 0 {
		return nil, fmt.Errorf("empty action list")
	}
	return actions, nil
}
