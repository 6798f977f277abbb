package app

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/sift/internal/item"
)

// eventType tags the coordinator's internal events. Keystrokes and resizes
// travel on the high-priority channel; everything else on the normal one.
type eventType int

const (
	evKey eventType = iota
	evResize
	evReaderProgress
	evReaderDone
	evMatchBatch
	evMatchDone
	evPreviewReady
	evError
	evQuit
)

type event struct {
	typ     eventType
	key     *tcell.EventKey
	session int
	batch   []item.MatchedItem
	preview []byte
	message string
}

// dispatch posts without ever blocking a producer: if the channel is full
// the send moves to a goroutine, preserving delivery order well enough for
// coalesced events.
func dispatch(ch chan event, ev event) {
	select {
	case ch <- ev:
	default:
		go func() { ch <- ev }()
	}
}
