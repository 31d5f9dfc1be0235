package proto

import (
	"github.com/arcfield/gsmmodem/enum"
	"github.com/arcfield/gsmmodem/event"
	"github.com/arcfield/gsmmodem/gsmstate"
)

// ParseCREG parses a +CREG response (URC two-field form when skipFirst is
// false, query three-field form when skipFirst is true — the leading "n"
// setting field is skipped) and updates st.Network.Status.
//
// If the resulting status indicates the modem now has network presence
// (enum.NetworkRegStatus.Registered), enqueueOperatorQuery is invoked to
// enqueue a +COPS? fetch; if it returns false (queue full, say) a
// Diagnostic event is fired recording the enqueue as pending.
func ParseCREG(st *gsmstate.State, disp *event.Dispatcher, payload []byte, skipFirst bool, enqueueOperatorQuery func() bool) enum.NetworkRegStatus {
	c := newCursor(payload)
	if skipFirst {
		c.Int()
	}
	status := enum.NetworkRegStatus(c.Int())

	st.Lock()
	st.Network.Status = status
	st.Unlock()

	if status.Registered() {
		enqueued := false
		if enqueueOperatorQuery != nil {
			enqueued = enqueueOperatorQuery()
		}
		if !enqueued && disp != nil {
			disp.Send(event.Event{Code: event.Diagnostic, Message: "CREG: operator query enqueue pending"})
		}
	}
	return status
}
