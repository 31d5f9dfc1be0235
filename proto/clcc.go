package proto

import (
	"github.com/arcfield/gsmmodem/enum"
	"github.com/arcfield/gsmmodem/event"
	"github.com/arcfield/gsmmodem/gsmstate"
)

// ParseCLCC parses a +CLCC response: id, direction, state, type,
// multipart-flag, number, address type, name. Updates st.Call, and
// delivers a CallChanged event when sendEvent is set.
func ParseCLCC(st *gsmstate.State, disp *event.Dispatcher, payload []byte, sendEvent bool) gsmstate.CallRecord {
	c := newCursor(payload)

	var rec gsmstate.CallRecord
	rec.ID = int(c.Int())
	rec.Direction = enum.CallDirection(c.Int())
	rec.State = enum.CallState(c.Int())
	rec.Type = enum.CallType(c.Int())
	rec.Multipart = c.Int() != 0

	numBuf := make([]byte, numberFieldCap)
	n := c.QuotedString(numBuf, true)
	rec.Number = string(numBuf[:n])

	rec.AddrType = enum.NumberType(c.Int())

	nameBuf := make([]byte, nameFieldCap)
	n2 := c.QuotedString(nameBuf, true)
	rec.Name = string(nameBuf[:n2])

	st.Lock()
	st.Call = rec
	st.Unlock()

	if sendEvent && disp != nil {
		disp.Send(event.Event{
			Code: event.CallChanged,
			Call: &event.CallPayload{
				ID:        rec.ID,
				Direction: rec.Direction,
				State:     rec.State,
				Type:      rec.Type,
				Number:    rec.Number,
				Name:      rec.Name,
			},
		})
	}
	return rec
}
