package proto

import (
	"strconv"

	"github.com/arcfield/gsmmodem/cursor"
	"github.com/arcfield/gsmmodem/enum"
	"github.com/arcfield/gsmmodem/event"
	"github.com/arcfield/gsmmodem/gsmstate"
)

// ParseCMGS parses a +CMGS response (the sent-message reference) and
// delivers an SmsSent event when sendEvent is set.
func ParseCMGS(st *gsmstate.State, disp *event.Dispatcher, payload []byte, sendEvent bool) int32 {
	c := newCursor(payload)
	ref := c.Int()
	if st.Msg != nil && st.Msg.Kind == gsmstate.CmdCMGS && st.Msg.CMGS != nil && st.Msg.CMGS.Ref != nil {
		*st.Msg.CMGS.Ref = ref
	}
	if sendEvent && disp != nil {
		disp.Send(event.Event{Code: event.SmsSent, SmsRef: strconv.Itoa(int(ref))})
	}
	return ref
}

// ParseCMGR populates the caller-supplied entry (the in-flight CmdCMGR
// sink) with status, number, name and datetime. Body is left for a
// separate body-line parser outside this core. Returns false — "not
// consumed" — if no CmdCMGR sink is in flight.
func ParseCMGR(st *gsmstate.State, payload []byte) bool {
	if st.Msg == nil || st.Msg.Kind != gsmstate.CmdCMGR || st.Msg.CMGR == nil || st.Msg.CMGR.Entry == nil {
		return false
	}
	c := newCursor(payload)
	fillSmsEntry(st.Msg.CMGR.Entry, c)
	return true
}

// ParseCMGL fills entries[ei] (copying the in-flight request's Memory) with
// position, status, number, name and datetime. Refuses — returns false —
// unless the in-flight command is CmdCMGL and ei < etr. The caller is
// responsible for incrementing ei when the entry's text-mode body line
// arrives.
func ParseCMGL(st *gsmstate.State, payload []byte) bool {
	if st.Msg == nil || st.Msg.Kind != gsmstate.CmdCMGL || st.Msg.CMGL == nil {
		return false
	}
	req := st.Msg.CMGL
	if req.EI >= req.ETR || req.EI >= len(req.Entries) {
		return false
	}
	c := newCursor(payload)
	e := &req.Entries[req.EI]
	e.Memory = req.Memory
	e.Position = int(c.Int())
	fillSmsEntry(e, c)
	return true
}

func fillSmsEntry(e *gsmstate.SmsEntry, c *cursor.Cursor) {
	status, _ := enum.SmsStatusToken(c)
	e.Status = status

	numBuf := make([]byte, numberFieldCap)
	n := c.QuotedString(numBuf, true)
	e.Number = string(numBuf[:n])

	nameBuf := make([]byte, nameFieldCap)
	n2 := c.QuotedString(nameBuf, true)
	e.Name = string(nameBuf[:n2])

	dt := c.DateTime()
	e.Year, e.Month, e.Day = dt.Year, dt.Month, dt.Day
	e.Hour, e.Min, e.Sec = dt.Hour, dt.Min, dt.Sec
}

// ParseCMTI parses a +CMTI URC (memory token and position) and delivers an
// SmsRecv event when sendEvent is set.
func ParseCMTI(st *gsmstate.State, disp *event.Dispatcher, payload []byte, sendEvent bool) (enum.MemoryKind, int) {
	c := newCursor(payload)
	mem := enum.MemoryToken(c)
	pos := int(c.Int())
	if sendEvent && disp != nil {
		disp.Send(event.Event{Code: event.SmsRecv, SmsMemory: mem, SmsPosition: pos})
	}
	return mem, pos
}
