package proto

import (
	"github.com/arcfield/gsmmodem/enum"
	"github.com/arcfield/gsmmodem/event"
	"github.com/arcfield/gsmmodem/gsmstate"
)

// ParseCPIN parses a +CPIN response, matching its remainder against the
// prefix set {"READY", "NOT READY", "NOT INSERTED", "SIM PIN", "PIN PUK"}
// (default enum.SimNotReady on no match), updates st.SimState, and:
//   - when the resulting state is Ready, invokes enqueueSimInfo to enqueue
//     a SIM-info fetch;
//   - when sendEvent is set, delivers a CPIN event carrying the new state.
func ParseCPIN(st *gsmstate.State, disp *event.Dispatcher, payload []byte, sendEvent bool, enqueueSimInfo func() bool) enum.SimState {
	c := newCursor(payload)

	state := enum.SimNotReady
	switch {
	case c.HasPrefix("READY"):
		state = enum.SimReady
	case c.HasPrefix("NOT READY"):
		state = enum.SimNotReady
	case c.HasPrefix("NOT INSERTED"):
		state = enum.SimNotInserted
	case c.HasPrefix("SIM PIN"):
		state = enum.SimPin
	case c.HasPrefix("PIN PUK"):
		state = enum.SimPuk
	}

	st.Lock()
	st.SimState = state
	st.Unlock()

	if state == enum.SimReady && enqueueSimInfo != nil {
		enqueueSimInfo()
	}
	if sendEvent && disp != nil {
		disp.Send(event.Event{Code: event.CPIN, SimState: state})
	}
	return state
}
