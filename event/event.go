// Package event implements the typed event records and synchronous callback
// delivery (C6) fired by the response parsers as they mutate device state.
package event

import (
	"fmt"
	"sync"

	"github.com/arcfield/gsmmodem/enum"
)

// Code identifies the kind of event carried by an Event.
type Code int

const (
	// CPIN reports a SIM state transition observed in a +CPIN response.
	CPIN Code = iota
	// CallChanged reports a +CLCC call-list update.
	CallChanged
	// SmsSent reports a successful +CMGS completion.
	SmsSent
	// SmsRecv reports a +CMTI new-message notification.
	SmsRecv
	// Diagnostic reports an internal condition (e.g. a callback panic) that
	// the application cannot otherwise observe.
	Diagnostic
)

func (c Code) String() string {
	switch c {
	case CPIN:
		return "CPIN"
	case CallChanged:
		return "CallChanged"
	case SmsSent:
		return "SmsSent"
	case SmsRecv:
		return "SmsRecv"
	case Diagnostic:
		return "Diagnostic"
	default:
		return "Unknown"
	}
}

// Event is a (code, payload) pair delivered to the application callback.
// At most one of the payload fields is meaningful, selected by Code.
type Event struct {
	Code Code

	SimState    enum.SimState        // valid when Code == CPIN
	Call        *CallPayload         // valid when Code == CallChanged
	SmsRef      string               // valid when Code == SmsSent
	SmsMemory   enum.MemoryKind      // valid when Code == SmsRecv
	SmsPosition int                  // valid when Code == SmsRecv
	Message     string               // valid when Code == Diagnostic
}

// CallPayload is the +CLCC snapshot carried by a CallChanged event.
type CallPayload struct {
	ID        int
	Direction enum.CallDirection
	State     enum.CallState
	Type      enum.CallType
	Number    string
	Name      string
}

// Callback is invoked synchronously, on the engine goroutine, for every
// delivered event. It must not block.
type Callback func(Event)

// Dispatcher owns the single registered application Callback and delivers
// events to it synchronously, matching the core's "one event per response,
// no backpressure" design. SetCallback may be called from any goroutine;
// Send is called from the engine goroutine only.
type Dispatcher struct {
	mu sync.RWMutex
	cb Callback
}

// NewDispatcher returns a Dispatcher with no callback registered; Send is a
// no-op until SetCallback is called.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// SetCallback installs the application's event handler, replacing any
// previous one.
func (d *Dispatcher) SetCallback(cb Callback) {
	d.mu.Lock()
	d.cb = cb
	d.mu.Unlock()
}

// Send delivers ev to the registered callback, if any. A panic inside the
// callback is recovered and re-delivered as a Diagnostic event instead of
// propagating into the engine goroutine.
func (d *Dispatcher) Send(ev Event) {
	d.mu.RLock()
	cb := d.cb
	d.mu.RUnlock()
	if cb == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			cb(Event{Code: Diagnostic, Message: fmt.Sprintf("callback panic: %v", r)})
		}
	}()
	cb(ev)
}
