package event

import "testing"

func TestDispatcherDelivers(t *testing.T) {
	d := NewDispatcher()
	var got Event
	d.SetCallback(func(e Event) { got = e })
	d.Send(Event{Code: SmsSent, SmsRef: "42"})
	if got.Code != SmsSent || got.SmsRef != "42" {
		t.Fatalf("got %+v", got)
	}
}

func TestDispatcherNilCallback(t *testing.T) {
	d := NewDispatcher()
	d.Send(Event{Code: CPIN}) // must not panic
}

func TestDispatcherRecoversPanic(t *testing.T) {
	d := NewDispatcher()
	var diag Event
	calls := 0
	d.SetCallback(func(e Event) {
		calls++
		if calls == 1 {
			panic("boom")
		}
		diag = e
	})
	d.Send(Event{Code: CPIN})
	if calls != 2 || diag.Code != Diagnostic {
		t.Fatalf("expected recovery delivery, got calls=%d diag=%+v", calls, diag)
	}
}
