package modem

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/arcfield/gsmmodem/enum"
	"github.com/arcfield/gsmmodem/gsmstate"
)

type fakeDialer struct {
	transport Transport
	err       error
}

func (d fakeDialer) Dial(ctx context.Context) (Transport, error) {
	return d.transport, d.err
}

// driveInit feeds transport the lines New's init handshake expects in
// response to each command it writes, in order:
// AT, ATE0, AT+CMEE=2, AT+CPIN?, AT+CMGF=1.
func driveInit(t *TestTransport, simReady bool) {
	t.SendData("OK\r\n")
	t.SendData("OK\r\n")
	t.SendData("OK\r\n")
	if simReady {
		t.SendData("+CPIN: READY\r\nOK\r\n")
	} else {
		t.SendData("+CPIN: SIM PIN\r\nOK\r\n")
	}
	if simReady {
		t.SendData("OK\r\n")
	}
}

func TestNewSuccess(t *testing.T) {
	transport := NewTestTransport()
	driveInit(transport, true)

	config := Config{Dialer: fakeDialer{transport: transport}, ATTimeout: time.Second}
	m, err := New(context.Background(), config)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if m.transport != transport {
		t.Error("modem transport not set correctly")
	}
	m.Close()
}

func TestNewPINRequiredWithoutConfiguredPIN(t *testing.T) {
	transport := NewTestTransport()
	transport.SendData("OK\r\n")
	transport.SendData("OK\r\n")
	transport.SendData("OK\r\n")
	transport.SendData("+CPIN: SIM PIN\r\nOK\r\n")

	config := Config{Dialer: fakeDialer{transport: transport}, ATTimeout: time.Second}
	m, err := New(context.Background(), config)
	if err == nil {
		t.Fatal("New() should fail when a PIN is required but not configured")
	}
	if m != nil {
		t.Error("New() should return a nil modem on error")
	}
	if err != nil && !strings.Contains(err.Error(), ErrSIMPinRequired.Error()) {
		t.Errorf("expected ErrSIMPinRequired, got: %v", err)
	}
}

func TestNewNoDialer(t *testing.T) {
	_, err := New(context.Background(), Config{})
	if err != ErrNoDialer {
		t.Errorf("expected ErrNoDialer, got: %v", err)
	}
}

func TestNewNilContext(t *testing.T) {
	_, err := New(nil, Config{Dialer: fakeDialer{}})
	if err != ErrNilContext {
		t.Errorf("expected ErrNilContext, got: %v", err)
	}
}

func TestLoopProcessesCommandAndURC(t *testing.T) {
	transport := NewTestTransport()
	driveInit(transport, true)

	config := Config{Dialer: fakeDialer{transport: transport}, ATTimeout: time.Second}
	m, err := New(context.Background(), config)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	loopDone := make(chan error, 1)
	go func() { loopDone <- m.Loop(ctx) }()

	// A URC should update state even with no command in flight. Searching
	// is used so the update has no follow-up operator query to interleave
	// with the command below.
	transport.SendData("+CREG: 2\r\n")

	req := newCmdRequest("AT+CLCC", 0, nil, time.Second)
	go func() {
		transport.SendData("+CLCC: 1,1,0,0,0,\"+15551234\",129,\"\"\r\nOK\r\n")
	}()
	if err := m.submit(ctx, req); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	snap := m.State()
	if snap.Network.Status != enum.RegSearching {
		t.Errorf("registration status not updated by URC: %+v", snap.Network)
	}
	if snap.Call.Number != "+15551234" {
		t.Errorf("call record not updated by command response: %+v", snap.Call)
	}

	cancel()
	transport.Close()
	if err := <-loopDone; err != nil && err != context.Canceled && err != io.EOF {
		t.Errorf("unexpected Loop error: %v", err)
	}
}

// drainInitWrites consumes the five wire writes New's handshake produces so
// later assertions see only the traffic the test itself generates.
func drainInitWrites(t *testing.T, transport *TestTransport) {
	t.Helper()
	for i := 0; i < 5; i++ {
		select {
		case <-transport.Writes():
		case <-time.After(time.Second):
			t.Fatalf("init write %d never arrived", i)
		}
	}
}

func TestEngineSerializesCommands(t *testing.T) {
	transport := NewTestTransport()
	driveInit(transport, true)

	config := Config{Dialer: fakeDialer{transport: transport}, ATTimeout: 2 * time.Second}
	m, err := New(context.Background(), config)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer m.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = m.Loop(ctx) }()

	drainInitWrites(t, transport)

	replyA := make(chan error, 1)
	go func() { replyA <- m.submit(ctx, newCmdRequest("ATH", 0, nil, 2*time.Second)) }()
	select {
	case w := <-transport.Writes():
		if w != "ATH\r" {
			t.Fatalf("first emission = %q", w)
		}
	case <-time.After(time.Second):
		t.Fatal("first command never emitted")
	}

	replyB := make(chan error, 1)
	go func() { replyB <- m.submit(ctx, newCmdRequest("AT+CLCC", 0, nil, 2*time.Second)) }()

	// B's bytes must not hit the wire until A's terminal response.
	select {
	case w := <-transport.Writes():
		t.Fatalf("second command emitted before first completed: %q", w)
	case <-time.After(50 * time.Millisecond):
	}

	transport.SendData("OK\r\n")
	if err := <-replyA; err != nil {
		t.Fatalf("first command failed: %v", err)
	}

	select {
	case w := <-transport.Writes():
		if w != "AT+CLCC\r" {
			t.Fatalf("second emission = %q", w)
		}
	case <-time.After(time.Second):
		t.Fatal("second command never emitted")
	}
	transport.SendData("OK\r\n")
	if err := <-replyB; err != nil {
		t.Fatalf("second command failed: %v", err)
	}
}

func TestRegistrationURCTriggersOperatorQuery(t *testing.T) {
	transport := NewTestTransport()
	driveInit(transport, true)

	config := Config{Dialer: fakeDialer{transport: transport}, ATTimeout: 2 * time.Second}
	m, err := New(context.Background(), config)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer m.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = m.Loop(ctx) }()

	drainInitWrites(t, transport)

	transport.SendData("+CREG: 1\r\n")
	select {
	case w := <-transport.Writes():
		if w != "AT+COPS?\r" {
			t.Fatalf("expected operator query after registration, got %q", w)
		}
	case <-time.After(time.Second):
		t.Fatal("registration URC did not trigger an operator query")
	}

	transport.SendData("+COPS: 0,0,\"Acme Mobile\"\r\nOK\r\n")
	deadline := time.Now().Add(time.Second)
	for {
		if m.State().Network.Operator.LongName == "Acme Mobile" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("operator never updated: %+v", m.State().Network)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestListSMSCollectsEntriesAndBodies(t *testing.T) {
	transport := NewTestTransport()
	driveInit(transport, true)

	config := Config{Dialer: fakeDialer{transport: transport}, ATTimeout: 2 * time.Second}
	m, err := New(context.Background(), config)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer m.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = m.Loop(ctx) }()

	drainInitWrites(t, transport)

	done := make(chan struct{})
	var entries []gsmstate.SmsEntry
	var lerr error
	go func() {
		entries, lerr = m.ListSMS(ctx, "ALL", 4)
		close(done)
	}()

	select {
	case w := <-transport.Writes():
		if w != "AT+CMGL=\"ALL\"\r" {
			t.Fatalf("emission = %q", w)
		}
	case <-time.After(time.Second):
		t.Fatal("list command never emitted")
	}

	transport.SendData("+CMGL: 1,\"REC READ\",\"+15551234\",,\"15/06/23,10:30:05\"\r\n" +
		"Hello there\r\n" +
		"+CMGL: 2,\"REC UNREAD\",\"+15557777\",,\"15/06/23,11:00:00\"\r\n" +
		"Second body\r\n" +
		"OK\r\n")
	<-done

	if lerr != nil {
		t.Fatalf("ListSMS failed: %v", lerr)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Position != 1 || entries[0].Status != enum.SmsRead || entries[0].Body != "Hello there" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].Position != 2 || entries[1].Status != enum.SmsUnread || entries[1].Body != "Second body" {
		t.Errorf("entries[1] = %+v", entries[1])
	}
}

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want Status
	}{
		{nil, StatusOK},
		{ErrBusy, StatusBusy},
		{ErrParameter, StatusParameter},
		{context.DeadlineExceeded, StatusTimeout},
		{io.EOF, StatusError},
	}
	for _, c := range cases {
		if got := StatusOf(c.err); got != c.want {
			t.Errorf("StatusOf(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}

func TestCommandSurfaceRejectsBadParameters(t *testing.T) {
	transport := NewTestTransport()
	driveInit(transport, true)

	config := Config{Dialer: fakeDialer{transport: transport}, ATTimeout: time.Second}
	m, err := New(context.Background(), config)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer m.Close()

	ctx := context.Background()
	if _, err := m.SendSMS(ctx, "", "hi"); StatusOf(err) != StatusParameter {
		t.Errorf("SendSMS with empty recipient: %v", err)
	}
	if err := m.Dial(ctx, ""); StatusOf(err) != StatusParameter {
		t.Errorf("Dial with empty number: %v", err)
	}
	if _, err := m.ReadPhonebook(ctx, 5, 1); StatusOf(err) != StatusParameter {
		t.Errorf("ReadPhonebook with inverted range: %v", err)
	}
	if _, err := m.ReadSMS(ctx, 0); StatusOf(err) != StatusParameter {
		t.Errorf("ReadSMS position 0: %v", err)
	}
}

func TestSubmitReportsBusyWhenQueueFull(t *testing.T) {
	transport := NewTestTransport()
	driveInit(transport, true)

	config := Config{Dialer: fakeDialer{transport: transport}, ATTimeout: time.Second, QueueDepth: 1}
	m, err := New(context.Background(), config)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer m.Close()

	// Fill the mailbox directly without an engine draining it.
	m.cmdCh <- newCmdRequest("AT", 0, nil, time.Second)

	err = m.submit(context.Background(), newCmdRequest("AT", 0, nil, time.Second))
	if err != ErrBusy {
		t.Errorf("expected ErrBusy, got: %v", err)
	}
}
