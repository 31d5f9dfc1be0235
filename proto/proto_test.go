package proto

import (
	"testing"

	"github.com/arcfield/gsmmodem/enum"
	"github.com/arcfield/gsmmodem/event"
	"github.com/arcfield/gsmmodem/gsmstate"
)

func TestParseCREGQueryForm(t *testing.T) {
	st := gsmstate.New()
	st.Network.Status = enum.RegUnknown

	enqueued := false
	status := ParseCREG(st, nil, []byte("+CREG: 0,1\r"), true, func() bool {
		enqueued = true
		return true
	})

	if status != enum.RegRegistered {
		t.Fatalf("status = %v, want RegRegistered", status)
	}
	if st.Network.Status != enum.RegRegistered {
		t.Fatalf("st.Network.Status = %v, want RegRegistered", st.Network.Status)
	}
	if !enqueued {
		t.Fatal("expected operator query to be enqueued")
	}
}

func TestParseCREGEnqueueFailureIsDiagnosed(t *testing.T) {
	st := gsmstate.New()
	d := event.NewDispatcher()
	var got event.Event
	d.SetCallback(func(e event.Event) { got = e })

	ParseCREG(st, d, []byte("+CREG: 0,5\r"), true, func() bool { return false })

	if got.Code != event.Diagnostic {
		t.Fatalf("expected Diagnostic event, got %+v", got)
	}
}

func TestParseCPINSimPin(t *testing.T) {
	st := gsmstate.New()
	d := event.NewDispatcher()
	var got event.Event
	d.SetCallback(func(e event.Event) { got = e })

	state := ParseCPIN(st, d, []byte("+CPIN: SIM PIN\r"), true, nil)

	if state != enum.SimPin {
		t.Fatalf("state = %v, want SimPin", state)
	}
	if st.SimState != enum.SimPin {
		t.Fatalf("st.SimState = %v, want SimPin", st.SimState)
	}
	if got.Code != event.CPIN || got.SimState != enum.SimPin {
		t.Fatalf("unexpected event: %+v", got)
	}
}

func TestParseCPINReadyEnqueuesSimInfo(t *testing.T) {
	st := gsmstate.New()
	enqueued := false
	ParseCPIN(st, nil, []byte("+CPIN: READY\r"), false, func() bool { enqueued = true; return true })
	if !enqueued {
		t.Fatal("expected sim-info fetch to be enqueued")
	}
}

func TestParseCOPSQueryLongName(t *testing.T) {
	st := gsmstate.New()
	op := ParseCOPSQuery(st, []byte(`+COPS: 0,0,"Acme Mobile"`+"\r"))
	if op.Format != enum.OperatorLongName || op.LongName != "Acme Mobile" {
		t.Fatalf("got %+v", op)
	}
}

func TestParseCOPSQueryNoFormat(t *testing.T) {
	st := gsmstate.New()
	op := ParseCOPSQuery(st, []byte("+COPS: 0\r"))
	if op.Format != enum.OperatorInvalid {
		t.Fatalf("format = %v, want Invalid", op.Format)
	}
}

func TestParseCOPSQuerySinkCopy(t *testing.T) {
	st := gsmstate.New()
	var sink gsmstate.Operator
	st.Msg = &gsmstate.InFlight{Kind: gsmstate.CmdCOPSGet, COPSGet: &gsmstate.COPSGetRequest{Sink: &sink}}
	ParseCOPSQuery(st, []byte(`+COPS: 0,2,"00101"`+"\r"))
	if sink.Format != enum.OperatorNumber || sink.Numeric != 101 {
		t.Fatalf("sink = %+v", sink)
	}
}

func TestCOPSScanConcreteExample(t *testing.T) {
	st := gsmstate.New()
	ops := make([]gsmstate.Operator, 2)
	st.Msg = &gsmstate.InFlight{
		Kind: gsmstate.CmdCOPSScan,
		COPSScan: &gsmstate.COPSScanRequest{
			Ops:  ops,
			OpsL: 2,
		},
	}
	st.Msg.COPSScan.Scanner.Reset()

	resp := `+COPS=?: (2,"Op1","O1","00101"),(1,"Op2","O2","00102")` + "\r"
	for i := 0; i < len(resp); i++ {
		ParseCOPSScanByte(st, resp[i])
	}

	req := st.Msg.COPSScan
	if req.OpsI != 2 {
		t.Fatalf("opsi = %d, want 2", req.OpsI)
	}
	if req.OpsI > req.OpsL {
		t.Fatalf("opsi %d exceeds opsl %d", req.OpsI, req.OpsL)
	}
	if req.Ops[0].Status != 2 || req.Ops[0].LongName != "Op1" || req.Ops[0].ShortName != "O1" || req.Ops[0].Numeric != 101 {
		t.Fatalf("ops[0] = %+v", req.Ops[0])
	}
	if req.Ops[1].Status != 1 || req.Ops[1].LongName != "Op2" || req.Ops[1].ShortName != "O2" || req.Ops[1].Numeric != 102 {
		t.Fatalf("ops[1] = %+v", req.Ops[1])
	}
}

func TestCOPSScanBoundNeverExceeded(t *testing.T) {
	st := gsmstate.New()
	ops := make([]gsmstate.Operator, 1)
	st.Msg = &gsmstate.InFlight{
		Kind:     gsmstate.CmdCOPSScan,
		COPSScan: &gsmstate.COPSScanRequest{Ops: ops, OpsL: 1},
	}
	resp := `(1,"A","B","1"),(2,"C","D","2"),(3,"E","F","3")`
	for i := 0; i < len(resp); i++ {
		ParseCOPSScanByte(st, resp[i])
		if st.Msg.COPSScan.OpsI > st.Msg.COPSScan.OpsL {
			t.Fatalf("opsi exceeded opsl at byte %d", i)
		}
	}
	if st.Msg.COPSScan.OpsI != 1 {
		t.Fatalf("opsi = %d, want 1", st.Msg.COPSScan.OpsI)
	}
}

func TestParseCPMSCurrentInfo(t *testing.T) {
	st := gsmstate.New()
	st.Msg = &gsmstate.InFlight{Kind: gsmstate.CmdCPMS, CPMS: &gsmstate.CPMSRequest{Mode: 1}}

	ok := ParseCPMS(st, []byte(`+CPMS: "ME",10,20,"SM",2,10,"ME",0,20`+"\r"))
	if !ok {
		t.Fatal("expected consumed")
	}
	want := [3]gsmstate.MemoryPool{
		{Current: enum.MemoryME, Used: 10, Total: 20},
		{Current: enum.MemorySM, Used: 2, Total: 10},
		{Current: enum.MemoryME, Used: 0, Total: 20},
	}
	if st.Sms != want {
		t.Fatalf("st.Sms = %+v, want %+v", st.Sms, want)
	}
}

func TestParseCMGLGuardedWithoutInFlight(t *testing.T) {
	st := gsmstate.New()
	if ParseCMGL(st, []byte(`+CMGL: 1,"REC READ","+123",,"23/06/15,10:30:05"`+"\r")) {
		t.Fatal("expected not consumed without CmdCMGL in flight")
	}
}

func TestParseCMGLFillsEntry(t *testing.T) {
	st := gsmstate.New()
	entries := make([]gsmstate.SmsEntry, 2)
	st.Msg = &gsmstate.InFlight{
		Kind: gsmstate.CmdCMGL,
		CMGL: &gsmstate.CMGLRequest{Memory: enum.MemorySM, Entries: entries, ETR: 2},
	}
	ok := ParseCMGL(st, []byte(`+CMGL: 3,"REC UNREAD","+15551234",,"15/06/23,10:30:05"`+"\r"))
	if !ok {
		t.Fatal("expected consumed")
	}
	e := entries[0]
	if e.Memory != enum.MemorySM || e.Position != 3 || e.Status != enum.SmsUnread || e.Number != "+15551234" {
		t.Fatalf("entry = %+v", e)
	}
	if e.Year != 2023 || e.Month != 6 || e.Day != 15 {
		t.Fatalf("datetime = %+v", e)
	}
}

func TestParseCMTI(t *testing.T) {
	st := gsmstate.New()
	d := event.NewDispatcher()
	var got event.Event
	d.SetCallback(func(e event.Event) { got = e })

	mem, pos := ParseCMTI(st, d, []byte(`+CMTI: "SM",4`), true)
	if mem != enum.MemorySM || pos != 4 {
		t.Fatalf("got (%v,%d)", mem, pos)
	}
	if got.Code != event.SmsRecv || got.SmsMemory != enum.MemorySM || got.SmsPosition != 4 {
		t.Fatalf("event = %+v", got)
	}
}

func TestParseCPBRAdvancesAndBounds(t *testing.T) {
	st := gsmstate.New()
	entries := make([]gsmstate.PhonebookEntry, 1)
	count := 0
	st.Msg = &gsmstate.InFlight{
		Kind: gsmstate.CmdCPBR,
		CPBR: &gsmstate.CPBRRequest{Entries: entries, ETR: 1, Count: &count},
	}
	ok := ParseCPBR(st, []byte(`+CPBR: 1,"+15551234",145,"Alice"`))
	if !ok {
		t.Fatal("expected consumed")
	}
	if entries[0].Number != "+15551234" || entries[0].Name != "Alice" {
		t.Fatalf("entry = %+v", entries[0])
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
	if ParseCPBR(st, []byte(`+CPBR: 2,"+1",145,"Bob"`)) {
		t.Fatal("expected bounds to refuse second entry")
	}
}
