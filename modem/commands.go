package modem

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/arcfield/gsmmodem/enum"
	"github.com/arcfield/gsmmodem/gsmstate"
)

// Registration issues AT+CREG? and returns the resulting registration
// status, read back from state once the command completes.
func (m *Modem) Registration(ctx context.Context) (enum.NetworkRegStatus, error) {
	req := newCmdRequest("AT+CREG?", gsmstate.CmdGeneric, nil, m.config.ATTimeout)
	if err := m.submit(ctx, req); err != nil {
		return 0, err
	}
	return m.state.Snapshot().Network.Status, nil
}

// SimStatus issues AT+CPIN? and returns the resulting SIM state.
func (m *Modem) SimStatus(ctx context.Context) (enum.SimState, error) {
	req := newCmdRequest("AT+CPIN?", gsmstate.CmdGeneric, nil, m.config.ATTimeout)
	if err := m.submit(ctx, req); err != nil {
		return 0, err
	}
	return m.state.Snapshot().SimState, nil
}

// Operator issues AT+COPS? and returns the selected operator.
func (m *Modem) Operator(ctx context.Context) (gsmstate.Operator, error) {
	var op gsmstate.Operator
	inflight := &gsmstate.InFlight{Kind: gsmstate.CmdCOPSGet, COPSGet: &gsmstate.COPSGetRequest{Sink: &op}}
	req := newCmdRequest("AT+COPS?", gsmstate.CmdCOPSGet, inflight, m.config.ATTimeout)
	if err := m.submit(ctx, req); err != nil {
		return gsmstate.Operator{}, err
	}
	return op, nil
}

// ScanOperators issues AT+COPS=? and returns up to max candidate operators
// found by the network scan. A scan can take tens of seconds, so it uses
// Config.ScanTimeout rather than Config.ATTimeout.
func (m *Modem) ScanOperators(ctx context.Context, max int) ([]gsmstate.Operator, error) {
	if max <= 0 {
		max = 16
	}
	scanReq := &gsmstate.COPSScanRequest{Ops: make([]gsmstate.Operator, max), OpsL: max}
	inflight := &gsmstate.InFlight{Kind: gsmstate.CmdCOPSScan, COPSScan: scanReq}
	req := newCmdRequest("AT+COPS=?", gsmstate.CmdCOPSScan, inflight, m.config.ScanTimeout)
	if err := m.submit(ctx, req); err != nil {
		return nil, err
	}
	return scanReq.Ops[:scanReq.OpsI], nil
}

// Dial places an outgoing voice call to number.
func (m *Modem) Dial(ctx context.Context, number string) error {
	if number == "" {
		return errors.WithMessage(ErrParameter, "empty number")
	}
	req := newCmdRequest(fmt.Sprintf("ATD%s;", number), gsmstate.CmdGeneric, nil, m.config.ATTimeout)
	return m.submit(ctx, req)
}

// Hangup terminates any active or ringing call.
func (m *Modem) Hangup(ctx context.Context) error {
	req := newCmdRequest("ATH", gsmstate.CmdGeneric, nil, m.config.ATTimeout)
	return m.submit(ctx, req)
}

// CallStatus issues AT+CLCC and returns the resulting call record.
func (m *Modem) CallStatus(ctx context.Context) (gsmstate.CallRecord, error) {
	req := newCmdRequest("AT+CLCC", gsmstate.CmdGeneric, nil, m.config.ATTimeout)
	if err := m.submit(ctx, req); err != nil {
		return gsmstate.CallRecord{}, err
	}
	return m.state.Snapshot().Call, nil
}

// SendSMS sends a text-mode SMS to recipient and returns the network's
// message reference. It drives the two-step AT+CMGS exchange — the initial
// command, the "> " prompt, then the message body terminated with Ctrl-Z —
// entirely within the engine goroutine via cmdRequest.body.
func (m *Modem) SendSMS(ctx context.Context, recipient, message string) (int32, error) {
	if recipient == "" {
		return 0, errors.WithMessage(ErrParameter, "empty recipient")
	}
	var ref int32
	inflight := &gsmstate.InFlight{Kind: gsmstate.CmdCMGS, CMGS: &gsmstate.CMGSRequest{Ref: &ref}}
	req := newCmdRequest(fmt.Sprintf(`AT+CMGS="%s"`, recipient), gsmstate.CmdCMGS, inflight, m.config.ATTimeout)
	req.body = message
	if err := m.submit(ctx, req); err != nil {
		return 0, err
	}
	return ref, nil
}

// ReadSMS issues AT+CMGR=position and returns the stored message.
func (m *Modem) ReadSMS(ctx context.Context, position int) (gsmstate.SmsEntry, error) {
	if position < 1 {
		return gsmstate.SmsEntry{}, errors.WithMessage(ErrParameter, "position must be >= 1")
	}
	var entry gsmstate.SmsEntry
	inflight := &gsmstate.InFlight{Kind: gsmstate.CmdCMGR, CMGR: &gsmstate.CMGRRequest{Entry: &entry}}
	req := newCmdRequest(fmt.Sprintf("AT+CMGR=%d", position), gsmstate.CmdCMGR, inflight, m.config.ATTimeout)
	if err := m.submit(ctx, req); err != nil {
		return gsmstate.SmsEntry{}, err
	}
	return entry, nil
}

// ListSMS issues AT+CMGL="status" (e.g. "REC UNREAD", "ALL") and returns up
// to max matching entries, including their text-mode bodies.
func (m *Modem) ListSMS(ctx context.Context, status string, max int) ([]gsmstate.SmsEntry, error) {
	if status == "" {
		return nil, errors.WithMessage(ErrParameter, "empty status filter")
	}
	if max <= 0 {
		max = 32
	}
	listReq := &gsmstate.CMGLRequest{
		Memory:  m.state.Snapshot().Sms[gsmstate.SlotOp].Current,
		Entries: make([]gsmstate.SmsEntry, max),
		ETR:     max,
	}
	inflight := &gsmstate.InFlight{Kind: gsmstate.CmdCMGL, CMGL: listReq}
	req := newCmdRequest(fmt.Sprintf(`AT+CMGL="%s"`, status), gsmstate.CmdCMGL, inflight, m.config.ATTimeout)
	if err := m.submit(ctx, req); err != nil {
		return nil, err
	}
	return listReq.Entries[:listReq.EI], nil
}

// SelectSMSMemory issues AT+CPMS="mem","mem","mem", setting all three SMS
// storage roles to the same memory, and returns the resulting occupancy.
func (m *Modem) SelectSMSMemory(ctx context.Context, mem string) ([3]gsmstate.MemoryPool, error) {
	pmsReq := &gsmstate.CPMSRequest{Mode: 2}
	inflight := &gsmstate.InFlight{Kind: gsmstate.CmdCPMS, CPMS: pmsReq}
	req := newCmdRequest(fmt.Sprintf(`AT+CPMS="%s","%s","%s"`, mem, mem, mem), gsmstate.CmdCPMS, inflight, m.config.ATTimeout)
	if err := m.submit(ctx, req); err != nil {
		return [3]gsmstate.MemoryPool{}, err
	}
	return m.state.Snapshot().Sms, nil
}

// ReadPhonebook issues AT+CPBR=start,end and returns up to end-start+1
// matching entries.
func (m *Modem) ReadPhonebook(ctx context.Context, start, end int) ([]gsmstate.PhonebookEntry, error) {
	if start < 1 || end < start {
		return nil, errors.WithMessagef(ErrParameter, "bad range %d..%d", start, end)
	}
	n := end - start + 1
	pbReq := &gsmstate.CPBRRequest{Entries: make([]gsmstate.PhonebookEntry, n), ETR: n}
	inflight := &gsmstate.InFlight{Kind: gsmstate.CmdCPBR, CPBR: pbReq}
	req := newCmdRequest(fmt.Sprintf("AT+CPBR=%d,%d", start, end), gsmstate.CmdCPBR, inflight, m.config.ATTimeout)
	if err := m.submit(ctx, req); err != nil {
		return nil, err
	}
	return pbReq.Entries[:pbReq.EI], nil
}

// FindPhonebook issues AT+CPBF="pattern" and returns up to max matching
// entries.
func (m *Modem) FindPhonebook(ctx context.Context, pattern string, max int) ([]gsmstate.PhonebookEntry, error) {
	if pattern == "" {
		return nil, errors.WithMessage(ErrParameter, "empty pattern")
	}
	if max <= 0 {
		max = 16
	}
	pbReq := &gsmstate.CPBFRequest{Entries: make([]gsmstate.PhonebookEntry, max), ETR: max}
	inflight := &gsmstate.InFlight{Kind: gsmstate.CmdCPBF, CPBF: pbReq}
	req := newCmdRequest(fmt.Sprintf(`AT+CPBF="%s"`, pattern), gsmstate.CmdCPBF, inflight, m.config.ATTimeout)
	if err := m.submit(ctx, req); err != nil {
		return nil, err
	}
	return pbReq.Entries[:pbReq.EI], nil
}

// WritePhonebook issues AT+CPBW to store number under name at position (0
// lets the modem pick the first free slot). It has no response payload of
// its own, only the final result code.
func (m *Modem) WritePhonebook(ctx context.Context, position int, number string, numType enum.NumberType, name string) error {
	if number == "" {
		return errors.WithMessage(ErrParameter, "empty number")
	}
	posArg := ""
	if position > 0 {
		posArg = fmt.Sprintf("%d", position)
	}
	req := newCmdRequest(fmt.Sprintf(`AT+CPBW=%s,"%s",%d,"%s"`, posArg, number, numType, name), gsmstate.CmdGeneric, nil, m.config.ATTimeout)
	return m.submit(ctx, req)
}
