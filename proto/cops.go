package proto

import (
	"github.com/arcfield/gsmmodem/enum"
	"github.com/arcfield/gsmmodem/gsmstate"
)

// ParseCOPSQuery parses a +COPS? response: mode, then (if not immediately
// at "\r") format and its tagged payload (long name / short name /
// numeric). On format absence, the operator's Format is Invalid.
//
// The numeric-format payload is a single integer; any further argument
// some modems append is ignored rather than parsed as a second field.
//
// If the in-flight command is a CmdCOPSGet with a non-nil sink, the parsed
// operator is also copied into that sink.
func ParseCOPSQuery(st *gsmstate.State, payload []byte) gsmstate.Operator {
	c := newCursor(payload)

	op := gsmstate.Operator{Mode: enum.OperatorMode(c.Int())}
	if !c.Done() && c.Peek() != '\r' {
		op.Format = enum.OperatorFormat(c.Int())
		switch op.Format {
		case enum.OperatorLongName:
			buf := make([]byte, nameFieldCap)
			n := c.QuotedString(buf, true)
			op.LongName = string(buf[:n])
		case enum.OperatorShortName:
			buf := make([]byte, nameFieldCap)
			n := c.QuotedString(buf, true)
			op.ShortName = string(buf[:n])
		case enum.OperatorNumber:
			op.Numeric = c.Int()
		default:
			op.Format = enum.OperatorInvalid
		}
	} else {
		op.Format = enum.OperatorInvalid
	}

	st.Lock()
	st.Network.Operator = op
	st.Unlock()

	if st.Msg != nil && st.Msg.Kind == gsmstate.CmdCOPSGet && st.Msg.COPSGet != nil && st.Msg.COPSGet.Sink != nil {
		*st.Msg.COPSGet.Sink = op
	}
	return op
}

// ParseCOPSScanByte feeds one byte of a +COPS=? scan response into the
// in-flight COPSScan machine. It is a no-op (and returns false) unless the
// in-flight command is a CmdCOPSScan.
func ParseCOPSScanByte(st *gsmstate.State, b byte) bool {
	if st.Msg == nil || st.Msg.Kind != gsmstate.CmdCOPSScan || st.Msg.COPSScan == nil {
		return false
	}
	st.Msg.COPSScan.Feed(b, st.Msg.COPSScan.Count)
	return true
}
