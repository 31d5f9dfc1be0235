package modem

import (
	"strings"

	"github.com/arcfield/gsmmodem/at"
	"github.com/arcfield/gsmmodem/gsmstate"
	"github.com/arcfield/gsmmodem/proto"
)

// routeLine dispatches a single response line to the proto parser for its
// response family, mutating m.state and firing events as a side effect. It
// is called for every line, whether a command is in flight or not, so URC
// handling is folded into the same read loop as command responses. cmdID
// is the identifier (at.ParseCmdID) of the currently in-flight command, or
// "" when idle.
//
// routeLine reports whether line was a +CMGL entry header, so the caller
// knows the very next raw line is that entry's text-mode body.
func (m *Modem) routeLine(cmdID, line string) bool {
	payload := []byte(line)

	// Individual proto parsers take state.Lock/Unlock themselves around the
	// specific fields a concurrent Snapshot might observe; st.Msg itself is
	// touched only from this engine goroutine and needs no lock.
	switch {
	case strings.HasPrefix(line, at.PrefixCREG):
		// A +CREG: line is the query response (3 fields, first is the
		// unsolicited-result-code mode) when it's the in-flight command's
		// own info line, and a bare registration URC (2 fields) otherwise.
		skipFirst := at.IsInfoForCmd(line, cmdID)
		proto.ParseCREG(m.state, m.disp, payload, skipFirst, m.enqueueOperatorQuery)

	case strings.HasPrefix(line, at.PrefixCPIN):
		proto.ParseCPIN(m.state, m.disp, payload, true, m.enqueueSimInfo)

	case strings.HasPrefix(line, at.PrefixCOPS):
		if m.state.Msg != nil && m.state.Msg.Kind == gsmstate.CmdCOPSScan {
			// The scan machine sees only the tuple stream; feeding it the
			// "+COPS:" prefix would defeat its leading-comma no-operators
			// latch.
			for i := len(at.PrefixCOPS); i < len(payload); i++ {
				proto.ParseCOPSScanByte(m.state, payload[i])
			}
		} else {
			proto.ParseCOPSQuery(m.state, payload)
		}

	case strings.HasPrefix(line, at.PrefixCLCC):
		proto.ParseCLCC(m.state, m.disp, payload, true)

	case strings.HasPrefix(line, at.PrefixCMGS):
		proto.ParseCMGS(m.state, m.disp, payload, true)

	case strings.HasPrefix(line, at.PrefixCMGR):
		proto.ParseCMGR(m.state, payload)

	case strings.HasPrefix(line, at.PrefixCMGL):
		return proto.ParseCMGL(m.state, payload)

	case strings.HasPrefix(line, at.PrefixCMTI):
		proto.ParseCMTI(m.state, m.disp, payload, true)

	case strings.HasPrefix(line, at.PrefixCPMS):
		proto.ParseCPMS(m.state, payload)

	case strings.HasPrefix(line, at.PrefixCPBS):
		proto.ParseCPBS(m.state, payload)

	case strings.HasPrefix(line, at.PrefixCPBR):
		proto.ParseCPBR(m.state, payload)

	case strings.HasPrefix(line, at.PrefixCPBF):
		proto.ParseCPBF(m.state, payload)
	}

	return false
}
