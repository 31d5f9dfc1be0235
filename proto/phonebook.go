package proto

import (
	"github.com/arcfield/gsmmodem/cursor"
	"github.com/arcfield/gsmmodem/enum"
	"github.com/arcfield/gsmmodem/gsmstate"
)

// ParseCPBR fills entries[ei] with position, number, type and name, then
// advances ei (and *Count, if non-nil). Guarded by the in-flight command
// being CmdCPBR and ei < etr; returns false ("not consumed") otherwise.
func ParseCPBR(st *gsmstate.State, payload []byte) bool {
	if st.Msg == nil || st.Msg.Kind != gsmstate.CmdCPBR || st.Msg.CPBR == nil {
		return false
	}
	return fillPhonebookEntry(newCursor(payload), st.Msg.CPBR.Entries, &st.Msg.CPBR.EI, st.Msg.CPBR.ETR, st.Msg.CPBR.Count)
}

// ParseCPBF is identical to ParseCPBR but guarded on CmdCPBF.
func ParseCPBF(st *gsmstate.State, payload []byte) bool {
	if st.Msg == nil || st.Msg.Kind != gsmstate.CmdCPBF || st.Msg.CPBF == nil {
		return false
	}
	return fillPhonebookEntry(newCursor(payload), st.Msg.CPBF.Entries, &st.Msg.CPBF.EI, st.Msg.CPBF.ETR, st.Msg.CPBF.Count)
}

func fillPhonebookEntry(c *cursor.Cursor, entries []gsmstate.PhonebookEntry, ei *int, etr int, count *int) bool {
	if *ei >= etr || *ei >= len(entries) {
		return false
	}
	e := &entries[*ei]
	e.Position = int(c.Int())

	numBuf := make([]byte, numberFieldCap)
	n := c.QuotedString(numBuf, true)
	e.Number = string(numBuf[:n])

	e.Type = enum.NumberType(c.Int())

	nameBuf := make([]byte, nameFieldCap)
	n2 := c.QuotedString(nameBuf, true)
	e.Name = string(nameBuf[:n2])

	*ei++
	if count != nil {
		*count = *ei
	}
	return true
}
