package proto

import (
	"github.com/arcfield/gsmmodem/enum"
	"github.com/arcfield/gsmmodem/gsmstate"
)

// ParseCPMS parses a +CPMS response in one of three modes, selected by the
// in-flight request's Mode field: 0 = list-of-lists option query (three
// consecutive memory-list bitsets), 1 = current info (three (memory,
// used, total) triples, copied into st.Sms), 2 = set info (three
// (used, total) pairs, merged into st.Sms). Returns false if no CmdCPMS
// request is in flight.
func ParseCPMS(st *gsmstate.State, payload []byte) bool {
	if st.Msg == nil || st.Msg.Kind != gsmstate.CmdCPMS || st.Msg.CPMS == nil {
		return false
	}
	req := st.Msg.CPMS
	c := newCursor(payload)

	switch req.Mode {
	case 0:
		for i := 0; i < 3; i++ {
			req.Lists[i] = enum.MemoryList(c)
		}
	case 1:
		for i := 0; i < 3; i++ {
			mem := enum.MemoryToken(c)
			used := c.Int()
			total := c.Int()
			req.Infos[i] = gsmstate.MemoryPool{Current: mem, Used: int(used), Total: int(total)}
		}
		st.Lock()
		st.Sms = req.Infos
		st.Unlock()
	case 2:
		for i := 0; i < 3; i++ {
			used := c.Int()
			total := c.Int()
			req.Infos[i].Used = int(used)
			req.Infos[i].Total = int(total)
		}
		st.Lock()
		for i := 0; i < 3; i++ {
			st.Sms[i].Used = req.Infos[i].Used
			st.Sms[i].Total = req.Infos[i].Total
		}
		st.Unlock()
	}
	return true
}

// ParseCPBS parses a +CPBS response in one of three modes, selected by the
// in-flight request's Mode field: 0 = memory-list option query, 1 =
// current info (memory, used, total), 2 = set info (used, total). Returns
// false if no CmdCPBS request is in flight.
func ParseCPBS(st *gsmstate.State, payload []byte) bool {
	if st.Msg == nil || st.Msg.Kind != gsmstate.CmdCPBS || st.Msg.CPBS == nil {
		return false
	}
	req := st.Msg.CPBS
	c := newCursor(payload)

	switch req.Mode {
	case 0:
		req.List = enum.MemoryList(c)
	case 1:
		mem := enum.MemoryToken(c)
		used := c.Int()
		total := c.Int()
		req.Info = gsmstate.MemoryPool{Current: mem, Used: int(used), Total: int(total)}
		st.Lock()
		st.Pb = req.Info
		st.Unlock()
	case 2:
		used := c.Int()
		total := c.Int()
		req.Info.Used = int(used)
		req.Info.Total = int(total)
		st.Lock()
		st.Pb.Used = req.Info.Used
		st.Pb.Total = req.Info.Total
		st.Unlock()
	}
	return true
}
