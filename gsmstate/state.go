// Package gsmstate implements the device state (C4): the process-wide
// record of current SIM/network/operator/call/SMS/phonebook state, and the
// in-flight command descriptor that gives response parsers the caller
// context (sinks, progress counters) they need.
//
// A State is mutated only from the engine goroutine (see package modem);
// the mutex here exists solely to let callers take a consistent snapshot
// concurrently with that mutation.
package gsmstate

import (
	"sync"

	"github.com/arcfield/gsmmodem/enum"
)

// Memory pool slot indices for State.Sms: the +CPMS operation, receive and
// sent storage roles, in that order.
const (
	SlotOp = iota
	SlotRx
	SlotTx
)

// Operator is a +COPS operator record. For a +COPS? result, Format selects
// which of LongName, ShortName or Numeric is the authoritative payload; the
// others are zero. A candidate produced by a +COPS=? scan carries all three
// plus Status, and its Format is left at its zero value.
type Operator struct {
	Mode      enum.OperatorMode
	Status    enum.OperatorStatus
	Format    enum.OperatorFormat
	LongName  string
	ShortName string
	Numeric   int32
}

// SmsEntry is a stored SMS as reported by +CMGR/+CMGL. Body is filled from
// the text-mode body line that follows the entry header, not by the header
// parser itself.
type SmsEntry struct {
	Memory   enum.MemoryKind
	Position int
	Status   enum.SmsStatus
	Number   string
	Name     string
	Year     int
	Month    int
	Day      int
	Hour     int
	Min      int
	Sec      int
	Body     string
}

// PhonebookEntry is a stored phonebook record as reported by +CPBR/+CPBF.
type PhonebookEntry struct {
	Position int
	Name     string
	Type     enum.NumberType
	Number   string
}

// CallRecord is a +CLCC call-list entry.
type CallRecord struct {
	ID        int
	Direction enum.CallDirection
	State     enum.CallState
	Type      enum.CallType
	Multipart bool
	Number    string
	AddrType  enum.NumberType
	Name      string
}

// MemoryPool is the state of one SMS or phonebook storage area: which
// memories are available (bitset), which is selected, and its occupancy.
type MemoryPool struct {
	Available uint32
	Current   enum.MemoryKind
	Used      int
	Total     int
}

// NetworkState is the registration/operator half of State.
type NetworkState struct {
	Status   enum.NetworkRegStatus
	Operator Operator
}

// State is the device record for one modem: there is exactly one per
// Modem, because the modem holds exactly one conversation at a time.
type State struct {
	mu sync.Mutex

	SimState enum.SimState
	Network  NetworkState
	Call     CallRecord
	Sms      [3]MemoryPool
	Pb       MemoryPool
	Msg      *InFlight
}

// New returns a zero-valued State, ready for use.
func New() *State {
	return &State{}
}

// Lock/Unlock let the engine goroutine bracket a mutation so that
// concurrent Snapshot calls from callers see a consistent view. The engine
// itself never contends with another mutator, only with readers.
func (s *State) Lock()   { s.mu.Lock() }
func (s *State) Unlock() { s.mu.Unlock() }

// Snapshot returns a copy of the state safe for a caller to read
// concurrently with engine mutation.
func (s *State) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *s
	cp.mu = sync.Mutex{}
	return cp
}

// CommandKind discriminates the active variant of an InFlight descriptor.
type CommandKind int

const (
	CmdGeneric CommandKind = iota
	CmdCOPSGet
	CmdCOPSScan
	CmdCMGR
	CmdCMGL
	CmdCPBR
	CmdCPBF
	CmdCPMS
	CmdCPBS
	CmdCMGS
)

// InFlight is the tagged-union in-flight command descriptor: Kind selects
// exactly one non-nil variant field, so response parsers match on the
// variant rather than comparing command strings.
type InFlight struct {
	Kind CommandKind

	COPSGet  *COPSGetRequest
	COPSScan *COPSScanRequest
	CMGR     *CMGRRequest
	CMGL     *CMGLRequest
	CPBR     *CPBRRequest
	CPBF     *CPBFRequest
	CPMS     *CPMSRequest
	CPBS     *CPBSRequest
	CMGS     *CMGSRequest
}

// CMGSRequest carries the caller-supplied sink for a +CMGS send: Ref
// receives the network-assigned message reference once the modem reports
// it, mirroring COPSGetRequest's Sink pattern.
type CMGSRequest struct {
	Ref *int32
}

// COPSGetRequest carries the caller-supplied sink for a +COPS? query.
// Sink may be nil if the caller only wants the side effect on State.
type COPSGetRequest struct {
	Sink *Operator
}

// COPSScanRequest drives a +COPS=? scan: Ops is the caller-supplied
// destination slice (length OpsL), OpsI is the running write index, and
// Scanner is the byte-level scan machine, engine-owned for the lifetime of
// the scan command.
type COPSScanRequest struct {
	Ops     []Operator
	OpsI    int
	OpsL    int
	Count   *int
	Scanner OperatorScanner
}

// CMGRRequest carries the caller-supplied sink for a +CMGR read.
type CMGRRequest struct {
	Entry *SmsEntry
}

// CMGLRequest drives a +CMGL listing: Memory is copied into each produced
// entry, Entries is the caller-supplied destination slice (length ETR),
// and EI is the running write index, advanced by the engine as each
// entry's body line arrives.
type CMGLRequest struct {
	Memory  enum.MemoryKind
	Entries []SmsEntry
	EI      int
	ETR     int
}

// CPBRRequest / CPBFRequest drive +CPBR / +CPBF: Entries is the
// caller-supplied destination slice (length ETR), EI the running write
// index, and Count, if non-nil, an observable running count for the
// caller.
type CPBRRequest struct {
	Entries []PhonebookEntry
	EI      int
	ETR     int
	Count   *int
}

type CPBFRequest struct {
	Entries []PhonebookEntry
	EI      int
	ETR     int
	Count   *int
}

// CPMSRequest drives one of the three +CPMS response modes, selected by
// Mode: 0 = list-of-lists option query, 1 = current info, 2 = set info.
type CPMSRequest struct {
	Mode  int
	Lists [3]uint32
	Infos [3]MemoryPool
}

// CPBSRequest drives one of the three +CPBS response modes, selected by
// Mode: 0 = memory-list option query, 1 = current info, 2 = set info.
type CPBSRequest struct {
	Mode int
	List uint32
	Info MemoryPool
}
