// Package enum implements the enumeration parsers (C2): mapping textual AT
// response tokens to the enumerated memory/status/format/SIM-state values
// used throughout the driver.
package enum

import (
	"errors"

	"github.com/arcfield/gsmmodem/cursor"
)

// MemoryKind identifies an SMS/phonebook storage area (+CPMS/+CPBS "SM",
// "ME", "MT", ...). The concrete mapping from modem-reported token to
// MemoryKind is device-specific and supplied via SetMemoryMap; the values
// below are the common 3GPP set and are registered as the default map.
type MemoryKind int

const (
	MemoryUnknown MemoryKind = iota
	MemorySM                 // SIM message storage
	MemoryME                 // mobile equipment storage
	MemoryMT                 // combined ME+SIM storage
	MemorySR                 // status report storage
	MemoryBM                 // broadcast message storage
	MemoryON                 // own numbers (MSISDN) storage
	MemoryRC                 // received calls storage
	MemoryTA                 // terminal adapter (local) storage
	MemorySIM                // explicit SIM storage alias
)

func (k MemoryKind) String() string {
	switch k {
	case MemorySM:
		return "SM"
	case MemoryME:
		return "ME"
	case MemoryMT:
		return "MT"
	case MemorySR:
		return "SR"
	case MemoryBM:
		return "BM"
	case MemoryON:
		return "ON"
	case MemoryRC:
		return "RC"
	case MemoryTA:
		return "TA"
	case MemorySIM:
		return "SIM"
	default:
		return "Unknown"
	}
}

// maxMemoryKinds bounds the memory map so that a bitset of kinds fits in a
// uint32.
const maxMemoryKinds = 31

// ErrTooManyMemoryKinds is returned by SetMemoryMap when the supplied table
// would overflow the 31-bit memory bitset.
var ErrTooManyMemoryKinds = errors.New("enum: memory map exceeds 31 distinct kinds")

// MemoryMapEntry is one (token, MemoryKind) pair in the process-wide memory
// map, exported by a device-specific table.
type MemoryMapEntry struct {
	Token string
	Kind  MemoryKind
}

// defaultMemoryMap is the generic 3GPP set, checked in declaration order.
var defaultMemoryMap = []MemoryMapEntry{
	{"SM", MemorySM},
	{"ME", MemoryME},
	{"MT", MemoryMT},
	{"SR", MemorySR},
	{"BM", MemoryBM},
	{"ON", MemoryON},
	{"RC", MemoryRC},
	{"TA", MemoryTA},
	{"SIM", MemorySIM},
}

var memoryMap = defaultMemoryMap

// SetMemoryMap installs a device-specific ordered (token, MemoryKind) table,
// replacing the default 3GPP mapping used by MemoryToken and MemoryList.
// It returns ErrTooManyMemoryKinds if the table has more than 31 entries.
func SetMemoryMap(entries []MemoryMapEntry) error {
	if len(entries) > maxMemoryKinds {
		return ErrTooManyMemoryKinds
	}
	memoryMap = entries
	return nil
}

// MemoryMap returns the currently installed memory map.
func MemoryMap() []MemoryMapEntry {
	return memoryMap
}

// MemoryToken parses a (possibly quoted) memory token, e.g. "SM", against
// the installed memory map and returns the matching MemoryKind, or
// MemoryUnknown if no entry's token is a prefix of the remaining input.
//
// Skips a leading ',' and '"'. On a match, advances the cursor past the
// token. On no match, the cursor is advanced to the next structural
// boundary via Trim. A trailing '"' is consumed if present.
func MemoryToken(c *cursor.Cursor) MemoryKind {
	skipByte(c, ',')
	skipByte(c, '"')
	for _, e := range memoryMap {
		if c.HasPrefix(e.Token) {
			c.Advance(len(e.Token))
			skipByte(c, '"')
			return e.Kind
		}
	}
	c.Trim()
	skipByte(c, '"')
	return MemoryUnknown
}

// MemoryList parses a "(T1,T2,...)" comma-separated list of memory tokens
// into a bitset with bit k set for each parsed MemoryKind k present in the
// list. Skips a leading ',' and '('. Terminates on ')' (consumed) or
// end-of-input.
func MemoryList(c *cursor.Cursor) uint32 {
	skipByte(c, ',')
	skipByte(c, '(')
	var bits uint32
	for {
		if c.Done() {
			return bits
		}
		if c.Peek() == ')' {
			c.Advance(1)
			return bits
		}
		kind := MemoryToken(c)
		if int(kind) < maxMemoryKinds {
			bits |= 1 << uint(kind)
		}
	}
}

// SimState is the SIM card readiness as reported by +CPIN.
type SimState int

const (
	SimNotReady SimState = iota
	SimReady
	SimNotInserted
	SimPin
	SimPuk
)

func (s SimState) String() string {
	switch s {
	case SimReady:
		return "READY"
	case SimNotInserted:
		return "NOT INSERTED"
	case SimPin:
		return "SIM PIN"
	case SimPuk:
		return "SIM PUK"
	default:
		return "NOT READY"
	}
}

// NetworkRegStatus is the registration status as reported by +CREG, numeric
// as emitted by the modem.
type NetworkRegStatus int

const (
	RegNotRegistered NetworkRegStatus = iota
	RegRegistered
	RegSearching
	RegDenied
	RegUnknown
	RegConnected
	RegConnectedRoaming
)

// Registered reports whether this status indicates the modem has some form
// of network presence (home or roaming) worth querying the operator for.
// All three "has a serving cell" states — Registered, Connected,
// ConnectedRoaming — are treated alike.
func (s NetworkRegStatus) Registered() bool {
	switch s {
	case RegRegistered, RegConnected, RegConnectedRoaming:
		return true
	default:
		return false
	}
}

// OperatorFormat selects how an Operator's payload is interpreted.
type OperatorFormat int

const (
	OperatorLongName OperatorFormat = iota
	OperatorShortName
	OperatorNumber
	OperatorInvalid
)

// OperatorMode is the +COPS mode field (automatic, manual, deregister, ...).
type OperatorMode int

// OperatorStatus is the +COPS=? per-candidate status field.
type OperatorStatus int

const (
	OperatorUnknownStatus OperatorStatus = iota
	OperatorAvailable
	OperatorCurrent
	OperatorForbidden
)

// CallDirection is the direction of a +CLCC call record.
type CallDirection int

const (
	CallMobileOriginated CallDirection = iota
	CallMobileTerminated
)

// CallState is the state of a +CLCC call record.
type CallState int

const (
	CallActive CallState = iota
	CallHeld
	CallDialing
	CallAlerting
	CallIncoming
	CallWaiting
)

// CallType distinguishes voice/data/fax calls.
type CallType int

const (
	CallVoice CallType = iota
	CallData
	CallFax
)

// NumberType is the +CLCC/phonebook number-type field (e.g. 145 =
// international, 129 = unknown/national).
type NumberType int

const (
	NumberUnknown    NumberType = 129
	NumberInternational NumberType = 145
)

// SmsStatus is the read/unread/sent/unsent state of a stored SMS.
type SmsStatus int

const (
	SmsAll SmsStatus = iota
	SmsUnread
	SmsRead
	SmsUnsent
	SmsSent
)

// SmsStatusToken parses a quoted SMS status token and matches it against
// exactly one of "REC UNREAD", "REC READ", "STO UNSENT", "REC SENT". Any
// other value is reported as !ok; callers should treat that as "no update".
func SmsStatusToken(c *cursor.Cursor) (status SmsStatus, ok bool) {
	buf := make([]byte, 11)
	n := c.QuotedString(buf, true)
	switch string(buf[:n]) {
	case "REC UNREAD":
		return SmsUnread, true
	case "REC READ":
		return SmsRead, true
	case "STO UNSENT":
		return SmsUnsent, true
	case "REC SENT":
		return SmsSent, true
	default:
		return 0, false
	}
}

func skipByte(c *cursor.Cursor, b byte) bool {
	if c.Peek() == b {
		c.Advance(1)
		return true
	}
	return false
}

