package gsmstate

import "github.com/arcfield/gsmmodem/enum"

// Buffer capacities for the +COPS=? scan's long/short operator name terms,
// including room for a NUL. Overflow bytes are dropped.
const (
	opScanLongNameCap  = 24
	opScanShortNameCap = 12
)

// OperatorScanner is a byte-streaming state machine that parses the
// (possibly very long) +COPS=? response
// "(stat,"long","short",num),(...),..." one byte at a time, so a response
// exceeding line-buffer capacity can still be consumed across reads. It is
// engine-owned with a lifetime equal to the scan command; Reset is its
// constructor.
type OperatorScanner struct {
	inTuple    bool
	started    bool
	prevComma  bool
	commaLatch bool

	term    int // 0=status 1=long 2=short 3=numeric
	termPos int

	stat int32
	long [opScanLongNameCap]byte
	short [opScanShortNameCap]byte
	num  int32
}

// Reset zeros all machine state; called once at scan command start.
func (s *OperatorScanner) Reset() {
	*s = OperatorScanner{}
}

// Feed advances the scan machine by one byte of the +COPS=? response,
// writing completed operator tuples into req.Ops[req.OpsI] and advancing
// req.OpsI, mirroring it into count if non-nil.
func (r *COPSScanRequest) Feed(b byte, count *int) {
	s := &r.Scanner
	if s.commaLatch || r.OpsI >= r.OpsL {
		return
	}
	if !s.inTuple {
		r.feedIdle(b)
		return
	}
	r.feedTuple(b, count)
}

func (r *COPSScanRequest) feedIdle(b byte) {
	s := &r.Scanner
	if b == ' ' {
		return
	}
	if b == ',' {
		if !s.started || s.prevComma {
			s.commaLatch = true
		}
		s.prevComma = true
		s.started = true
		return
	}
	s.started = true
	s.prevComma = false
	if b == '(' {
		s.inTuple = true
		s.term = 0
		s.termPos = 0
		s.stat = 0
		s.num = 0
		s.long = [opScanLongNameCap]byte{}
		s.short = [opScanShortNameCap]byte{}
	}
}

func (r *COPSScanRequest) feedTuple(b byte, count *int) {
	s := &r.Scanner
	switch b {
	case ')':
		op := Operator{
			Status:    enum.OperatorStatus(s.stat),
			LongName:  cstr(s.long[:]),
			ShortName: cstr(s.short[:]),
			Numeric:   s.num,
		}
		if r.OpsI < len(r.Ops) && r.OpsI < r.OpsL {
			r.Ops[r.OpsI] = op
		}
		r.OpsI++
		if count != nil {
			*count = r.OpsI
		}
		s.inTuple = false
		s.term = 0
		s.termPos = 0
		return
	case ',':
		s.term++
		s.termPos = 0
		return
	case '"':
		return
	}
	switch s.term {
	case 0:
		if b >= '0' && b <= '9' {
			s.stat = s.stat*10 + int32(b-'0')
		}
	case 1:
		if s.termPos < len(s.long)-1 {
			s.long[s.termPos] = b
			s.termPos++
			s.long[s.termPos] = 0
		}
	case 2:
		if s.termPos < len(s.short)-1 {
			s.short[s.termPos] = b
			s.termPos++
			s.short[s.termPos] = 0
		}
	case 3:
		if b >= '0' && b <= '9' {
			s.num = s.num*10 + int32(b-'0')
		}
	}
}

func cstr(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
