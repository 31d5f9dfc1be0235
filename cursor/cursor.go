// Package cursor implements the scalar field parsers (C1) used to pull
// numeric, hex, quoted-string, IP, MAC and datetime fields out of AT command
// response payloads.
//
// Every parser here is best-effort: none of them can fail. A malformed or
// absent field degrades to its zero value, and the cursor is always left
// advanced to a sane boundary (the next separator, "\r", or end of input) so
// that a chain of field parsers can be composed without per-field error
// checking, matching the tolerant parsing style AT responses require.
package cursor

import "math"

// Cursor is a movable read position over an immutable byte string.
// The zero value is not usable; construct one with New.
type Cursor struct {
	buf []byte
	pos int
}

// New returns a Cursor positioned at the start of s.
func New(s string) *Cursor {
	return &Cursor{buf: []byte(s)}
}

// NewBytes returns a Cursor positioned at the start of b. The slice is not
// copied; callers must not mutate it while the Cursor is in use.
func NewBytes(b []byte) *Cursor {
	return &Cursor{buf: b}
}

// Pos returns the current offset into the backing buffer.
func (c *Cursor) Pos() int { return c.pos }

// Len returns the length of the backing buffer.
func (c *Cursor) Len() int { return len(c.buf) }

// Done reports whether the cursor has reached the end of the buffer.
func (c *Cursor) Done() bool { return c.pos >= len(c.buf) }

// Peek returns the byte at the current position, or 0 if at end of input.
func (c *Cursor) Peek() byte {
	if c.Done() {
		return 0
	}
	return c.buf[c.pos]
}

// PeekAt returns the byte at offset bytes past the current position, or 0
// if that is at or beyond end of input. It does not move the cursor.
func (c *Cursor) PeekAt(offset int) byte {
	i := c.pos + offset
	if i < 0 || i >= len(c.buf) {
		return 0
	}
	return c.buf[i]
}

// HasPrefix reports whether the remaining input, from the current position,
// begins with s. It does not move the cursor.
func (c *Cursor) HasPrefix(s string) bool {
	if len(c.buf)-c.pos < len(s) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if c.buf[c.pos+i] != s[i] {
			return false
		}
	}
	return true
}

// Advance moves the cursor forward by n bytes, clamped to the buffer length.
func (c *Cursor) Advance(n int) {
	c.pos += n
	if c.pos > len(c.buf) {
		c.pos = len(c.buf)
	}
}

func (c *Cursor) skip(b byte) bool {
	if !c.Done() && c.buf[c.pos] == b {
		c.pos++
		return true
	}
	return false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'A' && b <= 'F') || (b >= 'a' && b <= 'f')
}

// Int parses a signed decimal integer field.
//
// Prefix-skip (each consumed at most once, in order): '"', ',', '"', '/',
// ':', '+'. Then an optional leading '-'. The body is the maximal run of
// decimal digits. If the next byte after the body is ',', it is consumed.
// Overflow saturates at math.MaxInt32/math.MinInt32 rather than wrapping.
func (c *Cursor) Int() int32 {
	c.skip('"')
	c.skip(',')
	c.skip('"')
	c.skip('/')
	c.skip(':')
	c.skip('+')
	neg := c.skip('-')
	var v int64
	for !c.Done() && isDigit(c.buf[c.pos]) {
		v = v*10 + int64(c.buf[c.pos]-'0')
		if v > math.MaxInt32 {
			v = math.MaxInt32
		}
		c.pos++
	}
	if neg {
		v = -v
		if v < math.MinInt32 {
			v = math.MinInt32
		}
	}
	c.skip(',')
	return int32(v)
}

// HexInt parses an unsigned hexadecimal integer field.
//
// Prefix-skip (each consumed at most once, in order): '"', ',', '"'. The
// body is the maximal run of [0-9A-Fa-f]. A trailing ',' is consumed if
// present. Overflow saturates at math.MaxInt32.
func (c *Cursor) HexInt() uint32 {
	c.skip('"')
	c.skip(',')
	c.skip('"')
	var v uint64
	for !c.Done() && isHexDigit(c.buf[c.pos]) {
		b := c.buf[c.pos]
		var d uint64
		switch {
		case isDigit(b):
			d = uint64(b - '0')
		case b >= 'a' && b <= 'f':
			d = uint64(b-'a') + 10
		default:
			d = uint64(b-'A') + 10
		}
		v = v*16 + d
		if v > math.MaxInt32 {
			v = math.MaxInt32
		}
		c.pos++
	}
	c.skip(',')
	return uint32(v)
}

// QuotedString copies a quoted string field into dst and returns the number
// of bytes copied. If dst is nil the field is drained but discarded.
//
// Skip leading ',' then leading '"'. Bytes are copied until end-of-input or
// the sequence `" ,`, `" \r` or `" \n` is seen, after which the closing '"'
// is consumed. dst's capacity is assumed to include room for a terminating
// NUL; when dst fills, further behavior is controlled by trim: if trim is
// true, input is still drained (but not copied) to the terminator; if
// false, copying (and advancement) stops at the truncation point. When dst
// is non-nil and has room, it is always NUL-terminated after the copy.
func (c *Cursor) QuotedString(dst []byte, trim bool) int {
	c.skip(',')
	if !c.skip('"') {
		// Not a quoted field: an empty field represented by back-to-back
		// separators (e.g. the CMGL alpha field), or absent entirely.
		if dst != nil && len(dst) > 0 {
			dst[0] = 0
		}
		return 0
	}
	n := 0
	cap := len(dst)
	if cap > 0 {
		cap-- // room for terminator
	}
	for {
		if c.Done() {
			break
		}
		if c.buf[c.pos] == '"' && c.pos+1 < len(c.buf) {
			next := c.buf[c.pos+1]
			if next == ',' || next == '\r' || next == '\n' {
				break
			}
		} else if c.buf[c.pos] == '"' && c.pos+1 == len(c.buf) {
			break
		}
		b := c.buf[c.pos]
		if n < cap {
			if dst != nil {
				dst[n] = b
			}
			n++
			c.pos++
			continue
		}
		// destination full
		if trim {
			c.pos++
			continue
		}
		break
	}
	c.skip('"')
	if dst != nil && cap >= 0 && n <= len(dst)-1 {
		dst[n] = 0
	} else if dst != nil && len(dst) > 0 {
		dst[len(dst)-1] = 0
	}
	return n
}

// Trim advances the cursor to the next structural boundary ('"', '\r', or
// ',') if it is not already positioned at one, skipping the bytes of an
// unwanted field. The boundary byte itself is not consumed.
func (c *Cursor) Trim() {
	for !c.Done() {
		switch c.buf[c.pos] {
		case '"', '\r', ',':
			return
		}
		c.pos++
	}
}

// IPv4 is an IPv4 address as four octets in declaration order.
type IPv4 struct {
	A, B, C, D uint8
}

// IP parses an (optionally quoted) dotted-decimal IPv4 address.
//
// Optional leading '"', then four integers separated by a single byte each
// (the '.', consumed unconditionally), then an optional closing '"'.
func (c *Cursor) IP() IPv4 {
	c.skip('"')
	var ip IPv4
	ip.A = uint8(c.Int())
	c.skipSeparator()
	ip.B = uint8(c.Int())
	c.skipSeparator()
	ip.C = uint8(c.Int())
	c.skipSeparator()
	ip.D = uint8(c.Int())
	c.skip('"')
	return ip
}

func (c *Cursor) skipSeparator() {
	if !c.Done() {
		c.pos++
	}
}

// MAC is a MAC-48 address as six octets in declaration order.
type MAC struct {
	Octet [6]uint8
}

// MAC parses an (optionally quoted) colon-separated MAC address, e.g.
// "AA:BB:CC:DD:EE:FF". Hex digits are case-insensitive.
func (c *Cursor) MAC() MAC {
	c.skip('"')
	var m MAC
	for i := 0; i < 6; i++ {
		m.Octet[i] = uint8(c.HexInt())
		if i < 5 {
			c.skipSeparator()
		}
	}
	c.skip('"')
	c.skip(',')
	return m
}

// DateTime is a modem-reported timestamp. Year is stored as the full
// four-digit value (2000 + the modem's two-digit year).
type DateTime struct {
	Year            int
	Month, Day      int
	Hour, Min, Sec  int
}

// DateTime parses six comma-separated integers in the order day, month,
// two-digit year, hour, minute, second, then trims to the next boundary.
func (c *Cursor) DateTime() DateTime {
	var dt DateTime
	dt.Day = int(c.Int())
	dt.Month = int(c.Int())
	dt.Year = 2000 + int(c.Int())
	dt.Hour = int(c.Int())
	dt.Min = int(c.Int())
	dt.Sec = int(c.Int())
	c.Trim()
	return dt
}
