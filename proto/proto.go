// Package proto implements the per-response-code parsers (C3): one parser
// per AT response family, each populating the shared gsmstate.State (and,
// where a caller-supplied sink is present on the in-flight command
// descriptor, that sink too) and optionally firing an event.
//
// Every parser here is tolerant: a malformed line
// degrades to a partially- or un-populated record rather than an error, and
// the cursor is always left at a safe boundary. Parsers that depend on
// caller context (CMGL, CPBR, CPBF) return false — "not consumed" — when
// that context (the matching in-flight command) is absent, so the engine
// can discard the line instead of acting on it.
package proto

import "github.com/arcfield/gsmmodem/cursor"

// prefixLen is the length of every supported response prefix including the
// colon-space, e.g. "+CREG: " — all handled response codes are five bytes.
// The caller is responsible for having routed the line to the parser
// matching its actual prefix.
const prefixLen = 7

// newCursor returns a Cursor over payload, skipping the response's
// "+XXXX: " prefix when payload begins with '+'.
func newCursor(payload []byte) *cursor.Cursor {
	if len(payload) > 0 && payload[0] == '+' {
		if len(payload) > prefixLen {
			return cursor.NewBytes(payload[prefixLen:])
		}
		return cursor.NewBytes(nil)
	}
	return cursor.NewBytes(payload)
}

const (
	numberFieldCap = 24
	nameFieldCap   = 32
)
