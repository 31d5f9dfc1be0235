package at

import "strings"

// ParseCmdID returns the identifier portion of a command line — the part
// after the "AT" attention prefix and before any "=" or "?" — e.g. "+CPBR"
// from "AT+CPBR=1,5" or "+COPS" from "AT+COPS?". It is used to recognise
// the info lines a command's own response produces, since a modem prefixes
// those lines with that identifier.
func ParseCmdID(cmd string) string {
	cmd = strings.TrimPrefix(cmd, "AT")
	if i := strings.IndexAny(cmd, "=?"); i >= 0 {
		return cmd[:i]
	}
	return cmd
}

// IsURC reports whether line begins with one of the unsolicited result code
// prefixes in urcPrefixes, or is the bare "RING" indication. "+CREG:" lines
// match even when they answer an AT+CREG? query; telling the two forms
// apart is left to the caller.
func IsURC(line string) bool {
	if line == UrcCall {
		return true
	}
	for _, p := range urcPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// IsInfoForCmd reports whether line is an info line belonging to cmdID's own
// response, i.e. it begins with cmdID followed by ':'. Matches
// warthog618-modem's convention that a command's info lines are prefixed
// with its own identifier.
func IsInfoForCmd(line, cmdID string) bool {
	return cmdID != "" && strings.HasPrefix(line, cmdID+":")
}
