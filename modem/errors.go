package modem

import (
	"context"
	"errors"
)

var (
	// ErrNilContext is returned by New when it is passed a nil context.
	//
	// This indicates a programming error. All functions that accept a context
	// parameter require a non-nil context, even if it's context.Background().
	// SerialDialer.Dial reports a nil context with its own error value.
	ErrNilContext = errors.New("context is nil")

	// ErrMissingPort names the configuration error of a serial dial without
	// a port name. No function in this package returns it: SerialDialer.Dial
	// reports that case with its own error value.
	ErrMissingPort = errors.New("missing required serial port name")

	// ErrPortOpenFail names the failure to open the underlying serial port.
	// No function in this package returns it: SerialDialer.Dial wraps the
	// serial library's own error instead.
	ErrPortOpenFail = errors.New("failed to open serial port")

	// ErrNoDialer is returned by ConfigBuilder.Build when no Dialer was set.
	ErrNoDialer = errors.New("gsm: no dialer configured")

	// ErrSIMPinRequired is returned from New when the SIM reports it needs a
	// PIN and Config.SimPIN is empty.
	ErrSIMPinRequired = errors.New("gsm: SIM PIN required but not configured")

	// ErrNotInitialized names a Modem whose transport was never initialized.
	// No function in this package returns it; command-surface methods called
	// after Close return ErrClosed.
	ErrNotInitialized = errors.New("gsm: modem not initialized")

	// ErrClosed is returned when a command is submitted after Close.
	ErrClosed = errors.New("gsm: modem closed")

	// ErrBusy is returned when the engine's command queue is full.
	ErrBusy = errors.New("gsm: command queue full")

	// ErrParameter is returned when a command-surface method is called with
	// an argument the modem could not meaningfully be asked to act on (an
	// empty recipient, an inverted phonebook range).
	ErrParameter = errors.New("gsm: invalid parameter")
)

// Status is the coarse per-command result code exposed alongside the
// detailed error: the modem answered with an error, the command timed out,
// the queue was full, or the arguments were rejected before anything was
// sent.
type Status int

const (
	StatusOK Status = iota
	StatusError
	StatusTimeout
	StatusBusy
	StatusParameter
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusError:
		return "ERROR"
	case StatusTimeout:
		return "TIMEOUT"
	case StatusBusy:
		return "BUSY"
	case StatusParameter:
		return "PARAMETER"
	default:
		return "ERROR"
	}
}

// StatusOf classifies an error returned by any command-surface method.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrBusy):
		return StatusBusy
	case errors.Is(err, ErrParameter):
		return StatusParameter
	case errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	default:
		return StatusError
	}
}
