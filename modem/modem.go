// Package modem implements the command queue and execution engine (C5):
// the three-goroutine concurrency model of a UART reader, a single engine
// goroutine owning gsmstate.State and command serialization, and caller
// goroutines submitting commands through a bounded mailbox.
package modem

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/arcfield/gsmmodem/at"
	"github.com/arcfield/gsmmodem/event"
	"github.com/arcfield/gsmmodem/gsmstate"
)

// Modem is a GSM modem connection: the device state, the event dispatcher,
// and the goroutines and channels that serialize AT command execution over
// a Transport.
type Modem struct {
	config    Config
	transport Transport

	state *gsmstate.State
	disp  *event.Dispatcher

	cmdCh      chan *cmdRequest
	internalCh chan *cmdRequest
	lineCh     chan string

	closeOnce sync.Once
	closed    chan struct{}
}

// cmdRequest is one command submitted to the engine: the wire line to send,
// the identifier used to recognize its own info lines, the in-flight
// descriptor to install while it runs, an optional second-stage body (for
// the +CMGS prompt/body exchange), and a per-command timeout.
type cmdRequest struct {
	line     string
	cmdID    string
	kind     gsmstate.CommandKind
	inflight *gsmstate.InFlight
	body     string
	timeout  time.Duration
	reply    chan cmdReply
}

type cmdReply struct {
	err error
}

func newCmdRequest(line string, kind gsmstate.CommandKind, inflight *gsmstate.InFlight, timeout time.Duration) *cmdRequest {
	return &cmdRequest{
		line:     line,
		cmdID:    at.ParseCmdID(line),
		kind:     kind,
		inflight: inflight,
		timeout:  timeout,
		reply:    make(chan cmdReply, 1),
	}
}

// New dials the configured Transport and runs the modem's initialization
// handshake synchronously: wake-up, echo-off, verbose errors, SIM status
// (entering a PIN if configured), and SMS text mode. It does not start the
// engine — call Loop in its own goroutine once New returns.
func New(ctx context.Context, config Config) (*Modem, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	config.setDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}

	transport, err := config.Dialer.Dial(ctx)
	if err != nil {
		return nil, err
	}

	m := &Modem{
		config:     config,
		transport:  transport,
		state:      gsmstate.New(),
		disp:       event.NewDispatcher(),
		cmdCh:      make(chan *cmdRequest, config.QueueDepth),
		internalCh: make(chan *cmdRequest, 4),
		lineCh:     make(chan string, 32),
		closed:     make(chan struct{}),
	}

	initCtx := ctx
	if m.config.InitTimeout > 0 {
		var cancel context.CancelFunc
		initCtx, cancel = context.WithTimeout(ctx, m.config.InitTimeout)
		defer cancel()
	}

	if err := m.init(initCtx); err != nil {
		transport.Close()
		return nil, fmt.Errorf("initialize modem: %w", err)
	}

	return m, nil
}

// Events returns the dispatcher callers use to subscribe to CPIN, call,
// and SMS notifications (event.Dispatcher.SetCallback).
func (m *Modem) Events() *event.Dispatcher { return m.disp }

// State returns a consistent snapshot of the modem's current device state.
func (m *Modem) State() gsmstate.State { return m.state.Snapshot() }

// Close stops accepting new commands and closes the underlying transport,
// which unblocks Loop's reader goroutine.
func (m *Modem) Close() error {
	m.closeOnce.Do(func() { close(m.closed) })
	return m.transport.Close()
}

// Loop runs the reader goroutine and the engine goroutine until ctx is
// canceled or the transport is closed, and must be run by the caller in its
// own goroutine after New returns. It returns the first error from either
// goroutine — context.Canceled or io.EOF on an ordinary shutdown.
func (m *Modem) Loop(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		scanner := bufio.NewScanner(m.transport)
		scanner.Split(at.Splitter)
		for scanner.Scan() {
			line := scanner.Text()
			// The SMS prompt token is all there is of its "line"; trimming it
			// would make it unrecognizable to Classify.
			if line != at.Prompt {
				line = strings.TrimSpace(line)
			}
			if line == "" {
				continue
			}
			select {
			case m.lineCh <- line:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		if err := scanner.Err(); err != nil {
			return err
		}
		return io.EOF
	})

	g.Go(func() error {
		return m.runEngine(gctx)
	})

	return g.Wait()
}

// runEngine is the single engine goroutine: it owns
// gsmstate.State and serializes command execution, draining the caller
// mailbox (cmdCh) and the engine's own follow-up queue (internalCh)
// alongside incoming lines.
func (m *Modem) runEngine(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.closed:
			return nil
		case line := <-m.lineCh:
			m.routeLine("", line)
		case req := <-m.internalCh:
			m.handleRequest(ctx, req)
		case req := <-m.cmdCh:
			m.handleRequest(ctx, req)
		}
	}
}

// handleRequest drives one command end to end: installs the in-flight
// descriptor, writes the command line, and processes lines until a final
// result code, the +CMGS prompt/body handoff, the per-command timeout, or
// shutdown.
func (m *Modem) handleRequest(ctx context.Context, req *cmdRequest) {
	var reqErr error
	defer func() {
		m.state.Lock()
		m.state.Msg = nil
		m.state.Unlock()
		select {
		case req.reply <- cmdReply{err: reqErr}:
		default:
		}
	}()

	m.state.Lock()
	m.state.Msg = req.inflight
	m.state.Unlock()

	if _, err := io.WriteString(m.transport, req.line+"\r"); err != nil {
		reqErr = errors.WithMessagef(err, "write command %q", req.line)
		return
	}

	timeout := req.timeout
	if timeout <= 0 {
		timeout = m.config.ATTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	// cmglPending tracks a +CMGL (or +CMGR) header whose body line
	// (text-mode only) is expected to be the very next raw line.
	var cmglPending *gsmstate.SmsEntry

	for {
		select {
		case <-ctx.Done():
			reqErr = ctx.Err()
			return
		case <-m.closed:
			reqErr = ErrClosed
			return
		case <-timer.C:
			reqErr = context.DeadlineExceeded
			return
		case line := <-m.lineCh:
			if cmglPending != nil {
				// An empty body line is dropped by the reader, so the next
				// line may instead be the next entry header or the final
				// result code. The header entry stands either way.
				if at.Classify(line) == at.TypeFinal || strings.HasPrefix(line, at.PrefixCMGL) {
					if m.state.Msg != nil && m.state.Msg.CMGL != nil {
						m.state.Msg.CMGL.EI++
					}
					cmglPending = nil
				} else {
					cmglPending.Body = line
					if m.state.Msg != nil && m.state.Msg.CMGL != nil {
						m.state.Msg.CMGL.EI++
					}
					cmglPending = nil
					continue
				}
			}

			isCMGLHeader := m.routeLine(req.cmdID, line)
			if isCMGLHeader && req.kind == gsmstate.CmdCMGL {
				if m.state.Msg != nil && m.state.Msg.CMGL != nil {
					ei := m.state.Msg.CMGL.EI
					if ei < len(m.state.Msg.CMGL.Entries) {
						cmglPending = &m.state.Msg.CMGL.Entries[ei]
					}
				}
				continue
			}
			if req.kind == gsmstate.CmdCMGR && strings.HasPrefix(line, at.PrefixCMGR) &&
				m.state.Msg != nil && m.state.Msg.CMGR != nil {
				cmglPending = m.state.Msg.CMGR.Entry
				continue
			}

			switch at.Classify(line) {
			case at.TypePrompt:
				if req.body == "" {
					continue
				}
				if _, err := io.WriteString(m.transport, req.body+at.CtrlZ+"\r"); err != nil {
					reqErr = errors.WithMessage(err, "write SMS body")
					return
				}
			case at.TypeFinal:
				if line != at.OK {
					reqErr = errors.New(line)
				}
				return
			default:
				continue
			}
		}
	}
}

// submit enqueues req on the caller mailbox, reporting ErrBusy immediately
// if it is full, and blocks for the command's result.
func (m *Modem) submit(ctx context.Context, req *cmdRequest) error {
	select {
	case <-m.closed:
		return ErrClosed
	default:
	}

	select {
	case m.cmdCh <- req:
	default:
		return ErrBusy
	}

	select {
	case reply := <-req.reply:
		return reply.err
	case <-ctx.Done():
		return ctx.Err()
	case <-m.closed:
		return ErrClosed
	}
}

// enqueueInternal is a non-blocking attempt to schedule a follow-up command
// generated by the engine itself (an operator refresh after +CREG
// registers, a SIM-info refresh after +CPIN becomes READY). It reports
// false — the follow-up stays pending — if the small internal queue is
// already full.
func (m *Modem) enqueueInternal(req *cmdRequest) bool {
	select {
	case m.internalCh <- req:
		return true
	default:
		return false
	}
}

func (m *Modem) enqueueOperatorQuery() bool {
	return m.enqueueInternal(newCmdRequest("AT+COPS?", gsmstate.CmdCOPSGet,
		&gsmstate.InFlight{Kind: gsmstate.CmdCOPSGet, COPSGet: &gsmstate.COPSGetRequest{}}, m.config.ATTimeout))
}

// enqueueSimInfo refreshes the SMS storage occupancy once the SIM reports
// READY. Deliberately not another +CPIN? — that would re-trigger itself on
// every READY response.
func (m *Modem) enqueueSimInfo() bool {
	return m.enqueueInternal(newCmdRequest("AT+CPMS?", gsmstate.CmdCPMS,
		&gsmstate.InFlight{Kind: gsmstate.CmdCPMS, CPMS: &gsmstate.CPMSRequest{Mode: 1}}, m.config.ATTimeout))
}
