package modem

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/arcfield/gsmmodem/at"
)

// init runs the modem's wake-up/configuration handshake directly over the
// transport, before Loop's reader goroutine exists to contend for it:
// wake-up, echo, verbose errors, SIM status/PIN, SMS text mode, in that
// order.
func (m *Modem) init(ctx context.Context) error {
	scanner := bufio.NewScanner(m.transport)
	scanner.Split(at.Splitter)

	exec := func(cmd string) ([]string, error) {
		return m.directExec(ctx, scanner, cmd)
	}

	if _, err := expectOK(exec, at.CmdAt); err != nil {
		return fmt.Errorf("modem not responding: %w", err)
	}

	if m.config.EchoOn {
		_, _ = exec("ATE1") // best effort
	} else if _, err := expectOK(exec, at.CmdEchoOff); err != nil {
		return fmt.Errorf("disable echo: %w", err)
	}

	_, _ = exec(at.CmdVerboseErrors) // ignore failure: not all modems support it

	lines, err := exec(at.CmdSimStatus)
	if err != nil {
		return fmt.Errorf("query SIM status: %w", err)
	}
	status := strings.Join(lines, "\n")

	switch {
	case strings.Contains(status, "READY"):
		// OK

	case strings.Contains(status, "SIM PIN"):
		if m.config.SimPIN == "" {
			return ErrSIMPinRequired
		}
		if _, err := expectOK(exec, fmt.Sprintf(`AT+CPIN="%s"`, m.config.SimPIN)); err != nil {
			return fmt.Errorf("enter SIM PIN: %w", err)
		}
		if err := m.waitForSIMReady(ctx, exec); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unsupported SIM state: %q", status)
	}

	if _, err := expectOK(exec, at.CmdSetTextMode); err != nil {
		return fmt.Errorf("set SMS text mode: %w", err)
	}

	return nil
}

func expectOK(exec func(string) ([]string, error), cmd string) ([]string, error) {
	lines, err := exec(cmd)
	if err != nil {
		return lines, err
	}
	for _, l := range lines {
		if l == at.OK {
			return lines, nil
		}
	}
	return lines, fmt.Errorf("unexpected response: %q", strings.Join(lines, "\n"))
}

func (m *Modem) waitForSIMReady(ctx context.Context, exec func(string) ([]string, error)) error {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("SIM not ready: %w", ctx.Err())
		case <-ticker.C:
			lines, err := exec(at.CmdSimStatus)
			if err != nil {
				continue
			}
			if strings.Contains(strings.Join(lines, "\n"), "READY") {
				return nil
			}
		}
	}
}

// directExec writes cmd and reads tokens until a final result code,
// bypassing the engine's channels. Used only during init, before Loop has
// started a reader goroutine to contend for the transport.
func (m *Modem) directExec(ctx context.Context, scanner *bufio.Scanner, cmd string) ([]string, error) {
	wire := strings.TrimSpace(cmd) + "\r"
	if _, err := io.WriteString(m.transport, wire); err != nil {
		return nil, fmt.Errorf("write command %q: %w", cmd, err)
	}

	var lines []string
	for {
		select {
		case <-ctx.Done():
			return lines, ctx.Err()
		default:
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return lines, err
			}
			return lines, io.EOF
		}
		token := strings.TrimSpace(scanner.Text())
		if token == "" {
			continue
		}
		if m.config.EchoOn && token == strings.TrimSpace(cmd) {
			continue
		}

		switch at.Classify(token) {
		case at.TypeFinal:
			lines = append(lines, token)
			if token == at.OK {
				return lines, nil
			}
			return lines, fmtError(token)
		case at.TypePrompt:
			lines = append(lines, token)
			return lines, nil
		default:
			lines = append(lines, token)
		}
	}
}

func fmtError(token string) error { return fmt.Errorf("%s", token) }
