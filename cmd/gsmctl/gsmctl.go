// gsmctl drives a GSM modem from the command line: registration and
// operator queries, network scans, voice calls, SMS and phonebook
// operations. One subcommand per driver operation.
//
//	gsmctl -d /dev/ttyUSB0 status
//	gsmctl send +15551234 "hello from gsmctl"
//	gsmctl pb 1 99
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/arcfield/gsmmodem/enum"
	"github.com/arcfield/gsmmodem/gsmstate"
	"github.com/arcfield/gsmmodem/modem"
)

func main() {
	dev := flag.String("d", "/dev/ttyUSB0", "path to modem device")
	baud := flag.Int("b", 115200, "baud rate")
	timeout := flag.Duration("t", 5*time.Second, "command timeout period")
	pin := flag.String("pin", "", "SIM PIN, if the card requires one")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cfg, err := modem.NewConfigBuilder().
		WithDialer(modem.SerialDialer{PortName: *dev, BaudRate: *baud}).
		WithSimPIN(*pin).
		WithATTimeout(*timeout).
		Build()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	m, err := modem.New(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() { _ = m.Loop(loopCtx) }()

	args := flag.Args()
	if err := run(ctx, m, args[0], args[1:]); err != nil {
		log.Fatalf("%s: %v [%v]", args[0], err, modem.StatusOf(err))
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: gsmctl [flags] <command> [args]

commands:
  status                      SIM state and network registration
  operator                    currently selected operator
  scan                        scan for available operators
  dial <number>               place a voice call
  hangup                      terminate the active call
  calls                       list current calls
  send <number> <message>     send a text-mode SMS
  read <position>             read a stored SMS
  list [status]               list stored SMS (default "ALL")
  mem <name>                  select SMS storage, e.g. SM or ME
  pb [start [end]]            dump phonebook entries (default 1 99)
  pbfind <pattern>            find phonebook entries by name
  pbwrite <number> <name>     store a phonebook entry

flags:
`)
	flag.PrintDefaults()
}

func run(ctx context.Context, m *modem.Modem, cmd string, args []string) error {
	switch cmd {
	case "status":
		sim, err := m.SimStatus(ctx)
		if err != nil {
			return err
		}
		reg, err := m.Registration(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("sim: %v\nregistration: %d (registered=%v)\n", sim, reg, reg.Registered())
		return nil

	case "operator":
		op, err := m.Operator(ctx)
		if err != nil {
			return err
		}
		fmt.Println(operatorString(op))
		return nil

	case "scan":
		ops, err := m.ScanOperators(ctx, 16)
		if err != nil {
			return err
		}
		for _, op := range ops {
			fmt.Printf("%d %-16s %-8s %05d\n", op.Status, op.LongName, op.ShortName, op.Numeric)
		}
		return nil

	case "dial":
		if len(args) != 1 {
			return fmt.Errorf("dial takes exactly one number")
		}
		return m.Dial(ctx, args[0])

	case "hangup":
		return m.Hangup(ctx)

	case "calls":
		call, err := m.CallStatus(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("id=%d dir=%d state=%d number=%s name=%q\n",
			call.ID, call.Direction, call.State, call.Number, call.Name)
		return nil

	case "send":
		if len(args) != 2 {
			return fmt.Errorf("send takes a number and a message")
		}
		ref, err := m.SendSMS(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("sent, ref %d\n", ref)
		return nil

	case "read":
		if len(args) != 1 {
			return fmt.Errorf("read takes a storage position")
		}
		pos, err := strconv.Atoi(args[0])
		if err != nil {
			return err
		}
		entry, err := m.ReadSMS(ctx, pos)
		if err != nil {
			return err
		}
		printEntry(entry)
		return nil

	case "list":
		status := "ALL"
		if len(args) > 0 {
			status = args[0]
		}
		entries, err := m.ListSMS(ctx, status, 32)
		if err != nil {
			return err
		}
		for _, e := range entries {
			printEntry(e)
		}
		return nil

	case "mem":
		if len(args) != 1 {
			return fmt.Errorf("mem takes a storage name")
		}
		pools, err := m.SelectSMSMemory(ctx, args[0])
		if err != nil {
			return err
		}
		for i, p := range pools {
			fmt.Printf("slot %d: %v %d/%d\n", i, p.Current, p.Used, p.Total)
		}
		return nil

	case "pb":
		start, end := 1, 99
		var err error
		if len(args) > 0 {
			if start, err = strconv.Atoi(args[0]); err != nil {
				return err
			}
		}
		if len(args) > 1 {
			if end, err = strconv.Atoi(args[1]); err != nil {
				return err
			}
		}
		entries, err := m.ReadPhonebook(ctx, start, end)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%3d %-16s %s\n", e.Position, e.Name, e.Number)
		}
		return nil

	case "pbfind":
		if len(args) != 1 {
			return fmt.Errorf("pbfind takes a search pattern")
		}
		entries, err := m.FindPhonebook(ctx, args[0], 16)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%3d %-16s %s\n", e.Position, e.Name, e.Number)
		}
		return nil

	case "pbwrite":
		if len(args) != 2 {
			return fmt.Errorf("pbwrite takes a number and a name")
		}
		numType := enum.NumberUnknown
		if strings.HasPrefix(args[0], "+") {
			numType = enum.NumberInternational
		}
		return m.WritePhonebook(ctx, 0, args[0], numType, args[1])

	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func operatorString(op gsmstate.Operator) string {
	switch op.Format {
	case enum.OperatorLongName:
		return op.LongName
	case enum.OperatorShortName:
		return op.ShortName
	case enum.OperatorNumber:
		return fmt.Sprintf("%05d", op.Numeric)
	default:
		return "(none)"
	}
}

func printEntry(e gsmstate.SmsEntry) {
	fmt.Printf("%3d [%v] %s %04d-%02d-%02d %02d:%02d:%02d\n    %s\n",
		e.Position, e.Memory, e.Number, e.Year, e.Month, e.Day, e.Hour, e.Min, e.Sec, e.Body)
}
