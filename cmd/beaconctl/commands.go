//go:build !(rp2040 || rp2350)

package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"beacon-go/bus"
	"beacon-go/registers"
	"beacon-go/services/control"
	"beacon-go/services/usbctl"

	"github.com/google/shlex"
)

var errQuit = errors.New("quit")

type command struct {
	name  string
	usage string
	nargs int
	run   func(k *console, args []string) error
}

var commands []command

func init() {
	commands = []command{
		{"get", "get <reg>", 1, (*console).get},
		{"set", "set <reg> <value>", 2, (*console).set},
		{"freq", "freq <hz>", 1, (*console).freq},
		{"enable", "enable on|off", 1, (*console).enable},
		{"drive", "drive 2|4|6|8", 1, (*console).drive},
		{"corr", "corr <ppm>", 1, (*console).corr},
		{"led", "led on|off", 1, (*console).led},
		{"raw", "raw <kind> <addr> <value>", 3, (*console).raw},
		{"dump", "dump", 0, (*console).dump},
		{"help", "help", 0, (*console).help},
		{"quit", "quit", 0, func(*console, []string) error { return errQuit }},
	}
}

// console runs text commands against a device client.
type console struct {
	c   *usbctl.Client
	out io.Writer
}

// exec runs one command line. Blank lines and # comments are ignored.
func (k *console) exec(line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	for _, cmd := range commands {
		if cmd.name != args[0] {
			continue
		}
		if len(args)-1 != cmd.nargs {
			return fmt.Errorf("usage: %s", cmd.usage)
		}
		return cmd.run(k, args[1:])
	}
	return fmt.Errorf("unknown command %q (try help)", args[0])
}

func parseReg(s string) (registers.Register, error) {
	if r, ok := registers.ByName(s); ok {
		return r, nil
	}
	n, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return registers.Register{}, fmt.Errorf("unknown register %q", s)
	}
	if r, ok := registers.Lookup(registers.Address(n)); ok {
		return r, nil
	}
	// Unknown addresses still go to the device.
	return registers.Register{Addr: registers.Address(n), Name: registers.Address(n).String()}, nil
}

func parseU16(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 0, 16)
	return uint16(n), err
}

func parseOnOff(s string) (uint16, error) {
	switch s {
	case "on", "1", "true":
		return 1, nil
	case "off", "0", "false":
		return 0, nil
	}
	return 0, fmt.Errorf("want on or off, got %q", s)
}

func (k *console) show(r registers.Register, resp control.Response) {
	fmt.Fprintf(k.out, "%s (%d) = %d [%s]\n", r.Name, r.Addr, resp.Value, resp.Status)
}

func (k *console) write(a registers.Address, v uint16) error {
	r, _ := registers.Lookup(a)
	resp, err := k.c.Set(a, v)
	if err != nil {
		return err
	}
	k.show(r, resp)
	return nil
}

func (k *console) get(args []string) error {
	r, err := parseReg(args[0])
	if err != nil {
		return err
	}
	resp, err := k.c.Get(r.Addr)
	if err != nil {
		return err
	}
	k.show(r, resp)
	return nil
}

func (k *console) set(args []string) error {
	r, err := parseReg(args[0])
	if err != nil {
		return err
	}
	v, err := parseU16(args[1])
	if err != nil {
		return err
	}
	resp, err := k.c.Set(r.Addr, v)
	if err != nil {
		return err
	}
	k.show(r, resp)
	return nil
}

func (k *console) freq(args []string) error {
	hz, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return err
	}
	if err := k.c.SetFrequency(uint32(hz)); err != nil {
		return err
	}
	fmt.Fprintf(k.out, "clk0 frequency = %d Hz\n", hz)
	return nil
}

func (k *console) enable(args []string) error {
	v, err := parseOnOff(args[0])
	if err != nil {
		return err
	}
	return k.write(registers.AddrClk0Enable, v)
}

func (k *console) led(args []string) error {
	v, err := parseOnOff(args[0])
	if err != nil {
		return err
	}
	return k.write(registers.AddrLED, v)
}

func (k *console) drive(args []string) error {
	ma, err := strconv.ParseUint(args[0], 10, 8)
	if err != nil || ma < 2 || ma > 8 || ma%2 != 0 {
		return fmt.Errorf("drive must be 2, 4, 6 or 8 mA")
	}
	return k.write(registers.AddrClk0Drive, uint16(ma/2-1))
}

// corr takes a correction in ppm with one decimal, e.g. -1.5.
func (k *console) corr(args []string) error {
	ppm, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return err
	}
	tenths := math.Round(ppm * 10)
	if tenths < math.MinInt16 || tenths > math.MaxInt16 {
		return fmt.Errorf("correction %s ppm out of range", args[0])
	}
	return k.write(registers.AddrFreqCorrection, uint16(int16(tenths)))
}

func (k *console) raw(args []string) error {
	kind, err := strconv.ParseUint(args[0], 0, 8)
	if err != nil {
		return err
	}
	addr, err := parseU16(args[1])
	if err != nil {
		return err
	}
	v, err := parseU16(args[2])
	if err != nil {
		return err
	}
	p, err := k.c.Raw(uint8(kind), addr, v)
	if err != nil {
		return err
	}
	fmt.Fprintf(k.out, "reply (%d bytes): % X\n", len(p), p)
	return nil
}

func (k *console) dump([]string) error {
	for _, r := range registers.All() {
		resp, err := k.c.Get(r.Addr)
		if err != nil {
			return err
		}
		k.show(r, resp)
	}
	return nil
}

func (k *console) help([]string) error {
	for _, cmd := range commands {
		fmt.Fprintf(k.out, "  %s\n", cmd.usage)
	}
	fmt.Fprintf(k.out, "registers:")
	for _, r := range registers.All() {
		fmt.Fprintf(k.out, " %s", r.Name)
	}
	fmt.Fprintln(k.out)
	return nil
}

func printEvent(w io.Writer, m *bus.Message) {
	fmt.Fprintf(w, "event %s = %v\n", m.Topic.String(), m.Payload)
}
