//go:build !(rp2040 || rp2350)

// beaconctl talks to the beacon's control channel, either on a serial
// port or to an in-process simulated device.
//
//	beaconctl -port /dev/ttyACM0
//	beaconctl -sim -e "freq 14097100; enable on; dump"
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"beacon-go/services/usbctl"

	"golang.org/x/term"
)

func main() {
	port := flag.String("port", "", "serial device of the beacon control channel")
	sim := flag.Bool("sim", false, "run against a simulated beacon")
	script := flag.String("e", "", "semicolon-separated commands to run, then exit")
	flag.Parse()

	if err := run(*port, *sim, *script); err != nil {
		fmt.Fprintln(os.Stderr, "beaconctl:", err)
		os.Exit(1)
	}
}

func run(port string, sim bool, script string) error {
	var rw io.ReadWriter
	switch {
	case sim:
		dev, err := startSim(os.Stderr)
		if err != nil {
			return err
		}
		defer dev.Close()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		dev.watch(ctx, os.Stderr)
		rw = dev.host
	case port != "":
		f, err := os.OpenFile(port, os.O_RDWR, 0)
		if err != nil {
			return err
		}
		defer f.Close()
		// USB-CDC ignores line settings; raw mode only stops the tty
		// line discipline from rewriting frame bytes.
		if fd := int(f.Fd()); term.IsTerminal(fd) {
			st, err := term.MakeRaw(fd)
			if err != nil {
				return err
			}
			defer term.Restore(fd, st)
		}
		rw = f
	default:
		return errors.New("need -port or -sim")
	}

	k := &console{c: usbctl.NewClient(rw), out: os.Stdout}
	if script != "" {
		for _, line := range strings.Split(script, ";") {
			if err := k.exec(line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				return err
			}
		}
		return nil
	}
	return repl(k, os.Stdin)
}

// repl reads commands until EOF or quit. The prompt is shown only when
// stdin is a terminal.
func repl(k *console, in *os.File) error {
	interactive := term.IsTerminal(int(in.Fd()))
	sc := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(k.out, "beacon> ")
		}
		if !sc.Scan() {
			return sc.Err()
		}
		err := k.exec(sc.Text())
		switch {
		case errors.Is(err, errQuit):
			return nil
		case err != nil && interactive:
			fmt.Fprintln(k.out, "error:", err)
		case err != nil:
			return err
		}
	}
}
