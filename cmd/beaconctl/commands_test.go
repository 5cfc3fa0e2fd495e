//go:build !(rp2040 || rp2350)

package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"beacon-go/services/usbctl"
)

func newSimConsole(t *testing.T) (*console, *simDevice, *bytes.Buffer) {
	t.Helper()
	dev, err := startSim(io.Discard)
	if err != nil {
		t.Fatalf("startSim: %v", err)
	}
	t.Cleanup(func() {
		if err := dev.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	out := &bytes.Buffer{}
	return &console{c: usbctl.NewClient(dev.host), out: out}, dev, out
}

func TestConsoleCommands(t *testing.T) {
	k, dev, out := newSimConsole(t)

	for _, c := range []struct {
		line string
		want string
	}{
		{"get clk0_drive", "clk0_drive (11) = 0 [OK]\n"},
		{"freq 14097100", "clk0 frequency = 14097100 Hz\n"},
		{"get 9", "clk0_freq_hi (9) = 215 [OK]\n"},
		{"enable on", "clk0_enable (10) = 1 [OK]\n"},
		{"drive 8", "clk0_drive (11) = 3 [OK]\n"},
		{"corr -1.5", "freq_corr (1) = 65521 [OK]\n"},
		{"led on", "led (0) = 1 [OK]\n"},
		{"set clk0_drive 4", "clk0_drive (11) = 0 [ERROR]\n"},
		{"get 0x05", "unknown (5) = 0 [ERROR]\n"},
		{"raw 7 0 0", "reply (0 bytes): \n"},
		{"raw 0 11 0", "reply (4 bytes): 03 00 00 00\n"},
		{"# comment only", ""},
		{"", ""},
	} {
		out.Reset()
		if err := k.exec(c.line); err != nil {
			t.Fatalf("%q: %v", c.line, err)
		}
		if out.String() != c.want {
			t.Fatalf("%q printed %q, want %q", c.line, out.String(), c.want)
		}
	}

	if !dev.board.LEDs.On() {
		t.Fatal("LED not lit")
	}
	if got := dev.board.Synth.Registers[3]; got != 0xFE {
		t.Fatalf("synth output enable = %#x", got)
	}
	if got := dev.board.Synth.Registers[16] & 0x03; got != 0x03 {
		t.Fatalf("synth drive bits = %#x", got)
	}
}

func TestConsoleRejects(t *testing.T) {
	k, _, _ := newSimConsole(t)
	for _, line := range []string{
		"bogus",
		"get",
		"get nosuchreg",
		"set led",
		"drive 3",
		"drive 10",
		"drive 0",
		"enable maybe",
		"freq -1",
		"corr 9999",
		`get "unterminated`,
	} {
		if err := k.exec(line); err == nil {
			t.Fatalf("%q accepted", line)
		}
	}
	if err := k.exec("quit"); err != errQuit {
		t.Fatalf("quit = %v", err)
	}
}

func TestConsoleDumpAndHelp(t *testing.T) {
	k, _, out := newSimConsole(t)
	if err := k.exec("dump"); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(out.String(), "[OK]"); n != 6 {
		t.Fatalf("dump printed %d registers:\n%s", n, out.String())
	}
	out.Reset()
	if err := k.exec("help"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "freq <hz>") || !strings.Contains(out.String(), "clk0_freq_hi") {
		t.Fatalf("help = %q", out.String())
	}
}

func TestSimWatchPrintsEvents(t *testing.T) {
	k, dev, _ := newSimConsole(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := &syncBuffer{}
	dev.watch(ctx, w)
	if err := k.exec("led on"); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(w.String(), "event beacon/reg/led = 1") {
		if time.Now().After(deadline) {
			t.Fatalf("events = %q", w.String())
		}
		time.Sleep(5 * time.Millisecond)
	}
}
