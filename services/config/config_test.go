package config

import (
	"testing"
	"time"

	"beacon-go/bus"
	"beacon-go/errcode"
)

func TestDefaultConfigIsValid(t *testing.T) {
	c := DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if c.SynthAddr != 0x60 || c.CrystalHz != 25_000_000 || c.CrystalLoadPF != 8 {
		t.Fatalf("unexpected synth defaults: %+v", c)
	}
	if c.Banner != "WSPR Beacon by OE5TKM" {
		t.Fatalf("banner = %q", c.Banner)
	}
}

func TestValidateRejects(t *testing.T) {
	for name, mut := range map[string]func(*Config){
		"address":  func(c *Config) { c.SynthAddr = 0x80 },
		"crystal":  func(c *Config) { c.CrystalHz = 1_000_000 },
		"load":     func(c *Config) { c.CrystalLoadPF = 7 },
		"drive":    func(c *Config) { c.BootDrive = 4 },
		"i2c":      func(c *Config) { c.I2CFrequency = 0 },
		"uartBaud": func(c *Config) { c.UARTBaud = 0 },
	} {
		c := DefaultConfig()
		mut(&c)
		if err := c.Validate(); errcode.Of(err) != errcode.InvalidConfig {
			t.Fatalf("%s: err = %v", name, err)
		}
	}
}

func TestLookup(t *testing.T) {
	for _, board := range []string{"pico", "host"} {
		c, err := Lookup(board)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", board, err)
		}
		if c.Board != board {
			t.Fatalf("Lookup(%q).Board = %q", board, c.Board)
		}
	}
	if _, err := Lookup("esp32"); errcode.Of(err) != errcode.InvalidConfig {
		t.Fatalf("unknown board: err = %v", err)
	}

	old := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(string) (Config, bool) {
		c := DefaultConfig()
		c.CrystalLoadPF = 0
		return c, true
	}
	t.Cleanup(func() { EmbeddedConfigLookup = old })
	if _, err := Lookup("pico"); errcode.Of(err) != errcode.InvalidConfig {
		t.Fatalf("invalid embedded config accepted: %v", err)
	}
}

func TestPublishRetained(t *testing.T) {
	b := bus.NewBus(16)
	conn := b.NewConnection("test-config")
	Publish(conn, DefaultConfig())

	sub := conn.Subscribe(bus.T(configPrefix, "#"))
	got := map[string]any{}
	deadline := time.After(time.Second)
	for len(got) < 9 {
		select {
		case m := <-sub.Channel():
			got[m.Topic[1]] = m.Payload
		case <-deadline:
			t.Fatalf("got %d retained messages: %v", len(got), got)
		}
	}
	select {
	case m := <-sub.Channel():
		t.Fatalf("unexpected extra setting %s", m.Topic.String())
	default:
	}
	if v, ok := got["banner"].(string); !ok || v != "WSPR Beacon by OE5TKM" {
		t.Fatalf("banner payload = %#v", got["banner"])
	}
	if v, ok := got["boot_drive_ma"].(uint8); !ok || v != 2 {
		t.Fatalf("boot_drive_ma payload = %#v", got["boot_drive_ma"])
	}
}
