// Package config holds the per-board build configuration: synthesizer
// wiring, serial settings and the boot banner.
package config

import (
	"beacon-go/bus"
	"beacon-go/errcode"
	"beacon-go/registers"
	"beacon-go/x/mathx"
)

const configPrefix = "config"

type Config struct {
	Board string

	// Si5351 on I2C0.
	SynthAddr     uint16
	I2CFrequency  uint32 // Hz
	CrystalHz     uint32
	CrystalLoadPF uint8 // 6, 8 or 10
	BootDrive     uint8 // registers.Drive2mA..Drive8mA

	// Diagnostic console.
	UARTBaud uint32
	Banner   string

	LEDPin uint8

	// Status line period on the console; 0 disables it.
	HeartbeatSeconds uint32
}

// DefaultConfig matches the reference board: Si5351A at 0x60 with a 25 MHz
// crystal on 8 pF, CLK0 at 2 mA.
func DefaultConfig() Config {
	return Config{
		Board:         "pico",
		SynthAddr:     0x60,
		I2CFrequency:  100_000,
		CrystalHz:     25_000_000,
		CrystalLoadPF: 8,
		BootDrive:     registers.Drive2mA,
		UARTBaud:      115200,
		Banner:        "WSPR Beacon by OE5TKM",
		LEDPin:        25,

		HeartbeatSeconds: 10,
	}
}

func invalid(msg string) error {
	return &errcode.E{C: errcode.InvalidConfig, Op: "config.Validate", Msg: msg}
}

// Validate reports the first setting the hardware cannot honour.
func (c Config) Validate() error {
	switch {
	case !mathx.Between(int(c.SynthAddr), 0x08, 0x77):
		return invalid("synth address outside 7-bit range")
	case !mathx.Between(int64(c.CrystalHz), 10_000_000, 40_000_000):
		return invalid("crystal frequency")
	case c.CrystalLoadPF != 6 && c.CrystalLoadPF != 8 && c.CrystalLoadPF != 10:
		return invalid("crystal load must be 6, 8 or 10 pF")
	case c.BootDrive > registers.MaxDrive:
		return invalid("boot drive level")
	case c.I2CFrequency == 0:
		return invalid("i2c frequency")
	case c.UARTBaud == 0:
		return invalid("baud rate")
	}
	return nil
}

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(board string) (Config, bool) {
	c, ok := embeddedConfigs[board]
	return c, ok
}

// Lookup returns the validated configuration for board.
func Lookup(board string) (Config, error) {
	c, ok := EmbeddedConfigLookup(board)
	if !ok {
		return Config{}, &errcode.E{C: errcode.InvalidConfig, Op: "config.Lookup", Msg: "no embedded config for board: " + board}
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Publish places each setting on the bus as a retained config/<key> message.
func Publish(conn *bus.Connection, c Config) {
	for _, kv := range [...]struct {
		k string
		v any
	}{
		{"board", c.Board},
		{"synth_addr", c.SynthAddr},
		{"i2c_hz", c.I2CFrequency},
		{"xtal_hz", c.CrystalHz},
		{"xtal_load_pf", c.CrystalLoadPF},
		{"boot_drive_ma", registers.DriveMilliAmps(c.BootDrive)},
		{"uart_baud", c.UARTBaud},
		{"banner", c.Banner},
		{"heartbeat_s", c.HeartbeatSeconds},
	} {
		conn.Publish(&bus.Message{Topic: bus.T(configPrefix, kv.k), Payload: kv.v, Retained: true})
	}
}
