// Package si5351 drives the Silicon Labs Si5351A clock generator over I²C.
//
// The driver uses a fixed frequency plan: PLLA runs at 800 MHz, derived from
// the (optionally corrected) crystal reference, and every output takes its
// frequency from a fractional multisynth divider on PLLA. Outputs below
// 500 kHz add an R divider.
//
//	d := si5351.New(machine.I2C0, si5351.DefaultConfig())
//	err := d.Configure()
//	err = d.SetFrequency(si5351.Clk0, 14_097_100)
//	err = d.OutputEnable(si5351.Clk0, true)
package si5351

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

// Clock selects one output.
type Clock uint8

const (
	Clk0 Clock = iota
	Clk1
	Clk2

	NumClocks = 3
)

// Drive is the output driver current.
type Drive uint8

const (
	Drive2mA Drive = iota
	Drive4mA
	Drive6mA
	Drive8mA
)

// MilliAmps returns the nominal drive current.
func (d Drive) MilliAmps() uint8 { return (uint8(d) + 1) * 2 }

// CrystalLoad is the internal load capacitance presented to the crystal.
type CrystalLoad uint8

const (
	CrystalLoad6pF  CrystalLoad = 1 << 6
	CrystalLoad8pF  CrystalLoad = 2 << 6
	CrystalLoad10pF CrystalLoad = 3 << 6
)

// Errors returned by the driver.
var (
	ErrFrequencyRange = errors.New("si5351: frequency out of range")
	ErrNotReady       = errors.New("si5351: device not ready")
	ErrChannel        = errors.New("si5351: invalid clock")
	ErrDrive          = errors.New("si5351: invalid drive strength")
)

// Config controls the reference and boot behaviour. Zero fields take defaults.
type Config struct {
	Address     uint16
	CrystalHz   uint32      // default 25 MHz
	CrystalLoad CrystalLoad // default 8 pF
	// InitTimeout bounds the wait for SYS_INIT to clear. Default 100 ms.
	InitTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Address:     AddressDefault,
		CrystalHz:   25_000_000,
		CrystalLoad: CrystalLoad8pF,
		InitTimeout: 100 * time.Millisecond,
	}
}

// Device is an Si5351 on an I²C bus.
type Device struct {
	bus  drivers.I2C
	addr uint16
	cfg  Config

	corr int16 // tenths of a ppm
	freq [NumClocks]uint32

	// Fixed buffers to avoid per-call heap allocations.
	w [9]byte
	r [1]byte
}

// New constructs a Device. It does not touch the bus.
func New(bus drivers.I2C, cfg Config) *Device {
	def := DefaultConfig()
	if cfg.Address == 0 {
		cfg.Address = def.Address
	}
	if cfg.CrystalHz == 0 {
		cfg.CrystalHz = def.CrystalHz
	}
	if cfg.CrystalLoad == 0 {
		cfg.CrystalLoad = def.CrystalLoad
	}
	if cfg.InitTimeout <= 0 {
		cfg.InitTimeout = def.InitTimeout
	}
	return &Device{bus: bus, addr: cfg.Address, cfg: cfg}
}

// Configure waits for the device to finish its power-on calibration, then
// disables and powers down every output, sets the crystal load and locks
// PLLA to the crystal.
func (d *Device) Configure() error {
	deadline := time.Now().Add(d.cfg.InitTimeout)
	for {
		st, err := d.readReg(regDeviceStatus)
		if err != nil {
			return err
		}
		if st&statusSysInit == 0 {
			break
		}
		if time.Now().After(deadline) {
			return ErrNotReady
		}
		time.Sleep(time.Millisecond)
	}

	if err := d.writeReg(regOutputEnable, 0xFF); err != nil {
		return err
	}
	for i := 0; i < 8; i++ {
		if err := d.writeReg(regClk0Ctrl+byte(i), ctrlPowerDown); err != nil {
			return err
		}
	}
	if err := d.writeReg(regCrystalLoad, byte(d.cfg.CrystalLoad)|crystalLoadRsv); err != nil {
		return err
	}
	// Both PLLs from XTAL, no spread spectrum.
	if err := d.writeReg(regPLLInputSource, 0x00); err != nil {
		return err
	}
	if err := d.writeReg(regSpreadSpectrum, 0x00); err != nil {
		return err
	}
	return d.lockPLL()
}

// Frequency returns the last frequency programmed on clk, 0 if none.
func (d *Device) Frequency(clk Clock) uint32 {
	if clk >= NumClocks {
		return 0
	}
	return d.freq[clk]
}

// Correction returns the active reference correction in tenths of a ppm.
func (d *Device) Correction() int16 { return d.corr }

// SetFrequency programs clk's multisynth (and R divider) for hz and powers
// the output up. It does not change the output-enable state.
func (d *Device) SetFrequency(clk Clock, hz uint32) error {
	if clk >= NumClocks {
		return ErrChannel
	}
	if hz < MinFrequency || hz > MaxFrequency {
		return ErrFrequencyRange
	}
	p := planOutput(hz)
	if err := d.writeParams(regMS0+8*byte(clk), p); err != nil {
		return err
	}
	ctrl, err := d.readReg(regClk0Ctrl + byte(clk))
	if err != nil {
		return err
	}
	ctrl &= ctrlDriveMask
	ctrl |= ctrlSrcMS
	if p.b == 0 {
		ctrl |= ctrlMSInt
	}
	if err := d.writeReg(regClk0Ctrl+byte(clk), ctrl); err != nil {
		return err
	}
	d.freq[clk] = hz
	return nil
}

// OutputEnable gates clk's output. Register 3 bits are active-low.
func (d *Device) OutputEnable(clk Clock, on bool) error {
	if clk >= NumClocks {
		return ErrChannel
	}
	v, err := d.readReg(regOutputEnable)
	if err != nil {
		return err
	}
	if on {
		v &^= 1 << clk
	} else {
		v |= 1 << clk
	}
	return d.writeReg(regOutputEnable, v)
}

// DriveStrength sets clk's output current.
func (d *Device) DriveStrength(clk Clock, drv Drive) error {
	if clk >= NumClocks {
		return ErrChannel
	}
	if drv > Drive8mA {
		return ErrDrive
	}
	v, err := d.readReg(regClk0Ctrl + byte(clk))
	if err != nil {
		return err
	}
	v = v&^ctrlDriveMask | byte(drv)
	return d.writeReg(regClk0Ctrl+byte(clk), v)
}

// SetCorrection applies a reference correction in tenths of a ppm and
// relocks PLLA so running outputs follow immediately.
func (d *Device) SetCorrection(tenthsPPM int16) error {
	d.corr = tenthsPPM
	return d.lockPLL()
}

// ReferenceHz is the crystal frequency after correction.
func (d *Device) ReferenceHz() uint32 {
	x := int64(d.cfg.CrystalHz)
	return uint32(x + x*int64(d.corr)/10_000_000)
}

func (d *Device) lockPLL() error {
	if err := d.writeParams(regPLLA, planPLL(d.ReferenceHz())); err != nil {
		return err
	}
	return d.writeReg(regPLLReset, pllResetA)
}

// Register access.

func (d *Device) readReg(reg byte) (byte, error) {
	d.w[0] = reg
	if err := d.bus.Tx(d.addr, d.w[:1], d.r[:1]); err != nil {
		return 0, err
	}
	return d.r[0], nil
}

func (d *Device) writeReg(reg, val byte) error {
	d.w[0] = reg
	d.w[1] = val
	return d.bus.Tx(d.addr, d.w[:2], nil)
}

// writeParams bursts one 8-register divider block (MSNx or MSx).
func (d *Device) writeParams(base byte, p params) error {
	d.w[0] = base
	p.encode(d.w[1:9])
	return d.bus.Tx(d.addr, d.w[:9], nil)
}
