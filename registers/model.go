// Package registers holds the device register model: the authoritative
// in-memory state behind every address exposed on the control channel.
//
// A Model is constructed once at boot and owned by the caller; the control
// dispatcher receives it by pointer on every request. It is not safe for
// concurrent use. The control channel delivers one request at a time.
package registers

import (
	"beacon-go/errcode"
	"beacon-go/x/mathx"
)

// MaxOutputs is the number of output channels the model reserves.
// Only channel 0 is present in the address table.
const MaxOutputs = 3

// Drive strength levels (2, 4, 6, 8 mA).
const (
	Drive2mA uint8 = iota
	Drive4mA
	Drive6mA
	Drive8mA

	MaxDrive = Drive8mA
)

// DriveMilliAmps returns the nominal current for a drive level.
func DriveMilliAmps(level uint8) uint8 { return (level + 1) * 2 }

// Synth is the clock synthesizer as seen by the model. Calls are
// synchronous; an error is reported through the model's fault hook and
// does not change the stored state or the request outcome.
type Synth interface {
	SetFrequency(ch uint8, hz uint32) error
	SetOutputEnabled(ch uint8, on bool) error
	SetDriveStrength(ch uint8, level uint8) error
	SetCorrection(tenthsPPM int16) error
}

// Indicator drives the physical LED.
type Indicator interface {
	Set(on bool)
}

// Output is the state of one synthesizer output.
type Output struct {
	Frequency uint32 // Hz; committed on high-half writes
	Enabled   bool
	Drive     uint8
}

// State is a snapshot of every register.
type State struct {
	LED        bool
	Correction int16 // tenths of a ppm
	Outputs    [MaxOutputs]Output
}

// Defaults is the power-on state.
func Defaults(drive uint8) State {
	var s State
	for i := range s.Outputs {
		s.Outputs[i].Drive = drive
	}
	return s
}

// FaultFunc receives synthesizer errors raised while applying a write.
type FaultFunc func(r Register, err error)

// Model is the device register model.
type Model struct {
	st    State
	synth Synth
	led   Indicator
	fault FaultFunc
}

// Options configure a Model. Nil collaborators are allowed.
type Options struct {
	Synth        Synth
	LED          Indicator
	DefaultDrive uint8
	OnFault      FaultFunc
}

// New returns a model initialised to the power-on defaults. An out of range
// DefaultDrive falls back to 2 mA.
func New(o Options) *Model {
	drive := o.DefaultDrive
	if !mathx.Between(drive, Drive2mA, MaxDrive) {
		drive = Drive2mA
	}
	return &Model{
		st:    Defaults(drive),
		synth: o.Synth,
		led:   o.LED,
		fault: o.OnFault,
	}
}

// State returns a copy of the current register state.
func (m *Model) State() State { return m.st }

// SetFaultHandler replaces the synthesizer fault hook.
func (m *Model) SetFaultHandler(f FaultFunc) { m.fault = f }

// Get reads a register. Unknown addresses yield errcode.UnknownRegister.
func (m *Model) Get(a Address) (uint16, error) {
	r, ok := Lookup(a)
	if !ok {
		return 0, errcode.UnknownRegister
	}
	out := &m.st.Outputs[r.Channel]
	switch r.Field {
	case FieldLED:
		return b2u(m.st.LED), nil
	case FieldCorrection:
		return uint16(m.st.Correction), nil
	case FieldFreqLow:
		return uint16(out.Frequency), nil
	case FieldFreqHigh:
		return uint16(out.Frequency >> 16), nil
	case FieldEnable:
		return b2u(out.Enabled), nil
	case FieldDrive:
		return uint16(out.Drive), nil
	}
	return 0, errcode.UnknownRegister
}

// Set writes a register and returns the value as applied (booleans are
// coerced to 0/1). Rejected writes leave all state untouched and make no
// synthesizer call.
func (m *Model) Set(a Address, v uint16) (uint16, error) {
	r, ok := Lookup(a)
	if !ok {
		return 0, errcode.UnknownRegister
	}
	out := &m.st.Outputs[r.Channel]
	switch r.Field {
	case FieldLED:
		m.st.LED = v != 0
		if m.led != nil {
			m.led.Set(m.st.LED)
		}
		return b2u(m.st.LED), nil

	case FieldCorrection:
		m.st.Correction = int16(v)
		if m.synth != nil {
			m.report(r, m.synth.SetCorrection(m.st.Correction))
		}
		return v, nil

	case FieldFreqLow:
		// Stored only; the high half commits.
		out.Frequency = out.Frequency&0xFFFF0000 | uint32(v)
		return v, nil

	case FieldFreqHigh:
		out.Frequency = out.Frequency&0x0000FFFF | uint32(v)<<16
		if m.synth != nil {
			m.report(r, m.synth.SetFrequency(r.Channel, out.Frequency))
		}
		return v, nil

	case FieldEnable:
		out.Enabled = v != 0
		if m.synth != nil {
			m.report(r, m.synth.SetOutputEnabled(r.Channel, out.Enabled))
		}
		return b2u(out.Enabled), nil

	case FieldDrive:
		if !mathx.Between(v, uint16(Drive2mA), uint16(MaxDrive)) {
			return 0, errcode.OutOfRange
		}
		out.Drive = uint8(v)
		if m.synth != nil {
			m.report(r, m.synth.SetDriveStrength(r.Channel, out.Drive))
		}
		return v, nil
	}
	return 0, errcode.UnknownRegister
}

func (m *Model) report(r Register, err error) {
	if err != nil && m.fault != nil {
		m.fault(r, errcode.Wrap(errcode.DriverFault, r.Name, err))
	}
}

func b2u(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}
