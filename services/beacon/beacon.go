// Package beacon assembles the control plane: synthesizer driver, register
// model, dispatcher and transport adapter, booted in the order the board
// expects.
package beacon

import (
	"context"
	"io"

	"beacon-go/bus"
	"beacon-go/drivers/si5351"
	"beacon-go/logsink"
	"beacon-go/registers"
	"beacon-go/services/config"
	"beacon-go/services/control"
	"beacon-go/services/usbctl"

	"tinygo.org/x/drivers"
)

// Hardware is what the platform hands to the beacon.
type Hardware struct {
	I2C drivers.I2C
	LED registers.Indicator // nil when the board has none
	Log logsink.Sink        // diagnostic console
	Bus *bus.Bus            // optional; register state and faults
}

type Beacon struct {
	cfg     config.Config
	synth   *si5351.Device
	model   *registers.Model
	disp    *control.Dispatcher
	adapter *usbctl.Adapter
	log     logsink.Sink
}

// New boots the beacon: banner, synthesizer init with the configured
// crystal load, boot drive on CLK0, then an empty register model. A
// synthesizer that fails to come up is reported and the control channel
// is still served.
func New(cfg config.Config, hw Hardware) (*Beacon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := hw.Log
	if log == nil {
		log = logsink.Discard
	}

	b := &Beacon{cfg: cfg, log: log}

	var opts []control.Option
	if hw.Bus != nil {
		opts = append(opts, control.WithBus(hw.Bus.NewConnection("beacon")))
	}
	b.disp = control.New(log, opts...)

	log.WriteLine(cfg.Banner)

	b.synth = si5351.New(hw.I2C, si5351.Config{
		Address:     cfg.SynthAddr,
		CrystalHz:   cfg.CrystalHz,
		CrystalLoad: crystalLoad(cfg.CrystalLoadPF),
	})
	if err := b.synth.Configure(); err != nil {
		logsink.Printf(log, "Synthesizer init failed: %s", err.Error())
	} else if err := b.synth.DriveStrength(si5351.Clk0, si5351.Drive(cfg.BootDrive)); err != nil {
		logsink.Printf(log, "Synthesizer init failed: %s", err.Error())
	}

	b.model = registers.New(registers.Options{
		Synth:        synth{b.synth},
		LED:          hw.LED,
		DefaultDrive: cfg.BootDrive,
		OnFault:      b.disp.Fault,
	})
	b.adapter = usbctl.NewAdapter(b.disp, b.model)
	return b, nil
}

func (b *Beacon) Config() config.Config           { return b.cfg }
func (b *Beacon) Model() *registers.Model         { return b.model }
func (b *Beacon) Synth() *si5351.Device           { return b.synth }
func (b *Beacon) Adapter() *usbctl.Adapter        { return b.adapter }
func (b *Beacon) Dispatcher() *control.Dispatcher { return b.disp }

// HandleSetup answers one raw SETUP packet.
func (b *Beacon) HandleSetup(setup []byte) []byte { return b.adapter.HandleSetup(setup) }

// Serve runs the framed control channel on rw until ctx ends or the
// stream closes.
func (b *Beacon) Serve(ctx context.Context, rw io.ReadWriter) error {
	return usbctl.NewEndpoint(rw, b.adapter).Serve(ctx)
}

func crystalLoad(pf uint8) si5351.CrystalLoad {
	switch pf {
	case 6:
		return si5351.CrystalLoad6pF
	case 10:
		return si5351.CrystalLoad10pF
	}
	return si5351.CrystalLoad8pF
}

// synth binds the driver to the model's channel/level vocabulary.
type synth struct{ d *si5351.Device }

func (s synth) SetFrequency(ch uint8, hz uint32) error {
	return s.d.SetFrequency(si5351.Clock(ch), hz)
}

func (s synth) SetOutputEnabled(ch uint8, on bool) error {
	return s.d.OutputEnable(si5351.Clock(ch), on)
}

func (s synth) SetDriveStrength(ch uint8, level uint8) error {
	return s.d.DriveStrength(si5351.Clock(ch), si5351.Drive(level))
}

func (s synth) SetCorrection(tenthsPPM int16) error {
	return s.d.SetCorrection(tenthsPPM)
}
