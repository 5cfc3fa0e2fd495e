package beacon

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"

	"beacon-go/bus"
	"beacon-go/drivers/si5351"
	"beacon-go/logsink"
	"beacon-go/registers"
	"beacon-go/services/config"
	"beacon-go/services/control"
	"beacon-go/services/usbctl"

	"tinygo.org/x/drivers/tester"
)

const (
	regOutputEnable = 3
	regClk0Ctrl     = 16
	regMS0          = 42
)

type fakeLED struct{ on bool }

func (l *fakeLED) Set(on bool) { l.on = on }

type rig struct {
	b    *Beacon
	mock *tester.I2CDevice8
	log  *logsink.Capture
	led  *fakeLED
	bus  *bus.Bus
}

func newRig(t *testing.T) *rig {
	t.Helper()
	i2c := tester.NewI2CBus(t)
	r := &rig{
		mock: i2c.NewDevice(si5351.AddressDefault),
		log:  &logsink.Capture{},
		led:  &fakeLED{},
		bus:  bus.NewBus(16),
	}
	b, err := New(config.DefaultConfig(), Hardware{I2C: i2c, LED: r.led, Log: r.log, Bus: r.bus})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.b = b
	return r
}

func (r *rig) set(t *testing.T, a registers.Address, v uint16) control.Response {
	t.Helper()
	s := usbctl.SetupPacket{RequestType: usbctl.RequestTypeVendorIn, Request: control.KindSet, Index: uint16(a), Value: v, Length: 4}
	var raw [usbctl.SetupPacketSize]byte
	s.MarshalTo(raw[:])
	resp, err := control.ParseResponse(r.b.HandleSetup(raw[:]))
	if err != nil {
		t.Fatalf("SET %s: %v", a, err)
	}
	return resp
}

func TestBootSequence(t *testing.T) {
	r := newRig(t)

	lines := r.log.Lines()
	if len(lines) != 1 || lines[0] != "WSPR Beacon by OE5TKM" {
		t.Fatalf("boot log = %q", lines)
	}
	if got := r.mock.Registers[regOutputEnable]; got != 0xFF {
		t.Fatalf("outputs enabled at boot: %#x", got)
	}
	if got := r.mock.Registers[regClk0Ctrl]; got != 0x80 {
		t.Fatalf("CLK0_CTRL = %#x, want powered down at 2 mA", got)
	}
	st := r.b.Model().State()
	if st.Outputs[0].Drive != registers.Drive2mA || st.LED || st.Outputs[0].Enabled {
		t.Fatalf("boot state = %+v", st)
	}
}

func TestSetFrequencyProgramsSynth(t *testing.T) {
	r := newRig(t)

	if got := r.set(t, registers.AddrClk0FreqLow, 0x1ACC); got.Status != control.StatusOK {
		t.Fatalf("low half = %+v", got)
	}
	if r.b.Synth().Frequency(si5351.Clk0) != 0 {
		t.Fatal("low half reached the synthesizer")
	}
	if got := r.set(t, registers.AddrClk0FreqHigh, 0x00D7); got != (control.Response{Value: 0x00D7}) {
		t.Fatalf("high half = %+v", got)
	}
	if f := r.b.Synth().Frequency(si5351.Clk0); f != 14097100 {
		t.Fatalf("synth frequency = %d", f)
	}
	// 800 MHz / 14.0971 MHz is fractional: MS source, integer mode off.
	if got := r.mock.Registers[regClk0Ctrl]; got != 0x0C {
		t.Fatalf("CLK0_CTRL = %#x, want 0x0c", got)
	}
	var zero [8]byte
	if [8]byte(r.mock.Registers[regMS0:regMS0+8]) == zero {
		t.Fatal("MS0 parameters not written")
	}

	r.set(t, registers.AddrClk0Enable, 1)
	if got := r.mock.Registers[regOutputEnable]; got != 0xFE {
		t.Fatalf("output enable = %#x, want 0xfe", got)
	}
	r.set(t, registers.AddrClk0Drive, uint16(registers.Drive8mA))
	if got := r.mock.Registers[regClk0Ctrl] & 0x03; got != 0x03 {
		t.Fatalf("drive bits = %#x", got)
	}
	r.set(t, registers.AddrLED, 1)
	if !r.led.on {
		t.Fatal("LED not driven")
	}

	want := []string{
		"WSPR Beacon by OE5TKM",
		"Setting frequency to 14097100 Hz",
		"Output enabled",
		"Setting drive strength to 8 mA",
		"LED on",
	}
	if got := r.log.Lines(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("log = %q", got)
	}

	m, ok := r.bus.Retained(bus.T("beacon", "reg", "clk0_freq_hi"))
	if !ok || m.Payload != uint16(0x00D7) {
		t.Fatalf("retained clk0_freq_hi = %+v, %v", m, ok)
	}
}

func TestSynthFaultsKeepStatusOK(t *testing.T) {
	r := newRig(t)
	r.log.Drain()

	r.set(t, registers.AddrClk0FreqLow, 100)
	if got := r.set(t, registers.AddrClk0FreqHigh, 0); got.Status != control.StatusOK {
		t.Fatalf("out-of-range frequency status = %v", got.Status)
	}
	if got := r.b.Model().State().Outputs[0].Frequency; got != 100 {
		t.Fatalf("model frequency = %d", got)
	}

	r.mock.Err = errors.New("nack")
	if got := r.set(t, registers.AddrClk0Enable, 1); got != (control.Response{Value: 1}) {
		t.Fatalf("enable with bus error = %+v", got)
	}

	want := []string{
		"Synthesizer error on clk0_freq_hi: clk0_freq_hi: driver_fault: si5351: frequency out of range",
		"Setting frequency to 100 Hz",
		"Synthesizer error on clk0_enable: clk0_enable: driver_fault: nack",
		"Output enabled",
	}
	if got := r.log.Lines(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("log = %q", got)
	}
	if _, ok := r.bus.Retained(bus.T("beacon", "fault", "clk0_enable")); !ok {
		t.Fatal("fault not published")
	}
}

func TestBootWithSynthStuckInInit(t *testing.T) {
	i2c := tester.NewI2CBus(t)
	mock := i2c.NewDevice(si5351.AddressDefault)
	mock.Registers[0] = 0x80 // SYS_INIT never clears
	log := &logsink.Capture{}

	b, err := New(config.DefaultConfig(), Hardware{I2C: i2c, Log: log})
	if err != nil || b == nil {
		t.Fatalf("New = %v, %v", b, err)
	}
	lines := log.Lines()
	if len(lines) != 2 || lines[1] != "Synthesizer init failed: si5351: device not ready" {
		t.Fatalf("log = %q", lines)
	}
	if got := b.HandleSetup([]byte{0xC0, control.KindGet, 0, 0, 11, 0, 4, 0}); len(got) != 4 {
		t.Fatalf("control channel not served: % X", got)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.CrystalLoadPF = 9
	if _, err := New(cfg, Hardware{}); err == nil {
		t.Fatal("invalid config accepted")
	}
}

func TestServeOverStream(t *testing.T) {
	r := newRig(t)
	dev, host := net.Pipe()
	done := make(chan error, 1)
	go func() { done <- r.b.Serve(context.Background(), dev) }()

	c := usbctl.NewClient(host)
	if err := c.SetFrequency(10_000_000); err != nil {
		t.Fatalf("SetFrequency: %v", err)
	}
	if f := r.b.Synth().Frequency(si5351.Clk0); f != 10_000_000 {
		t.Fatalf("synth frequency = %d", f)
	}
	// 800 MHz / 10 MHz = 80: integer mode.
	if got := r.mock.Registers[regClk0Ctrl]; got != 0x4C {
		t.Fatalf("CLK0_CTRL = %#x, want 0x4c", got)
	}
	host.Close()
	if err := <-done; err != nil {
		t.Fatalf("Serve = %v", err)
	}
}
