//go:build !(rp2040 || rp2350)

package platform

import (
	"os"
	"sync"
	"time"

	"beacon-go/services/config"
	"beacon-go/x/fmtx"

	"tinygo.org/x/drivers/tester"
)

const BoardName = "host"

const StartupDelay = 0

// SimLED records the indicator state.
type SimLED struct {
	mu sync.Mutex
	on bool
}

func (l *SimLED) Set(on bool) {
	l.mu.Lock()
	l.on = on
	l.mu.Unlock()
}

func (l *SimLED) On() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on
}

// Sim is a board with a mock Si5351 whose register file can be inspected.
type Sim struct {
	Board
	Synth *tester.I2CDevice8
	LEDs  *SimLED
	owner *I2COwner
}

// Close stops the simulated bus worker.
func (s *Sim) Close() { s.owner.Close() }

// simFailer turns mock bus misuse into a panic carrying the message.
type simFailer struct{}

func (simFailer) Fatalf(format string, a ...interface{}) {
	panic(fmtx.Errorf("i2c sim: "+format, a...))
}

// Simulated builds a board around a mock I2C bus with an Si5351 at
// cfg.SynthAddr. Console and Control are left to the caller.
func Simulated(cfg config.Config) *Sim {
	i2c := tester.NewI2CBus(simFailer{})
	dev := i2c.NewDevice(uint8(cfg.SynthAddr))
	owner := NewI2COwner(i2c)
	led := &SimLED{}
	return &Sim{
		Board: Board{
			I2C: owner.Bus(250 * time.Millisecond),
			LED: led,
		},
		Synth: dev,
		LEDs:  led,
		owner: owner,
	}
}

type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

// Open simulates the board: diagnostics on stderr, framed control channel
// on stdin/stdout.
func Open(cfg config.Config) (*Board, error) {
	s := Simulated(cfg)
	s.Console = os.Stderr
	s.Control = stdio{}
	return &s.Board, nil
}
