//go:build rp2040 || rp2350

package platform

import (
	"machine"
	"time"

	"beacon-go/services/config"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
)

// BoardName selects the embedded configuration.
const BoardName = "pico"

// StartupDelay lets USB CDC enumerate before the control channel opens.
const StartupDelay = 2 * time.Second

type pinLED struct{ p machine.Pin }

func (l pinLED) Set(on bool) { l.p.Set(on) }

// Open configures the LED pin, UART0 console, I2C0 and the USB-CDC
// control channel.
func Open(cfg config.Config) (*Board, error) {
	led := machine.Pin(cfg.LEDPin)
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led.Low()

	hw := uartx.UART0
	_ = hw.Configure(uartx.UARTConfig{
		BaudRate: cfg.UARTBaud,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})

	sda, scl := machine.I2C0_SDA_PIN, machine.I2C0_SCL_PIN
	sda.Configure(machine.PinConfig{Mode: machine.PinI2C})
	scl.Configure(machine.PinConfig{Mode: machine.PinI2C})
	if err := machine.I2C0.Configure(machine.I2CConfig{SCL: scl, SDA: sda, Frequency: cfg.I2CFrequency}); err != nil {
		return nil, err
	}

	// machine.Serial is USB-CDC on the pico.
	_ = machine.Serial.Configure(machine.UARTConfig{})

	return &Board{
		I2C:     NewI2COwner(machine.I2C0).Bus(250 * time.Millisecond),
		LED:     pinLED{led},
		Console: hw,
		Control: newSerialStream(machine.Serial),
	}, nil
}
