// Package platform opens the board peripherals the beacon runs on. The
// rp2040 build drives real pins; the host build stands up a simulated
// Si5351 on a mock I2C bus.
package platform

import (
	"io"

	"beacon-go/registers"

	"tinygo.org/x/drivers"
)

// Board is the set of peripherals handed to the beacon.
type Board struct {
	I2C     drivers.I2C
	LED     registers.Indicator
	Console io.Writer     // diagnostic console
	Control io.ReadWriter // framed control channel
}
