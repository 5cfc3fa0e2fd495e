package config

// Embedded per-board configuration, keyed by board name.
var embeddedConfigs = map[string]Config{
	"pico": DefaultConfig(),
	"host": hostConfig(),
}

// hostConfig drives the simulated device: same synthesizer wiring, no
// physical LED pin.
func hostConfig() Config {
	c := DefaultConfig()
	c.Board = "host"
	c.LEDPin = 0
	return c
}
