package registers

// Address is a register address on the control channel (wIndex).
type Address uint16

// Register address space. Stable wire contract.
const (
	AddrLED            Address = 0
	AddrFreqCorrection Address = 1

	// The frequency is written to the synthesizer when the high half is written.
	AddrClk0FreqLow  Address = 8
	AddrClk0FreqHigh Address = 9
	AddrClk0Enable   Address = 10
	AddrClk0Drive    Address = 11
)

// Field identifies what a register maps to inside the model.
type Field uint8

const (
	FieldLED Field = iota
	FieldCorrection
	FieldFreqLow
	FieldFreqHigh
	FieldEnable
	FieldDrive
)

// Register describes one entry of the closed address table.
type Register struct {
	Addr    Address
	Name    string
	Field   Field
	Channel uint8 // output index for per-channel fields
}

var table = [...]Register{
	{AddrLED, "led", FieldLED, 0},
	{AddrFreqCorrection, "freq_corr", FieldCorrection, 0},
	{AddrClk0FreqLow, "clk0_freq_lo", FieldFreqLow, 0},
	{AddrClk0FreqHigh, "clk0_freq_hi", FieldFreqHigh, 0},
	{AddrClk0Enable, "clk0_enable", FieldEnable, 0},
	{AddrClk0Drive, "clk0_drive", FieldDrive, 0},
}

// Lookup resolves a wire address. ok is false for any address outside
// the table; there is no default register.
func Lookup(a Address) (Register, bool) {
	for _, r := range table {
		if r.Addr == a {
			return r, true
		}
	}
	return Register{}, false
}

// ByName resolves a register by its short name.
func ByName(name string) (Register, bool) {
	for _, r := range table {
		if r.Name == name {
			return r, true
		}
	}
	return Register{}, false
}

// All returns the register table in address order.
func All() []Register {
	out := make([]Register, len(table))
	copy(out, table[:])
	return out
}

func (a Address) String() string {
	if r, ok := Lookup(a); ok {
		return r.Name
	}
	return "unknown"
}
