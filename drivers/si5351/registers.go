package si5351

// I2C address (ADDR pin low).
const AddressDefault = 0x60

// Register map (AN619).
const (
	regDeviceStatus   = 0
	regOutputEnable   = 3
	regPLLInputSource = 15
	regClk0Ctrl       = 16 // CLKx_CTRL = 16 + x
	regPLLA           = 26
	regMS0            = 42 // MSx parameters = 42 + 8*x (x < 6)
	regSpreadSpectrum = 149
	regPLLReset       = 177
	regCrystalLoad    = 183
)

// Status bits.
const statusSysInit = 0x80

// CLKx_CTRL bits.
const (
	ctrlPowerDown  = 0x80
	ctrlMSInt      = 0x40
	ctrlSrcMS      = 0x0C
	ctrlDriveMask  = 0x03
	pllResetA      = 0x20
	crystalLoadRsv = 0x12 // reserved bits that must read back as 010010b
)

// Divider and range limits for the fixed-VCO frequency plan.
const (
	vcoHz       = 800_000_000
	denominator = 1048575 // 2^20 - 1
	msMinHz     = 500_000 // below this an R divider is engaged
	maxRDiv     = 7       // R = 2^7 = 128

	MinFrequency = 8_000
	MaxFrequency = 100_000_000
)
