package equalizer

// MaxModes bounds the mode count of a multi-mode update.
const MaxModes = 16

// Broadcast lane configuration
const (
	// DefaultWidth is the number of taps updated per lane. Four complex128
	// values fill two 256-bit registers.
	DefaultWidth = 4

	// MaxWidth bounds lane scratch.
	MaxWidth = 64
)
