package bandpass

// Default filter parameters. These match the demo's "telephone effect":
// everything outside the classic 300-3400 Hz voice band is attenuated.
const (
	DefaultLowCutoffHz   = 300.0
	DefaultHighCutoffHz  = 3400.0
	DefaultOrder         = 4
	DefaultNormalizePeak = 0.95 // Headroom below full scale for playback/storage
)

// Parameter ranges accepted by front ends such as cmd/bandpass.
// The engine itself only enforces the Nyquist invariant.
const (
	MinLowCutoffHz  = 20.0
	MaxLowCutoffHz  = 5000.0
	MinHighCutoffHz = 500.0
	MaxHighCutoffHz = 15000.0
)

// Channel constants
const (
	monoChannels   = 1
	stereoChannels = 2
	maxChannels    = 256 // Maximum supported channel count
)

// Normalization limits
const (
	maxNormalizePeak = 1.0
)

// Frequency conversion
const (
	nyquistDivisor = 2.0
)
