package renderer

// Options holds configuration for the state classifier and line buffer.
type Options struct {
	// Fallback disables color tracking entirely; fill and stroke
	// colors never contribute to verdicts or emitted classes.
	Fallback bool

	// EpsScalar is the tolerance for scalar comparisons (font sizes,
	// spacing values, offsets solved by the merge equations).
	EpsScalar float64

	// EpsMatrix is the tolerance for matrix entry comparisons.
	EpsMatrix float64

	// EpsOffset is the magnitude below which buffered offsets are
	// discarded during the pre-flush optimization pass.
	EpsOffset float64

	// TextScaleFactor2 is the device scale constant divided out when
	// factoring the draw text scale from the composed transform.
	TextScaleFactor2 float64

	// SpaceThreshold is the fraction of a single-space advance within
	// which an offset is rendered as a literal space character.
	SpaceThreshold float64
}

// DefaultOptions returns the default classifier configuration.
func DefaultOptions() Options {
	return Options{
		Fallback:         false,
		EpsScalar:        1e-6,
		EpsMatrix:        1e-6,
		EpsOffset:        1e-5,
		TextScaleFactor2: 1.0,
		SpaceThreshold:   0.125,
	}
}

// clone creates a copy of Options. Options holds no reference types,
// so a value copy is a deep copy; the method exists to keep the
// defensive-copy call sites explicit.
func (o Options) clone() Options {
	return o
}
