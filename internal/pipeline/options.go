package pipeline

// InterpMethod selects one of the two interchangeable interpolation
// strategies described in spec.md §4.5 / §9 ("Dynamic interpolation
// choice").
type InterpMethod int

const (
	EdgeDirected InterpMethod = iota
	Mean23
)

// ChromaSmooth selects the chroma smoother's footprint (spec.md §4.9).
type ChromaSmooth int

const (
	ChromaOff ChromaSmooth = iota
	Chroma2x2
	Chroma3x3
	Chroma5x5
)

// BadPixelFix selects the bad-pixel repair mode (spec.md §4.4).
type BadPixelFix int

const (
	FixOff BadPixelFix = iota
	FixNormal
	FixAggressive
)

// Options is the enumerated configuration surface from spec.md §6.
type Options struct {
	InterpMethod InterpMethod
	ChromaSmooth ChromaSmooth
	FixBadPixels BadPixelFix
	UseFullres   bool
	UseAliasMap  bool
	UseStripeFix bool

	SoftFilmEV float64    // 0 disables the optional tone stage
	SoftFilmWB [3]float64 // R, G, B multipliers; ignored when SoftFilmEV == 0

	// DebugBadPixels replaces every repaired pixel with the black level
	// instead of its computed replacement, to visualize the bad-pixel
	// map (grounded on cr2hdr.c's debug_bad_pixels global; spec.md §9
	// supplemented feature).
	DebugBadPixels bool
}

// DefaultOptions returns the configuration the original tool defaults
// to: edge-directed interpolation, no chroma smoothing, normal bad-pixel
// fixing, fullres+alias map+stripe fix all enabled.
func DefaultOptions() Options {
	return Options{
		InterpMethod: EdgeDirected,
		ChromaSmooth: ChromaOff,
		FixBadPixels: FixNormal,
		UseFullres:   true,
		UseAliasMap:  true,
		UseStripeFix: true,
	}
}

// Normalize enforces the one cross-field constraint in spec.md §6:
// UseAliasMap is forced off when UseFullres is false.
func (o *Options) Normalize() {
	if !o.UseFullres {
		o.UseAliasMap = false
	}
}
