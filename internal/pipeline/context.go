// Package pipeline wires together every pass (pattern detection,
// calibration, exposure matching, bad-pixel repair, interpolation,
// stripe fix, fullres/halfres blending, chroma smoothing, alias
// mapping, final combination) into the single ordered walk spec.md §5
// describes.
package pipeline

import (
	"github.com/sirupsen/logrus"

	"github.com/mdouchement/dualiso/internal/bayer"
	"github.com/mdouchement/dualiso/internal/pipeline/evtable"
	"github.com/mdouchement/dualiso/internal/rawio"
)

// Context carries one image's worth of state through every pass.
type Context struct {
	Opts Options
	Log  *logrus.Entry

	Mosaic      *rawio.Mosaic
	LeftMargin  int
	TopMargin   int
	GBRGShifted bool

	// GBRGFirstRow preserves the one row the GBRG shift leaves outside
	// the processed mosaic (spec.md §4.1: "the shift is reversed at
	// emit time"), so the caller can prepend it back unprocessed when
	// writing the output, exactly as cr2hdr.c's buffer-pointer rewind
	// exposes the original, never-touched first row.
	GBRGFirstRow []uint32

	RowClasses bayer.RowClasses

	WhiteDark, WhiteBright, WhiteDarkened int
	CorrEV                                float64
	DarkNoise, BrightNoise                float64 // 20-bit linear std dev
	Overlap                                float64

	Table *evtable.Table

	Buffers *Buffers
}

// NewContext prepares a Context for a freshly read, not-yet-promoted
// mosaic. leftMargin/topMargin are the optical-black border widths
// (spec.md §4.2).
func NewContext(m *rawio.Mosaic, opts Options, log *logrus.Entry, leftMargin, topMargin int) *Context {
	opts.Normalize()
	return &Context{
		Opts:       opts,
		Log:        log,
		Mosaic:     m,
		LeftMargin: leftMargin,
		TopMargin:  topMargin,
	}
}
