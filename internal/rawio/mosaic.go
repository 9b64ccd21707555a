package rawio

import (
	"image"
	"image/color"

	"github.com/mdouchement/dualiso/internal/bayer"
	"github.com/mdouchement/hdr/hdrcolor"
)

// Rect is an inclusive-exclusive pixel rectangle, [X1,X2) x [Y1,Y2),
// mirroring spec.md §3's active-area rectangle (x1,y1,x2,y2).
type Rect struct {
	X1, Y1, X2, Y2 int
}

// Dx and Dy return the rectangle's width and height.
func (r Rect) Dx() int { return r.X2 - r.X1 }
func (r Rect) Dy() int { return r.Y2 - r.Y1 }

// Metadata is the subset of external-decoder/metadata-reader output the
// core consumes (spec.md §6): a model name, the decoded image
// dimensions, and the two active-area rectangles (sensor active area and
// the narrower JPEG preview's active area, when it differs).
type Metadata struct {
	Model          string
	Width, Height  int
	ActiveArea     Rect
	JPEGActiveArea Rect
}

// WhiteBalance carries the two multipliers recovered by an external
// metadata reader. Per spec.md §6, these are forwarded to the output
// writer as AsShotNeutral = (1/RedMul, 1, 1/BlueMul) only when both are
// positive.
type WhiteBalance struct {
	RedMul, BlueMul float64
}

// AsShotNeutral returns the neutral-white triple to forward to the
// container writer, and whether a valid pair of multipliers was given.
func (wb WhiteBalance) AsShotNeutral() (r, g, b float64, ok bool) {
	if wb.RedMul > 0 && wb.BlueMul > 0 {
		return 1 / wb.RedMul, 1, 1 / wb.BlueMul, true
	}
	return 0, 0, 0, false
}

// Mosaic is the dense W x H sample array plus the attached metadata
// described in spec.md §3. Samples are stored as uint32 so the same
// type serves the 14-bit input, the 16-bit output, and (via Promote)
// intermediate widths; the pipeline's 20-bit working buffers live in
// internal/pipeline, not here.
type Mosaic struct {
	Width, Height int
	Samples       []uint32 // row-major, len == Width*Height

	ActiveArea Rect
	CFA        bayer.Pattern

	Black             int
	WhiteDark, WhiteBright int
	BitsPerSample     int
}

// NewMosaic allocates a zeroed mosaic of the given size.
func NewMosaic(w, h int) *Mosaic {
	return &Mosaic{
		Width:   w,
		Height:  h,
		Samples: make([]uint32, w*h),
	}
}

// At returns the sample at (x, y). Out-of-bounds reads clamp to the
// nearest valid pixel, which is the behaviour every border-fill rule in
// spec.md §4.5 relies on.
func (m *Mosaic) At(x, y int) uint32 {
	x = clampInt(x, 0, m.Width-1)
	y = clampInt(y, 0, m.Height-1)
	return m.Samples[y*m.Width+x]
}

// Set stores a sample at (x, y). Out-of-range (x, y) is a no-op.
func (m *Mosaic) Set(x, y int, v uint32) {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return
	}
	m.Samples[y*m.Width+x] = v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Promote rescales every sample by the given number of extra bits,
// e.g. 14->20 adds 6 bits at pipeline start (spec.md §3).
func (m *Mosaic) Promote(extraBits uint) {
	for i, v := range m.Samples {
		m.Samples[i] = v << extraBits
	}
}

// Demote reverses Promote, clamping to the narrower range. The pipeline
// uses rawio only for the straight bit-shift; the dithered 20->16
// rounding (spec.md §4.10 emit stage) lives in internal/blend (Emit),
// which draws its dither from a fixed-seed RNG.
func (m *Mosaic) Demote(extraBits uint) {
	for i, v := range m.Samples {
		m.Samples[i] = v >> extraBits
	}
}

// HDRImage adapts a Mosaic to image.Image/hdrcolor.Color so it can be
// handed to HDR-aware consumers the way github.com/mdouchement/hdr
// images are, without committing to any particular colour space: each
// pixel is exposed as an hdrcolor.RAW single-channel sample.
type HDRImage struct {
	M *Mosaic
}

var _ image.Image = HDRImage{}

func (h HDRImage) ColorModel() color.Model {
	return RAWModel
}

func (h HDRImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, h.M.Width, h.M.Height)
}

func (h HDRImage) At(x, y int) color.Color {
	return RAW{P: float64(h.M.At(x, y))}
}

// RAW represents a single raw sample as an hdrcolor.Color, mirroring
// allenk-hdr/hdrcolor.RAW: a colour-space-agnostic single channel
// carried through HDRPixel.
type RAW struct {
	P float64
}

func (c RAW) RGBA() (r, g, b, a uint32) {
	v := uint32(c.P)
	if v > 0xFFFF {
		v = 0xFFFF
	}
	return v, v, v, 0xFFFF
}

func (c RAW) HDRRGBA() (r, g, b, a float64) {
	return c.P, c.P, c.P, 1
}

func (c RAW) HDRXYZA() (x, y, z, a float64) {
	return c.P, c.P, c.P, 1
}

func (c RAW) HDRPixel() (p1, p2, p3, pa float64) {
	return c.P, c.P, c.P, 1
}

var _ hdrcolor.Color = RAW{}

// RAWModel converts an arbitrary color.Color into RAW; used only so
// HDRImage satisfies image.Image's ColorModel contract.
var RAWModel = color.ModelFunc(rawModelFunc)

func rawModelFunc(c color.Color) color.Color {
	if raw, ok := c.(RAW); ok {
		return raw
	}
	r, _, _, _ := c.RGBA()
	return RAW{P: float64(r)}
}
