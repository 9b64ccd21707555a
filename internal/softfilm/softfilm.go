// Package softfilm implements the optional highlight-rolloff tone
// curve applied just before 16-bit emission (spec.md §6, "soft film"),
// ported from ufraw-mod via cr2hdr.c. It is the one stage that bakes a
// white-balance gain into the raw data, so a plausible AsShotNeutral
// triple is required before it runs.
package softfilm

import (
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/mdouchement/dualiso/internal/bayer"
)

// Curve holds the parameters of one soft-film tone mapping.
type Curve struct {
	Exposure           float64 // 2^ev
	InBlack, InWhite   int
	OutBlack, OutWhite int
	BakedWB            [3]float64 // per-colour gain, green normalised to 1
	MaxWB              float64
}

// NewCurve derives a Curve from the requested exposure boost (in EV)
// and an AsShotNeutral-style white balance triple (r, g, b), matching
// cr2hdr.c's baked-WB soft film setup.
func NewCurve(ev float64, inBlack, inWhite, outBlack, outWhite int, wb [3]float64) Curve {
	baked := [3]float64{wb[0] / wb[1], 1, wb[2] / wb[1]}
	maxWB := math.Max(baked[0], baked[2])
	return Curve{
		Exposure: math.Pow(2, ev),
		InBlack:  inBlack,
		InWhite:  inWhite,
		OutBlack: outBlack,
		OutWhite: outWhite,
		BakedWB:  baked,
		MaxWB:    maxWB,
	}
}

// Plausible reports whether a white-balance triple is sane enough to
// bake into the soft-film curve. The triple is normalised to its own
// max and read as an HSV saturation: a neutral-ish multiplier set sits
// well below full saturation, while a wildly unbalanced one (one
// channel near zero) saturates close to 1.
func Plausible(r, g, b float64) bool {
	if r <= 0 || g <= 0 || b <= 0 {
		return false
	}
	m := math.Max(r, math.Max(g, b))
	c := colorful.Color{R: r / m, G: g / m, B: b / m}
	_, s, _ := c.Hsv()
	return s < 0.85
}

// softFilm is the base curve (no white balance baked in).
func (c Curve) softFilm(raw float64) float64 {
	a := math.Max(c.Exposure-1, 1e-5)
	if raw > float64(c.InBlack) {
		x := (raw - float64(c.InBlack)) / float64(c.InWhite-c.InBlack)
		return (1.0-1.0/(1.0+a*x))/(1.0-1.0/(1.0+a))*float64(c.OutWhite-c.OutBlack) + float64(c.OutBlack)
	}
	v := (raw-float64(c.InBlack))*c.Exposure/float64(c.InWhite-c.InBlack)*float64(c.OutWhite-c.OutBlack) + float64(c.OutBlack)
	if v < 0 {
		v = 0
	}
	if v > float64(c.OutWhite) {
		v = float64(c.OutWhite)
	}
	return v
}

// Apply runs the baked-white-balance soft film curve on a single
// sample at CFA colour col, adding a dither of amplitude ~0.5 LSB
// before rounding (spec.md §6's Gaussian-dither demotion applies the
// same trick at emit time).
func (c Curve) Apply(raw float64, col bayer.Colour) int {
	wb := c.wbFor(col)
	rawBaked := (raw-float64(c.InBlack))*wb/c.MaxWB + float64(c.InBlack)
	soft := Curve{
		Exposure: c.Exposure * c.MaxWB,
		InBlack:  c.InBlack, InWhite: c.InWhite,
		OutBlack: c.OutBlack, OutWhite: c.OutWhite,
	}.softFilm(rawBaked)
	adjusted := (soft-float64(c.OutBlack))/wb + float64(c.OutBlack)
	return int(math.Round(adjusted + randn05()))
}

func (c Curve) wbFor(col bayer.Colour) float64 {
	switch col {
	case bayer.R:
		return c.BakedWB[0]
	case bayer.B:
		return c.BakedWB[2]
	default:
		return c.BakedWB[1]
	}
}

func randn05() float64 {
	return (rand.Float64() - 0.5)
}
