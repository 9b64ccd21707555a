package blend

import (
	"math"

	"github.com/mdouchement/dualiso/internal/pipeline/evtable"
)

const (
	fullresStart      = 4.0
	fullresTransition = 4.0
	// FullresThreshold marks "bright enough to prefer fullres detail"
	// (spec.md §4.7).
	FullresThreshold = 0.8
)

// MixCurve is the halfres raised-cosine blend factor indexed by the
// bright sample's raw value (spec.md §4.7): k=0 keeps pure bright data,
// k=1 keeps pure dark data.
type MixCurve struct {
	k []float64
}

// NewMixCurve builds the table over the full 20-bit domain.
func NewMixCurve(black, white int, corrEV, overlap float64) *MixCurve {
	maxEV := math.Log2(float64(white)/64 - float64(black)/64)
	mc := &MixCurve{k: make([]float64, 1<<20)}
	for i := range mc.k {
		signal := float64(i)/64 - float64(black)/64
		if signal < 1 {
			signal = 1
		}
		ev := math.Log2(signal) + corrEV
		arg := ev - (maxEV - overlap)
		if arg < 0 {
			arg = 0
		}
		if arg > overlap {
			arg = overlap
		}
		c := -math.Cos(arg * math.Pi / overlap)
		mc.k[i] = (c + 1) / 2
	}
	return mc
}

// At returns the blend factor for raw sample b, clamped to [0,1].
func (mc *MixCurve) At(b uint32) float64 {
	k := mc.k[b&0xFFFFF]
	if k < 0 {
		return 0
	}
	if k > 1 {
		return 1
	}
	return k
}

// FullresCurve is the tone-dependent weight favouring full-resolution
// detail once the bright exposure is a few stops above black (spec.md
// §4.7).
type FullresCurve struct {
	f []float64
}

// NewFullresCurve builds the table from a raw→ev lookup function.
func NewFullresCurve(raw2ev func(int) int32) *FullresCurve {
	fc := &FullresCurve{f: make([]float64, 1<<20)}
	for i := range fc.f {
		ev2 := float64(raw2ev(i)) / float64(evtable.EVResolution)
		arg := ev2 - fullresStart
		if arg < 0 {
			arg = 0
		}
		if arg > fullresTransition {
			arg = fullresTransition
		}
		c2 := -math.Cos(arg * math.Pi / fullresTransition)
		fc.f[i] = (c2 + 1) / 2
	}
	return fc
}

// At returns the fullres weight for raw sample b.
func (fc *FullresCurve) At(b uint32) float64 {
	return fc.f[b&0xFFFFF]
}
