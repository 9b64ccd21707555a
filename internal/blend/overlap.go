package blend

import (
	"math"

	"github.com/mdouchement/dualiso/internal/perr"
)

// Overlap estimates how many stops of dynamic range the two exposures
// share, trimmed the same way cr2hdr.c trims it (overlap -= min(3,
// overlap-3): an estimate above 6 EV loses 3 EV and any smaller
// estimate becomes exactly 3 EV, since underestimating the overlap
// yields better colour and noise at the cost of slightly more jagged
// edges). It returns perr.ErrOverlapTooSmall if the trimmed overlap is
// below 0.5 EV (spec.md §4.7).
func Overlap(black, white int, darkNoiseEV, corrEV float64) (float64, error) {
	lowISODR := math.Log2(float64(white-black)) - darkNoiseEV
	overlap := lowISODR - corrEV
	overlap -= math.Min(3, overlap-3)

	if overlap < 0.5 {
		return overlap, perr.ErrOverlapTooSmall
	}
	return overlap, nil
}
