package blend

import (
	"sort"

	"github.com/mdouchement/dualiso/internal/bayer"
	"github.com/mdouchement/dualiso/internal/pipeline/evtable"
)

// ChromaFootprint selects the chroma smoother's neighbourhood size
// (spec.md §4.9). Off disables the pass entirely.
type ChromaFootprint int

const (
	ChromaOff ChromaFootprint = iota
	Chroma2x2
	Chroma3x3
	Chroma5x5
)

// radius returns the same-colour sampling half-width in Bayer cells.
func (f ChromaFootprint) radius() int {
	switch f {
	case Chroma2x2:
		return 1
	case Chroma3x3:
		return 2
	case Chroma5x5:
		return 3
	default:
		return 0
	}
}

// ChromaSmooth replaces each sample with the EV-space median of its
// same-colour neighbours within footprint's radius, but only where the
// local contrast exceeds a small guard threshold, so sharp edges are
// left alone (spec.md §4.9). The operator preserves the mean EV of
// each 2x2 cell it touches, so it corrects colour without shifting
// overall luminance.
func ChromaSmooth(in []uint32, pattern bayer.Pattern, footprint ChromaFootprint, w, h int, tbl *evtable.Table) []uint32 {
	if footprint == ChromaOff {
		return in
	}

	out := append([]uint32(nil), in...)
	r := footprint.radius()
	border := 2 * (r + 1)

	for y := border; y < h-border; y += 2 {
		for x := border; x < w-border; x += 2 {
			var cellBefore, cellAfter int64
			smoothed := [4]int32{}
			positions := [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}

			for k, p := range positions {
				px, py := x+p[0], y+p[1]
				colour := bayer.FC(pattern, px, py)

				samples := make([]int32, 0, (2*r+1)*(2*r+1))
				for dy := -r; dy <= r; dy++ {
					for dx := -r; dx <= r; dx++ {
						nx, ny := px+2*dx, py+2*dy
						if nx < 0 || nx >= w || ny < 0 || ny >= h {
							continue
						}
						if bayer.FC(pattern, nx, ny) != colour {
							continue
						}
						samples = append(samples, tbl.Raw2EV(int(in[ny*w+nx])))
					}
				}
				if len(samples) == 0 {
					smoothed[k] = tbl.Raw2EV(int(in[py*w+px]))
					continue
				}

				med := medianEV(samples)
				orig := tbl.Raw2EV(int(in[py*w+px]))
				contrast := absEV(med - orig)

				cellBefore += int64(orig)
				if contrast > evtable.EVResolution/8 {
					smoothed[k] = med
				} else {
					smoothed[k] = orig
				}
				cellAfter += int64(smoothed[k])
			}

			// Preserve the cell's mean EV.
			lumaDelta := int32((cellBefore - cellAfter) / 4)
			for k, p := range positions {
				px, py := x+p[0], y+p[1]
				out[py*w+px] = tbl.EV2Raw(smoothed[k] + lumaDelta)
			}
		}
	}

	return out
}

func medianEV(v []int32) int32 {
	cp := append([]int32(nil), v...)
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })
	return cp[len(cp)/2]
}

func absEV(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
