// Package pattern implements the first pipeline stage of spec.md §4.1:
// deciding whether the mosaic is RGGB or GBRG, and which of the four
// y%4 row classes carries the brighter exposure.
package pattern

import (
	"github.com/pkg/errors"

	"github.com/mdouchement/dualiso/internal/bayer"
	"github.com/mdouchement/dualiso/internal/perr"
	"github.com/mdouchement/dualiso/internal/rawio"
)

// whiteGuess is the rough, pre-calibration white level used only to pick
// a percentile rank while classifying row classes (spec.md §4.1: "until
// any one reaches a tentative white (~10000)").
const whiteGuess = 10000

// DetectOrientation decides RGGB vs GBRG by comparing, for every 2x2
// cell outside the borders, the top-left pixel against the neighbours
// that would share its colour under each hypothesis. Cells whose
// previous-row neighbours are near black are skipped as too noisy.
func DetectOrientation(m *rawio.Mosaic) bayer.Pattern {
	w, h := m.Width, m.Height
	black := m.Black

	var rggbErr, gbrgErr float64
	for y := 2; y < h-2; y += 2 {
		for x := 2; x < w-2; x += 2 {
			tl := int(m.At(x, y))
			tr := int(m.At(x+1, y))
			bl := int(m.At(x, y+1))
			br := int(m.At(x+1, y+1))
			pl := int(m.At(x, y-1))
			pr := int(m.At(x+1, y-1))

			if minInt(pl, pr) < black+32 {
				continue // too noisy to be informative
			}

			rggbErr += float64(minInt(absInt(tr-bl), absInt(tr-pl)))
			gbrgErr += float64(minInt(absInt(tl-br), absInt(tl-pr)))
		}
	}

	if gbrgErr < rggbErr {
		return bayer.GBRG
	}
	return bayer.RGGB
}

// ShiftForGBRG returns a view of m shifted down by one row, so that the
// rest of the pipeline (which assumes RGGB addressing) can process a
// GBRG mosaic unchanged. The shift is reversed at emit time by the
// caller (it just needs to remember the one-row offset).
func ShiftForGBRG(m *rawio.Mosaic) *rawio.Mosaic {
	shifted := &rawio.Mosaic{
		Width:         m.Width,
		Height:        m.Height - 1,
		Samples:       m.Samples[m.Width:],
		CFA:           m.CFA,
		Black:         m.Black,
		WhiteDark:     m.WhiteDark,
		WhiteBright:   m.WhiteBright,
		BitsPerSample: m.BitsPerSample,
		ActiveArea: rawio.Rect{
			X1: m.ActiveArea.X1,
			X2: m.ActiveArea.X2,
			Y1: maxInt(m.ActiveArea.Y1-1, 0),
			Y2: maxInt(m.ActiveArea.Y2-1, 0),
		},
	}
	return shifted
}

// ClassifyRows builds the four-way histogram walk of spec.md §4.1 and
// returns the row-class table, or an error if the interleave invariant
// (I3) does not hold.
func ClassifyRows(m *rawio.Mosaic) (bayer.RowClasses, error) {
	w, h := m.Width, m.Height

	var hist [4][16384]int
	y0 := (m.ActiveArea.Y1 + 3) &^ 3
	yMax := h / 4 * 4

	for y := y0; y < yMax; y++ {
		cls := ((y % 4) + 4) % 4
		for x := 0; x < w; x++ {
			v := m.At(x, y) & 16383
			hist[cls][v]++
		}
	}

	histTotal := 0
	for v := 0; v < 16384; v++ {
		histTotal += hist[0][v]
	}

	var acc, raw [4]int
	for ref := 0; ref < histTotal-10; ref++ {
		for i := 0; i < 4; i++ {
			for acc[i] < ref {
				acc[i] += hist[i][raw[i]]
				raw[i]++
			}
		}
		if raw[0] >= whiteGuess || raw[1] >= whiteGuess || raw[2] >= whiteGuess || raw[3] >= whiteGuess {
			break
		}
	}

	sorted := raw
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			if sorted[i] > sorted[j] {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	median := float64(sorted[1]+sorted[2]) / 2

	var rc bayer.RowClasses
	for i := 0; i < 4; i++ {
		rc[i] = float64(raw[i]) > median
	}

	n := 0
	for _, b := range rc {
		if b {
			n++
		}
	}
	if n != 2 {
		return rc, errors.Wrap(perr.ErrNotInterlaced, "bright/dark detection error")
	}
	if !rc.Valid() {
		return rc, errors.Wrap(perr.ErrUnsupportedPattern, "interlacing method not supported")
	}
	return rc, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
