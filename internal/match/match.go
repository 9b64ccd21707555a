// Package match implements the exposure matcher of spec.md §4.3: an
// affine (gain, offset) transform that maps the bright exposure's
// response onto the dark exposure's, found by binary search on a
// monotone median-split criterion.
package match

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/mdouchement/dualiso/internal/bayer"
	"github.com/mdouchement/dualiso/internal/perr"
	"github.com/mdouchement/dualiso/internal/rawio"
)

// Result carries everything downstream passes need from the matcher.
type Result struct {
	CorrEV        float64 // log2(1/a), the matched ISO difference in EV
	WhiteDarkened int     // Wb' = (Wb - B + b*16)*a + B
}

// Match estimates the affine transform and applies it in place to m's
// 20-bit samples, per spec.md §4.3. whiteDark/whiteBright and m.Black
// must already be in the same promoted 20-bit domain as m's samples.
func Match(m *rawio.Mosaic, rc bayer.RowClasses, whiteDark, whiteBright int) (Result, error) {
	black20 := m.Black
	white20 := whiteDark
	if whiteBright < white20 {
		white20 = whiteBright
	}
	black := black20 / 16
	white := white20 / 16
	clip0 := white - black
	clip := int(float64(clip0) * 0.9)

	w, h := m.Width, m.Height
	dark := make([]int, w*h)
	bright := make([]int, w*h)

	var avgBright float64
	var avgBrightNum int
	for y := 2; y < h-2; y++ {
		isBright := rc.IsBright(y)
		for x := 0; x < w; x++ {
			pa := int(m.At(x, y-2))/16 - black
			pb := int(m.At(x, y+2))/16 - black
			pi := (pa + pb) / 2
			if pa >= clip || pb >= clip {
				pi = clip
			}
			pn := int(m.At(x, y))/16 - black

			if isBright {
				bright[y*w+x] = pn
				dark[y*w+x] = pi
				if pn < clip {
					avgBright += float64(pn)
					avgBrightNum++
				}
			} else {
				dark[y*w+x] = pn
				bright[y*w+x] = pi
			}
		}
	}
	if avgBrightNum > 0 {
		avgBright /= float64(avgBrightNum)
	}

	var avgDelta int
	matchTest := func(gain int) int {
		n := w*h/9 + 1
		left := make([]int, 0, n)
		right := make([]int, 0, n)
		for y := m.ActiveArea.Y1; y < h-2; y += 3 {
			for x := 0; x < w; x += 3 {
				d := dark[y*w+x]
				b := bright[y*w+x]
				if b >= clip {
					continue
				}
				delta := b*100/gain - d
				if float64(b) < avgBright {
					left = append(left, delta)
				} else {
					right = append(right, delta)
				}
			}
		}
		deltaLeft := medianInt(left)
		deltaRight := medianInt(right)
		avgDelta = (deltaRight + deltaLeft) / 2
		return deltaRight - deltaLeft
	}

	gain := binSearch(100, 9000, matchTest)
	off := -avgDelta
	a := 100.0 / float64(gain)
	b := float64(off)

	b20 := b * 16
	for y := 0; y < h-1; y++ {
		isBright := rc.IsBright(y)
		for x := 0; x < w; x++ {
			p := float64(m.At(x, y))
			if p == 0 {
				continue
			}
			if isBright {
				p = (p-float64(black20))*a + float64(black20) + b20*a
			} else {
				p = p - b20 + b20*a
			}
			if p < 0 || p > 0xFFFFF {
				m.Set(x, y, 0)
				continue
			}
			m.Set(x, y, uint32(p))
		}
	}

	whiteDarkened := int((float64(whiteBright-black20) + b20) * a) + black20

	factor := 1 / a
	if factor < 1.2 || math.IsInf(factor, 0) || math.IsNaN(factor) {
		return Result{}, errors.Wrap(perr.ErrExposureMatchFailed, "doesn't look like interlaced ISO")
	}

	return Result{
		CorrEV:        math.Log2(factor),
		WhiteDarkened: whiteDarkened,
	}, nil
}

func medianInt(v []int) int {
	if len(v) == 0 {
		return 0
	}
	cp := append([]int(nil), v...)
	sort.Ints(cp)
	return cp[len(cp)/2]
}

// binSearch mirrors cr2hdr.c's bin_search: crit returns negative if the
// tested value is too high, positive if too low, 0 if perfect.
func binSearch(lo, hi int, crit func(int) int) int {
	for lo < hi-1 {
		m := (lo + hi) / 2
		c := crit(m)
		if c == 0 {
			return m
		}
		if c > 0 {
			lo = m
		} else {
			hi = m
		}
	}
	return lo
}
