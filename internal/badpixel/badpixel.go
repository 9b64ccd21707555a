// Package badpixel implements the hot/cold pixel repair pass of
// spec.md §4.4: pixels that stand out against their same-colour,
// same-exposure 9x9 neighbourhood are replaced by a neighbour order
// statistic.
package badpixel

import (
	"runtime"
	"sort"
	"sync"

	"github.com/mdouchement/dualiso/internal/bayer"
	"github.com/mdouchement/dualiso/internal/pipeline/evtable"
	"github.com/mdouchement/dualiso/internal/rawio"
)

// Mode selects how aggressively hot pixels are flagged, mirroring
// cr2hdr.c's fix_bad_pixels (0=off, 1=normal, 2=aggressive).
type Mode int

const (
	Off Mode = iota
	Normal
	Aggressive
)

const border = 6

// Stats reports how many pixels of each kind were repaired.
type Stats struct {
	Hot  int
	Cold int
}

// Fix scans m for hot and cold pixels and repairs them in place. When
// debug is true the repaired value is the scalar black level instead
// of the computed replacement, so the map of detected pixels can be
// inspected visually (spec.md §6, DebugBadPixels).
func Fix(m *rawio.Mosaic, rc bayer.RowClasses, tbl *evtable.Table, darkNoise float64, mode Mode, debug bool) Stats {
	if mode == Off {
		return Stats{}
	}

	w, h := m.Width, m.Height
	black := m.Black
	coldThresh := black - int(darkNoise*8)

	replacement := make([]int32, w*h) // 0 means "no correction"

	numCPU := runtime.NumCPU()
	if numCPU < 1 {
		numCPU = 1
	}
	rows := h - 2*border
	if rows < 1 {
		rows = 0
	}
	chunk := (rows + numCPU - 1) / numCPU
	if chunk < 1 {
		chunk = 1
	}

	var wg sync.WaitGroup
	var hotCount, coldCount int64
	var mu sync.Mutex

	for y0 := border; y0 < h-border; y0 += chunk {
		y1 := y0 + chunk
		if y1 > h-border {
			y1 = h - border
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			var hot, cold int
			neighbours := make([]int, 0, 80)
			for y := y0; y < y1; y++ {
				isBright := rc.IsBright(y)
				for x := border; x < w-border; x++ {
					p := int(m.At(x, y))

					isCold := p < coldThresh
					if isBright && !isCold {
						// The bright exposure never produces hot pixels,
						// only cold ones.
						continue
					}

					neighbours = neighbours[:0]
					fc0 := bayer.FC(m.CFA, x, y)
					for i := -4; i <= 4; i++ {
						for j := -4; j <= 4; j++ {
							if i == 0 && j == 0 {
								continue
							}
							ny, nx := y+i, x+j
							if rc.IsBright(ny) != isBright {
								continue
							}
							if bayer.FC(m.CFA, nx, ny) != fc0 {
								continue
							}
							neighbours = append(neighbours, int(m.At(nx, ny)))
						}
					}
					if len(neighbours) == 0 {
						continue
					}

					max := kthLargest(neighbours, 1)
					isHot := tbl.Raw2EV(p)-tbl.Raw2EV(max) > evtable.EVResolution && max > black+8*int(darkNoise)

					if mode == Aggressive {
						second := kthLargest(neighbours, 2)
						isHot = (tbl.Raw2EV(p)-tbl.Raw2EV(max) > evtable.EVResolution/4 && max > black+8*int(darkNoise)) ||
							tbl.Raw2EV(p)-tbl.Raw2EV(second) > evtable.EVResolution/2
					}

					switch {
					case isHot:
						hot++
						replacement[y*w+x] = int32(kthLargest(neighbours, 2))
					case isCold:
						cold++
						replacement[y*w+x] = int32(medianInt(neighbours))
					}
				}
			}
			mu.Lock()
			hotCount += int64(hot)
			coldCount += int64(cold)
			mu.Unlock()
		}(y0, y1)
	}
	wg.Wait()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r := replacement[y*w+x]
			if r == 0 {
				continue
			}
			if debug {
				m.Set(x, y, uint32(black))
			} else {
				m.Set(x, y, uint32(r))
			}
		}
	}

	return Stats{Hot: int(hotCount), Cold: int(coldCount)}
}

// kthLargest returns the k-th largest value (k=1 is the max) without
// mutating v.
func kthLargest(v []int, k int) int {
	cp := append([]int(nil), v...)
	sort.Sort(sort.Reverse(sort.IntSlice(cp)))
	if k-1 >= len(cp) {
		return cp[len(cp)-1]
	}
	return cp[k-1]
}

func medianInt(v []int) int {
	cp := append([]int(nil), v...)
	sort.Ints(cp)
	return cp[len(cp)/2]
}
