package blend

import "github.com/mdouchement/dualiso/internal/pipeline/evtable"

// Combine produces the final 20-bit mosaic from the half-res and
// full-res estimates, the alias map and the overexposure map (spec.md
// §4.10). aliasMap and overexposed may be nil when their passes were
// disabled; fullres/fullresSmooth likewise when fullres blending is
// off, in which case the result is just halfresSmooth in EV space.
func Combine(dark, bright, halfresSmooth, fullres, fullresSmooth, aliasMap, overexposed []uint32, fc *FullresCurve, tbl *evtable.Table, black int, darkNoise float64, useFullres bool, w, h int) []uint32 {
	out := make([]uint32, w*h)

	for i := range out {
		hrev := tbl.Raw2EV(int(halfresSmooth[i]))
		output := hrev

		if useFullres {
			b := bright[i]
			frev := tbl.Raw2EV(int(fullres[i]))
			frsev := tbl.Raw2EV(int(fullresSmooth[i]))

			f := fc.At(b)

			var c float64
			if aliasMap != nil {
				c = clamp01(float64(aliasMap[i]) / AliasMapMax)
			}
			var ovf float64
			if overexposed != nil {
				ovf = clamp01(float64(overexposed[i]) / 200.0)
			}
			c = maxF(c, ovf)

			nof := maxF(ovf, 1-f)
			f = maxF(f, c)

			fev := nof*float64(frsev) + (1-nof)*float64(frev)

			sig := (int(dark[i]) + int(bright[i])) / 2
			limit := float64(sig-black) / (4 * darkNoise)
			f = clamp(f, 0, limit)

			output = int32(float64(hrev)*(1-f) + fev*f)
			output = clampEV(output)
		}

		out[i] = tbl.EV2Raw(output)
	}

	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func clampEV(v int32) int32 {
	lo := int32(evtable.EVLow * evtable.EVResolution)
	hi := int32(evtable.EVHigh*evtable.EVResolution) - 1
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
