package blend

import "github.com/mdouchement/dualiso/internal/pipeline/evtable"

// Halfres mixes the two exposures in EV space using the raised-cosine
// mix curve, trading resolution for noise and banding immunity
// (spec.md §4.7).
func Halfres(dark, bright []uint32, tbl *evtable.Table, mc *MixCurve) []uint32 {
	out := make([]uint32, len(dark))
	for i := range out {
		b := bright[i]
		d := dark[i]
		bev := tbl.Raw2EV(int(b))
		dev := tbl.Raw2EV(int(d))
		k := mc.At(b)
		mixed := int32(float64(bev)*(1-k) + float64(dev)*k)
		out[i] = tbl.EV2Raw(mixed)
	}
	return out
}
