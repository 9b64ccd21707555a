package evtable_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mdouchement/dualiso/internal/pipeline/evtable"
)

func TestBuildRoundTrip(t *testing.T) {
	black, white := 128*64, 14000*64
	tbl := evtable.Build(black, white)
	assert.Equal(t, black, tbl.Black())

	for _, raw := range []int{black, black + 1000, white, white - 500, evtable.RawMax} {
		ev := tbl.Raw2EV(raw)
		back := tbl.EV2Raw(ev)
		assert.InDelta(t, raw, int(back), 200, "round-trip raw=%d ev=%d", raw, ev)
	}
}

func TestRaw2EVMonotonic(t *testing.T) {
	tbl := evtable.Build(2048*64, 14000*64)
	prev := tbl.Raw2EV(0)
	for raw := 1000; raw <= evtable.RawMax; raw += 997 {
		ev := tbl.Raw2EV(raw)
		assert.GreaterOrEqual(t, ev, prev)
		prev = ev
	}
}

func TestRaw2EVAtBlackIsZero(t *testing.T) {
	black := 4096 * 64
	tbl := evtable.Build(black, 14000*64)
	assert.Equal(t, int32(0), tbl.Raw2EV(black))
}
