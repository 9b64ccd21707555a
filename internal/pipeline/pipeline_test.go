package pipeline_test

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdouchement/dualiso/internal/bayer"
	"github.com/mdouchement/dualiso/internal/dlog"
	"github.com/mdouchement/dualiso/internal/pipeline"
	"github.com/mdouchement/dualiso/internal/rawio"
)

// buildSyntheticMosaic constructs a flat, noise-free interlaced dual-ISO
// mosaic: near-black optical-black borders (left columns, top rows) and
// an active area carrying a uniform dark-exposure level on row classes
// 1/2 and a uniform bright-exposure level (four times the gain) on row
// classes 0/3, matching bayer.RowClasses{true, false, false, true}.
func buildSyntheticMosaic(w, h, leftMargin, topMargin int) *rawio.Mosaic {
	m := rawio.NewMosaic(w, h)
	const (
		black       = 2048
		darkLevel   = 2336 // black + 288, matched to a 4x gain bright exposure
		brightLevel = 3200 // black + 1152
	)

	for y := 0; y < h; y++ {
		cls := y % 4
		bright := cls == 0 || cls == 3
		for x := 0; x < w; x++ {
			var v int
			switch {
			case x < leftMargin:
				v = black + (x % 3) - 1 // tiny deterministic variance, avoids a zero noise floor
			case y < topMargin:
				v = black
			case bright:
				v = brightLevel
			default:
				v = darkLevel
			}
			m.Set(x, y, uint32(v))
		}
	}

	m.Black = black
	m.BitsPerSample = 14
	m.ActiveArea = rawio.Rect{X1: leftMargin, Y1: topMargin, X2: w, Y2: h}
	return m
}

func silentLog() *logrus.Entry {
	base := logrus.New()
	base.SetOutput(io.Discard)
	return dlog.New(base)
}

func TestRunProcessesSyntheticMosaicEndToEnd(t *testing.T) {
	const w, h, leftMargin, topMargin = 160, 160, 32, 24

	m := buildSyntheticMosaic(w, h, leftMargin, topMargin)
	opts := pipeline.DefaultOptions()
	opts.InterpMethod = pipeline.Mean23

	ctx := pipeline.NewContext(m, opts, silentLog(), leftMargin, topMargin)
	err := pipeline.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, bayer.RowClasses{true, false, false, true}, ctx.RowClasses)
	assert.InDelta(t, 2.0, ctx.CorrEV, 0.1)
	assert.Greater(t, ctx.Overlap, 0.5)
	assert.False(t, ctx.GBRGShifted)

	require.Len(t, ctx.Mosaic.Samples, w*h)
	for i, v := range ctx.Mosaic.Samples {
		assert.LessOrEqualf(t, v, uint32(0xFFFF), "sample %d out of 16-bit range: %d", i, v)
	}
}

func TestRunWithBadPixelFixAndFullresOff(t *testing.T) {
	const w, h, leftMargin, topMargin = 160, 160, 32, 24

	m := buildSyntheticMosaic(w, h, leftMargin, topMargin)
	opts := pipeline.DefaultOptions()
	opts.InterpMethod = pipeline.Mean23
	opts.FixBadPixels = pipeline.FixOff
	opts.UseFullres = false // Normalize must also force UseAliasMap off

	ctx := pipeline.NewContext(m, opts, silentLog(), leftMargin, topMargin)
	err := pipeline.Run(ctx)
	require.NoError(t, err)

	assert.False(t, ctx.Opts.UseAliasMap)
	for i, v := range ctx.Mosaic.Samples {
		assert.LessOrEqualf(t, v, uint32(0xFFFF), "sample %d out of 16-bit range: %d", i, v)
	}
}
