package pipeline

import (
	"math"

	"github.com/mdouchement/dualiso/internal/badpixel"
	"github.com/mdouchement/dualiso/internal/bayer"
	"github.com/mdouchement/dualiso/internal/blend"
	"github.com/mdouchement/dualiso/internal/calib"
	"github.com/mdouchement/dualiso/internal/dlog"
	"github.com/mdouchement/dualiso/internal/interp"
	"github.com/mdouchement/dualiso/internal/match"
	"github.com/mdouchement/dualiso/internal/pattern"
	"github.com/mdouchement/dualiso/internal/pipeline/evtable"
	"github.com/mdouchement/dualiso/internal/softfilm"
	"github.com/mdouchement/dualiso/internal/stripe"
)

const promoteBits = 6 // 14-bit input -> 20-bit working depth
const demoteBits = 4  // 20-bit working depth -> 16-bit output

// Run executes every pass in order and leaves ctx.Mosaic holding the
// final 16-bit combined mosaic (spec.md §5).
func Run(ctx *Context) error {
	m := ctx.Mosaic
	log := ctx.Log

	newBlack := calib.Subtract(m, ctx.LeftMargin, ctx.TopMargin)
	m.Black = newBlack
	dlog.Stage(log, "calibration").WithField("black", newBlack).Info("black level calibrated")

	m.CFA = pattern.DetectOrientation(m)
	dlog.Stage(log, "pattern").WithField("cfa", m.CFA.String()).Info("orientation detected")

	if m.CFA == bayer.GBRG {
		ctx.GBRGFirstRow = append([]uint32(nil), m.Samples[:m.Width]...)
		ctx.Mosaic = pattern.ShiftForGBRG(m)
		ctx.GBRGShifted = true
		m = ctx.Mosaic
	}

	rc, err := pattern.ClassifyRows(m)
	if err != nil {
		dlog.Fail(log, "pattern", err)
		return err
	}
	ctx.RowClasses = rc

	whiteDark, whiteBright := calib.WhiteDetect(m, rc)
	sigmaDark, sigmaBright := calib.NoiseFloors(m, ctx.LeftMargin, ctx.TopMargin)
	darkNoiseEV := math.Log2(sigmaDark) + promoteBits
	dlog.Stage(log, "calibration").WithField("sigma_dark", sigmaDark).WithField("sigma_bright", sigmaBright).Info("noise floors measured")

	m.Promote(promoteBits)
	m.Black <<= promoteBits
	whiteDark <<= promoteBits
	whiteBright <<= promoteBits
	sigmaDark *= float64(int(1) << promoteBits)
	sigmaBright *= float64(int(1) << promoteBits)

	m.WhiteDark, m.WhiteBright = whiteDark, whiteBright
	ctx.WhiteDark, ctx.WhiteBright = whiteDark, whiteBright
	ctx.DarkNoise, ctx.BrightNoise = sigmaDark, sigmaBright

	ctx.Table = evtable.Build(m.Black, whiteDark)
	tbl := ctx.Table

	mres, err := match.Match(m, rc, whiteDark, whiteBright)
	if err != nil {
		dlog.Fail(log, "matcher", err)
		return err
	}
	ctx.CorrEV = mres.CorrEV
	ctx.WhiteDarkened = mres.WhiteDarkened
	dlog.Stage(log, "matcher").WithField("corr_ev", mres.CorrEV).Info("exposures matched")

	if ctx.Opts.FixBadPixels != FixOff {
		mode := badpixel.Normal
		if ctx.Opts.FixBadPixels == FixAggressive {
			mode = badpixel.Aggressive
		}
		stats := badpixel.Fix(m, rc, tbl, sigmaDark, mode, ctx.Opts.DebugBadPixels)
		dlog.Stage(log, "badpixel").WithField("hot", stats.Hot).WithField("cold", stats.Cold).Info("bad pixels repaired")
	}

	var interpolator interp.Interpolator
	if ctx.Opts.InterpMethod == Mean23 {
		interpolator = interp.Mean23{}
	} else {
		interpolator = interp.EdgeDirected{}
	}
	ir := interpolator.Interpolate(m, rc, tbl, whiteDark, ctx.WhiteDarkened)
	dlog.Stage(log, "interpolation").Info("exposures reconstructed")

	if ctx.Opts.UseStripeFix {
		stripe.Fix(ir.Dark, ir.Bright, m.Width, m.Height, whiteDark, ctx.WhiteDarkened)
		dlog.Stage(log, "stripe").Info("stripe offsets corrected")
	}

	ctx.Buffers = NewBuffers(m.Width, m.Height)
	buf := ctx.Buffers
	buf.Dark = ir.Dark
	buf.Bright = ir.Bright

	buf.Fullres = blend.Fullres(buf.Dark, buf.Bright, rc.IsBright, m.Width, m.Height, ctx.WhiteDarkened)
	dlog.Stage(log, "fullres").Info("full-resolution reconstruction built")

	overlap, err := blend.Overlap(m.Black, whiteDark, darkNoiseEV, ctx.CorrEV)
	if err != nil {
		dlog.Fail(log, "halfres", err)
		return err
	}
	ctx.Overlap = overlap

	mc := blend.NewMixCurve(m.Black, whiteDark, ctx.CorrEV, overlap)
	buf.Halfres = blend.Halfres(buf.Dark, buf.Bright, tbl, mc)
	dlog.Stage(log, "halfres").WithField("overlap_ev", overlap).Info("half-resolution blend built")

	fc := blend.NewFullresCurve(tbl.Raw2EV)

	footprint := blend.ChromaOff
	switch ctx.Opts.ChromaSmooth {
	case Chroma2x2:
		footprint = blend.Chroma2x2
	case Chroma3x3:
		footprint = blend.Chroma3x3
	case Chroma5x5:
		footprint = blend.Chroma5x5
	}
	buf.FullresSmoothed = blend.ChromaSmooth(buf.Fullres, m.CFA, footprint, m.Width, m.Height, tbl)
	buf.HalfresSmoothed = blend.ChromaSmooth(buf.Halfres, m.CFA, footprint, m.Width, m.Height, tbl)
	if footprint != blend.ChromaOff {
		dlog.Stage(log, "chroma").Info("chroma smoothing applied")
	}

	if ctx.Opts.UseAliasMap {
		buf.AliasMap = blend.AliasMap(buf.FullresSmoothed, buf.HalfresSmoothed, buf.Bright, tbl.Raw2EV, fc, sigmaDark, m.Width, m.Height)
		dlog.Stage(log, "alias").Info("alias confidence map built")
	}

	buf.Overexposed = blend.Overexposed(buf.Dark, buf.Bright, m.Width, m.Height, whiteDark, ctx.WhiteDarkened)

	combined := blend.Combine(buf.Dark, buf.Bright, buf.HalfresSmoothed, buf.Fullres, buf.FullresSmoothed, buf.AliasMap, buf.Overexposed, fc, tbl, m.Black, sigmaDark, ctx.Opts.UseFullres, m.Width, m.Height)
	m.Samples = combined
	dlog.Stage(log, "combine").Info("final blend committed")

	newBlack2, delta := calib.SubtractSimple(m, ctx.LeftMargin, ctx.TopMargin)
	m.WhiteDark -= delta
	m.WhiteBright -= delta
	dlog.Stage(log, "calibration").WithField("black", newBlack2).WithField("delta", delta).Info("final black level redone")

	m.Black /= 1 << demoteBits
	m.WhiteDark /= 1 << demoteBits
	m.WhiteBright /= 1 << demoteBits
	m.Samples = make([]uint32, len(m.Samples))
	demoted := blend.Emit(combined)
	for i, v := range demoted {
		m.Samples[i] = uint32(v)
	}
	dlog.Stage(log, "emit").Info("demoted to 16-bit output")

	if ctx.Opts.SoftFilmEV > 0 {
		applySoftFilm(ctx)
	}

	return nil
}

func applySoftFilm(ctx *Context) {
	m := ctx.Mosaic
	if !softfilm.Plausible(ctx.Opts.SoftFilmWB[0], ctx.Opts.SoftFilmWB[1], ctx.Opts.SoftFilmWB[2]) {
		dlog.Stage(ctx.Log, "softfilm").Warn("implausible white balance, skipping soft film curve")
		return
	}
	curve := softfilm.NewCurve(ctx.Opts.SoftFilmEV, m.Black, m.WhiteDark, m.Black, m.WhiteDark, ctx.Opts.SoftFilmWB)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			col := bayer.FC(m.CFA, x, y)
			v := curve.Apply(float64(m.At(x, y)), col)
			if v < 0 {
				v = 0
			}
			if v > 65535 {
				v = 65535
			}
			m.Set(x, y, uint32(v))
		}
	}
	dlog.Stage(ctx.Log, "softfilm").WithField("ev", ctx.Opts.SoftFilmEV).Info("soft film curve applied")
}
