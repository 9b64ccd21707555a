// Command dualisotool reconstructs a single HDR mosaic from a dual-ISO
// interlaced raw capture (spec.md §1), reading the external decoder's
// big-endian PGM and writing a little-endian 16-bit sample plane ready
// for a DNG/TIFF container writer (spec.md §6, out of core scope).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/mdouchement/dualiso/internal/dlog"
	"github.com/mdouchement/dualiso/internal/pipeline"
	"github.com/mdouchement/dualiso/internal/rawio"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "dualisotool: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("dualisotool", flag.ExitOnError)
	output := fs.String("o", "", "output raw sample plane path (required)")
	leftMargin := fs.Int("left-margin", 168, "optical-black left border width, in samples")
	topMargin := fs.Int("top-margin", 52, "optical-black top border width, in rows")
	interp := fs.String("interp", "edge", "interpolation method: edge|mean23")
	chroma := fs.String("chroma", "off", "chroma smoothing footprint: off|2x2|3x3|5x5")
	badpixel := fs.String("badpixel", "normal", "bad-pixel fix mode: off|normal|aggressive")
	debugBadPixel := fs.Bool("debug-badpixel", false, "replace repaired pixels with black level instead of the fix")
	fullres := fs.Bool("fullres", true, "blend in the full-resolution, alias-prone reconstruction")
	aliasMap := fs.Bool("alias-map", true, "build and apply the alias confidence map")
	stripeFix := fs.Bool("stripe-fix", true, "apply the horizontal stripe-offset correction")
	softFilmEV := fs.Float64("soft-film-ev", 0, "soft-film highlight rolloff boost in EV (0 disables)")
	wbR := fs.Float64("wb-r", 1, "red channel multiplier for the soft-film curve")
	wbG := fs.Float64("wb-g", 1, "green channel multiplier for the soft-film curve")
	wbB := fs.Float64("wb-b", 1, "blue channel multiplier for the soft-film curve")
	compress := fs.Bool("compress", false, "LZW-compress the output sample plane")
	verbose := fs.Bool("v", false, "enable debug-level logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: dualisotool [options] <input.pgm>")
	}
	if *output == "" {
		return fmt.Errorf("-o output path is required")
	}

	base := logrus.New()
	if *verbose {
		base.SetLevel(logrus.DebugLevel)
	}
	log := dlog.New(base)

	opts := pipeline.DefaultOptions()
	switch *interp {
	case "edge":
		opts.InterpMethod = pipeline.EdgeDirected
	case "mean23":
		opts.InterpMethod = pipeline.Mean23
	default:
		return fmt.Errorf("unknown -interp %q", *interp)
	}
	switch *chroma {
	case "off":
		opts.ChromaSmooth = pipeline.ChromaOff
	case "2x2":
		opts.ChromaSmooth = pipeline.Chroma2x2
	case "3x3":
		opts.ChromaSmooth = pipeline.Chroma3x3
	case "5x5":
		opts.ChromaSmooth = pipeline.Chroma5x5
	default:
		return fmt.Errorf("unknown -chroma %q", *chroma)
	}
	switch *badpixel {
	case "off":
		opts.FixBadPixels = pipeline.FixOff
	case "normal":
		opts.FixBadPixels = pipeline.FixNormal
	case "aggressive":
		opts.FixBadPixels = pipeline.FixAggressive
	default:
		return fmt.Errorf("unknown -badpixel %q", *badpixel)
	}
	opts.DebugBadPixels = *debugBadPixel
	opts.UseFullres = *fullres
	opts.UseAliasMap = *aliasMap
	opts.UseStripeFix = *stripeFix
	opts.SoftFilmEV = *softFilmEV
	opts.SoftFilmWB = [3]float64{*wbR, *wbG, *wbB}

	in, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer in.Close()

	m, err := rawio.ReadPGM(in)
	if err != nil {
		return fmt.Errorf("decode %s: %w", fs.Arg(0), err)
	}
	m.ActiveArea = rawio.Rect{X1: *leftMargin, Y1: *topMargin, X2: m.Width, Y2: m.Height}

	ctx := pipeline.NewContext(m, opts, log, *leftMargin, *topMargin)
	if err := pipeline.Run(ctx); err != nil {
		return fmt.Errorf("reconstruct %s: %w", fs.Arg(0), err)
	}

	out, err := os.Create(*output)
	if err != nil {
		return err
	}
	defer out.Close()

	final := ctx.Mosaic
	if ctx.GBRGShifted {
		final = restoreGBRGRow(ctx)
	}

	asR, asG, asB, hasAS := 0.0, 0.0, 0.0, false
	if *wbR > 0 && *wbB > 0 {
		asR, asG, asB, hasAS = 1 / *wbR, 1, 1 / *wbB, true
	}
	params := rawio.WriteParams{
		Mosaic:           final,
		BlackLevel:       final.Black,
		WhiteLevel:       final.WhiteDark,
		AsShotNeutralR:   asR,
		AsShotNeutralG:   asG,
		AsShotNeutralB:   asB,
		HasAsShotNeutral: hasAS,
	}
	if err := rawio.WriteTo(out, params, *compress); err != nil {
		return fmt.Errorf("encode %s: %w", *output, err)
	}

	log.WithField("overlap_ev", ctx.Overlap).WithField("corr_ev", ctx.CorrEV).Info("done")
	return nil
}

// restoreGBRGRow prepends the one row the GBRG shift excluded from
// processing back onto the reconstructed mosaic, matching cr2hdr.c's
// buffer-pointer rewind: that row was black-subtracted but never
// promoted, matched, or demoted, so it is written back exactly as it
// was left.
func restoreGBRGRow(ctx *pipeline.Context) *rawio.Mosaic {
	shifted := ctx.Mosaic
	full := rawio.NewMosaic(shifted.Width, shifted.Height+1)
	full.CFA = shifted.CFA
	full.Black = shifted.Black
	full.WhiteDark, full.WhiteBright = shifted.WhiteDark, shifted.WhiteBright
	full.BitsPerSample = shifted.BitsPerSample
	full.ActiveArea = shifted.ActiveArea
	copy(full.Samples[:shifted.Width], ctx.GBRGFirstRow)
	copy(full.Samples[shifted.Width:], shifted.Samples)
	return full
}
