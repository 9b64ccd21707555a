// Package perr declares the pipeline's five terminal error kinds
// (spec.md §7). It is a leaf package so every pass (pattern, calib,
// match, badpixel, interp, stripe, blend) and the pipeline orchestrator
// can all depend on it without creating an import cycle.
package perr

import "github.com/pkg/errors"

var (
	// ErrNotInterlaced: the pattern detector found no valid bright/dark
	// partition, or cross-row variance was too low to be interlaced ISO.
	ErrNotInterlaced = errors.New("doesn't look like interlaced ISO")

	// ErrUnsupportedPattern: bright rows are adjacent under mod 2.
	ErrUnsupportedPattern = errors.New("interlacing method not supported")

	// ErrExposureMatchFailed: estimated gain < 1.2 or non-finite.
	ErrExposureMatchFailed = errors.New("exposure match failed")

	// ErrOverlapTooSmall: ISO overlap estimate below 0.5 EV.
	ErrOverlapTooSmall = errors.New("overlap too small")

	// ErrUpstreamIO: the external decoder or metadata reader failed.
	// The core only propagates this; it never originates the failure.
	ErrUpstreamIO = errors.New("upstream raw decoder or metadata reader failed")
)
