package blend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mdouchement/dualiso/internal/blend"
)

func TestOverlapTrimsByThreeOnceAboveSix(t *testing.T) {
	// lowISODR = log2(65536-0) = 16, darkNoiseEV=2 => lowISODR=14.
	// overlap = 14 - corrEV = 13 (>= 6), so the trim removes exactly 3.
	overlap, err := blend.Overlap(0, 65536, 2, 1)
	assert.NoError(t, err)
	assert.InDelta(t, 10.0, overlap, 1e-9)
}

func TestOverlapFloorsAtThreeBelowSix(t *testing.T) {
	// Raw overlap before trimming is 14-12=2, below 6: the trim formula
	// (overlap -= min(3, overlap-3)) always settles at exactly 3 in that
	// regime, mirroring cr2hdr.c's own "ISO overlap" trim verbatim.
	overlap, err := blend.Overlap(0, 65536, 2, 12)
	assert.NoError(t, err)
	assert.InDelta(t, 3.0, overlap, 1e-9)
}
