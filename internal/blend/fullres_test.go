package blend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mdouchement/dualiso/internal/blend"
)

func TestFullresPrefersNativeBrightUnlessClipped(t *testing.T) {
	w, h := 2, 2
	dark := []uint32{100, 200, 300, 400}
	bright := []uint32{900, 20000, 300, 400}
	isBright := func(y int) bool { return y == 0 }

	out := blend.Fullres(dark, bright, isBright, w, h, 16000)

	assert.Equal(t, uint32(900), out[0], "unclipped bright kept verbatim")
	assert.Equal(t, uint32(20000), out[1], "clipped bright but still brighter than dark, kept")
	assert.Equal(t, uint32(300), out[2], "dark row: dark kept as-is")
	assert.Equal(t, uint32(400), out[3])
}

func TestFullresFallsBackToDarkWhenBrightClippedAndDimmer(t *testing.T) {
	w, h := 1, 1
	dark := []uint32{5000}
	bright := []uint32{4000} // clipped (>= white) and not brighter than dark
	isBright := func(int) bool { return true }

	out := blend.Fullres(dark, bright, isBright, w, h, 2000)
	assert.Equal(t, uint32(5000), out[0])
}
