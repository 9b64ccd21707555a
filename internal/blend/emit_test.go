package blend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mdouchement/dualiso/internal/blend"
)

func TestEmitDemotesAndClampsToUint16Range(t *testing.T) {
	plane := []uint32{0, 16 * 1000, 16 * 70000, 0xFFFFF}
	out := blend.Emit(plane)

	assert.InDelta(t, 0, out[0], 1)
	assert.InDelta(t, 1000, out[1], 1)
	assert.Equal(t, uint16(65535), out[2], "above-range input clamps to max 16-bit value")
	assert.Equal(t, uint16(65535), out[3])
}
