package rawio_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdouchement/dualiso/internal/rawio"
)

func TestMosaicAtClampsOutOfBounds(t *testing.T) {
	m := rawio.NewMosaic(4, 3)
	m.Set(3, 2, 77)
	assert.Equal(t, uint32(77), m.At(100, 100))
	assert.Equal(t, uint32(0), m.At(-5, -5))
}

func TestMosaicSetIgnoresOutOfBounds(t *testing.T) {
	m := rawio.NewMosaic(2, 2)
	m.Set(-1, 0, 9)
	m.Set(5, 5, 9)
	for _, v := range m.Samples {
		assert.Equal(t, uint32(0), v)
	}
}

func TestMosaicPromoteDemoteRoundTrip(t *testing.T) {
	m := rawio.NewMosaic(2, 1)
	m.Set(0, 0, 100)
	m.Set(1, 0, 200)
	m.Promote(6)
	assert.Equal(t, uint32(100<<6), m.At(0, 0))
	m.Demote(6)
	assert.Equal(t, uint32(100), m.At(0, 0))
	assert.Equal(t, uint32(200), m.At(1, 0))
}

func TestWhiteBalanceAsShotNeutral(t *testing.T) {
	wb := rawio.WhiteBalance{RedMul: 2, BlueMul: 4}
	r, g, b, ok := wb.AsShotNeutral()
	require.True(t, ok)
	assert.Equal(t, 0.5, r)
	assert.Equal(t, 1.0, g)
	assert.Equal(t, 0.25, b)

	_, _, _, ok = rawio.WhiteBalance{RedMul: 0, BlueMul: 1}.AsShotNeutral()
	assert.False(t, ok)
}

func buildPGM(w, h, maxval int, samples []uint16) []byte {
	var buf bytes.Buffer
	buf.WriteString("P5\n")
	buf.WriteString(itoa(w))
	buf.WriteByte(' ')
	buf.WriteString(itoa(h))
	buf.WriteByte('\n')
	buf.WriteString(itoa(maxval))
	buf.WriteByte('\n')
	for _, s := range samples {
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], s)
		buf.Write(b[:])
	}
	return buf.Bytes()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestReadPGMRoundTripsSamples(t *testing.T) {
	raw := buildPGM(2, 2, 0x3FFF, []uint16{0, 100, 16383, 42})
	m, err := rawio.ReadPGM(bytes.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, 2, m.Width)
	assert.Equal(t, 2, m.Height)
	assert.Equal(t, 14, m.BitsPerSample)
	assert.Equal(t, []uint32{0, 100, 16383, 42}, m.Samples)
}

func TestReadPGMRejectsBadMagic(t *testing.T) {
	raw := []byte("P6\n2 2\n255\n\x00\x00\x00\x00\x00\x00\x00\x00")
	_, err := rawio.ReadPGM(bytes.NewReader(raw))
	assert.Error(t, err)
	var fe rawio.FormatError
	assert.ErrorAs(t, err, &fe)
}

func TestReadPGMRejectsOver14BitDepth(t *testing.T) {
	raw := buildPGM(1, 1, 0xFFFF, []uint16{1})
	_, err := rawio.ReadPGM(bytes.NewReader(raw))
	assert.Error(t, err)
}

func TestEncodeLEPacksLittleEndian(t *testing.T) {
	m := rawio.NewMosaic(2, 1)
	m.Set(0, 0, 0x1234)
	m.Set(1, 0, 0x5678)
	buf, err := rawio.EncodeLE(rawio.WriteParams{Mosaic: m}, false)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x34, 0x12, 0x78, 0x56}, buf)
}

func TestEncodeLECompressedDiffersAndDecompresses(t *testing.T) {
	m := rawio.NewMosaic(16, 16)
	for i := range m.Samples {
		m.Samples[i] = uint32(i % 100)
	}
	plain, err := rawio.EncodeLE(rawio.WriteParams{Mosaic: m}, false)
	require.NoError(t, err)
	compressed, err := rawio.EncodeLE(rawio.WriteParams{Mosaic: m}, true)
	require.NoError(t, err)
	assert.NotEqual(t, plain, compressed)
}
