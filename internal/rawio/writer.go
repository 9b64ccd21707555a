package rawio

import (
	"bytes"
	"encoding/binary"
	"io"

	xlzw "golang.org/x/image/tiff/lzw"
)

// WriteParams is the handoff record to the external raw-container writer
// (spec.md §6 output contract): the final 16-bit mosaic, the recomputed
// black/white levels (scaled back from 20-bit to 16-bit units by /16),
// and the neutral-white triple to forward verbatim when available.
type WriteParams struct {
	Mosaic       *Mosaic
	BlackLevel   int // round(avg_black) / 16
	WhiteLevel   int // min(Wd, Wb') / 16
	AsShotNeutralR, AsShotNeutralG, AsShotNeutralB float64
	HasAsShotNeutral bool
}

// EncodeLE packs the mosaic's samples into a little-endian byte buffer,
// per spec.md §6 ("Byte order is little-endian in the in-memory buffer;
// the writer performs its own endianness handling"). When compress is
// true, the buffer is additionally LZW-compressed (MSB-first codes, as
// TIFF/DNG strips use) so callers that want a compact intermediate
// representation before handing bytes to the external container writer
// can ask for one; the external writer is expected to understand either
// form via its own Compression tag.
func EncodeLE(p WriteParams, compress bool) ([]byte, error) {
	m := p.Mosaic
	raw := make([]byte, 2*m.Width*m.Height)
	for i, v := range m.Samples {
		binary.LittleEndian.PutUint16(raw[2*i:2*i+2], uint16(v))
	}

	if !compress {
		return raw, nil
	}

	var buf bytes.Buffer
	wc := xlzw.NewWriter(&buf, xlzw.MSB, 8)
	if _, err := wc.Write(raw); err != nil {
		return nil, err
	}
	if err := wc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo writes the little-endian (optionally LZW-compressed) sample
// buffer to w. It does not write any container header: building the
// actual DNG/TIFF IFD is the external raw-container writer's job
// (spec.md §1 Out-of-scope).
func WriteTo(w io.Writer, p WriteParams, compress bool) error {
	buf, err := EncodeLE(p, compress)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}
