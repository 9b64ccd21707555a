package rawio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// ReadPGM decodes the big-endian binary PGM (P5) that the external raw
// decoder (spec.md §6, out of core scope) emits: a single grey plane of
// 14-bit samples packed into 16-bit big-endian words (bits 14-15 zero).
// The returned Mosaic's ActiveArea defaults to the full frame; callers
// set it from the accompanying Metadata.
func ReadPGM(r io.Reader) (*Mosaic, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	magic, err := readToken(br)
	if err != nil {
		return nil, errorsWrap(err, "read magic")
	}
	if magic != "P5" {
		return nil, FormatError(fmt.Sprintf("unexpected PGM magic %q", magic))
	}

	w, err := readIntToken(br)
	if err != nil {
		return nil, errorsWrap(err, "read width")
	}
	h, err := readIntToken(br)
	if err != nil {
		return nil, errorsWrap(err, "read height")
	}
	maxval, err := readIntToken(br)
	if err != nil {
		return nil, errorsWrap(err, "read maxval")
	}
	if maxval <= 0 || maxval > 0xFFFF {
		return nil, FormatError("maxval out of range")
	}
	if maxval > 0x3FFF {
		return nil, FormatError("sample depth exceeds 14 bits")
	}

	m := NewMosaic(w, h)
	m.BitsPerSample = 14
	m.ActiveArea = Rect{0, 0, w, h}
	// Seed levels before calibration runs, matching the PGM decoder's own
	// defaults (spec.md §3): calib.Subtract/WhiteDetect refine these from
	// the optical-black border once the active area is known.
	m.Black = 2048
	m.WhiteDark, m.WhiteBright = 15000, 15000

	buf := make([]byte, 2*w*h)
	if _, err := io.ReadFull(br, buf); err != nil {
		return nil, errorsWrap(err, "read samples")
	}
	for i := 0; i < w*h; i++ {
		v := binary.BigEndian.Uint16(buf[2*i : 2*i+2])
		if int(v) > maxval {
			return nil, FormatError("sample exceeds maxval")
		}
		m.Samples[i] = uint32(v)
	}

	return m, nil
}

// readToken reads one whitespace-delimited token, skipping '#' comments,
// per the Netpbm "plain header, binary body" convention.
func readToken(br *bufio.Reader) (string, error) {
	var tok []byte
	for {
		b, err := br.ReadByte()
		if err != nil {
			return "", err
		}
		if b == '#' {
			for {
				c, err := br.ReadByte()
				if err != nil {
					return "", err
				}
				if c == '\n' {
					break
				}
			}
			continue
		}
		if isSpace(b) {
			if len(tok) > 0 {
				return string(tok), nil
			}
			continue
		}
		tok = append(tok, b)
		// A single whitespace byte terminates the header's final token
		// (maxval) before the binary body. Tokens longer than 32 bytes
		// are rejected as malformed, so a header with no terminator
		// does not run on into the pixel data.
		if len(tok) > 32 {
			return "", FormatError("malformed PGM token")
		}
	}
}

func readIntToken(br *bufio.Reader) (int, error) {
	tok, err := readToken(br)
	if err != nil {
		return 0, err
	}
	var n int
	for _, c := range []byte(tok) {
		if c < '0' || c > '9' {
			return 0, FormatError("malformed PGM integer")
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func errorsWrap(err error, context string) error {
	return fmt.Errorf("%s: %w", context, err)
}
