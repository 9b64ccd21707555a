// Package bayer provides colour-filter-array addressing shared by every
// pipeline pass: which of R, G1, G2, B sits at a given (x, y), and which
// of the four y%4 row classes is considered "bright" under the
// interleaved dual-exposure pattern.
package bayer

// Pattern identifies the 2x2 tile orientation. The core only supports
// the two variants named in spec.md: RGGB and GBRG (a vertical shift of
// RGGB by one row).
type Pattern int

const (
	RGGB Pattern = iota
	GBRG
)

func (p Pattern) String() string {
	if p == GBRG {
		return "GBRG"
	}
	return "RGGB"
}

// Colour is a CFA colour plane index: 0=R, 1=G1, 2=G2, 3=B. G1 and G2 are
// the two green sub-positions of the Bayer tile (distinguished because
// they sit in different rows/exposures under the interleave).
type Colour int

const (
	R Colour = iota
	G1
	G2
	B
)

// FC returns the CFA colour at (x, y) for the given pattern.
//
// RGGB tile:        GBRG tile:
//
//	R G1              G2 B
//	G2 B              R  G1
func FC(p Pattern, x, y int) Colour {
	even := (x & 1) == 0
	top := (y & 1) == 0
	if p == GBRG {
		top = !top
	}
	switch {
	case top && even:
		return R
	case top && !even:
		return G1
	case !top && even:
		return G2
	default:
		return B
	}
}

// RowClasses holds, for each of the four y%4 classes, whether that class
// of rows received the brighter exposure. Invariant (spec.md I3):
// exactly two entries are true, and IsBright[0] != IsBright[2] &&
// IsBright[1] != IsBright[3].
type RowClasses [4]bool

// Valid reports whether the table satisfies the interleave invariant.
func (r RowClasses) Valid() bool {
	n := 0
	for _, b := range r {
		if b {
			n++
		}
	}
	return n == 2 && r[0] != r[2] && r[1] != r[3]
}

// IsBright reports whether row y belongs to a bright-exposure class.
func (r RowClasses) IsBright(y int) bool {
	return r[((y%4)+4)%4]
}
