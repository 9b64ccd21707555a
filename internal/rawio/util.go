package rawio

import "fmt"

// FormatError reports that the input container is not well-formed.
type FormatError string

func (e FormatError) Error() string {
	return fmt.Sprintf("rawio: invalid format: %s", string(e))
}

// UnsupportedError reports a structurally valid but unimplemented feature.
type UnsupportedError string

func (e UnsupportedError) Error() string {
	return fmt.Sprintf("rawio: unsupported feature: %s", string(e))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
