// Package bom strips a leading UTF-8 byte order mark from JSON inputs.
// The transcription service and some editors prepend one to the files this tool reads.
package bom

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Strip returns b without a leading UTF-8 BOM. Input without a BOM is returned unchanged.
func Strip(b []byte) []byte {
	out, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), b)
	if err != nil {
		return b
	}
	return out
}

// NewReader wraps r so that a leading UTF-8 BOM is dropped while reading.
func NewReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.UTF8BOM.NewDecoder())
}
