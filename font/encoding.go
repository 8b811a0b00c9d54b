package font

import (
	"strings"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// NormalizeUnicode normalizes a string to NFC (Canonical Composition).
// PDF text arrives in whatever form the producer emitted; normalizing
// keeps comparisons and emitted output stable.
func NormalizeUnicode(s string) string {
	return norm.NFC.String(s)
}

// DecodeUTF16BE decodes UTF-16 big-endian bytes to a string
func DecodeUTF16BE(data []byte) string {
	if len(data)%2 != 0 {
		data = data[:len(data)-1]
	}

	units := make([]uint16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		units = append(units, uint16(data[i])<<8|uint16(data[i+1]))
	}

	return string(utf16.Decode(units))
}

// DecodeUTF16LE decodes UTF-16 little-endian bytes to a string
func DecodeUTF16LE(data []byte) string {
	if len(data)%2 != 0 {
		data = data[:len(data)-1]
	}

	units := make([]uint16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		units = append(units, uint16(data[i+1])<<8|uint16(data[i]))
	}

	return string(utf16.Decode(units))
}

// DecodeLatin1 decodes single-byte character codes as Latin-1. This is
// the fallback when no ToUnicode information is available; codes 0-255
// map directly to the corresponding Unicode codepoints.
func DecodeLatin1(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		sb.WriteRune(rune(b))
	}
	return sb.String()
}
