package contentstream

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// Decode applies a named PDF stream filter to raw stream data. Content
// streams in the wild are almost always FlateDecode compressed; the
// ASCII filters show up in hand-written and debugging PDFs.
func Decode(data []byte, filter string) ([]byte, error) {
	switch filter {
	case "", "Identity":
		return data, nil
	case "FlateDecode", "Fl":
		return FlateDecode(data)
	case "ASCIIHexDecode", "AHx":
		return ASCIIHexDecode(data)
	case "ASCII85Decode", "A85":
		return ASCII85Decode(data)
	default:
		return nil, fmt.Errorf("unsupported stream filter: %s", filter)
	}
}

// FlateDecode decompresses Flate (zlib/deflate) compressed data.
// This is the most common compression filter in PDFs.
func FlateDecode(data []byte) ([]byte, error) {
	reader, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create zlib reader: %w", err)
	}
	defer reader.Close()

	var buf bytes.Buffer
	_, err = io.Copy(&buf, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}

	return buf.Bytes(), nil
}

// ASCIIHexDecode decodes ASCII hexadecimal encoded data.
// Each pair of hexadecimal digits (0-9, A-F, a-f) represents one byte.
// Whitespace is ignored, and > marks end of data.
func ASCIIHexDecode(data []byte) ([]byte, error) {
	var result bytes.Buffer

	i := 0
	for i < len(data) {
		// Skip whitespace
		if isWhitespace(data[i]) {
			i++
			continue
		}

		// Check for EOD marker
		if data[i] == '>' {
			break
		}

		if !isHexDigit(data[i]) {
			return nil, fmt.Errorf("invalid hex digit: %c", data[i])
		}

		b1 := hexValue(data[i])
		i++

		// Skip whitespace before second digit
		for i < len(data) && isWhitespace(data[i]) {
			i++
		}

		if i >= len(data) || data[i] == '>' {
			// Odd number of digits - assume trailing 0
			result.WriteByte(b1 << 4)
			break
		}

		if !isHexDigit(data[i]) {
			return nil, fmt.Errorf("invalid hex digit: %c", data[i])
		}

		result.WriteByte((b1 << 4) | hexValue(data[i]))
		i++
	}

	return result.Bytes(), nil
}

// ASCII85Decode decodes ASCII base-85 (Ascii85) encoded data.
// Each group of 5 ASCII characters (! to u, values 33-117) represents 4 bytes.
// The special character 'z' represents four zero bytes. The sequence ~> marks
// end of data.
func ASCII85Decode(data []byte) ([]byte, error) {
	var result bytes.Buffer

	i := 0
	for i < len(data) {
		// Skip whitespace
		if isWhitespace(data[i]) {
			i++
			continue
		}

		// Check for EOD marker ~>
		if i+1 < len(data) && data[i] == '~' && data[i+1] == '>' {
			break
		}

		// Special case: 'z' represents 0x00000000
		if data[i] == 'z' {
			result.Write([]byte{0, 0, 0, 0})
			i++
			continue
		}

		// Read up to 5 base-85 digits
		digits := make([]byte, 0, 5)
		for len(digits) < 5 && i < len(data) {
			if isWhitespace(data[i]) {
				i++
				continue
			}

			if i+1 < len(data) && data[i] == '~' && data[i+1] == '>' {
				break
			}

			if data[i] < '!' || data[i] > 'u' {
				return nil, fmt.Errorf("invalid ASCII85 character: %c", data[i])
			}

			digits = append(digits, data[i]-'!')
			i++
		}

		if len(digits) == 0 {
			break
		}

		// Pad incomplete group with 'u' (84 = highest ASCII85 value)
		numBytes := len(digits) - 1
		if numBytes > 4 {
			numBytes = 4
		}

		for len(digits) < 5 {
			digits = append(digits, 84) // 'u' - '!' = 84
		}

		// Convert base-85 to binary; each group of 5 digits is 4 bytes
		value := uint32(0)
		for _, d := range digits {
			value = value*85 + uint32(d)
		}

		// Extract bytes (big-endian)
		for j := 0; j < numBytes; j++ {
			result.WriteByte(byte(value >> (24 - j*8)))
		}
	}

	return result.Bytes(), nil
}
