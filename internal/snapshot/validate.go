package snapshot

import (
	"bytes"
	"errors"
	"fmt"
)

// headerSize is how much of a snapshot file is sniffed before decoding
const headerSize = 4 * 1024

var (
	classMagic = []byte{0xCA, 0xFE, 0xBA, 0xBE}
	zipMagic   = []byte{0x50, 0x4B, 0x03, 0x04}
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
)

// ErrRawBytecode is returned when a compiled class or archive is passed where a
// structural snapshot is expected.
var ErrRawBytecode = errors.New("raw bytecode is not a snapshot; export the program model to JSON or YAML first")

// validateHeader rejects inputs that cannot be a snapshot of the given format
// before the decoder sees them.
func validateHeader(header []byte, format Format) error {
	switch {
	case bytes.HasPrefix(header, classMagic):
		return fmt.Errorf("class file: %w", ErrRawBytecode)
	case bytes.HasPrefix(header, zipMagic):
		return fmt.Errorf("jar or zip archive: %w", ErrRawBytecode)
	case isBinaryData(header):
		return errors.New("file appears to be binary")
	}

	if format == FormatJSON {
		body := bytes.TrimLeft(bytes.TrimPrefix(header, utf8BOM), " \t\r\n")
		if len(body) > 0 && body[0] != '{' {
			return fmt.Errorf("JSON snapshot must be an object, starts with %q", body[0])
		}
	}
	return nil
}

// isBinaryData reports whether more than 30% of data is control characters
// other than tab, LF and CR.
func isBinaryData(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	nonPrintable := 0
	for _, b := range data {
		if b < 9 || (b > 13 && b < 32) || b == 127 {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(data)) > 0.3
}
