/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package driver

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

var (
	bomLE = []byte{0xFF, 0xFE}
	bomBE = []byte{0xFE, 0xFF}
)

// hasUTF16BOM reports whether data starts with a UTF-16 byte order mark.
func hasUTF16BOM(data []byte) bool {
	return bytes.HasPrefix(data, bomLE) || bytes.HasPrefix(data, bomBE)
}

// decodeUTF16 reads BOM-marked UTF-16 file contents into code units,
// dropping the mark.
func decodeUTF16(data []byte) ([]uint16, error) {
	utf8, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decoding UTF-16: %w", err)
	}
	return transcodeUTF16(utf8)
}

// transcodeUTF16 converts UTF-8 file contents to UTF-16 code units.
// Invalid sequences become U+FFFD.
func transcodeUTF16(data []byte) ([]uint16, error) {
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("encoding UTF-16: %w", err)
	}
	units := make([]uint16, len(encoded)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(encoded[2*i:])
	}
	return units, nil
}
