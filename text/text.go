/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package text defines the coordinates shared by text sources, edits and
// syntax trees: code units, encodings and row/column points.
package text

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"
)

// ErrUnknownEncoding indicates an encoding name other than utf8 or utf16.
var ErrUnknownEncoding = errors.New("unknown encoding")

// ErrOutOfRange indicates a point or offset outside the text.
var ErrOutOfRange = errors.New("position out of range")

// Unit is a code unit: a byte for 8-bit text, a 16-bit value for wide text.
type Unit interface {
	uint8 | uint16
}

// Encoding tags the code-unit width of a text for the engine.
// It is fixed for the duration of one parse.
type Encoding int

const (
	UTF8 Encoding = iota
	UTF16
)

// String returns the encoding name as accepted by ParseEncoding.
func (e Encoding) String() string {
	switch e {
	case UTF16:
		return "utf16"
	default:
		return "utf8"
	}
}

// UnitSize returns the number of bytes occupied by one code unit.
func (e Encoding) UnitSize() uint {
	if e == UTF16 {
		return 2
	}
	return 1
}

// ParseEncoding parses an encoding name such as "utf8" or "UTF-16".
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ReplaceAll(strings.ToLower(s), "-", "") {
	case "", "utf8":
		return UTF8, nil
	case "utf16":
		return UTF16, nil
	}
	return UTF8, fmt.Errorf("%w: %q", ErrUnknownEncoding, s)
}

// EncodingOf returns the encoding whose code unit is C.
func EncodingOf[C Unit]() Encoding {
	var zero C
	if _, ok := any(zero).(uint16); ok {
		return UTF16
	}
	return UTF8
}

// Encode converts a Go string to code units of type C.
func Encode[C Unit](s string) []C {
	var zero C
	switch any(zero).(type) {
	case uint16:
		return any(utf16.Encode([]rune(s))).([]C)
	default:
		return any([]byte(s)).([]C)
	}
}

// Decode converts code units of type C back to a Go string.
func Decode[C Unit](units []C) string {
	switch u := any(units).(type) {
	case []uint16:
		return string(utf16.Decode(u))
	case []byte:
		return string(u)
	}
	return ""
}
