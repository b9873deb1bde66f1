/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package text

import (
	"cmp"
	"fmt"
)

// Point is a zero-based row/column position. Columns count code units of
// the active encoding; rows are never scaled.
type Point struct {
	Row    uint
	Column uint
}

// String formats the point the way trees are printed: [row, column].
func (p Point) String() string {
	return fmt.Sprintf("[%d, %d]", p.Row, p.Column)
}

// Compare orders points by row, then column.
func (p Point) Compare(other Point) int {
	if c := cmp.Compare(p.Row, other.Row); c != 0 {
		return c
	}
	return cmp.Compare(p.Column, other.Column)
}

// PointAt returns the position of offset within text. Offsets past the end
// are clamped to the end of the text.
func PointAt[C Unit](text []C, offset int) Point {
	offset = min(max(offset, 0), len(text))
	var p Point
	for _, c := range text[:offset] {
		if c == '\n' {
			p.Row++
			p.Column = 0
		} else {
			p.Column++
		}
	}
	return p
}

// OffsetAt returns the code-unit offset of p within text. The column may
// point at the line terminator or the end of the text, but not beyond.
func OffsetAt[C Unit](text []C, p Point) (int, error) {
	lineStart := 0
	for row := uint(0); row < p.Row; row++ {
		i := indexNewline(text[lineStart:])
		if i < 0 {
			return 0, fmt.Errorf("%w: row %d beyond last row %d", ErrOutOfRange, p.Row, row)
		}
		lineStart += i + 1
	}
	lineLen := indexNewline(text[lineStart:])
	if lineLen < 0 {
		lineLen = len(text) - lineStart
	}
	if p.Column > uint(lineLen) {
		return 0, fmt.Errorf("%w: column %d beyond line length %d", ErrOutOfRange, p.Column, lineLen)
	}
	return lineStart + int(p.Column), nil
}

func indexNewline[C Unit](text []C) int {
	for i, c := range text {
		if c == '\n' {
			return i
		}
	}
	return -1
}
