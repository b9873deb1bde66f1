/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		in      string
		want    Encoding
		wantErr bool
	}{
		{"", UTF8, false},
		{"utf8", UTF8, false},
		{"UTF-8", UTF8, false},
		{"utf16", UTF16, false},
		{"UTF-16", UTF16, false},
		{"latin1", UTF8, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEncoding(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownEncoding)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodingOf(t *testing.T) {
	assert.Equal(t, UTF8, EncodingOf[byte]())
	assert.Equal(t, UTF16, EncodingOf[uint16]())
	assert.Equal(t, uint(1), UTF8.UnitSize())
	assert.Equal(t, uint(2), UTF16.UnitSize())
}

func TestEncodeDecode(t *testing.T) {
	s := "a😀b"
	assert.Equal(t, []byte(s), Encode[byte](s))

	units := Encode[uint16](s)
	assert.Len(t, units, 4, "surrogate pair takes two units")
	assert.Equal(t, s, Decode(units))
	assert.Equal(t, s, Decode(Encode[byte](s)))
}

func TestPointAt(t *testing.T) {
	src := []byte("ab\ncd\n\nef")
	tests := []struct {
		offset int
		want   Point
	}{
		{0, Point{0, 0}},
		{2, Point{0, 2}},
		{3, Point{1, 0}},
		{6, Point{2, 0}},
		{7, Point{3, 0}},
		{9, Point{3, 2}},
		{42, Point{3, 2}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PointAt(src, tt.offset), "offset %d", tt.offset)
	}
}

func TestPointAt_UTF16CountsUnits(t *testing.T) {
	src := Encode[uint16]("😀x\ny")
	assert.Equal(t, Point{0, 3}, PointAt(src, 3))
	assert.Equal(t, Point{1, 1}, PointAt(src, len(src)))
}

func TestOffsetAt(t *testing.T) {
	src := []byte("ab\ncd\n\nef")

	for offset := 0; offset <= len(src); offset++ {
		got, err := OffsetAt(src, PointAt(src, offset))
		require.NoError(t, err)
		assert.Equal(t, offset, got)
	}

	_, err := OffsetAt(src, Point{Row: 1, Column: 3})
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = OffsetAt(src, Point{Row: 4, Column: 0})
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestPointCompare(t *testing.T) {
	assert.Equal(t, -1, Point{0, 5}.Compare(Point{1, 0}))
	assert.Equal(t, 1, Point{1, 2}.Compare(Point{1, 1}))
	assert.Equal(t, 0, Point{3, 3}.Compare(Point{3, 3}))
	assert.Equal(t, "[1, 2]", Point{1, 2}.String())
}
