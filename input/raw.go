/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package input

import (
	"unsafe"

	"bennypowers.dev/sapling/text"
)

// Raw is the engine-facing side of a Source. The engine asks for text by
// byte offset and a point whose column is in bytes, and receives raw bytes
// whose length is the number of bytes read.
//
// For 16-bit text the offset and column are halved before the Source sees
// them, and the returned units are exposed as twice as many bytes. Rows pass
// through unchanged.
type Raw struct {
	encoding text.Encoding
	read     func(byteOffset uint32, p text.Point) []byte

	// source stays reachable for as long as the engine holds the Raw.
	source any
}

// NewRaw adapts src to the engine. The adapter for C is chosen here, once,
// so the read path does not branch on encoding.
func NewRaw[C text.Unit](src Source[C]) *Raw {
	r := &Raw{encoding: text.EncodingOf[C](), source: src}
	switch s := any(src).(type) {
	case Source[uint16]:
		r.read = func(byteOffset uint32, p text.Point) []byte {
			return unitBytes(s.Read(int(byteOffset/2), text.Point{Row: p.Row, Column: p.Column / 2}))
		}
	case Source[byte]:
		r.read = func(byteOffset uint32, p text.Point) []byte {
			return s.Read(int(byteOffset), p)
		}
	}
	return r
}

// Encoding reports the code-unit width the engine must be told about.
func (r *Raw) Encoding() text.Encoding {
	return r.encoding
}

// Read returns the bytes starting at byteOffset. len of the result is the
// byte count reported back to the engine.
func (r *Raw) Read(byteOffset uint32, p text.Point) []byte {
	return r.read(byteOffset, p)
}

// unitBytes views 16-bit code units as bytes in host order without copying.
func unitBytes(units []uint16) []byte {
	if len(units) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(units))), len(units)*2)
}

// Units16 is the inverse of the 16-bit adapter's byte view: it returns the
// code units behind bytes produced by a UTF-16 Raw, without copying.
func Units16(b []byte) []uint16 {
	if len(b) < 2 {
		return nil
	}
	return unsafe.Slice((*uint16)(unsafe.Pointer(unsafe.SliceData(b))), len(b)/2)
}
