/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package input supplies source text to the parsing engine lazily, in the
// caller's choice of in-memory representation and code-unit width.
//
// A [Source] is read by the engine re-entrantly on the goroutine that
// started the parse. Reads never overlap, so sources carry no locks and must
// not be shared between goroutines.
package input

import "bennypowers.dev/sapling/text"

// Source produces text starting at a code-unit offset. The point is the
// row/column of that offset. An empty slice signals the end of input.
type Source[C text.Unit] interface {
	Read(offset int, p text.Point) []C
}

// ReadFunc returns the text starting at offset.
type ReadFunc[C text.Unit] func(offset int, p text.Point) []C

// Borrowing is a zero-copy Source. The wrapped function returns slices of
// memory the caller already owns, valid for the whole parse.
type Borrowing[C text.Unit] struct {
	fn ReadFunc[C]
}

// NewBorrowing wraps fn as a zero-copy source.
func NewBorrowing[C text.Unit](fn ReadFunc[C]) *Borrowing[C] {
	return &Borrowing[C]{fn: fn}
}

// Borrow returns a Borrowing source over an in-memory text.
func Borrow[C text.Unit](src []C) *Borrowing[C] {
	return NewBorrowing(func(offset int, _ text.Point) []C {
		if offset < len(src) {
			return src[offset:]
		}
		return nil
	})
}

// Read implements Source.
func (b *Borrowing[C]) Read(offset int, p text.Point) []C {
	return b.fn(offset, p)
}

// Cloning is a Source over a function that returns an owned fragment per
// call. It keeps exactly one fragment, the most recent, so the slice handed
// to the engine stays valid until the next Read replaces it. Callers that
// need the contents afterwards must copy them out first.
type Cloning[C text.Unit] struct {
	fn     ReadFunc[C]
	buffer []C
}

// NewCloning wraps fn, which must return a freshly owned fragment each call.
func NewCloning[C text.Unit](fn ReadFunc[C]) *Cloning[C] {
	return &Cloning[C]{fn: fn}
}

// CloneStrings adapts a function producing string fragments. Every read
// encodes the fragment into a new buffer of code units.
func CloneStrings[C text.Unit](fn func(offset int, p text.Point) string) *Cloning[C] {
	return NewCloning(func(offset int, p text.Point) []C {
		return text.Encode[C](fn(offset, p))
	})
}

// Read implements Source.
func (c *Cloning[C]) Read(offset int, p text.Point) []C {
	c.buffer = c.fn(offset, p)
	return c.buffer
}
