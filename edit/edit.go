/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package edit describes single contiguous text replacements and the
// position mapping the parsing engine needs to reuse an old tree.
package edit

import (
	"fmt"
	"slices"

	"bennypowers.dev/sapling/text"
)

// Change replaces Deleted code units starting at Start with Inserted.
type Change[C text.Unit] struct {
	Start    int
	Deleted  int
	Inserted []C
}

// InputEdit is the position mapping of one applied Change, in code units of
// the edited text. Points are zero-based rows and code-unit columns.
type InputEdit struct {
	StartOffset  int
	OldEndOffset int
	NewEndOffset int
	Start        text.Point
	OldEnd       text.Point
	NewEnd       text.Point
}

// IsNoop reports whether the change neither removes nor inserts anything.
func (c Change[C]) IsNoop() bool {
	return c.Deleted == 0 && len(c.Inserted) == 0
}

// Apply returns the edited copy of src and the mapping from old to new
// positions. src is not modified.
func (c Change[C]) Apply(src []C) ([]C, InputEdit, error) {
	if c.Start < 0 || c.Deleted < 0 || c.Start > len(src) || c.Deleted > len(src)-c.Start {
		return nil, InputEdit{}, fmt.Errorf("%w: replacing %d units at %d in a text of %d",
			ErrOutOfRange, c.Deleted, c.Start, len(src))
	}

	out := make([]C, 0, len(src)-c.Deleted+len(c.Inserted))
	out = append(out, src[:c.Start]...)
	out = append(out, c.Inserted...)
	out = append(out, src[c.Start+c.Deleted:]...)

	newEnd := c.Start + len(c.Inserted)
	return out, InputEdit{
		StartOffset:  c.Start,
		OldEndOffset: c.Start + c.Deleted,
		NewEndOffset: newEnd,
		Start:        text.PointAt(src, c.Start),
		OldEnd:       text.PointAt(src, c.Start+c.Deleted),
		NewEnd:       text.PointAt(out, newEnd),
	}, nil
}

// Between builds the change replacing the text between two points, the
// way editor protocols describe it.
func Between[C text.Unit](src []C, start, end text.Point, inserted []C) (Change[C], error) {
	from, err := text.OffsetAt(src, start)
	if err != nil {
		return Change[C]{}, fmt.Errorf("%w: start %s: %w", ErrOutOfRange, start, err)
	}
	to, err := text.OffsetAt(src, end)
	if err != nil {
		return Change[C]{}, fmt.Errorf("%w: end %s: %w", ErrOutOfRange, end, err)
	}
	if to < from {
		return Change[C]{}, fmt.Errorf("%w: end %s precedes start %s", ErrOutOfRange, end, start)
	}
	return Change[C]{Start: from, Deleted: to - from, Inserted: slices.Clone(inserted)}, nil
}
