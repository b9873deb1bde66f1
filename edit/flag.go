/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package edit

import (
	"fmt"
	"strconv"
	"strings"

	"bennypowers.dev/sapling/text"
)

type positionKind int

const (
	atOffset positionKind = iota
	atPoint
	atEnd
)

// Spec is an edit string that has been checked for shape but not yet
// resolved against a text.
type Spec struct {
	raw      string
	kind     positionKind
	offset   int
	point    text.Point
	deleted  int
	inserted string
}

// String returns the edit string the Spec was parsed from.
func (s Spec) String() string {
	return s.raw
}

// ParseSpec parses "<position> <deleted-length> <inserted text>".
//
// The position is a code-unit offset, a "row,column" pair or "$" for the
// end of the text. Everything after the second space is inserted verbatim.
func ParseSpec(flag string) (Spec, error) {
	s := Spec{raw: flag}
	pos, rest, ok := strings.Cut(flag, " ")
	if !ok || pos == "" {
		return s, fmt.Errorf("%w %q: want \"<position> <deleted-length> <inserted text>\"", ErrMalformed, flag)
	}
	length, inserted, _ := strings.Cut(rest, " ")
	s.inserted = inserted

	deleted, err := strconv.Atoi(length)
	if err != nil || deleted < 0 {
		return s, fmt.Errorf("%w %q: invalid deleted length %q", ErrMalformed, flag, length)
	}
	s.deleted = deleted

	switch {
	case pos == "$":
		s.kind = atEnd
	case strings.Contains(pos, ","):
		rowStr, colStr, _ := strings.Cut(pos, ",")
		row, rerr := strconv.ParseUint(strings.TrimSpace(rowStr), 10, 0)
		col, cerr := strconv.ParseUint(strings.TrimSpace(colStr), 10, 0)
		if rerr != nil || cerr != nil {
			return s, fmt.Errorf("%w %q: invalid row,column position %q", ErrMalformed, flag, pos)
		}
		s.kind = atPoint
		s.point = text.Point{Row: uint(row), Column: uint(col)}
	default:
		offset, err := strconv.Atoi(pos)
		if err != nil || offset < 0 {
			return s, fmt.Errorf("%w %q: invalid position %q", ErrMalformed, flag, pos)
		}
		s.kind = atOffset
		s.offset = offset
	}
	return s, nil
}

// Resolve turns a Spec into a Change against src.
func Resolve[C text.Unit](s Spec, src []C) (Change[C], error) {
	var start int
	switch s.kind {
	case atEnd:
		start = len(src)
	case atPoint:
		off, err := text.OffsetAt(src, s.point)
		if err != nil {
			return Change[C]{}, fmt.Errorf("%w: %q: %w", ErrOutOfRange, s.raw, err)
		}
		start = off
	default:
		start = s.offset
	}
	if start > len(src) || s.deleted > len(src)-start {
		return Change[C]{}, fmt.Errorf("%w: %q in a text of %d units", ErrOutOfRange, s.raw, len(src))
	}
	return Change[C]{Start: start, Deleted: s.deleted, Inserted: text.Encode[C](s.inserted)}, nil
}

// Parse parses an edit string and resolves it against src.
func Parse[C text.Unit](src []C, flag string) (Change[C], error) {
	s, err := ParseSpec(flag)
	if err != nil {
		return Change[C]{}, err
	}
	return Resolve(s, src)
}
