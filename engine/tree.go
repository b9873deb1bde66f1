/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package engine

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"bennypowers.dev/sapling/cbuf"
	"bennypowers.dev/sapling/edit"
	"bennypowers.dev/sapling/text"
)

// Tree is a syntax tree parsed from text in one encoding. Offsets and
// columns it reports are in that encoding's code units.
type Tree struct {
	inner    *sitter.Tree
	encoding text.Encoding
}

// Range is a span of the text in code units.
type Range struct {
	StartOffset int
	EndOffset   int
	Start       text.Point
	End         text.Point
}

// Problem is an ERROR node or a node the engine inserted as MISSING.
type Problem struct {
	Missing bool
	// Kind is the expected node kind for a MISSING node.
	Kind  string
	Named bool
	Range Range
}

func (p Problem) String() string {
	pos := fmt.Sprintf("%s - %s", p.Range.Start, p.Range.End)
	switch {
	case !p.Missing:
		return fmt.Sprintf("(ERROR %s)", pos)
	case p.Named:
		return fmt.Sprintf("(MISSING %s %s)", p.Kind, pos)
	default:
		return fmt.Sprintf("(MISSING %q %s)", p.Kind, pos)
	}
}

// Message describes the problem for an editor diagnostic.
func (p Problem) Message() string {
	if p.Missing {
		return fmt.Sprintf("missing %s", p.Kind)
	}
	return "syntax error"
}

// Encoding returns the encoding the tree was parsed in.
func (t *Tree) Encoding() text.Encoding {
	return t.encoding
}

// Close releases the tree. Closing a nil or closed tree does nothing.
func (t *Tree) Close() {
	if t == nil || t.inner == nil {
		return
	}
	t.inner.Close()
	t.inner = nil
}

// Clone returns an independent copy sharing structure with t.
func (t *Tree) Clone() *Tree {
	return &Tree{inner: t.inner.Clone(), encoding: t.encoding}
}

// HasError reports whether the tree contains an ERROR or MISSING node.
func (t *Tree) HasError() bool {
	return t.inner.RootNode().HasError()
}

// Edit adjusts the tree to an edit already applied to its text.
func (t *Tree) Edit(e edit.InputEdit) {
	size := t.encoding.UnitSize()
	t.inner.Edit(&sitter.InputEdit{
		StartByte:      uint(e.StartOffset) * size,
		OldEndByte:     uint(e.OldEndOffset) * size,
		NewEndByte:     uint(e.NewEndOffset) * size,
		StartPosition:  t.enginePoint(e.Start),
		OldEndPosition: t.enginePoint(e.OldEnd),
		NewEndPosition: t.enginePoint(e.NewEnd),
	})
}

// ChangedRanges compares t, freshly parsed against old, with old after it
// was edited. The returned iterator owns the ranges and must be closed.
//
// The binding hands back Go memory. The ranges are copied into C memory on
// purpose, so every caller owns one buffer released by a single Close.
func (t *Tree) ChangedRanges(old *Tree) *cbuf.Iter[Range] {
	changed := old.inner.ChangedRanges(t.inner)
	ranges := make([]Range, len(changed))
	for i, r := range changed {
		ranges[i] = t.rangeOf(r.StartByte, r.EndByte, r.StartPoint, r.EndPoint)
	}
	return cbuf.Copy(ranges)
}

// Problems yields ERROR and MISSING nodes in document order. The contents
// of an ERROR node are not searched further.
func (t *Tree) Problems() iter.Seq[Problem] {
	return func(yield func(Problem) bool) {
		c := t.inner.Walk()
		defer c.Close()
		for {
			n := c.Node()
			descended := false
			if n.IsError() || n.IsMissing() {
				if !yield(t.problem(n)) {
					return
				}
			} else if n.HasError() {
				descended = c.GotoFirstChild()
			}
			if descended {
				continue
			}
			for !c.GotoNextSibling() {
				if !c.GotoParent() {
					return
				}
			}
		}
	}
}

// FirstProblem returns the first ERROR or MISSING node in document order.
func (t *Tree) FirstProblem() (Problem, bool) {
	for p := range t.Problems() {
		return p, true
	}
	return Problem{}, false
}

// WriteSexp writes the named nodes of the tree as an indented
// S-expression, one node per line, each with its field name and its
// [row, column] span.
func (t *Tree) WriteSexp(w io.Writer) error {
	bw := bufio.NewWriter(w)
	c := t.inner.Walk()
	defer c.Close()

	needsNewline := false
	indent := 0
	visitedChildren := false
	for {
		n := c.Node()
		if visitedChildren {
			if n.IsNamed() {
				bw.WriteString(")")
				needsNewline = true
			}
			if c.GotoNextSibling() {
				visitedChildren = false
			} else if c.GotoParent() {
				visitedChildren = true
				indent--
			} else {
				break
			}
			continue
		}
		if n.IsNamed() {
			if needsNewline {
				bw.WriteString("\n")
			}
			bw.WriteString(strings.Repeat("  ", indent))
			if field := c.FieldName(); field != "" {
				fmt.Fprintf(bw, "%s: ", field)
			}
			fmt.Fprintf(bw, "(%s %s - %s", n.Kind(), t.point(n.StartPosition()), t.point(n.EndPosition()))
			needsNewline = true
		}
		if c.GotoFirstChild() {
			visitedChildren = false
			indent++
		} else {
			visitedChildren = true
		}
	}
	bw.WriteString("\n")
	return bw.Flush()
}

// Sexp returns the output of WriteSexp.
func (t *Tree) Sexp() string {
	var sb strings.Builder
	_ = t.WriteSexp(&sb)
	return sb.String()
}

func (t *Tree) problem(n *sitter.Node) Problem {
	return Problem{
		Missing: n.IsMissing(),
		Kind:    n.Kind(),
		Named:   n.IsNamed(),
		Range:   t.rangeOf(n.StartByte(), n.EndByte(), n.StartPosition(), n.EndPosition()),
	}
}

func (t *Tree) rangeOf(startByte, endByte uint, start, end sitter.Point) Range {
	size := t.encoding.UnitSize()
	return Range{
		StartOffset: int(startByte / size),
		EndOffset:   int(endByte / size),
		Start:       t.point(start),
		End:         t.point(end),
	}
}

func (t *Tree) point(p sitter.Point) text.Point {
	return text.Point{Row: p.Row, Column: p.Column / t.encoding.UnitSize()}
}

func (t *Tree) enginePoint(p text.Point) sitter.Point {
	return sitter.Point{Row: p.Row, Column: p.Column * t.encoding.UnitSize()}
}
