/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package document keeps a text and its latest syntax tree in step across
// incremental edits.
package document

import (
	"errors"
	"slices"

	"bennypowers.dev/sapling/edit"
	"bennypowers.dev/sapling/engine"
	"bennypowers.dev/sapling/input"
	"bennypowers.dev/sapling/text"
)

// ErrNoTree is returned when editing a document that has not been parsed,
// or whose last parse was stopped by its bound.
var ErrNoTree = errors.New("document has no tree to edit")

// Document is a text in code units of type C plus the tree of its latest
// successful parse. It owns its parser and tree. A Document is not safe for
// concurrent use.
type Document[C text.Unit] struct {
	parser  *engine.Parser
	text    []C
	tree    *engine.Tree
	changed []engine.Range
}

// New takes ownership of parser and returns an unparsed document.
func New[C text.Unit](parser *engine.Parser, src []C) *Document[C] {
	return &Document[C]{parser: parser, text: src}
}

// Text returns the current text. Callers must not modify it.
func (d *Document[C]) Text() []C {
	return d.text
}

// Tree returns the latest tree, or nil.
func (d *Document[C]) Tree() *engine.Tree {
	return d.tree
}

// Parser returns the document's parser.
func (d *Document[C]) Parser() *engine.Parser {
	return d.parser
}

// Parse parses the current text within bound. When the document has a tree
// it has been edited to match the text, and the engine reuses it.
//
// When the bound stops the parse the tree is dropped, so the next Parse is
// a full parse and Edit fails with ErrNoTree.
func (d *Document[C]) Parse(bound engine.Bound) error {
	raw := input.NewRaw[C](input.Borrow(d.text))
	next, err := d.parser.Parse(raw, d.tree, bound)
	if err != nil {
		d.dropTree()
		return err
	}

	d.changed = nil
	if d.tree != nil {
		ranges := next.ChangedRanges(d.tree)
		for r := range ranges.All() {
			d.changed = append(d.changed, r)
		}
		ranges.Close()
		d.tree.Close()
	}
	d.tree = next
	return nil
}

// Edit applies change to the text and to the tree. The document must be
// re-parsed afterwards.
func (d *Document[C]) Edit(change edit.Change[C]) error {
	if d.tree == nil {
		return ErrNoTree
	}
	next, ie, err := change.Apply(d.text)
	if err != nil {
		return err
	}
	d.text = next
	d.tree.Edit(ie)
	return nil
}

// Replace sets a new text and drops the tree.
func (d *Document[C]) Replace(src []C) {
	d.text = slices.Clone(src)
	d.dropTree()
}

// ChangedRanges returns the ranges whose structure changed in the latest
// incremental parse. It is empty after a full parse.
func (d *Document[C]) ChangedRanges() []engine.Range {
	return d.changed
}

// Close releases the tree and the parser.
func (d *Document[C]) Close() {
	d.dropTree()
	d.parser.Close()
}

func (d *Document[C]) dropTree() {
	d.tree.Close()
	d.tree = nil
	d.changed = nil
}
