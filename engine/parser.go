/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package engine drives the tree-sitter parsing engine: it feeds text from
// an input.Raw callback, enforces cancellation and timeout bounds, and hands
// trees back with positions in the text's own code units.
package engine

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"runtime"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"bennypowers.dev/sapling/input"
	"bennypowers.dev/sapling/text"
)

var nativeLittleEndian = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

// Parser wraps an engine parser. It is not safe for concurrent use.
type Parser struct {
	inner *sitter.Parser
	lang  *sitter.Language
}

// NewParser returns a parser without a language.
func NewParser() *Parser {
	return &Parser{inner: sitter.NewParser()}
}

// New returns a parser for lang.
func New(lang *sitter.Language) (*Parser, error) {
	p := NewParser()
	if err := p.SetLanguage(lang); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// SetLanguage sets the grammar used by subsequent parses.
func (p *Parser) SetLanguage(lang *sitter.Language) error {
	if lang == nil {
		return ErrNoLanguage
	}
	if err := p.inner.SetLanguage(lang); err != nil {
		return fmt.Errorf("setting language: %w", err)
	}
	p.lang = lang
	return nil
}

// LogTo streams the engine's parse and lex log to w, one message per line.
// Lex messages are indented by two spaces.
func (p *Parser) LogTo(w io.Writer) {
	p.inner.SetLogger(func(kind sitter.LogType, msg string) {
		if kind == sitter.LogTypeLex {
			fmt.Fprintf(w, "  %s\n", msg)
			return
		}
		fmt.Fprintln(w, msg)
	})
}

// StopLogging detaches any log writer.
func (p *Parser) StopLogging() {
	p.inner.SetLogger(nil)
}

// PrintDotGraphs makes the engine write a DOT graph of every parse step to f.
func (p *Parser) PrintDotGraphs(f *os.File) {
	p.inner.PrintDotGraphs(f)
}

// StopPrintingDotGraphs stops writing DOT graphs.
func (p *Parser) StopPrintingDotGraphs() {
	p.inner.StopPrintingDotGraphs()
}

// Close releases the engine parser.
func (p *Parser) Close() {
	if p.inner != nil {
		p.inner.Close()
		p.inner = nil
	}
}

// Parse runs the engine over the text behind raw. old, when not nil, must
// have been edited to match the current text; the engine reuses its
// unchanged parts.
//
// When the bound stops the parse, Parse returns ErrCancelled or ErrTimedOut
// and no tree. The parser is reset in that case, so the next call starts a
// fresh parse instead of resuming the aborted one.
func (p *Parser) Parse(raw *input.Raw, old *Tree, bound Bound) (*Tree, error) {
	if p.lang == nil {
		return nil, ErrNoLanguage
	}
	var oldInner *sitter.Tree
	if old != nil {
		if old.encoding != raw.Encoding() {
			return nil, fmt.Errorf("%w: tree is %s, input is %s", ErrEncodingMismatch, old.encoding, raw.Encoding())
		}
		oldInner = old.inner
	}

	w := bound.start()
	if w.expired() {
		return nil, w.reason
	}
	opts := &sitter.ParseOptions{
		ProgressCallback: func(sitter.ParseState) bool {
			return w.expired()
		},
	}

	var tree *sitter.Tree
	switch raw.Encoding() {
	case text.UTF16:
		// The binding halves offsets and columns before calling back, and
		// raw expects the engine's byte coordinates.
		read := func(unit int, pt sitter.Point) []uint16 {
			return input.Units16(raw.Read(uint32(unit)*2, text.Point{Row: pt.Row, Column: pt.Column * 2}))
		}
		if nativeLittleEndian {
			tree = p.inner.ParseUTF16LEWithOptions(read, oldInner, opts)
		} else {
			tree = p.inner.ParseUTF16BEWithOptions(read, oldInner, opts)
		}
	default:
		tree = p.inner.ParseWithOptions(func(offset int, pt sitter.Point) []byte {
			return raw.Read(uint32(offset), text.Point{Row: pt.Row, Column: pt.Column})
		}, oldInner, opts)
	}
	runtime.KeepAlive(raw)

	if tree == nil {
		p.inner.Reset()
		if w.reason != nil {
			return nil, w.reason
		}
		return nil, ErrNoTree
	}
	return &Tree{inner: tree, encoding: raw.Encoding()}, nil
}
