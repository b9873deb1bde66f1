/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package driver

import (
	"errors"
	"fmt"
	"io"
	"time"

	"bennypowers.dev/sapling/document"
	"bennypowers.dev/sapling/edit"
	"bennypowers.dev/sapling/engine"
	"bennypowers.dev/sapling/language"
	"bennypowers.dev/sapling/text"
)

// Status is the outcome of one parse invocation.
type Status int

const (
	Success Status = iota
	Cancelled
	TimedOut
	IOError
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Cancelled:
		return "cancelled"
	case TimedOut:
		return "timed out"
	case IOError:
		return "io error"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Request describes one text to parse.
type Request[C text.Unit] struct {
	Language *language.Language
	Text     []C

	// Edits are applied one at a time after the first parse, each followed
	// by an incremental re-parse.
	Edits []edit.Spec

	// Bound applies to every parse separately.
	Bound engine.Bound

	// Log receives the engine's parse and lex log when not nil.
	Log io.Writer

	// Prepare runs before the first parse; the returned function runs
	// after the last.
	Prepare func(*engine.Parser) (finish func(), err error)
}

// Result is what a parse invocation produced.
type Result struct {
	Status   Status
	HadError bool
	Duration time.Duration

	// Tree is the final tree as an S-expression; empty without a tree.
	Tree     string
	Problems []engine.Problem

	// Changed holds the structurally changed ranges of each re-parse.
	Changed [][]engine.Range
}

// FirstProblem returns the first ERROR or MISSING node, if any.
func (r Result) FirstProblem() (engine.Problem, bool) {
	if len(r.Problems) == 0 {
		return engine.Problem{}, false
	}
	return r.Problems[0], true
}

// ParseSource parses req.Text, then applies each edit and re-parses.
//
// A bound violation is a Result status, not an error; no further edits are
// applied after it. Edits that do not fit the text are ErrConfiguration.
func ParseSource[C text.Unit](req Request[C]) (Result, error) {
	parser, err := engine.New(req.Language.Grammar())
	if err != nil {
		return Result{}, err
	}
	doc := document.New(parser, req.Text)
	defer doc.Close()

	if req.Log != nil {
		parser.LogTo(req.Log)
	}
	if req.Prepare != nil {
		finish, err := req.Prepare(parser)
		if err != nil {
			return Result{}, err
		}
		defer finish()
	}

	var res Result
	start := time.Now()
	err = doc.Parse(req.Bound)
	for _, spec := range req.Edits {
		if err != nil {
			break
		}
		change, cerr := edit.Resolve(spec, doc.Text())
		if cerr != nil {
			return Result{}, fmt.Errorf("%w: %w", ErrConfiguration, cerr)
		}
		if cerr := doc.Edit(change); cerr != nil {
			return Result{}, fmt.Errorf("%w: %w", ErrConfiguration, cerr)
		}
		err = doc.Parse(req.Bound)
		if err == nil {
			res.Changed = append(res.Changed, doc.ChangedRanges())
		}
	}
	res.Duration = time.Since(start)

	switch {
	case errors.Is(err, engine.ErrCancelled):
		res.Status = Cancelled
		return res, nil
	case errors.Is(err, engine.ErrTimedOut):
		res.Status = TimedOut
		return res, nil
	case err != nil:
		return Result{}, err
	}

	tree := doc.Tree()
	res.Tree = tree.Sexp()
	for p := range tree.Problems() {
		res.Problems = append(res.Problems, p)
	}
	res.HadError = len(res.Problems) > 0
	return res, nil
}
