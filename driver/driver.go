/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package driver runs batches of parse invocations: it resolves each file's
// language, loads its text in the requested encoding, applies edits under
// cancellation and timeout bounds, and reports trees, first errors and
// timings.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"bennypowers.dev/sapling/config"
	"bennypowers.dev/sapling/edit"
	"bennypowers.dev/sapling/engine"
	saplingfs "bennypowers.dev/sapling/fs"
	"bennypowers.dev/sapling/language"
	"bennypowers.dev/sapling/text"
)

// Options configures a batch.
type Options struct {
	// Scope forces a language for every file.
	Scope string

	// Edits are edit strings applied to each file in order.
	Edits []string

	Encoding text.Encoding

	Quiet      bool
	Time       bool
	Debug      bool
	DebugGraph bool

	// Timeout bounds every parse; zero is unbounded.
	Timeout time.Duration

	// Cancel enables cancellation and is shared by all parses. Run also
	// sets it when ctx is done. A nil flag leaves every parse
	// uncancellable, whatever ctx does.
	Cancel *atomic.Bool

	Stdout io.Writer
	Stderr io.Writer

	FS     saplingfs.FileSystem
	Cwd    string
	Loader *language.Loader
}

// Outcome is the result of one path.
type Outcome struct {
	Path     string
	Status   Status
	HadError bool
	Duration time.Duration

	// Err is set when the file could not be read or no language was found.
	Err error
}

// Failed reports whether the outcome counts against the batch.
func (o Outcome) Failed() bool {
	return o.HadError || o.Err != nil
}

// Run parses every path, expanding globs. It keeps going after per-file
// failures and returns ErrHadErrors if any file failed. Configuration
// errors stop the batch immediately.
//
// Cancelled and timed-out parses are reported but do not fail the batch.
func Run(ctx context.Context, opts Options, paths []string) ([]Outcome, error) {
	specs := make([]edit.Spec, 0, len(opts.Edits))
	for _, flag := range opts.Edits {
		spec, err := edit.ParseSpec(flag)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
		specs = append(specs, spec)
	}
	if opts.Scope != "" {
		if _, err := opts.Loader.ForScope(opts.Scope); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
	}

	if opts.Cancel != nil {
		stop := engine.CancelOnDone(ctx, opts.Cancel)
		defer stop()
	}

	type target struct {
		path string
		err  error
	}
	var targets []target
	for _, p := range paths {
		if !config.ContainsGlob(p) {
			targets = append(targets, target{path: p})
			continue
		}
		matches, err := config.ExpandGlob(opts.FS, opts.Cwd, p)
		if err == nil && len(matches) == 0 {
			err = fmt.Errorf("%w: no files match %s", language.ErrNoLanguage, p)
		}
		if err != nil {
			targets = append(targets, target{path: p, err: err})
			continue
		}
		for _, m := range matches {
			targets = append(targets, target{path: m})
		}
	}

	width := 0
	for _, t := range targets {
		width = max(width, len(t.path))
	}

	outcomes := make([]Outcome, 0, len(targets))
	hadErrors := false
	for _, t := range targets {
		var o Outcome
		if t.err != nil {
			o = Outcome{Path: t.path, Err: t.err}
		} else {
			var err error
			o, err = parseFile(opts, specs, t.path, width)
			if err != nil {
				return outcomes, err
			}
		}
		if o.Err != nil {
			fmt.Fprintf(opts.Stderr, "%s: %v\n", o.Path, o.Err)
		}
		hadErrors = hadErrors || o.Failed()
		outcomes = append(outcomes, o)
	}

	if hadErrors {
		return outcomes, ErrHadErrors
	}
	return outcomes, nil
}

func parseFile(opts Options, specs []edit.Spec, path string, width int) (Outcome, error) {
	o := Outcome{Path: path}

	data, err := opts.FS.ReadFile(path)
	if err != nil {
		o.Status, o.Err = IOError, err
		return o, nil
	}
	lang, err := opts.Loader.Resolve(opts.Scope, path, opts.FS, opts.Cwd)
	if err != nil {
		if errors.Is(err, language.ErrUnknownScope) {
			return o, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
		o.Err = err
		return o, nil
	}

	var res Result
	if opts.Encoding == text.UTF16 || hasUTF16BOM(data) {
		var units []uint16
		if hasUTF16BOM(data) {
			units, err = decodeUTF16(data)
		} else {
			units, err = transcodeUTF16(data)
		}
		if err != nil {
			o.Status, o.Err = IOError, err
			return o, nil
		}
		res, err = ParseSource(request(opts, specs, lang, units))
	} else {
		res, err = ParseSource(request(opts, specs, lang, data))
	}
	if err != nil {
		if errors.Is(err, ErrConfiguration) {
			return o, fmt.Errorf("%s: %w", path, err)
		}
		o.Err = err
		return o, nil
	}

	o.Status, o.HadError, o.Duration = res.Status, res.HadError, res.Duration
	report(opts, path, width, res)
	return o, nil
}

func request[C text.Unit](opts Options, specs []edit.Spec, lang *language.Language, src []C) Request[C] {
	req := Request[C]{
		Language: lang,
		Text:     src,
		Edits:    specs,
		Bound:    engine.Bound{Cancel: opts.Cancel, Timeout: opts.Timeout},
	}
	if opts.Debug {
		req.Log = opts.Stderr
	}
	if opts.DebugGraph {
		req.Prepare = func(p *engine.Parser) (func(), error) {
			g, err := startGraphs(p, opts.Cwd)
			if err != nil {
				return nil, fmt.Errorf("debug graphs: %w", err)
			}
			return g.finish, nil
		}
	}
	return req
}

func report(opts Options, path string, width int, res Result) {
	ms := res.Duration.Milliseconds()

	if res.Status != Success {
		if opts.Time {
			fmt.Fprintf(opts.Stdout, "%-*s\t%d ms (%s)\n", width, path, ms, res.Status)
		}
		fmt.Fprintf(opts.Stderr, "%s: parse %s\n", path, res.Status)
		return
	}

	if opts.Debug {
		for i, ranges := range res.Changed {
			fmt.Fprintf(opts.Stderr, "edit %d: %d changed ranges\n", i+1, len(ranges))
			for _, r := range ranges {
				fmt.Fprintf(opts.Stderr, "  %s - %s\n", r.Start, r.End)
			}
		}
	}

	if !opts.Quiet {
		io.WriteString(opts.Stdout, res.Tree)
	}

	first, ok := res.FirstProblem()
	if ok || opts.Time {
		fmt.Fprintf(opts.Stdout, "%-*s\t%d ms", width, path, ms)
		if ok {
			fmt.Fprintf(opts.Stdout, "\t%s", first)
		}
		fmt.Fprintln(opts.Stdout)
	}
}
