/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package parse provides the parse command for sapling.
package parse

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"

	"github.com/spf13/cobra"

	"bennypowers.dev/sapling/driver"
	"bennypowers.dev/sapling/engine"
	"bennypowers.dev/sapling/internal/cli"
	"bennypowers.dev/sapling/text"
)

// Cmd is the parse cobra command.
var Cmd = NewCmd()

// NewCmd returns a parse command with fresh flags.
func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [paths...]",
		Short: "Parse files and print their syntax trees",
		Long: `Parse each file with the grammar for its scope or file type and print the
syntax tree. Paths may be doublestar globs. With --edit, the text is edited
and re-parsed incrementally after the first parse.

The exit status is 1 when any file cannot be read, has no language, or
contains a syntax error.`,
		Args: cobra.MinimumNArgs(1),
		RunE: run,
	}

	cmd.Flags().String("scope", "", "Parse every file with the language of this scope (e.g. source.js)")
	cmd.Flags().BoolP("debug", "d", false, "Print the parse and lex log to stderr")
	cmd.Flags().BoolP("debug-graph", "D", false, "Write parse graphs to log.html (log.dot without graphviz)")
	cmd.Flags().BoolP("quiet", "q", false, "Do not print syntax trees")
	cmd.Flags().BoolP("time", "t", false, "Print the parse time of every file")
	cmd.Flags().Bool("cancel", false, "Cancel the parse on a newline from stdin or an interrupt")
	cmd.Flags().Uint64("timeout", 0, "Abort a parse after this many microseconds (0: no limit)")
	cmd.Flags().StringArray("edit", nil, `Apply "<position> <deleted length> <inserted text>" and re-parse (repeatable)`)
	cmd.Flags().String("encoding", "utf8", "Code unit of the text: utf8 or utf16")
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	env, err := cli.Load(cmd, "parse")
	if err != nil {
		return fmt.Errorf("%w: %w", driver.ErrConfiguration, err)
	}
	settings := env.Settings

	encoding, err := text.ParseEncoding(settings.GetString("parse.encoding"))
	if err != nil {
		return fmt.Errorf("%w: %w", driver.ErrConfiguration, err)
	}
	edits, _ := cmd.Flags().GetStringArray("edit")

	opts := driver.Options{
		Scope:      settings.GetString("parse.scope"),
		Edits:      edits,
		Encoding:   encoding,
		Quiet:      settings.GetBool("parse.quiet"),
		Time:       settings.GetBool("parse.time"),
		Debug:      settings.GetBool("parse.debug"),
		DebugGraph: settings.GetBool("parse.debug-graph"),
		Timeout:    engine.Micros(settings.GetUint64("parse.timeout")),
		Stdout:     cmd.OutOrStdout(),
		Stderr:     cmd.ErrOrStderr(),
		FS:         env.FS,
		Cwd:        env.Cwd,
		Loader:     env.Loader,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if settings.GetBool("parse.cancel") {
		var stopSignals context.CancelFunc
		ctx, stopSignals = signal.NotifyContext(ctx, os.Interrupt)
		defer stopSignals()

		opts.Cancel = new(atomic.Bool)
		stopWatching := driver.WatchCancel(ctx, cmd.InOrStdin(), cmd.ErrOrStderr(), opts.Cancel)
		defer stopWatching()
	}

	_, err = driver.Run(ctx, opts, args)
	return err
}
