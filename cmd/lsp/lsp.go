/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package lsp provides the lsp command for sapling.
package lsp

import (
	"github.com/spf13/cobra"

	"bennypowers.dev/sapling/engine"
	"bennypowers.dev/sapling/internal/cli"
	"bennypowers.dev/sapling/internal/logger"
	"bennypowers.dev/sapling/internal/version"
	"bennypowers.dev/sapling/lsp"
)

// Cmd is the lsp cobra command.
var Cmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run the language server on stdio",
	Long:  `Run a language server that re-parses open documents incrementally and publishes their syntax errors as diagnostics.`,
	Args:  cobra.NoArgs,
	RunE:  run,
}

func init() {
	Cmd.Flags().Uint64("timeout", 0, "Abort each re-parse after this many microseconds (0: no limit)")
}

func run(cmd *cobra.Command, args []string) error {
	env, err := cli.Load(cmd, "lsp")
	if err != nil {
		return err
	}
	timeout := engine.Micros(env.Settings.GetUint64("lsp.timeout"))
	logger.Info("sapling %s language server on stdio", version.Get())
	return lsp.NewServer(env.Loader, timeout, version.Get()).RunStdio()
}
