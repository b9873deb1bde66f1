/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cmd provides CLI commands for sapling.
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"bennypowers.dev/sapling/cmd/languages"
	"bennypowers.dev/sapling/cmd/lsp"
	"bennypowers.dev/sapling/cmd/mcp"
	"bennypowers.dev/sapling/cmd/parse"
	"bennypowers.dev/sapling/cmd/version"
	"bennypowers.dev/sapling/driver"
	"bennypowers.dev/sapling/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "sapling",
	Short: "Parse source files with tree-sitter grammars",
	Long: `sapling parses source files with bundled tree-sitter grammars, prints their
syntax trees and first syntax errors, and replays edits as incremental
re-parses under cancellation and timeout bounds.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger.SetVerbose(verbose)
	},
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	// A failed batch has already reported each file.
	if err != nil && !errors.Is(err, driver.ErrHadErrors) {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print debug messages")

	rootCmd.AddCommand(parse.Cmd)
	rootCmd.AddCommand(languages.Cmd)
	rootCmd.AddCommand(lsp.Cmd)
	rootCmd.AddCommand(mcp.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
