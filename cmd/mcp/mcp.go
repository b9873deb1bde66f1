/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package mcp provides the mcp command for sapling.
package mcp

import (
	"github.com/spf13/cobra"

	"bennypowers.dev/sapling/engine"
	"bennypowers.dev/sapling/internal/cli"
	"bennypowers.dev/sapling/internal/logger"
	"bennypowers.dev/sapling/internal/version"
	"bennypowers.dev/sapling/mcpserver"
)

// Cmd is the mcp cobra command.
var Cmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol server on stdio",
	Long:  `Run an MCP server offering a parse tool that returns syntax trees and syntax errors.`,
	Args:  cobra.NoArgs,
	RunE:  run,
}

func init() {
	Cmd.Flags().Uint64("timeout", 0, "Default parse timeout in microseconds (0: no limit)")
}

func run(cmd *cobra.Command, args []string) error {
	env, err := cli.Load(cmd, "mcp")
	if err != nil {
		return err
	}
	timeout := engine.Micros(env.Settings.GetUint64("mcp.timeout"))
	logger.Info("sapling %s MCP server on stdio", version.Get())
	server := mcpserver.NewServer(env.Loader, env.FS, env.Cwd, timeout, version.Get())
	return server.Run(cmd.Context())
}
