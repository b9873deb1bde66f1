/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package mcpserver exposes bounded parses as Model Context Protocol tools.
package mcpserver

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"bennypowers.dev/sapling/driver"
	"bennypowers.dev/sapling/engine"
	saplingfs "bennypowers.dev/sapling/fs"
	"bennypowers.dev/sapling/language"
)

const name = "sapling"

// ParseInput is the argument of the parse tool.
type ParseInput struct {
	Text          string `json:"text" jsonschema:"the source text to parse"`
	Scope         string `json:"scope,omitempty" jsonschema:"language scope such as source.js; wins over path"`
	Path          string `json:"path,omitempty" jsonschema:"file name used to pick the language by file type"`
	TimeoutMicros uint64 `json:"timeoutMicros,omitempty" jsonschema:"parse timeout in microseconds; 0 uses the server default"`
}

// ParseOutput is the structured result of the parse tool.
type ParseOutput struct {
	Status   string         `json:"status"`
	HadError bool           `json:"hadError"`
	Tree     string         `json:"tree,omitempty"`
	Errors   []ProblemEntry `json:"errors"`
}

// ProblemEntry is one ERROR or MISSING node.
type ProblemEntry struct {
	Message string `json:"message"`
	Node    string `json:"node"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// Server serves the parse tool.
type Server struct {
	loader  *language.Loader
	fs      saplingfs.FileSystem
	cwd     string
	timeout time.Duration
	server  *mcp.Server
}

// NewServer returns a server resolving languages with loader. Languages
// declared in cwd are found through filesystem. timeout is the default
// bound of each parse.
func NewServer(loader *language.Loader, filesystem saplingfs.FileSystem, cwd string, timeout time.Duration, version string) *Server {
	s := &Server{
		loader:  loader,
		fs:      filesystem,
		cwd:     cwd,
		timeout: timeout,
		server:  mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil),
	}
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "parse",
		Description: "Parse text with a bundled tree-sitter grammar and return its syntax tree and syntax errors.",
	}, s.parse)
	return s
}

// Run serves the protocol on stdin and stdout until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) parse(ctx context.Context, req *mcp.CallToolRequest, in ParseInput) (*mcp.CallToolResult, ParseOutput, error) {
	lang, err := s.loader.Resolve(in.Scope, in.Path, s.fs, s.cwd)
	if err != nil {
		return nil, ParseOutput{}, err
	}

	cancel := new(atomic.Bool)
	stop := engine.CancelOnDone(ctx, cancel)
	defer stop()

	bound := engine.Bound{Cancel: cancel, Timeout: s.timeout}
	if in.TimeoutMicros > 0 {
		bound.Timeout = engine.Micros(in.TimeoutMicros)
	}

	res, err := driver.ParseSource(driver.Request[byte]{
		Language: lang,
		Text:     []byte(in.Text),
		Bound:    bound,
	})
	if err != nil {
		return nil, ParseOutput{}, err
	}

	out := ParseOutput{
		Status:   res.Status.String(),
		HadError: res.HadError,
		Tree:     res.Tree,
		Errors:   []ProblemEntry{},
	}
	for _, p := range res.Problems {
		out.Errors = append(out.Errors, ProblemEntry{
			Message: p.Message(),
			Node:    p.String(),
			Start:   p.Range.Start.String(),
			End:     p.Range.End.String(),
		})
	}
	return nil, out, nil
}
