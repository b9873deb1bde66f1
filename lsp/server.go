/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package lsp provides a language server that keeps an incrementally
// parsed tree per open document and publishes syntax errors.
package lsp

import (
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"bennypowers.dev/sapling/document"
	"bennypowers.dev/sapling/edit"
	"bennypowers.dev/sapling/engine"
	"bennypowers.dev/sapling/internal/logger"
	"bennypowers.dev/sapling/language"
	"bennypowers.dev/sapling/text"
)

const lsName = "sapling"

// Server is a sapling language server. Handlers run one at a time.
type Server struct {
	mu      sync.Mutex
	loader  *language.Loader
	timeout time.Duration
	docs    map[protocol.DocumentUri]*openDocument
	handler protocol.Handler
	server  *server.Server
	version string
}

type openDocument struct {
	doc         *document.Document[uint16]
	version     protocol.Integer
	diagnostics []protocol.Diagnostic
}

// NewServer returns a server resolving languages with loader. timeout
// bounds every parse; zero is unbounded.
func NewServer(loader *language.Loader, timeout time.Duration, version string) *Server {
	s := &Server{
		loader:  loader,
		timeout: timeout,
		docs:    make(map[protocol.DocumentUri]*openDocument),
		version: version,
	}

	s.handler = protocol.Handler{
		Initialize:            s.initialize,
		Initialized:           s.initialized,
		Shutdown:              s.shutdown,
		SetTrace:              s.setTrace,
		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,
	}

	s.server = server.NewServer(&s.handler, lsName, false)

	return s
}

// RunStdio serves the protocol on stdin and stdout.
func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()

	openClose := true
	syncKind := protocol.TextDocumentSyncKindIncremental
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &openClose,
		Change:    &syncKind,
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for uri, od := range s.docs {
		od.doc.Close()
		delete(s.docs, uri)
	}
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := params.TextDocument
	lang, err := s.loader.ForFileName(uriToPath(item.URI))
	if err != nil {
		logger.Debug("%s: %v", item.URI, err)
		return nil
	}
	parser, err := engine.New(lang.Grammar())
	if err != nil {
		logger.Error("%s: %v", item.URI, err)
		return err
	}

	if old := s.docs[item.URI]; old != nil {
		old.doc.Close()
	}
	od := &openDocument{
		doc:     document.New(parser, text.Encode[uint16](item.Text)),
		version: item.Version,
	}
	s.docs[item.URI] = od

	s.reparse(od, item.URI)
	s.publish(ctx, item.URI, od)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	uri := params.TextDocument.URI
	od := s.docs[uri]
	if od == nil {
		return nil
	}
	od.version = params.TextDocument.Version

	for _, change := range params.ContentChanges {
		switch change := change.(type) {
		case protocol.TextDocumentContentChangeEvent:
			if err := applyChange(od.doc, change); err != nil {
				logger.Warn("%s: %v", uri, err)
				return nil
			}
		case protocol.TextDocumentContentChangeEventWhole:
			od.doc.Replace(text.Encode[uint16](change.Text))
		}
	}

	s.reparse(od, uri)
	s.publish(ctx, uri, od)
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	uri := params.TextDocument.URI
	od := s.docs[uri]
	if od == nil {
		return nil
	}
	od.doc.Close()
	delete(s.docs, uri)

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

// applyChange edits text and tree when the document has a tree, otherwise
// only the text; the next parse is then a full parse.
func applyChange(doc *document.Document[uint16], change protocol.TextDocumentContentChangeEvent) error {
	c, err := edit.Between(doc.Text(),
		pointOf(change.Range.Start),
		pointOf(change.Range.End),
		text.Encode[uint16](change.Text))
	if err != nil {
		return err
	}

	err = doc.Edit(c)
	if errors.Is(err, document.ErrNoTree) {
		next, _, err := c.Apply(doc.Text())
		if err != nil {
			return err
		}
		doc.Replace(next)
		return nil
	}
	return err
}

// reparse parses the document within the server's bound. When the bound is
// hit, the previous diagnostics stay.
func (s *Server) reparse(od *openDocument, uri protocol.DocumentUri) {
	err := od.doc.Parse(engine.Bound{Timeout: s.timeout})
	if err != nil {
		logger.Warn("%s: %v", uri, err)
		return
	}
	od.diagnostics = diagnostics(od.doc.Tree())
}

func (s *Server) publish(ctx *glsp.Context, uri protocol.DocumentUri, od *openDocument) {
	version := protocol.UInteger(od.version)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Version:     &version,
		Diagnostics: od.diagnostics,
	})
}

func diagnostics(tree *engine.Tree) []protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := lsName
	result := []protocol.Diagnostic{}
	for p := range tree.Problems() {
		result = append(result, protocol.Diagnostic{
			Range: protocol.Range{
				Start: positionOf(p.Range.Start),
				End:   positionOf(p.Range.End),
			},
			Severity: &severity,
			Source:   &source,
			Message:  p.Message(),
		})
	}
	return result
}

func pointOf(p protocol.Position) text.Point {
	return text.Point{Row: uint(p.Line), Column: uint(p.Character)}
}

func positionOf(p text.Point) protocol.Position {
	return protocol.Position{Line: protocol.UInteger(p.Row), Character: protocol.UInteger(p.Column)}
}

func uriToPath(uri protocol.DocumentUri) string {
	if !strings.HasPrefix(uri, "file://") {
		return uri
	}
	parsed, err := url.Parse(uri)
	if err != nil {
		return strings.TrimPrefix(uri, "file://")
	}
	return parsed.Path
}
