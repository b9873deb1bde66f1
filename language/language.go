/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package language resolves which grammar parses a file: by explicit
// scope, by file name, or by the grammar declared in the working directory.
package language

import (
	"slices"
	"sync"
	"unsafe"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
)

// Language is a grammar plus the file types it handles.
type Language struct {
	// Scope names the language, e.g. "source.js".
	Scope string

	// FileTypes are bundled associations followed by configured ones.
	FileTypes []string

	// Configured is true when the config file added file types.
	Configured bool

	load    func() unsafe.Pointer
	grammar func() *sitter.Language
}

func newLanguage(scope string, load func() unsafe.Pointer, fileTypes ...string) *Language {
	l := &Language{Scope: scope, FileTypes: fileTypes, load: load}
	l.grammar = sync.OnceValue(func() *sitter.Language {
		return sitter.NewLanguage(l.load())
	})
	return l
}

// Grammar returns the engine language.
func (l *Language) Grammar() *sitter.Language {
	return l.grammar()
}

// Source describes where the language's associations come from.
func (l *Language) Source() string {
	if l.Configured {
		return "bundled+config"
	}
	return "bundled"
}

func (l *Language) clone() *Language {
	c := *l
	c.FileTypes = slices.Clone(l.FileTypes)
	return &c
}

var bundled = []*Language{
	newLanguage("source.js", tree_sitter_javascript.Language, "js", "mjs", "cjs", "jsx"),
	newLanguage("source.css", tree_sitter_css.Language, "css"),
	newLanguage("text.html.basic", tree_sitter_html.Language, "html", "htm", "xhtml"),
	newLanguage("source.php", tree_sitter_php.LanguagePHP, "php", "phtml"),
}
