/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package language

import (
	"fmt"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"

	"bennypowers.dev/sapling/config"
	saplingfs "bennypowers.dev/sapling/fs"
	"bennypowers.dev/sapling/internal/logger"
)

// Loader knows every available language.
type Loader struct {
	languages []*Language
}

// NewLoader returns the bundled languages, extended with the file types
// cfg associates with them. cfg may be nil.
func NewLoader(cfg *config.Config) *Loader {
	l := &Loader{}
	for _, lang := range bundled {
		l.languages = append(l.languages, lang.clone())
	}
	if cfg == nil {
		return l
	}
	for _, spec := range cfg.Languages {
		lang := l.find(spec.Scope)
		if lang == nil {
			logger.Warn("config: ignoring file types for unknown scope %q", spec.Scope)
			continue
		}
		lang.FileTypes = append(lang.FileTypes, spec.FileTypes...)
		lang.Configured = true
	}
	return l
}

// All returns every known language.
func (l *Loader) All() []*Language {
	return l.languages
}

// ForScope returns the language with the given scope.
func (l *Loader) ForScope(scope string) (*Language, error) {
	if lang := l.find(scope); lang != nil {
		return lang, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownScope, scope)
}

// ForFileName returns the first language with a file type matching path.
// Configured file types are checked along with the bundled ones, in
// language order.
func (l *Loader) ForFileName(path string) (*Language, error) {
	for _, lang := range l.languages {
		for _, ft := range lang.FileTypes {
			if config.MatchFileType(ft, path) {
				return lang, nil
			}
		}
	}
	return nil, fmt.Errorf("%w for %s", ErrNoLanguage, path)
}

// AtPath returns the first known language declared by the grammar project
// in dir: tree-sitter.json "grammars", else package.json "tree-sitter".
func (l *Loader) AtPath(filesystem saplingfs.FileSystem, dir string) (*Language, error) {
	manifests := []struct{ name, path string }{
		{"tree-sitter.json", "grammars.#.scope"},
		{"package.json", "tree-sitter.#.scope"},
	}

	var scopes []string
	for _, m := range manifests {
		file := filepath.Join(dir, m.name)
		data, err := filesystem.ReadFile(file)
		if err != nil {
			continue
		}
		data = jsonc.ToJSON(data)
		if !gjson.ValidBytes(data) {
			logger.Warn("%s: invalid JSON", file)
			continue
		}
		for _, scope := range gjson.GetBytes(data, m.path).Array() {
			scopes = append(scopes, scope.String())
		}
		if len(scopes) > 0 {
			break
		}
	}

	for _, scope := range scopes {
		if lang := l.find(scope); lang != nil {
			return lang, nil
		}
	}
	return nil, fmt.Errorf("%w in %s", ErrNoLanguage, dir)
}

// Resolve picks the language for path: an explicit scope wins, then the
// file name, then the grammar declared in cwd. An unknown explicit scope is
// ErrUnknownScope; anything else unresolved is ErrNoLanguage.
func (l *Loader) Resolve(scope, path string, filesystem saplingfs.FileSystem, cwd string) (*Language, error) {
	if scope != "" {
		return l.ForScope(scope)
	}
	if path != "" {
		if lang, err := l.ForFileName(path); err == nil {
			return lang, nil
		}
	}
	if lang, err := l.AtPath(filesystem, cwd); err == nil {
		return lang, nil
	}
	return nil, fmt.Errorf("%w for %s", ErrNoLanguage, path)
}

func (l *Loader) find(scope string) *Language {
	for _, lang := range l.languages {
		if lang.Scope == scope {
			return lang
		}
	}
	return nil
}
