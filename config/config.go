/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package config provides configuration loading for sapling.
package config

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Config represents the sapling configuration.
type Config struct {
	// Languages associates extra file types with known language scopes.
	Languages []LanguageSpec `yaml:"languages" json:"languages"`

	// Parse holds defaults for the parse command.
	Parse ParseConfig `yaml:"parse" json:"parse"`

	// LSP holds settings for the language server.
	LSP LSPConfig `yaml:"lsp" json:"lsp"`
}

// LanguageSpec adds file types to a language.
type LanguageSpec struct {
	// Scope names the language, e.g. "source.js".
	Scope string `yaml:"scope" json:"scope"`

	// FileTypes are extensions ("es6"), file names ("Jakefile"), or
	// doublestar globs ("**/*.jsx.txt") matched against the path.
	FileTypes StringList `yaml:"fileTypes" json:"fileTypes"`
}

// ParseConfig holds parse command defaults. Flags override them.
type ParseConfig struct {
	// Timeout in microseconds. Zero means unbounded.
	Timeout uint64 `yaml:"timeout" json:"timeout"`

	// Encoding is "utf8" or "utf16".
	Encoding string `yaml:"encoding" json:"encoding"`

	Quiet bool `yaml:"quiet" json:"quiet"`
	Time  bool `yaml:"time" json:"time"`
}

// LSPConfig holds language server settings.
type LSPConfig struct {
	// Timeout bounds each re-parse, in microseconds.
	Timeout uint64 `yaml:"timeout" json:"timeout"`
}

// StringList accepts either a single string or a list of strings.
type StringList []string

// UnmarshalYAML handles both scalar and sequence forms.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*s = StringList{node.Value}
		return nil
	}

	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*s = list
	return nil
}

// UnmarshalJSON handles both string and array forms.
func (s *StringList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*s = StringList{one}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*s = list
	return nil
}

// Default returns a config with default values.
func Default() *Config {
	return &Config{
		Parse: ParseConfig{Encoding: "utf8"},
	}
}

// MatchFileType reports whether path has the given file type. Globs are
// matched against the whole slash-separated path and against the base
// name; other file types match the extension or the whole base name.
func MatchFileType(fileType, path string) bool {
	path = filepath.ToSlash(path)
	base := filepath.Base(path)
	if ContainsGlob(fileType) {
		if ok, _ := doublestar.Match(fileType, path); ok {
			return true
		}
		ok, _ := doublestar.Match(fileType, base)
		return ok
	}
	if base == fileType {
		return true
	}
	ext := strings.TrimPrefix(filepath.Ext(base), ".")
	return ext != "" && ext == strings.TrimPrefix(fileType, ".")
}
