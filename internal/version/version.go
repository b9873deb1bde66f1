/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package version reports the sapling build and the parsing engine and
// grammar modules compiled into it.
package version

import (
	"fmt"
	"runtime/debug"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Set at build time via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// treeSitterPrefix selects the engine and grammar modules in the build.
const treeSitterPrefix = "github.com/tree-sitter/"

// Build describes a sapling binary.
type Build struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildTime string `json:"buildTime"`

	// ABI is the range of grammar ABI versions the engine loads.
	ABI ABIRange `json:"abi"`

	// Modules maps engine and grammar module paths to their versions.
	Modules map[string]string `json:"modules"`
}

// ABIRange is an inclusive range of grammar ABI versions.
type ABIRange struct {
	Min uint32 `json:"min"`
	Max uint32 `json:"max"`
}

func (r ABIRange) String() string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// Get returns the sapling version: the ldflags value, else the module
// version, else "dev".
func Get() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return "dev"
}

// Full returns the version with the commit when one was recorded.
func Full() string {
	if GitCommit == "unknown" || GitCommit == "" {
		return Get()
	}
	commit := GitCommit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s (commit: %s)", Get(), commit)
}

// Info returns the build description.
func Info() Build {
	b := Build{
		Version:   Get(),
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		ABI:       ABIRange{Min: sitter.MIN_COMPATIBLE_LANGUAGE_VERSION, Max: sitter.LANGUAGE_VERSION},
		Modules:   map[string]string{},
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		b.Modules = modules(info.Deps)
	}
	return b
}

// ModulePaths returns the module paths of b in sorted order.
func (b Build) ModulePaths() []string {
	paths := make([]string, 0, len(b.Modules))
	for p := range b.Modules {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func modules(deps []*debug.Module) map[string]string {
	out := map[string]string{}
	for _, dep := range deps {
		if !strings.HasPrefix(dep.Path, treeSitterPrefix) {
			continue
		}
		v := dep.Version
		if dep.Replace != nil {
			v = dep.Replace.Version
		}
		out[strings.TrimPrefix(dep.Path, treeSitterPrefix)] = v
	}
	return out
}
