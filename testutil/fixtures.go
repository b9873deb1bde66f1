/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package testutil provides fixture and golden-file helpers for sapling tests.
package testutil

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/sapling/internal/mapfs"
)

var updateGolden = flag.Bool("update", false, "rewrite golden files with actual output")

// testdataDir is resolved when the test binary starts, before any test
// changes the working directory.
var testdataDir, testdataErr = findTestdata()

// findTestdata returns the testdata directory at the module root, the
// nearest ancestor of the working directory holding go.mod.
func findTestdata() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, "testdata"), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("no go.mod above the working directory")
		}
		dir = parent
	}
}

// Path returns the absolute path of rel under the module's testdata.
func Path(t testing.TB, rel string) string {
	t.Helper()
	require.NoError(t, testdataErr, "locating testdata")
	return filepath.Join(testdataDir, filepath.FromSlash(rel))
}

// NewFixtureFS loads the files under testdata/fixtureDir into an in-memory
// filesystem, rooted at rootPath.
func NewFixtureFS(t testing.TB, fixtureDir string, rootPath string) *mapfs.MapFileSystem {
	t.Helper()
	base := Path(t, fixtureDir)
	mfs := mapfs.New()

	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		mfs.AddFile(filepath.Join(rootPath, rel), string(content), 0o644)
		return nil
	})
	require.NoError(t, err, "loading fixtures from %s", fixtureDir)

	return mfs
}

// LoadFixtureFile reads one file under testdata.
func LoadFixtureFile(t testing.TB, fixturePath string) []byte {
	t.Helper()
	content, err := os.ReadFile(Path(t, fixturePath))
	require.NoError(t, err, "reading fixture %s", fixturePath)
	return content
}

// Golden compares actual with the golden file at testdata/goldenPath.
// With -update the file is rewritten first, so the comparison passes.
func Golden(t testing.TB, goldenPath string, actual string) {
	t.Helper()
	if *updateGolden {
		path := Path(t, goldenPath)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(actual), 0o644))
		t.Logf("updated golden file %s", path)
	}
	assert.Equal(t, string(LoadFixtureFile(t, goldenPath)), actual, "golden file %s", goldenPath)
}
