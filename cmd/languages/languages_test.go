/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package languages

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.Execute()
	return out.String(), err
}

func TestDumpLanguages_Text(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "scope: source.js\nfile_types: js, mjs, cjs, jsx\nsource: bundled\n")
	assert.Contains(t, out, "scope: source.css\n")
	assert.Contains(t, out, "scope: text.html.basic\n")
	assert.Contains(t, out, "scope: source.php\n")
}

func TestDumpLanguages_JSONWithConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".config"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".config", "sapling.json"), []byte(`{
		// extra file types
		"languages": [{"scope": "source.css", "fileTypes": ["pcss"]}],
	}`), 0o644))
	t.Chdir(dir)

	out, err := execute(t, "--format", "json")
	require.NoError(t, err)

	var langs []languageOutput
	require.NoError(t, json.Unmarshal([]byte(out), &langs))
	var css languageOutput
	for _, l := range langs {
		if l.Scope == "source.css" {
			css = l
		}
	}
	assert.Equal(t, []string{"css", "pcss"}, css.FileTypes)
	assert.Equal(t, "bundled+config", css.Source)
}

func TestDumpLanguages_UnknownFormat(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := execute(t, "-f", "xml")
	assert.Error(t, err)
}
