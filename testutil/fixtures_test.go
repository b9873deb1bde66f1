/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath_SurvivesChdir(t *testing.T) {
	before := Path(t, "golden/parse/let.txt")
	t.Chdir(t.TempDir())
	after := Path(t, "golden/parse/let.txt")

	assert.Equal(t, before, after)
	assert.True(t, filepath.IsAbs(after))
	_, err := os.Stat(after)
	assert.NoError(t, err)
}

func TestNewFixtureFS_MapsUnderRoot(t *testing.T) {
	mfs := NewFixtureFS(t, "fixtures/config/yaml", "/project")

	assert.True(t, mfs.Exists("/project/.config/sapling.yaml"))
	content, err := mfs.ReadFile("/project/.config/sapling.yaml")
	require.NoError(t, err)
	assert.Equal(t, LoadFixtureFile(t, "fixtures/config/yaml/.config/sapling.yaml"), content)
}

func TestGolden_MatchesFixture(t *testing.T) {
	want := string(LoadFixtureFile(t, "golden/parse/let.txt"))
	Golden(t, "golden/parse/let.txt", want)
}
