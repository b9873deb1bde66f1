/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package version

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/sapling/internal/version"
)

func runVersion(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	Cmd.SetOut(&out)
	Cmd.SetArgs(append([]string{}, args...))
	t.Cleanup(func() {
		Cmd.SetOut(nil)
		_ = Cmd.Flags().Set("format", "text")
	})
	require.NoError(t, Cmd.Execute())
	return out.String()
}

func TestVersion_Text(t *testing.T) {
	out := runVersion(t)
	assert.Contains(t, out, "sapling "+version.Full()+"\n")
	assert.Contains(t, out, "grammar ABI "+version.Info().ABI.String()+"\n")
}

func TestVersion_JSON(t *testing.T) {
	out := runVersion(t, "--format", "json")

	var got version.Build
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, version.Get(), got.Version)
	assert.Equal(t, version.Info().ABI, got.ABI)
}
