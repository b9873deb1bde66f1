/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package driver

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/sapling/edit"
	"bennypowers.dev/sapling/language"
	"bennypowers.dev/sapling/testutil"
	"bennypowers.dev/sapling/text"
)

func newOptions(t *testing.T, fixture string) (Options, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	return Options{
		Encoding: text.UTF8,
		Stdout:   &stdout,
		Stderr:   &stderr,
		FS:       testutil.NewFixtureFS(t, "fixtures/driver/"+fixture, "/project"),
		Cwd:      "/project",
		Loader:   language.NewLoader(nil),
	}, &stdout, &stderr
}

func TestRun_Batch(t *testing.T) {
	opts, stdout, _ := newOptions(t, "batch")
	opts.Quiet = true

	outcomes, err := Run(context.Background(), opts, []string{"/project/a.js", "/project/b.js", "/project/c.js"})
	require.ErrorIs(t, err, ErrHadErrors)
	require.Len(t, outcomes, 3)

	assert.False(t, outcomes[0].HadError)
	assert.True(t, outcomes[1].HadError)
	assert.False(t, outcomes[2].HadError)
	for _, o := range outcomes {
		assert.Equal(t, Success, o.Status)
		assert.NoError(t, o.Err)
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 1, "only the file with errors is reported")
	assert.Regexp(t, `^/project/b\.js\t\d+ ms\t\((ERROR|MISSING) .*\[\d+, \d+\] - \[\d+, \d+\]\)$`, lines[0])
}

func TestRun_AllValid(t *testing.T) {
	opts, stdout, _ := newOptions(t, "batch")

	outcomes, err := Run(context.Background(), opts, []string{"/project/a.js", "/project/c.js"})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	out := stdout.String()
	assert.True(t, strings.HasPrefix(out, "(program [0, 0] - [1, 0]\n  (lexical_declaration [0, 0] - [0, 10]"))
	assert.Contains(t, out, "(array [0, 10] - [0, 16]")
}

func TestRun_Time(t *testing.T) {
	opts, stdout, _ := newOptions(t, "batch")
	opts.Quiet = true
	opts.Time = true

	_, err := Run(context.Background(), opts, []string{"/project/a.js", "/project/c.js"})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2)
	assert.Regexp(t, `^/project/a\.js\t\d+ ms$`, lines[0])
	assert.Regexp(t, `^/project/c\.js\t\d+ ms$`, lines[1])
}

func TestRun_PadsPaths(t *testing.T) {
	opts, stdout, _ := newOptions(t, "mixed")
	opts.Quiet = true
	opts.Time = true

	_, err := Run(context.Background(), opts, []string{"/project/index.html", "/project/src/nested/two.css"})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "/project/index.html        \t"), "padded to the longest path")
}

func TestRun_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name  string
		scope string
		edits []string
	}{
		{"unknown scope", "source.cobol", nil},
		{"malformed edit", "", []string{"nowhere"}},
		{"edit beyond text", "", []string{"500 0 x"}},
		{"edit row beyond text", "", []string{"9,0 0 x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, stdout, _ := newOptions(t, "batch")
			opts.Scope = tt.scope
			opts.Edits = tt.edits

			_, err := Run(context.Background(), opts, []string{"/project/a.js", "/project/c.js"})
			require.ErrorIs(t, err, ErrConfiguration)
			assert.NotContains(t, stdout.String(), "c.js", "the batch stops at a configuration error")
		})
	}
}

func TestRun_PerFileFailuresContinue(t *testing.T) {
	opts, stdout, stderr := newOptions(t, "mixed")
	opts.Quiet = true
	opts.Time = true

	outcomes, err := Run(context.Background(), opts, []string{
		"/project/missing.js",
		"/project/notes.txt",
		"/project/src/*.php",
		"/project/index.html",
	})
	require.ErrorIs(t, err, ErrHadErrors)
	require.Len(t, outcomes, 4)

	assert.Equal(t, IOError, outcomes[0].Status)
	assert.ErrorIs(t, outcomes[1].Err, language.ErrNoLanguage)
	assert.ErrorIs(t, outcomes[2].Err, language.ErrNoLanguage)
	assert.NoError(t, outcomes[3].Err)
	assert.False(t, outcomes[3].Failed())

	assert.Contains(t, stderr.String(), "/project/missing.js: ")
	assert.Contains(t, stderr.String(), "/project/notes.txt: no language found")
	assert.Contains(t, stdout.String(), "/project/index.html")
}

func TestRun_ScopeOverridesFileName(t *testing.T) {
	opts, stdout, _ := newOptions(t, "mixed")
	opts.Scope = "source.css"

	_, err := Run(context.Background(), opts, []string{"/project/notes.txt"})
	require.ErrorIs(t, err, ErrHadErrors, "notes parsed as CSS have errors")
	assert.Contains(t, stdout.String(), "(stylesheet [0, 0]")
}

func TestRun_Globs(t *testing.T) {
	opts, stdout, _ := newOptions(t, "mixed")
	opts.Quiet = true
	opts.Time = true

	outcomes, err := Run(context.Background(), opts, []string{"src/**/*.css"})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Equal(t, "/project/src/nested/two.css", outcomes[0].Path)
	assert.Equal(t, "/project/src/one.css", outcomes[1].Path)
	assert.Contains(t, stdout.String(), "/project/src/one.css")
}

func TestRun_NoopEditMatchesFullParse(t *testing.T) {
	for _, file := range []string{"/project/a.js", "/project/b.js"} {
		t.Run(file, func(t *testing.T) {
			full, fullOut, _ := newOptions(t, "batch")
			edited, editedOut, _ := newOptions(t, "batch")
			edited.Edits = []string{"0 0 ", "$ 0 "}

			fullOutcomes, fullErr := Run(context.Background(), full, []string{file})
			editedOutcomes, editedErr := Run(context.Background(), edited, []string{file})

			assert.Equal(t, fullErr, editedErr)
			assert.Equal(t, fullOutcomes[0].HadError, editedOutcomes[0].HadError)
			if !fullOutcomes[0].HadError {
				assert.Equal(t, stripTimes(fullOut.String()), stripTimes(editedOut.String()))
			}
		})
	}
}

var timing = regexp.MustCompile(`\t\d+ ms`)

func stripTimes(s string) string {
	return timing.ReplaceAllString(s, "\tN ms")
}

func TestParseSource_IncrementalMatchesFull(t *testing.T) {
	lang, err := language.NewLoader(nil).ForScope("source.js")
	require.NoError(t, err)

	src := []byte("let a = 1;\nlet b = 2;\n")
	var specs []edit.Spec
	for _, flag := range []string{"$ 0 let c = 3;\n", "1,4 1 beta", "0 3 const"} {
		spec, err := edit.ParseSpec(flag)
		require.NoError(t, err)
		specs = append(specs, spec)
	}

	incremental, err := ParseSource(Request[byte]{Language: lang, Text: src, Edits: specs})
	require.NoError(t, err)
	require.Len(t, incremental.Changed, 3)

	full, err := ParseSource(Request[byte]{Language: lang, Text: []byte("const a = 1;\nlet beta = 2;\nlet c = 3;\n")})
	require.NoError(t, err)

	assert.Equal(t, Success, incremental.Status)
	assert.False(t, incremental.HadError)
	assert.False(t, full.HadError)
	assert.Equal(t, full.Tree, incremental.Tree)
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	opts, stdout, stderr := newOptions(t, "batch")
	opts.Time = true
	opts.Cancel = new(atomic.Bool)
	opts.Cancel.Store(true)

	outcomes, err := Run(context.Background(), opts, []string{"/project/a.js", "/project/b.js"})
	require.NoError(t, err, "bound violations do not fail the batch")
	for _, o := range outcomes {
		assert.Equal(t, Cancelled, o.Status)
		assert.False(t, o.HadError)
	}
	assert.Regexp(t, `(?m)^/project/a\.js\t\d+ ms \(cancelled\)$`, stdout.String())
	assert.Contains(t, stderr.String(), "/project/b.js: parse cancelled")
	assert.NotContains(t, stdout.String(), "(program")
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	t.Run("cancellation enabled", func(t *testing.T) {
		opts, _, _ := newOptions(t, "batch")
		opts.Cancel = new(atomic.Bool)

		outcomes, err := Run(ctx, opts, []string{"/project/a.js"})
		require.NoError(t, err)
		assert.Equal(t, Cancelled, outcomes[0].Status)
	})

	t.Run("cancellation not enabled", func(t *testing.T) {
		opts, _, _ := newOptions(t, "batch")

		outcomes, err := Run(ctx, opts, []string{"/project/a.js"})
		require.NoError(t, err)
		assert.Equal(t, Success, outcomes[0].Status)
	})
}

func TestRun_CancelledSkipsEdits(t *testing.T) {
	opts, _, _ := newOptions(t, "batch")
	opts.Cancel = new(atomic.Bool)
	opts.Cancel.Store(true)
	opts.Edits = []string{"500 0 unreachable"}

	outcomes, err := Run(context.Background(), opts, []string{"/project/a.js"})
	require.NoError(t, err, "no edit is attempted after the bound stops the first parse")
	assert.Equal(t, Cancelled, outcomes[0].Status)
}

func TestRun_Timeout(t *testing.T) {
	opts, stdout, _ := newOptions(t, "batch")
	opts.Quiet = true
	opts.Time = true
	opts.Timeout = time.Nanosecond

	outcomes, err := Run(context.Background(), opts, []string{"/project/a.js"})
	require.NoError(t, err)
	switch outcomes[0].Status {
	case TimedOut:
		assert.Contains(t, stdout.String(), "(timed out)")
	case Success:
	default:
		t.Fatalf("unexpected status %s", outcomes[0].Status)
	}

	opts.Timeout = time.Hour
	outcomes, err = Run(context.Background(), opts, []string{"/project/a.js"})
	require.NoError(t, err)
	assert.Equal(t, Success, outcomes[0].Status)
}

func TestRun_Encodings(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		encoding text.Encoding
		want     string
	}{
		{"utf8 columns are bytes", "/project/emoji.js", text.UTF8, "(lexical_declaration [0, 16] - [0, 26]"},
		{"utf16 columns are code units", "/project/emoji.js", text.UTF16, "(lexical_declaration [0, 14] - [0, 24]"},
		{"little-endian BOM forces utf16", "/project/bom.js", text.UTF8, "(lexical_declaration [0, 14] - [0, 24]"},
		{"big-endian BOM forces utf16", "/project/bom-be.js", text.UTF8, "(lexical_declaration [0, 14] - [0, 24]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, stdout, _ := newOptions(t, "encoding")
			opts.Encoding = tt.encoding

			outcomes, err := Run(context.Background(), opts, []string{tt.file})
			require.NoError(t, err)
			assert.False(t, outcomes[0].HadError)
			assert.Contains(t, stdout.String(), tt.want)
		})
	}
}

func TestRun_UTF16Edits(t *testing.T) {
	opts, stdout, _ := newOptions(t, "encoding")
	opts.Encoding = text.UTF16
	opts.Edits = []string{"0,18 1 tt"}

	_, err := Run(context.Background(), opts, []string{"/project/emoji.js"})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "name: (identifier [0, 18] - [0, 20])")
}

func TestRun_DebugPrintsLogAndChangedRanges(t *testing.T) {
	opts, _, stderr := newOptions(t, "batch")
	opts.Quiet = true
	opts.Debug = true
	opts.Edits = []string{"8 1 42"}

	_, err := Run(context.Background(), opts, []string{"/project/a.js"})
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), "edit 1: ")
	assert.Contains(t, stderr.String(), "\n  ", "lex log lines are indented")
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchCancel_Newline(t *testing.T) {
	var flag atomic.Bool
	var out syncBuffer
	stop := WatchCancel(context.Background(), strings.NewReader("\n"), &out, &flag)
	defer stop()

	require.Eventually(t, func() bool {
		return out.String() == "Cancelling\n"
	}, 5*time.Second, time.Millisecond)
	assert.True(t, flag.Load())
}

func TestWatchCancel_Context(t *testing.T) {
	var flag atomic.Bool
	var out syncBuffer
	ctx, cancel := context.WithCancel(context.Background())
	stop := WatchCancel(ctx, strings.NewReader(""), &out, &flag)
	defer stop()

	assert.False(t, flag.Load(), "end of input does not cancel")
	cancel()
	require.Eventually(t, flag.Load, 5*time.Second, time.Millisecond)
	require.Eventually(t, func() bool {
		return out.String() == "Cancelling\n"
	}, 5*time.Second, time.Millisecond)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "cancelled", Cancelled.String())
	assert.Equal(t, "timed out", TimedOut.String())
	assert.Equal(t, "io error", IOError.String())
}
