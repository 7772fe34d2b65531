// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/fwsync/pkg/testutils"
)

const testToolDir = "/work/tools"

var (
	testSrc  = filepath.Join("/work", "Framework")
	testDest = filepath.Join("/game", "Assets", "Scripts", "Framework")
	mtime    = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
)

type result struct {
	code   int
	stdout []string
	stderr string
}

func execute(t *testing.T, fs afero.Fs, args ...string) result {
	t.Helper()
	color.NoColor = true
	pterm.DisableStyling()
	t.Cleanup(func() {
		color.NoColor = false
		pterm.EnableStyling()
	})

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := run(context.Background(), args, stdout, stderr, fs, testToolDir)

	var lines []string
	if out := strings.TrimSpace(stdout.String()); out != "" {
		lines = strings.Split(out, "\n")
	}
	return result{code: code, stdout: lines, stderr: stderr.String()}
}

func seed(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	testutils.WriteTree(t, fs, files, mtime)
}

func banner(src, dest string, dry, del, onlyCode bool) []string {
	tf := func(b bool) string {
		if b {
			return "true"
		}
		return "false"
	}
	return []string{
		"Syncing",
		"  src:  " + src,
		"  dest: " + dest,
		"  dry:  " + tf(dry),
		"  del:  " + tf(del),
		"  only_code: " + tf(onlyCode),
	}
}

func TestRunMissingSource(t *testing.T) {
	fs := afero.NewMemMapFs()

	res := execute(t, fs, "--src", testSrc, "--dest", testDest)

	assert.Equal(t, exitMissingSource, res.code)
	assert.Equal(t, banner(testSrc, testDest, false, false, false), res.stdout)
	assert.Contains(t, res.stderr, "Source does not exist or is not a directory: "+testSrc)

	exists, err := afero.Exists(fs, testDest)
	require.NoError(t, err)
	assert.False(t, exists, "destination is not created when the source is missing")
}

func TestRunDefaultSource(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs, map[string]string{filepath.Join("/work", "Framework", "a.cs"): "a"})

	res := execute(t, fs, "--dest", testDest)

	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "  src:  "+testSrc, res.stdout[1])
	assert.Equal(t, "Done. Copied: 1, Skipped: 0, Removed: 0", res.stdout[len(res.stdout)-1])
}

func TestRunMirror(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantLines []string
		wantFiles map[string]bool
	}{
		{
			name: "copy_only",
			args: []string{"--src", testSrc, "--dest", testDest},
			wantLines: []string{
				"COPY " + filepath.Join(testSrc, "a.cs") + " -> " + filepath.Join(testDest, "a.cs"),
				"COPY " + filepath.Join(testSrc, "readme.txt") + " -> " + filepath.Join(testDest, "readme.txt"),
				"Done. Copied: 2, Skipped: 0, Removed: 0",
			},
			wantFiles: map[string]bool{"a.cs": true, "readme.txt": true, "old.cs": true},
		},
		{
			name: "only_code_with_delete",
			args: []string{"--src", testSrc, "--dest", testDest, "--only-code", "--delete"},
			wantLines: []string{
				"COPY " + filepath.Join(testSrc, "a.cs") + " -> " + filepath.Join(testDest, "a.cs"),
				"DEL  " + filepath.Join(testDest, "old.cs"),
				"Done. Copied: 1, Skipped: 1, Removed: 1",
			},
			wantFiles: map[string]bool{"a.cs": true, "readme.txt": false, "old.cs": false},
		},
		{
			name: "dry_run_with_delete",
			args: []string{"--src", testSrc, "--dest", testDest, "--dry-run", "--delete"},
			wantLines: []string{
				"COPY " + filepath.Join(testSrc, "a.cs") + " -> " + filepath.Join(testDest, "a.cs"),
				"COPY " + filepath.Join(testSrc, "readme.txt") + " -> " + filepath.Join(testDest, "readme.txt"),
				"DEL  " + filepath.Join(testDest, "old.cs"),
				"Done. Copied: 2, Skipped: 0, Removed: 1",
			},
			wantFiles: map[string]bool{"a.cs": false, "readme.txt": false, "old.cs": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			seed(t, fs, map[string]string{
				filepath.Join(testSrc, "a.cs"):       "class A {}",
				filepath.Join(testSrc, "readme.txt"): "read me",
				filepath.Join(testDest, "old.cs"):    "class Old {}",
			})

			res := execute(t, fs, tt.args...)
			require.Equal(t, exitOK, res.code, res.stderr)
			require.Greater(t, len(res.stdout), 6, "banner plus actions")

			assert.Equal(t, "Syncing", res.stdout[0])
			assert.Equal(t, tt.wantLines, res.stdout[6:])

			for name, want := range tt.wantFiles {
				exists, err := afero.Exists(fs, filepath.Join(testDest, name))
				require.NoError(t, err)
				assert.Equal(t, want, exists, "%s existence", name)
			}
		})
	}
}

func TestRunDryRunDoesNotCreateDestination(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs, map[string]string{filepath.Join(testSrc, "a.cs"): "a"})

	res := execute(t, fs, "--src", testSrc, "--dest", testDest, "--dry-run")
	require.Equal(t, exitOK, res.code, res.stderr)

	exists, err := afero.Exists(fs, testDest)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRunEnvironmentOverrides(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs, map[string]string{
		filepath.Join(testSrc, "a.cs"):    "a",
		filepath.Join(testDest, "old.cs"): "old",
	})

	t.Setenv("FWSYNC_SRC", testSrc)
	t.Setenv("FWSYNC_DEST", "/elsewhere")
	t.Setenv("FWSYNC_DELETE", "true")
	t.Setenv("FWSYNC_DRY_RUN", "true")

	res := execute(t, fs, "--dest", testDest)
	require.Equal(t, exitOK, res.code, res.stderr)

	assert.Equal(t, banner(testSrc, testDest, true, true, false), res.stdout[:6], "flags win over the environment")
	assert.Equal(t, "Done. Copied: 1, Skipped: 0, Removed: 1", res.stdout[len(res.stdout)-1])

	exists, err := afero.Exists(fs, filepath.Join(testDest, "old.cs"))
	require.NoError(t, err)
	assert.True(t, exists, "dry run keeps the file")
}

func TestRunConfigFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	hcl := `
src           = "` + testSrc + `"
dest          = "` + testDest + `"
only_code     = true
exclude_globs = ["Docs"]
exclude_dirs  = []
`
	seed(t, fs, map[string]string{
		filepath.Join(testSrc, "a.cs"):         "a",
		filepath.Join(testSrc, "Docs", "b.cs"): "b",
		filepath.Join(testSrc, "readme.txt"):   "r",
		filepath.Join(testSrc, "Library", "x"): "x",
		"/etc/fwsync.hcl":                      hcl,
	})

	res := execute(t, fs, "--config", "/etc/fwsync.hcl", "--only-code=false")
	require.Equal(t, exitOK, res.code, res.stderr)

	assert.Equal(t, banner(testSrc, testDest, false, false, false), res.stdout[:6], "flags win over the config file")
	assert.Equal(t, "Done. Copied: 3, Skipped: 0, Removed: 0", res.stdout[len(res.stdout)-1])

	exists, err := afero.Exists(fs, filepath.Join(testDest, "Library", "x"))
	require.NoError(t, err)
	assert.True(t, exists, "an empty exclude_dirs list replaces the defaults")

	exists, err = afero.Exists(fs, filepath.Join(testDest, "Docs"))
	require.NoError(t, err)
	assert.False(t, exists, "exclude globs prune directories")
}

func TestRunConfigErrors(t *testing.T) {
	tests := []struct {
		name        string
		files       map[string]string
		args        []string
		errContains string
	}{
		{
			name:        "explicit_config_missing",
			args:        []string{"--config", "/etc/missing.yaml", "--src", testSrc, "--dest", testDest},
			errContains: "reading config file",
		},
		{
			name:        "unknown_key",
			files:       map[string]string{"/etc/fwsync.yaml": "source: /x\n"},
			args:        []string{"--config", "/etc/fwsync.yaml", "--src", testSrc, "--dest", testDest},
			errContains: "parsing config",
		},
		{
			name:        "invalid_glob",
			files:       map[string]string{"/etc/fwsync.json": `{"exclude_globs": ["[oops"]}`},
			args:        []string{"--config", "/etc/fwsync.json", "--src", testSrc, "--dest", testDest},
			errContains: "invalid exclude glob",
		},
		{
			name:        "unexpected_argument",
			args:        []string{"extra"},
			errContains: "unknown command",
		},
		{
			name:        "unknown_flag",
			args:        []string{"--verbose"},
			errContains: "unknown flag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			seed(t, fs, tt.files)
			require.NoError(t, fs.MkdirAll(testSrc, 0o755))

			res := execute(t, fs, tt.args...)
			assert.Equal(t, exitFailure, res.code)
			assert.Contains(t, res.stderr, tt.errContains)
		})
	}
}

func TestRunDefaultConfigFileIsOptional(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(testSrc, 0o755))

	res := execute(t, fs, "--src", testSrc, "--dest", testDest)
	assert.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "Done. Copied: 0, Skipped: 0, Removed: 0", res.stdout[len(res.stdout)-1])
}

func TestRunVersion(t *testing.T) {
	res := execute(t, afero.NewMemMapFs(), "--version")
	assert.Equal(t, exitOK, res.code)
	require.NotEmpty(t, res.stdout)
	assert.Contains(t, res.stdout[0], "fwsync")
	assert.Contains(t, strings.Join(res.stdout, "\n"), "platform:")
}
