package testutils

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot(t *testing.T) {
	fs := afero.NewMemMapFs()
	mtime := time.Date(2025, 1, 2, 3, 4, 5, 600, time.UTC)

	WriteTree(t, fs, map[string]string{
		"/root/a.cs":     "a",
		"/root/sub/b.cs": "b",
	}, mtime)
	require.NoError(t, fs.MkdirAll("/root/empty", 0o755))

	got := Snapshot(t, fs, "/root")
	assert.Equal(t, map[string]Entry{
		"a.cs":     {Content: "a", ModTime: mtime.Unix()},
		"sub":      {Dir: true},
		"sub/b.cs": {Content: "b", ModTime: mtime.Unix()},
		"empty":    {Dir: true},
	}, got)

	assert.Empty(t, Snapshot(t, fs, "/missing"))
}

func TestContextCarriesLogger(t *testing.T) {
	ctx := Context(t)
	require.NotNil(t, ctx)
}
