// Package testutils holds helpers shared by the fwsync tests
package testutils

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// 📄 Entry is one node of a tree snapshot
type Entry struct {
	Dir     bool
	Content string
	ModTime int64 // whole seconds
}

// Context returns a context carrying a zerolog logger that writes to t.Log
func Context(t testing.TB) context.Context {
	t.Helper()
	logger := zerolog.New(zerolog.TestWriter{T: t}).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

// 🌱 WriteTree creates every file in files, creating parents, and stamps it with mtime
func WriteTree(t testing.TB, fs afero.Fs, files map[string]string, mtime time.Time) {
	t.Helper()
	for path, content := range files {
		WriteFile(t, fs, path, content, mtime)
	}
}

// WriteFile creates a single file with the given content and mtime
func WriteFile(t testing.TB, fs afero.Fs, path, content string, mtime time.Time) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755), "creating parent of %s", path)
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644), "writing %s", path)
	require.NoError(t, fs.Chtimes(path, mtime, mtime), "stamping %s", path)
}

// 📸 Snapshot records every entry below root keyed by slash-separated relative path.
// A missing root yields an empty snapshot.
func Snapshot(t testing.TB, fs afero.Fs, root string) map[string]Entry {
	t.Helper()
	out := map[string]Entry{}

	exists, err := afero.DirExists(fs, root)
	require.NoError(t, err)
	if !exists {
		return out
	}

	err = afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if info.IsDir() {
			out[rel] = Entry{Dir: true}
			return nil
		}
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return err
		}
		out[rel] = Entry{Content: string(data), ModTime: info.ModTime().Unix()}
		return nil
	})
	require.NoError(t, err, "snapshotting %s", root)

	return out
}
