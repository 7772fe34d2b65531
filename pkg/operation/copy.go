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

package operation

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/fwsync/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 📦 copyTree mirrors every qualifying source file into the destination
func (r *run) copyTree(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	onDir := func(rel string) {
		if r.dryRun {
			return
		}
		dir := filepath.Join(r.destination, rel)
		if err := r.fs.MkdirAll(dir, 0o755); err != nil {
			logger.Warn().Err(err).Str("dir", dir).Msg("creating destination directory")
		}
	}

	onFile := func(path, rel string, info os.FileInfo) {
		r.copyFile(ctx, path, rel, info)
	}

	return r.walkTree(ctx, r.source, onDir, onFile)
}

// 📄 copyFile decides and, outside dry-run, performs the copy of a single file
func (r *run) copyFile(ctx context.Context, src, rel string, info os.FileInfo) {
	logger := zerolog.Ctx(ctx).With().Str("file", rel).Logger()
	dst := filepath.Join(r.destination, rel)

	if info.Mode()&os.ModeSymlink != 0 {
		target, err := r.fs.Stat(src)
		if err == nil && target.IsDir() {
			logger.Debug().Msg("not descending into symlinked directory")
			return
		}
		if err == nil {
			info = target
		}
	}

	if ok, reason := r.policy.Check(rel, r.onlyCode); !ok {
		logger.Debug().Str("reason", string(reason)).Msg("skipping file")
		r.record(ctx, status.Event{
			Decision:    status.DecisionSkip,
			Reason:      reason,
			Source:      src,
			Destination: dst,
			DryRun:      r.dryRun,
		})
		return
	}

	stale, reason := r.isStale(info, dst)
	if !stale {
		r.record(ctx, status.Event{
			Decision:    status.DecisionSkip,
			Reason:      reason,
			Source:      src,
			Destination: dst,
			DryRun:      r.dryRun,
		})
		return
	}

	ev := status.Event{
		Decision:    status.DecisionCopy,
		Reason:      reason,
		Source:      src,
		Destination: dst,
		DryRun:      r.dryRun,
	}

	if !r.dryRun {
		if err := copyContents(r.fs, src, dst, info); err != nil {
			logger.Warn().Err(err).Msg("copy failed")
			ev.Err = err
		}
	}

	r.record(ctx, ev)
}

// 🔍 isStale compares size and whole-second mtime against the destination copy
func (r *run) isStale(src os.FileInfo, dst string) (bool, status.Reason) {
	dstInfo, err := r.fs.Stat(dst)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return true, status.ReasonMissing
		}
		return true, status.ReasonStale
	}

	if dstInfo.IsDir() {
		return true, status.ReasonStale
	}

	if dstInfo.Size() == src.Size() && dstInfo.ModTime().Unix() == src.ModTime().Unix() {
		return false, status.ReasonUpToDate
	}

	return true, status.ReasonStale
}

// copyContents overwrites dst with src, keeping the source permission bits and mtime
func copyContents(fs afero.Fs, src, dst string, info os.FileInfo) error {
	if err := fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	in, err := fs.Open(src)
	if err != nil {
		return errors.Errorf("opening source: %w", err)
	}
	defer in.Close()

	perm := info.Mode().Perm()

	out, err := fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return errors.Errorf("opening destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Errorf("copying bytes: %w", err)
	}

	if err := out.Close(); err != nil {
		return errors.Errorf("closing destination: %w", err)
	}

	if err := fs.Chmod(dst, perm); err != nil {
		return errors.Errorf("setting mode: %w", err)
	}

	if err := fs.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return errors.Errorf("setting times: %w", err)
	}

	return nil
}
