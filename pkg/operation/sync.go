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
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/fwsync/pkg/filter"
	"github.com/walteh/fwsync/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// run holds the state of a single Run call
type run struct {
	*Mirror
	policy *filter.Policy
	result *status.Result
}

// 🔄 Run performs the copy pass and, when enabled, the delete pass
func (m *Mirror) Run(ctx context.Context) (*status.Result, error) {
	logger := zerolog.Ctx(ctx).With().
		Str("source", m.source).
		Str("destination", m.destination).
		Bool("dry_run", m.dryRun).
		Logger()
	ctx = logger.WithContext(ctx)

	start := m.clock.Now()

	if err := CheckSource(m.fs, m.source); err != nil {
		return nil, err
	}

	policy, err := m.loadPolicy(ctx)
	if err != nil {
		return nil, err
	}

	r := &run{
		Mirror: m,
		policy: policy,
		result: &status.Result{},
	}

	logger.Debug().Msg("starting copy pass")
	if err := r.copyTree(ctx); err != nil {
		return nil, errors.Errorf("copying tree: %w", err)
	}

	if m.delete {
		logger.Debug().Msg("starting delete pass")
		if err := r.cleanTree(ctx); err != nil {
			return nil, errors.Errorf("cleaning tree: %w", err)
		}
	}

	r.result.Elapsed = m.clock.Since(start)

	logger.Info().
		Int("copied", r.result.Copied).
		Int("skipped", r.result.Skipped).
		Int("removed", r.result.Removed).
		Int("failed", r.result.Failed).
		Dur("elapsed", r.result.Elapsed).
		Msg("mirror finished")

	return r.result, nil
}

// loadPolicy returns the configured policy extended with the source root's ignore file
func (m *Mirror) loadPolicy(ctx context.Context) (*filter.Policy, error) {
	if m.ignoreFile == "" {
		return m.policy, nil
	}

	path := filepath.Join(m.source, m.ignoreFile)
	policy := m.policy.Clone()

	found, err := policy.LoadIgnoreFile(m.fs, path)
	if err != nil {
		return nil, errors.Errorf("loading ignore rules: %w", err)
	}
	if !found {
		return m.policy, nil
	}

	zerolog.Ctx(ctx).Debug().Str("ignore_file", path).Msg("loaded ignore rules")
	return policy, nil
}

func (r *run) record(ctx context.Context, ev status.Event) {
	r.result.Record(ev)
	r.reporter.Report(ctx, ev)
}

// walkTree visits root depth-first, handing each directory's files to onFile
// before descending into its subdirectories. Entries are visited in lexical
// order. The root itself is resolved through symlinks; entries below it are
// not. Unreadable directories are logged and skipped.
func (r *run) walkTree(ctx context.Context, root string, onDir func(rel string), onFile func(path, rel string, info os.FileInfo)) error {
	info, err := r.fs.Stat(root)
	if err != nil {
		return errors.Errorf("reading %s: %w", root, err)
	}
	if !info.IsDir() {
		return errors.Errorf("%s is not a directory", root)
	}

	return r.walkDir(ctx, root, ".", onDir, onFile)
}

func (r *run) walkDir(ctx context.Context, root, rel string, onDir func(rel string), onFile func(path, rel string, info os.FileInfo)) error {
	logger := zerolog.Ctx(ctx)

	if err := ctx.Err(); err != nil {
		return err
	}

	if onDir != nil {
		onDir(rel)
	}

	dir := filepath.Join(root, rel)
	entries, err := afero.ReadDir(r.fs, dir)
	if err != nil {
		logger.Warn().Err(err).Str("path", dir).Msg("skipping unreadable directory")
		return nil
	}

	var subdirs []os.FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			subdirs = append(subdirs, entry)
			continue
		}
		onFile(filepath.Join(dir, entry.Name()), filepath.Join(rel, entry.Name()), entry)
	}

	for _, sub := range subdirs {
		childRel := filepath.Join(rel, sub.Name())
		if r.policy.SkipDir(sub.Name(), childRel) {
			logger.Debug().Str("dir", childRel).Msg("pruning directory")
			continue
		}
		if err := r.walkDir(ctx, root, childRel, onDir, onFile); err != nil {
			return err
		}
	}

	return nil
}
