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
	"github.com/walteh/fwsync/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🧹 cleanTree removes destination files that have no qualifying source counterpart
func (r *run) cleanTree(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	if _, err := r.fs.Stat(r.destination); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug().Msg("destination does not exist, nothing to clean")
			return nil
		}
		return errors.Errorf("checking destination: %w", err)
	}

	onFile := func(path, rel string, _ os.FileInfo) {
		r.cleanFile(ctx, path, rel)
	}

	return r.walkTree(ctx, r.destination, nil, onFile)
}

// 🗑️ cleanFile decides and, outside dry-run, performs the removal of a single file
func (r *run) cleanFile(ctx context.Context, dst, rel string) {
	logger := zerolog.Ctx(ctx).With().Str("file", rel).Logger()

	reason, remove := r.orphanReason(ctx, rel)
	if !remove {
		return
	}

	ev := status.Event{
		Decision:    status.DecisionDelete,
		Reason:      reason,
		Destination: dst,
		DryRun:      r.dryRun,
	}

	if !r.dryRun {
		if err := r.fs.Remove(dst); err != nil {
			logger.Warn().Err(err).Msg("delete failed")
			ev.Err = errors.Errorf("removing %s: %w", dst, err)
		}
	}

	r.record(ctx, ev)
}

// orphanReason reports whether the destination file at rel must go
func (r *run) orphanReason(ctx context.Context, rel string) (status.Reason, bool) {
	src := filepath.Join(r.source, rel)

	if _, err := r.fs.Stat(src); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return status.ReasonOrphaned, true
		}
		zerolog.Ctx(ctx).Warn().Err(err).Str("file", rel).Msg("cannot stat source, keeping destination file")
		return "", false
	}

	if r.onlyCode && !r.policy.IsCode(filepath.Base(rel)) {
		return status.ReasonFiltered, true
	}

	return "", false
}
