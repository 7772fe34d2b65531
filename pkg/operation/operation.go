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

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/walteh/fwsync/pkg/filter"
	"github.com/walteh/fwsync/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// ErrMissingSource is returned when the source root does not exist or is not a directory
var ErrMissingSource = errors.Base("source directory missing")

// 📣 Reporter receives every decision as it is made
type Reporter interface {
	Report(ctx context.Context, ev status.Event)
}

// ReporterFunc adapts a function to the Reporter interface
type ReporterFunc func(ctx context.Context, ev status.Event)

// Report calls f(ctx, ev)
func (f ReporterFunc) Report(ctx context.Context, ev status.Event) {
	f(ctx, ev)
}

type nopReporter struct{}

func (nopReporter) Report(context.Context, status.Event) {}

// 🔧 Options contains configuration for a mirror run
type Options struct {
	// Fs is the filesystem both trees live on
	Fs afero.Fs
	// Source is the root copied from
	Source string
	// Destination is the root copied into
	Destination string
	// Policy decides pruning and file eligibility
	Policy *filter.Policy
	// IgnoreFile is a gitignore-style file name looked up in the source root, empty to disable
	IgnoreFile string

	DryRun   bool
	Delete   bool
	OnlyCode bool

	// Reporter is optional
	Reporter Reporter
	// Clock is optional, defaults to the real clock
	Clock clockwork.Clock
}

// 🪞 Mirror copies one tree into another
type Mirror struct {
	fs          afero.Fs
	source      string
	destination string
	policy      *filter.Policy
	ignoreFile  string
	dryRun      bool
	delete      bool
	onlyCode    bool
	reporter    Reporter
	clock       clockwork.Clock
}

// 🏭 New creates a new mirror with the given options
func New(opts Options) (*Mirror, error) {
	if opts.Fs == nil {
		return nil, errors.Errorf("filesystem is required")
	}
	if opts.Source == "" {
		return nil, errors.Errorf("source is required")
	}
	if opts.Destination == "" {
		return nil, errors.Errorf("destination is required")
	}
	if opts.Policy == nil {
		return nil, errors.Errorf("policy is required")
	}

	m := &Mirror{
		fs:          opts.Fs,
		source:      opts.Source,
		destination: opts.Destination,
		policy:      opts.Policy,
		ignoreFile:  opts.IgnoreFile,
		dryRun:      opts.DryRun,
		delete:      opts.Delete,
		onlyCode:    opts.OnlyCode,
		reporter:    opts.Reporter,
		clock:       opts.Clock,
	}
	if m.reporter == nil {
		m.reporter = nopReporter{}
	}
	if m.clock == nil {
		m.clock = clockwork.NewRealClock()
	}

	return m, nil
}

// ✅ CheckSource returns ErrMissingSource unless path is an existing directory
func CheckSource(fs afero.Fs, path string) error {
	info, err := fs.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return errors.Errorf("%w: %s does not exist", ErrMissingSource, path)
		}
		return errors.Errorf("%w: %s: %v", ErrMissingSource, path, err)
	}
	if !info.IsDir() {
		return errors.Errorf("%w: %s is not a directory", ErrMissingSource, path)
	}
	return nil
}
