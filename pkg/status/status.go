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

package status

import (
	"fmt"
	"time"
)

// 📊 Decision is what a run decided to do with a single file
type Decision int

const (
	DecisionSkip   Decision = iota // Filtered out or already up to date
	DecisionCopy                   // Source file is copied over the destination
	DecisionDelete                 // Destination file has no (qualifying) source counterpart
)

// String returns a string representation of Decision
func (d Decision) String() string {
	switch d {
	case DecisionCopy:
		return "copy"
	case DecisionDelete:
		return "delete"
	default:
		return "skip"
	}
}

// 🏷️ Reason explains a decision
type Reason string

const (
	ReasonExcludedName Reason = "excluded file name"
	ReasonNotCode      Reason = "not a code file"
	ReasonIgnored      Reason = "ignored by rule"
	ReasonUpToDate     Reason = "up to date"
	ReasonMissing      Reason = "destination missing"
	ReasonStale        Reason = "size or mtime differs"
	ReasonOrphaned     Reason = "missing from source"
	ReasonFiltered     Reason = "source excluded by code-only filter"
)

// 📄 Event is one Copy or Delete action decided during a run
type Event struct {
	Decision    Decision
	Reason      Reason
	Source      string // Absolute source path, empty for deletes
	Destination string // Absolute destination path
	DryRun      bool   // Nothing was touched on disk
	Err         error  // Set when the action was attempted and failed
}

// Failed reports whether the action was attempted and did not succeed
func (e Event) Failed() bool {
	return e.Err != nil
}

// 📈 Result accumulates the outcome of a single run
type Result struct {
	Copied  int
	Skipped int
	Removed int
	Failed  int

	// Actions is the ordered log of Copy and Delete events
	Actions []Event

	Elapsed time.Duration
}

// Record folds an event into the counters
func (r *Result) Record(ev Event) {
	if ev.Decision != DecisionSkip {
		r.Actions = append(r.Actions, ev)
	}

	switch {
	case ev.Decision == DecisionSkip:
		r.Skipped++
	case ev.Failed():
		r.Failed++
	case ev.Decision == DecisionCopy:
		r.Copied++
	case ev.Decision == DecisionDelete:
		r.Removed++
	}
}

// Copies returns the copy events in the order they were decided
func (r *Result) Copies() []Event {
	return r.filter(DecisionCopy)
}

// Deletes returns the delete events in the order they were decided
func (r *Result) Deletes() []Event {
	return r.filter(DecisionDelete)
}

func (r *Result) filter(d Decision) []Event {
	var out []Event
	for _, ev := range r.Actions {
		if ev.Decision == d {
			out = append(out, ev)
		}
	}
	return out
}

// 📝 String returns the summary line printed at the end of a run
func (r *Result) String() string {
	return fmt.Sprintf("Done. Copied: %d, Skipped: %d, Removed: %d", r.Copied, r.Skipped, r.Removed)
}
