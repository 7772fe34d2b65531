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

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/fwsync/pkg/status"
)

// 🎯 Logger writes the console contract of a run and mirrors it into structured logs
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	errs      io.Writer
	formatter status.FileFormatter
	mu        sync.Mutex
}

// 🏭 New creates a new logger. Console lines go to console; warnings, errors and
// structured logs go to errs.
func New(console, errs io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: errs, NoColor: color.NoColor}).
		With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:      zlog,
		console:   console,
		errs:      errs,
		formatter: status.NewDefaultFileFormatter(),
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// WithContext stores both the logger and its zerolog.Logger in ctx
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return NewContext(l.zlog.WithContext(ctx), l)
}

// Zerolog returns the structured logger
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zlog
}

// 📝 Banner prints the resolved inputs of a run
func (l *Logger) Banner(ctx context.Context, b status.Banner) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatter.FormatBanner(b))

	l.zlog.Info().
		Str("source", b.Source).
		Str("destination", b.Destination).
		Bool("dry_run", b.DryRun).
		Bool("delete", b.Delete).
		Bool("only_code", b.OnlyCode).
		Msg("syncing")
}

// 📝 Report prints a COPY or DEL line for an event; skips are only logged
func (l *Logger) Report(ctx context.Context, ev status.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if line := l.formatter.FormatEvent(ev); line != "" {
		fmt.Fprintln(l.console, line)
	}

	entry := l.zlog.Info()
	if ev.Decision == status.DecisionSkip {
		entry = l.zlog.Debug()
	}
	entry.
		Str("decision", ev.Decision.String()).
		Str("reason", string(ev.Reason)).
		Str("source", ev.Source).
		Str("destination", ev.Destination).
		Bool("dry_run", ev.DryRun).
		Msg("file decision")

	if ev.Failed() {
		l.warning(fmt.Sprintf("%s failed for %s: %v", ev.Decision, ev.Destination, ev.Err))
	}
}

// 📝 Summary prints the final counter line
func (l *Logger) Summary(ctx context.Context, r *status.Result) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatter.FormatSummary(r))

	l.zlog.Info().
		Int("copied", r.Copied).
		Int("skipped", r.Skipped).
		Int("removed", r.Removed).
		Int("failed", r.Failed).
		Dur("elapsed", r.Elapsed).
		Msg("done")

	if r.Failed > 0 {
		l.warning(fmt.Sprintf("%d file operation(s) failed", r.Failed))
	}
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warning(msg)
}

func (l *Logger) warning(msg string) {
	pterm.Warning.WithWriter(l.errs).Println(msg)
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	pterm.Error.WithWriter(l.errs).Println(msg)
	l.zlog.Error().Msg(msg)
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}
