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
	"context"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/walteh/fwsync/pkg/config"
	"github.com/walteh/fwsync/pkg/log"
	"github.com/walteh/fwsync/pkg/operation"
	"github.com/walteh/fwsync/pkg/status"
	"gitlab.com/tozd/go/errors"
)

const (
	exitOK            = 0
	exitFailure       = 1
	exitMissingSource = 2
)

// exitCodeError carries the process exit code for an already reported error
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }
func (e *exitCodeError) Unwrap() error { return e.err }

// run executes the root command and maps its outcome to an exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer, fs afero.Fs, toolDir string) int {
	cmd := newRootCmd(stdout, stderr, fs, toolDir)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var ec *exitCodeError
	if errors.As(err, &ec) {
		return ec.code
	}

	pterm.Error.WithWriter(stderr).Println(err.Error())
	return exitFailure
}

// newRootCmd builds the fwsync command. Flags win over FWSYNC_* environment
// variables, which win over the config file, which wins over the defaults.
func newRootCmd(stdout, stderr io.Writer, fs afero.Fs, toolDir string) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "fwsync",
		Short: "Mirror the Framework folder into a Unity project",
		Long: `fwsync copies new and changed files from a source tree into a destination
tree. Files are compared by size and modification time. With --delete, files
missing from the source are removed from the destination.`,
		Version:       GetVersionInfo().Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd.Context(), v, stdout, stderr, fs, toolDir)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate(FormatVersion())

	addRootFlags(cmd)

	v.SetEnvPrefix("FWSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		panic(err)
	}

	return cmd
}

// addRootFlags adds the flags of the root command
func addRootFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("src", "", "source folder (default <tool-dir>/../Framework)")
	flags.String("dest", "", "destination folder (default "+config.DefaultDestination+")")
	flags.Bool("dry-run", false, "print actions without copying or deleting")
	flags.Bool("delete", false, "delete files at dest not present in src")
	flags.Bool("only-code", false, "copy only code and data files (e.g. .cs, .json)")
	flags.StringP("config", "c", config.DefaultFile, "config file path (.yaml, .yml, .hcl, .json)")
	flags.BoolP("debug", "d", false, "enable debug logging")
}

func runSync(ctx context.Context, v *viper.Viper, stdout, stderr io.Writer, fs afero.Fs, toolDir string) error {
	level := zerolog.WarnLevel
	if v.GetBool("debug") {
		level = zerolog.DebugLevel
	}
	logger := log.New(stdout, stderr, level)
	ctx = logger.WithContext(ctx)

	cfg, err := resolveConfig(ctx, v, fs, toolDir)
	if err != nil {
		logger.Error(err.Error())
		return &exitCodeError{code: exitFailure, err: err}
	}

	logger.Banner(ctx, status.Banner{
		Source:      cfg.Source,
		Destination: cfg.Destination,
		DryRun:      cfg.DryRun,
		Delete:      cfg.Delete,
		OnlyCode:    cfg.OnlyCode,
	})

	if err := operation.CheckSource(fs, cfg.Source); err != nil {
		logger.Errorf("Source does not exist or is not a directory: %s", cfg.Source)
		return &exitCodeError{code: exitMissingSource, err: err}
	}

	policy, err := cfg.Policy()
	if err != nil {
		logger.Error(err.Error())
		return &exitCodeError{code: exitFailure, err: err}
	}

	if !cfg.DryRun {
		if err := fs.MkdirAll(cfg.Destination, 0o755); err != nil {
			err = errors.Errorf("creating destination: %w", err)
			logger.Error(err.Error())
			return &exitCodeError{code: exitFailure, err: err}
		}
	}

	mirror, err := operation.New(operation.Options{
		Fs:          fs,
		Source:      cfg.Source,
		Destination: cfg.Destination,
		Policy:      policy,
		IgnoreFile:  cfg.IgnoreFile,
		DryRun:      cfg.DryRun,
		Delete:      cfg.Delete,
		OnlyCode:    cfg.OnlyCode,
		Reporter:    logger,
	})
	if err != nil {
		logger.Error(err.Error())
		return &exitCodeError{code: exitFailure, err: err}
	}

	res, err := mirror.Run(ctx)
	if err != nil {
		logger.Error(err.Error())
		if errors.Is(err, operation.ErrMissingSource) {
			return &exitCodeError{code: exitMissingSource, err: err}
		}
		return &exitCodeError{code: exitFailure, err: err}
	}

	logger.Summary(ctx, res)
	return nil
}

// 🔧 resolveConfig layers defaults, the config file, the environment and flags
func resolveConfig(ctx context.Context, v *viper.Viper, fs afero.Fs, toolDir string) (*config.Config, error) {
	cfg := config.Default(toolDir)

	path := v.GetString("config")
	explicit := v.IsSet("config")

	if _, err := fs.Stat(path); err == nil || explicit {
		file, err := config.Load(ctx, fs, path)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		cfg.Merge(file)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Errorf("checking config file %s: %w", path, err)
	}

	if v.IsSet("src") {
		cfg.Source = v.GetString("src")
	}
	if v.IsSet("dest") {
		cfg.Destination = v.GetString("dest")
	}
	if v.IsSet("dry-run") {
		cfg.DryRun = v.GetBool("dry-run")
	}
	if v.IsSet("delete") {
		cfg.Delete = v.GetBool("delete")
	}
	if v.IsSet("only-code") {
		cfg.OnlyCode = v.GetBool("only-code")
	}

	if err := cfg.Resolve(); err != nil {
		return nil, errors.Errorf("invalid configuration: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("config", cfg.String()).Msg("configuration resolved")
	return cfg, nil
}
