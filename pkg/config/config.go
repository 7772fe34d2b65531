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

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/fwsync/pkg/filter"
	"gitlab.com/tozd/go/errors"
)

// DefaultDestination is the Unity project folder the framework is mirrored into
const DefaultDestination = `D:\ZippsterStudios\Games\Templates\MMO Game Templates\Assets\Scripts\Framework`

// DefaultFile is the config file read when no other is named
const DefaultFile = ".fwsync.yaml"

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

func hasExt(filename string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// 📚 Config represents the complete configuration of a run.
// A nil list means "not set"; a present list replaces the default one.
type Config struct {
	Source      string `json:"src,omitempty" yaml:"src,omitempty" hcl:"src,optional"`
	Destination string `json:"dest,omitempty" yaml:"dest,omitempty" hcl:"dest,optional"`
	DryRun      bool   `json:"dry_run,omitempty" yaml:"dry_run,omitempty" hcl:"dry_run,optional"`
	Delete      bool   `json:"delete,omitempty" yaml:"delete,omitempty" hcl:"delete,optional"`
	OnlyCode    bool   `json:"only_code,omitempty" yaml:"only_code,omitempty" hcl:"only_code,optional"`

	ExcludeDirs    []string `json:"exclude_dirs,omitempty" yaml:"exclude_dirs,omitempty" hcl:"exclude_dirs,optional"`
	ExcludeFiles   []string `json:"exclude_files,omitempty" yaml:"exclude_files,omitempty" hcl:"exclude_files,optional"`
	CodeExtensions []string `json:"code_extensions,omitempty" yaml:"code_extensions,omitempty" hcl:"code_extensions,optional"`
	ExcludeGlobs   []string `json:"exclude_globs,omitempty" yaml:"exclude_globs,omitempty" hcl:"exclude_globs,optional"`
	IgnoreFile     string   `json:"ignore_file,omitempty" yaml:"ignore_file,omitempty" hcl:"ignore_file,optional"`
}

// 🏭 Default returns the built-in configuration for a tool installed in toolDir
func Default(toolDir string) *Config {
	rules := filter.DefaultRules()
	return &Config{
		Source:         filepath.Join(toolDir, "..", "Framework"),
		Destination:    DefaultDestination,
		ExcludeDirs:    rules.ExcludeDirs,
		ExcludeFiles:   rules.ExcludeFiles,
		CodeExtensions: rules.CodeExtensions,
		ExcludeGlobs:   rules.ExcludeGlobs,
		IgnoreFile:     filter.DefaultIgnoreFile,
	}
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, fs afero.Fs, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// 🔀 Merge overlays every field set in other onto cfg
func (cfg *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Source != "" {
		cfg.Source = other.Source
	}
	if other.Destination != "" {
		cfg.Destination = other.Destination
	}
	cfg.DryRun = cfg.DryRun || other.DryRun
	cfg.Delete = cfg.Delete || other.Delete
	cfg.OnlyCode = cfg.OnlyCode || other.OnlyCode
	if other.ExcludeDirs != nil {
		cfg.ExcludeDirs = other.ExcludeDirs
	}
	if other.ExcludeFiles != nil {
		cfg.ExcludeFiles = other.ExcludeFiles
	}
	if other.CodeExtensions != nil {
		cfg.CodeExtensions = other.CodeExtensions
	}
	if other.ExcludeGlobs != nil {
		cfg.ExcludeGlobs = other.ExcludeGlobs
	}
	if other.IgnoreFile != "" {
		cfg.IgnoreFile = other.IgnoreFile
	}
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if cfg.Source == "" {
		return errors.Errorf("src is required")
	}
	if cfg.Destination == "" {
		return errors.Errorf("dest is required")
	}
	if strings.ContainsAny(cfg.IgnoreFile, `/\`) {
		return errors.Errorf("ignore_file must be a file name, got %q", cfg.IgnoreFile)
	}
	if _, err := cfg.Policy(); err != nil {
		return err
	}
	return nil
}

// 📍 Resolve validates the config and turns src and dest into absolute paths, expanding ~
func (cfg *Config) Resolve() error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	src, err := resolvePath(cfg.Source)
	if err != nil {
		return errors.Errorf("resolving src: %w", err)
	}
	dest, err := resolvePath(cfg.Destination)
	if err != nil {
		return errors.Errorf("resolving dest: %w", err)
	}

	cfg.Source = src
	cfg.Destination = dest
	return nil
}

func resolvePath(p string) (string, error) {
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", errors.Errorf("expanding %s: %w", p, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Errorf("making %s absolute: %w", expanded, err)
	}
	return abs, nil
}

// 🎯 Policy compiles the filter rules of the config
func (cfg *Config) Policy() (*filter.Policy, error) {
	p, err := filter.New(filter.Rules{
		ExcludeDirs:    cfg.ExcludeDirs,
		ExcludeFiles:   cfg.ExcludeFiles,
		CodeExtensions: cfg.CodeExtensions,
		ExcludeGlobs:   cfg.ExcludeGlobs,
	})
	if err != nil {
		return nil, errors.Errorf("building filter policy: %w", err)
	}
	return p, nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s -> %s", cfg.Source, cfg.Destination)
}
