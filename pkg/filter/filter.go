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

// Package filter decides which directories are pruned and which files
// qualify for copying. The same Policy is consulted by the copy pass and
// the delete pass.
package filter

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
	"github.com/spf13/afero"
	"github.com/walteh/fwsync/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// DefaultIgnoreFile is looked up in the source root when no other name is configured
const DefaultIgnoreFile = ".fwsyncignore"

// 🗂️ Rules is the raw, user-facing form of a Policy
type Rules struct {
	ExcludeDirs    []string // Directory names pruned anywhere in the tree
	ExcludeFiles   []string // File names skipped anywhere in the tree
	CodeExtensions []string // Allow-list used in code-only mode
	ExcludeGlobs   []string // doublestar patterns on the slash-separated relative path
}

// DefaultRules returns the built-in rules for a Unity framework tree
func DefaultRules() Rules {
	return Rules{
		ExcludeDirs:    []string{".git", "Library", "Temp", ".idea", ".vscode", "obj", "bin", ".vs", "UnityStubs", "Stubs"},
		ExcludeFiles:   []string{"Thumbs.db", ".DS_Store"},
		CodeExtensions: []string{".cs", ".json", ".bytes", ".xml", ".shader", ".cginc", ".compute", ".asmdef", ".asset", ".mat"},
	}
}

// 🎯 Policy is a compiled set of Rules
type Policy struct {
	dirs   map[string]struct{}
	files  map[string]struct{}
	exts   map[string]struct{}
	globs  []string
	ignore *ignore.GitIgnore
}

// 🏭 New compiles rules into a Policy
func New(r Rules) (*Policy, error) {
	p := &Policy{
		dirs:  toSet(r.ExcludeDirs),
		files: toSet(r.ExcludeFiles),
		exts:  make(map[string]struct{}, len(r.CodeExtensions)),
	}

	for _, ext := range r.CodeExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		p.exts[ext] = struct{}{}
	}

	for _, g := range r.ExcludeGlobs {
		if !doublestar.ValidatePattern(g) {
			return nil, errors.Errorf("invalid exclude glob %q", g)
		}
		p.globs = append(p.globs, g)
	}

	return p, nil
}

// Default returns a Policy built from DefaultRules
func Default() *Policy {
	p, err := New(DefaultRules())
	if err != nil {
		panic(err)
	}
	return p
}

// Clone returns a copy whose ignore rules can be replaced without touching p
func (p *Policy) Clone() *Policy {
	cp := *p
	cp.globs = append([]string(nil), p.globs...)
	return &cp
}

// SetIgnoreLines replaces the gitignore-style rules of the policy
func (p *Policy) SetIgnoreLines(lines ...string) {
	p.ignore = ignore.CompileIgnoreLines(lines...)
}

// 📥 LoadIgnoreFile reads gitignore-style rules from path. A missing file is not an error.
func (p *Policy) LoadIgnoreFile(fs afero.Fs, path string) (bool, error) {
	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errors.Errorf("reading ignore file %s: %w", path, err)
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	p.SetIgnoreLines(strings.Split(content, "\n")...)
	return true, nil
}

// 🌲 SkipDir reports whether a directory must be pruned before descending.
// name is the directory's own name, rel its path relative to the tree root.
func (p *Policy) SkipDir(name, rel string) bool {
	if _, ok := p.dirs[name]; ok {
		return true
	}
	return p.matchesRule(rel, true)
}

// 🔍 Check reports whether a file qualifies for copying and, if not, why
func (p *Policy) Check(rel string, onlyCode bool) (bool, status.Reason) {
	name := path.Base(filepath.ToSlash(rel))

	if _, ok := p.files[name]; ok {
		return false, status.ReasonExcludedName
	}
	if onlyCode && !p.IsCode(name) {
		return false, status.ReasonNotCode
	}
	if p.matchesRule(rel, false) {
		return false, status.ReasonIgnored
	}
	return true, ""
}

// IsCode reports whether the file name carries an allow-listed extension
func (p *Policy) IsCode(name string) bool {
	ext := Extension(name)
	if ext == "" {
		return false
	}
	_, ok := p.exts[ext]
	return ok
}

func (p *Policy) matchesRule(rel string, isDir bool) bool {
	slashed := filepath.ToSlash(rel)

	for _, g := range p.globs {
		// patterns were validated in New
		if ok, _ := doublestar.Match(g, slashed); ok {
			return true
		}
	}

	if p.ignore != nil {
		if isDir {
			slashed += "/"
		}
		if p.ignore.MatchesPath(slashed) {
			return true
		}
	}

	return false
}

// Extension returns the lower-cased final suffix of name, including the dot.
// A leading dot does not start an extension, so ".gitignore" has none.
func Extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i:])
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
