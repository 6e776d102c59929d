/*
 * Copyright 2023 The Mojo Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package assembly

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"mojo.io/mojo/go/util/archive"
	"mojo.io/mojo/go/util/log"
	"mojo.io/mojo/go/util/maven"
)

// Files matching these patterns are never copied by a file set.
var defaultExcludes = []string{
	"**/.git/**", "**/.svn/**", "**/CVS/**", "**/.DS_Store", "**/*~",
}

// An Assembler builds the archives described by a Descriptor for a project.
type Assembler struct {
	Project *maven.Project

	// OutputDir receives the archives; the default is the project build
	// directory.
	OutputDir string

	// Formats, if set, replaces the formats listed in the descriptor.
	Formats []string

	// AppendAssemblyID adds "-<id>" to archive names.
	AppendAssemblyID bool
}

// ArchivePath returns the path of the archive built for d in format.
func (a *Assembler) ArchivePath(d *Descriptor, format string) string {
	dir := a.OutputDir
	if dir == "" {
		dir = a.Project.Build.Directory
	}
	name := a.Project.Build.FinalName
	if a.AppendAssemblyID && d.ID != "" {
		name += "-" + d.ID
	}
	return filepath.Join(dir, name+"."+format)
}

// Assemble builds one archive per format and returns their paths in format
// order. The project's own artifact is never included as a dependency.
func (a *Assembler) Assemble(ctx context.Context, d *Descriptor) ([]string, error) {
	formats := a.Formats
	if len(formats) == 0 {
		formats = d.Formats
	}
	if len(formats) == 0 {
		return nil, fmt.Errorf("assembly %q: no formats specified", d.ID)
	}
	if err := validatePatterns(d); err != nil {
		return nil, fmt.Errorf("assembly %q: %v", d.ID, err)
	}

	var paths []string
	for _, format := range formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dest := a.ArchivePath(d, format)
		log.Infof("Building %s: %s", format, dest)
		if err := a.build(ctx, d, dest); err != nil {
			return nil, fmt.Errorf("building %s: %w", dest, err)
		}
		paths = append(paths, dest)
	}
	return paths, nil
}

func (a *Assembler) build(ctx context.Context, d *Descriptor, dest string) (err error) {
	w, err := archive.NewWriter(dest)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			w.Abort()
		}
	}()

	p := a.Project
	base := ""
	if d.IncludeBaseDirectory {
		base = p.Expand(d.BaseDirectory)
		if base == "" {
			base = p.Build.FinalName
		}
	}

	for _, set := range d.FileSets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.addFileSet(w, base, set); err != nil {
			return err
		}
	}
	for _, f := range d.Files {
		src := a.resolve(f.Source)
		name := f.DestName
		if name == "" {
			name = filepath.Base(src)
		}
		name = entryName(base, p.Expand(f.OutputDirectory), p.Expand(name))
		if err := addFile(w, name, src, f.FileMode); err != nil {
			return err
		}
	}
	for _, set := range d.DependencySets {
		if err := a.addDependencySet(w, base, set); err != nil {
			return err
		}
	}
	return w.Close()
}

func (a *Assembler) addFileSet(w *archive.Writer, base string, set FileSet) error {
	dir := a.resolve(set.Directory)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		log.Warningf("Skipping missing fileSet directory %s", dir)
		return nil
	}
	includes := set.Includes
	if len(includes) == 0 {
		includes = []string{"**"}
	}
	excludes := append(append([]string(nil), set.Excludes...), defaultExcludes...)
	outDir := a.Project.Expand(set.OutputDirectory)

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !matchAny(includes, rel) || matchAny(excludes, rel) {
			return nil
		}
		return addFile(w, entryName(base, outDir, rel), path, set.FileMode)
	})
}

func (a *Assembler) addDependencySet(w *archive.Writer, base string, set DependencySet) error {
	scope := set.Scope
	if scope == "" {
		scope = maven.ScopeRuntime
	}
	inScope, err := maven.ScopeFilter(scope)
	if err != nil {
		return err
	}
	self := a.Project.Artifact().Key()
	if set.UseProjectArtifact {
		log.Debugf("Not including the project artifact %s in its own assembly", self)
	}
	notSelf := func(art maven.Artifact) bool { return art.Key() != self }
	selected := func(art maven.Artifact) bool {
		names := coordinates(art)
		return (len(set.Includes) == 0 || matchAnyOf(set.Includes, names)) && !matchAnyOf(set.Excludes, names)
	}

	outDir := a.Project.Expand(set.OutputDirectory)
	deps := maven.Select(a.Project.Artifacts, inScope, notSelf, selected)
	if err := maven.Unresolved("dependencies", deps); err != nil {
		return err
	}
	for _, art := range deps {
		if err := addFile(w, entryName(base, outDir, outputFileName(art)), art.File, 0); err != nil {
			return err
		}
	}
	return nil
}

// addFile adds src under name, first adding entries for its parent
// directories.
func addFile(w *archive.Writer, name, src string, mode fs.FileMode) error {
	fi, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := addParents(w, name, fi.ModTime()); err != nil {
		return err
	}
	return w.AddFile(name, src, mode)
}

func addParents(w *archive.Writer, name string, modTime time.Time) error {
	var parents []string
	for dir := path.Dir(name); dir != "." && dir != "/"; dir = path.Dir(dir) {
		parents = append(parents, dir)
	}
	for i := len(parents) - 1; i >= 0; i-- {
		if w.Contains(parents[i]) {
			continue
		}
		if err := w.AddDir(parents[i], modTime); err != nil {
			return err
		}
	}
	return nil
}

func (a *Assembler) resolve(p string) string {
	p = filepath.FromSlash(a.Project.Expand(p))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.Project.BaseDir, p)
}

// entryName joins archive path elements, dropping empty ones.
func entryName(elems ...string) string {
	var parts []string
	for _, e := range elems {
		if e = strings.Trim(filepath.ToSlash(e), "/"); e != "" && e != "." {
			parts = append(parts, e)
		}
	}
	return path.Clean(strings.Join(parts, "/"))
}

// outputFileName is Maven's default dependency file name mapping.
func outputFileName(a maven.Artifact) string {
	name := a.ArtifactID
	if a.Version != "" {
		name += "-" + a.Version
	}
	if a.Classifier != "" {
		name += "-" + a.Classifier
	}
	ext := a.EffectiveType()
	if ext == "bundle" {
		ext = "jar"
	}
	return name + "." + ext
}

// coordinates returns the forms of a that dependency set patterns are
// matched against.
func coordinates(a maven.Artifact) []string {
	key := a.Key()
	typed := key + ":" + a.EffectiveType()
	names := []string{key, typed, typed + ":" + a.Version}
	if a.Classifier != "" {
		names = append(names, typed+":"+a.Classifier+":"+a.Version)
	}
	return names
}

func matchAny(patterns []string, name string) bool {
	return matchAnyOf(patterns, []string{name})
}

func matchAnyOf(patterns, names []string) bool {
	for _, p := range patterns {
		if strings.HasSuffix(p, "/") {
			p += "**"
		}
		for _, name := range names {
			if ok, _ := doublestar.Match(p, name); ok {
				return true
			}
		}
	}
	return false
}

func validatePatterns(d *Descriptor) error {
	var all []string
	for _, set := range d.FileSets {
		all = append(append(all, set.Includes...), set.Excludes...)
	}
	for _, set := range d.DependencySets {
		all = append(append(all, set.Includes...), set.Excludes...)
	}
	for _, p := range all {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid pattern %q", p)
		}
	}
	return nil
}
