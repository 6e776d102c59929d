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

// Package assembly builds distribution archives for a project from an
// assembly descriptor: a list of file sets, single files and dependency sets
// to copy into one or more archive formats.
package assembly // import "mojo.io/mojo/go/platform/assembly"

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// A Descriptor describes the contents and formats of an assembly.
type Descriptor struct {
	ID                   string
	Formats              []string
	IncludeBaseDirectory bool
	BaseDirectory        string // default: the project's final name
	FileSets             []FileSet
	Files                []File
	DependencySets       []DependencySet
}

// A FileSet copies the files below Directory that match Includes and none of
// Excludes. Patterns are slash-separated and may use "**".
type FileSet struct {
	Directory       string
	OutputDirectory string
	Includes        []string
	Excludes        []string
	FileMode        fs.FileMode // 0 keeps the source mode
}

// A File copies a single file, optionally renaming it.
type File struct {
	Source          string
	OutputDirectory string
	DestName        string
	FileMode        fs.FileMode
}

// A DependencySet copies the resolved project dependencies visible in Scope.
// Includes and Excludes are patterns over groupId:artifactId[:type[:version]].
type DependencySet struct {
	OutputDirectory    string
	Scope              string // default runtime
	Includes           []string
	Excludes           []string
	UseProjectArtifact bool
}

// ReadDescriptor reads the assembly descriptor at path.
func ReadDescriptor(path string) (*Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := ParseDescriptor(f)
	if err != nil {
		return nil, fmt.Errorf("reading assembly descriptor %s: %v", path, err)
	}
	return d, nil
}

// ParseDescriptor parses an assembly descriptor in the Maven assembly XML
// format. Unsupported elements are ignored.
func ParseDescriptor(r io.Reader) (*Descriptor, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, err
	}
	root := doc.SelectElement("assembly")
	if root == nil {
		return nil, fmt.Errorf("no top level <assembly> element")
	}

	d := &Descriptor{
		ID:                   text(root, "id"),
		Formats:              list(root, "formats", "format"),
		IncludeBaseDirectory: true,
		BaseDirectory:        text(root, "baseDirectory"),
	}
	var err error
	if d.IncludeBaseDirectory, err = boolean(root, "includeBaseDirectory", true); err != nil {
		return nil, err
	}

	for _, e := range root.FindElements("./fileSets/fileSet") {
		set := FileSet{
			Directory:       text(e, "directory"),
			OutputDirectory: text(e, "outputDirectory"),
			Includes:        list(e, "includes", "include"),
			Excludes:        list(e, "excludes", "exclude"),
		}
		if set.FileMode, err = mode(e, "fileMode"); err != nil {
			return nil, err
		}
		if set.Directory == "" {
			return nil, fmt.Errorf("fileSet without a directory")
		}
		d.FileSets = append(d.FileSets, set)
	}
	for _, e := range root.FindElements("./files/file") {
		f := File{
			Source:          text(e, "source"),
			OutputDirectory: text(e, "outputDirectory"),
			DestName:        text(e, "destName"),
		}
		if f.FileMode, err = mode(e, "fileMode"); err != nil {
			return nil, err
		}
		if f.Source == "" {
			return nil, fmt.Errorf("file without a source")
		}
		d.Files = append(d.Files, f)
	}
	for _, e := range root.FindElements("./dependencySets/dependencySet") {
		ds := DependencySet{
			OutputDirectory: text(e, "outputDirectory"),
			Scope:           text(e, "scope"),
			Includes:        list(e, "includes", "include"),
			Excludes:        list(e, "excludes", "exclude"),
		}
		if ds.UseProjectArtifact, err = boolean(e, "useProjectArtifact", true); err != nil {
			return nil, err
		}
		d.DependencySets = append(d.DependencySets, ds)
	}
	return d, nil
}

func text(e *etree.Element, tag string) string {
	if c := e.SelectElement(tag); c != nil {
		return strings.TrimSpace(c.Text())
	}
	return ""
}

func list(e *etree.Element, outer, inner string) []string {
	var out []string
	for _, c := range e.FindElements("./" + outer + "/" + inner) {
		if s := strings.TrimSpace(c.Text()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func boolean(e *etree.Element, tag string, def bool) (bool, error) {
	s := text(e, tag)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid <%s> value %q", tag, s)
	}
	return v, nil
}

// mode parses an octal file mode such as "0755".
func mode(e *etree.Element, tag string) (fs.FileMode, error) {
	s := text(e, tag)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil || v > 0777 {
		return 0, fmt.Errorf("invalid <%s> value %q", tag, s)
	}
	return fs.FileMode(v), nil
}
