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

// Package flags provides the flag types shared by the mojo goals.
package flags // import "mojo.io/mojo/go/platform/tools/mojo/flags"

import (
	"flag"
	"fmt"
	"strings"

	"mojo.io/mojo/go/util/flagutil"
	"mojo.io/mojo/go/util/maven"
)

// DefaultProject is the project descriptor used when --project is unset.
const DefaultProject = "pom.xml"

// Project selects and loads a project descriptor.
type Project struct {
	Path string

	// Properties override the descriptor's build settings by name:
	// project.build.directory, project.build.finalName.
	Properties flagutil.StringMap
}

// Register adds the --project and --define flags to fs.
func (p *Project) Register(fs *flag.FlagSet) {
	fs.StringVar(&p.Path, "project", DefaultProject, "Path to the project descriptor (pom.xml, .yaml, .json or .toml)")
	fs.Var(&p.Properties, "define", "Project property overrides as key=value (repeatable)")
}

// Load reads the selected project descriptor and applies the overrides.
func (p *Project) Load() (*maven.Project, error) {
	proj, err := maven.LoadProject(p.Path)
	if err != nil {
		return nil, err
	}
	for _, key := range p.Properties.Keys() {
		val := proj.Expand(p.Properties[key])
		switch key {
		case "project.build.directory":
			proj.Build.Directory = val
		case "project.build.finalName":
			proj.Build.FinalName = val
		default:
			return nil, fmt.Errorf("unsupported project override %q", key)
		}
	}
	return proj, nil
}

// ArtifactList implements a flag.Value accepting resolved artifacts as
// <coordinate>=<file>, either as a CSV or by repeating the flag.
type ArtifactList []maven.Artifact

// Set implements part of the flag.Value interface.
func (l *ArtifactList) Set(s string) error {
	for _, e := range strings.Split(s, ",") {
		coord, file, ok := strings.Cut(e, "=")
		if !ok || file == "" {
			return fmt.Errorf("invalid artifact %q: want <coordinate>=<file>", e)
		}
		a, err := maven.ParseCoordinate(coord)
		if err != nil {
			return err
		}
		a.File = file
		*l = append(*l, a)
	}
	return nil
}

// String implements part of the flag.Value interface.
func (l *ArtifactList) String() string {
	if l == nil {
		return ""
	}
	var parts []string
	for _, a := range *l {
		parts = append(parts, a.String()+"="+a.File)
	}
	return strings.Join(parts, ",")
}

// Get implements flag.Getter and returns the list of artifacts.
func (l *ArtifactList) Get() any {
	if l == nil {
		return []maven.Artifact(nil)
	}
	return []maven.Artifact(*l)
}
