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

package maven

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"sigs.k8s.io/yaml"
)

// Build describes the build layout of a project. Relative paths are resolved
// against the project base directory by LoadProject.
type Build struct {
	Directory           string `json:"directory,omitempty" toml:"directory,omitempty"`
	OutputDirectory     string `json:"outputDirectory,omitempty" toml:"outputDirectory,omitempty"`
	SourceDirectory     string `json:"sourceDirectory,omitempty" toml:"sourceDirectory,omitempty"`
	TestSourceDirectory string `json:"testSourceDirectory,omitempty" toml:"testSourceDirectory,omitempty"`
	TestOutputDirectory string `json:"testOutputDirectory,omitempty" toml:"testOutputDirectory,omitempty"`
	FinalName           string `json:"finalName,omitempty" toml:"finalName,omitempty"`
}

// A Project is the build-time view of the project a goal runs against: its
// own coordinates, its build layout and its resolved dependencies.
type Project struct {
	GroupID    string `json:"groupId" toml:"groupId"`
	ArtifactID string `json:"artifactId" toml:"artifactId"`
	Version    string `json:"version" toml:"version"`
	Packaging  string `json:"packaging,omitempty" toml:"packaging,omitempty"`

	// BaseDir is the project root; it defaults to the directory containing
	// the project descriptor.
	BaseDir string `json:"basedir,omitempty" toml:"basedir,omitempty"`

	Build Build `json:"build,omitempty" toml:"build,omitempty"`

	// Artifacts are the resolved (transitive) project dependencies.
	Artifacts []Artifact `json:"artifacts,omitempty" toml:"artifacts,omitempty"`

	// PluginArtifacts are the resolved dependencies of the running plugin.
	PluginArtifacts []Artifact `json:"pluginArtifacts,omitempty" toml:"pluginArtifacts,omitempty"`
}

// Artifact returns the project's own artifact.
func (p *Project) Artifact() Artifact {
	return Artifact{
		GroupID:    p.GroupID,
		ArtifactID: p.ArtifactID,
		Version:    p.Version,
		Type:       p.Packaging,
	}
}

// Properties returns the project properties available to ${...} references
// in build configuration.
func (p *Project) Properties() map[string]string {
	return map[string]string{
		"basedir":                       p.BaseDir,
		"project.basedir":               p.BaseDir,
		"project.groupId":               p.GroupID,
		"project.artifactId":            p.ArtifactID,
		"project.version":               p.Version,
		"project.packaging":             p.Packaging,
		"project.build.directory":       p.Build.Directory,
		"project.build.finalName":       p.Build.FinalName,
		"project.build.outputDirectory": p.Build.OutputDirectory,
	}
}

// Expand replaces ${...} references to project properties in s.
func (p *Project) Expand(s string) string { return Interpolate(s, p.Properties()) }

// LoadProject reads a project descriptor. The format is chosen by extension:
// ".toml" is decoded as TOML, ".xml" is read as a Maven POM, anything else
// is decoded as YAML (which includes JSON). Defaults are applied to the result.
func LoadProject(path string) (*Project, error) {
	var p *Project
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		pom, err := ReadPOM(path)
		if err != nil {
			return nil, err
		}
		p = pom
	case ".toml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading project %q: %v", path, err)
		}
		p = new(Project)
		if err := toml.Unmarshal(data, p); err != nil {
			return nil, fmt.Errorf("decoding project %q: %v", path, err)
		}
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading project %q: %v", path, err)
		}
		p = new(Project)
		if err := yaml.UnmarshalStrict(data, p); err != nil {
			return nil, fmt.Errorf("decoding project %q: %v", path, err)
		}
	}
	if p.BaseDir == "" {
		p.BaseDir = filepath.Dir(path)
	}
	if err := p.applyDefaults(); err != nil {
		return nil, fmt.Errorf("project %q: %v", path, err)
	}
	return p, nil
}

// applyDefaults fills unset build paths with Maven's conventional layout and
// makes every path absolute relative to BaseDir.
func (p *Project) applyDefaults() error {
	if p.ArtifactID == "" {
		return errors.New("missing artifactId")
	}
	if p.Packaging == "" {
		p.Packaging = "jar"
	}
	base, err := filepath.Abs(p.BaseDir)
	if err != nil {
		return err
	}
	p.BaseDir = base

	b := &p.Build
	b.Directory = p.resolve(b.Directory, "target")
	b.OutputDirectory = p.resolve(b.OutputDirectory, filepath.Join(b.Directory, "classes"))
	b.TestOutputDirectory = p.resolve(b.TestOutputDirectory, filepath.Join(b.Directory, "test-classes"))
	b.SourceDirectory = p.resolve(b.SourceDirectory, filepath.Join("src", "main", "java"))
	b.TestSourceDirectory = p.resolve(b.TestSourceDirectory, filepath.Join("src", "test", "java"))
	if b.FinalName == "" {
		b.FinalName = p.ArtifactID
		if p.Version != "" {
			b.FinalName += "-" + p.Version
		}
	}

	for i := range p.Artifacts {
		if f := p.Artifacts[i].File; f != "" {
			p.Artifacts[i].File = p.resolve(f, "")
		}
	}
	for i := range p.PluginArtifacts {
		if f := p.PluginArtifacts[i].File; f != "" {
			p.PluginArtifacts[i].File = p.resolve(f, "")
		}
	}
	return nil
}

func (p *Project) resolve(path, def string) string {
	if path == "" {
		path = def
	}
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.BaseDir, path)
}
