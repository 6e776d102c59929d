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

package karaf

import (
	"errors"
	"fmt"
	"io"
	"os"

	"sigs.k8s.io/yaml"

	"mojo.io/mojo/go/util/log"
	"mojo.io/mojo/go/util/maven"
)

// A Definition describes the features repository to generate for a project.
type Definition struct {
	// Name is the repository name; the default is the project artifactId.
	Name         string    `json:"name,omitempty"`
	Repositories []string  `json:"repositories,omitempty"`
	Features     []Feature `json:"features,omitempty"`

	// Project, if set, adds a feature for the project itself.
	Project *ProjectFeature `json:"project,omitempty"`
}

// A ProjectFeature is a feature whose bundles are the project's runtime jar
// and bundle dependencies.
type ProjectFeature struct {
	Name        string       `json:"name,omitempty"`    // default: project artifactId
	Version     string       `json:"version,omitempty"` // default: project version
	Description string       `json:"description,omitempty"`
	Details     string       `json:"details,omitempty"`
	Features    []Dependency `json:"features,omitempty"`
	StartLevel  int          `json:"startLevel,omitempty"`

	// Excludes lists groupId:artifactId keys of dependencies to leave out.
	Excludes []string `json:"excludes,omitempty"`
}

// LoadDefinition reads a YAML (or JSON) features definition.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var def Definition
	if err := yaml.UnmarshalStrict(data, &def); err != nil {
		return nil, fmt.Errorf("decoding features definition %s: %v", path, err)
	}
	return &def, nil
}

// Build constructs the features repository described by def for p.
func Build(p *maven.Project, def *Definition) (*Features, error) {
	name := def.Name
	if name == "" {
		name = p.ArtifactID
	}
	b := NewFeaturesBuilder(name)
	for _, repo := range def.Repositories {
		b.AddRepository(repo)
	}

	for _, f := range def.Features {
		if f.Name == "" {
			return nil, errors.New("feature without a name")
		}
		fb := b.CreateFeature(f.Name, f.Version).
			SetDescription(f.Description).
			SetDetails(f.Details)
		for _, c := range f.Configs {
			fb.AddConfig(c.Name, c.Value)
		}
		for _, c := range f.ConfigFiles {
			fb.AddConfigFile(c.Location, c.FinalName, c.Override)
		}
		for _, d := range f.Dependencies {
			fb.AddFeature(d.Name, d.Version)
		}
		for _, bundle := range f.Bundles {
			if bundle.Location == "" {
				return nil, fmt.Errorf("feature %q: bundle without a location", f.Name)
			}
			fb.addBundle(bundle)
		}
	}

	if pf := def.Project; pf != nil {
		if err := addProjectFeature(b, p, pf); err != nil {
			return nil, err
		}
	}
	return b.Features(), nil
}

func addProjectFeature(b *FeaturesBuilder, p *maven.Project, pf *ProjectFeature) error {
	name, version := pf.Name, pf.Version
	if name == "" {
		name = p.ArtifactID
	}
	if version == "" {
		version = p.Version
	}
	fb := b.CreateFeature(name, version).
		SetDescription(pf.Description).
		SetDetails(pf.Details)
	for _, d := range pf.Features {
		fb.AddFeature(d.Name, d.Version)
	}

	runtime, err := maven.ScopeFilter(maven.ScopeRuntime)
	if err != nil {
		return err
	}
	excluded := make(map[string]bool)
	for _, key := range pf.Excludes {
		excluded[key] = true
	}
	isBundle := func(a maven.Artifact) bool {
		t := a.EffectiveType()
		return !a.Optional && (t == "jar" || t == "bundle") && !excluded[a.Key()]
	}
	for _, a := range maven.Select(p.Artifacts, runtime, isBundle) {
		log.Debugf("Adding bundle %s to feature %s", a, name)
		if pf.StartLevel != 0 {
			fb.AddBundleWithStartLevel(a.MavenURL(), pf.StartLevel)
		} else {
			fb.AddBundle(a.MavenURL())
		}
	}
	return nil
}

// Generate builds the features repository described by def for p and writes
// it to w as XML.
func Generate(w io.Writer, p *maven.Project, def *Definition) error {
	f, err := Build(p, def)
	if err != nil {
		return err
	}
	return WriteXML(w, f)
}
