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

// Package maven models the parts of a Maven project that the mojo goals
// consume: artifact coordinates, dependency scopes and the project build
// layout.
package maven // import "mojo.io/mojo/go/util/maven"

import (
	"fmt"
	"strings"
)

// Dependency scopes.
const (
	ScopeCompile  = "compile"
	ScopeProvided = "provided"
	ScopeRuntime  = "runtime"
	ScopeTest     = "test"
	ScopeSystem   = "system"
)

// An Artifact is a resolved project or plugin dependency.
type Artifact struct {
	GroupID    string `json:"groupId" toml:"groupId"`
	ArtifactID string `json:"artifactId" toml:"artifactId"`
	Version    string `json:"version,omitempty" toml:"version,omitempty"`
	Type       string `json:"type,omitempty" toml:"type,omitempty"`
	Classifier string `json:"classifier,omitempty" toml:"classifier,omitempty"`
	Scope      string `json:"scope,omitempty" toml:"scope,omitempty"`
	Optional   bool   `json:"optional,omitempty" toml:"optional,omitempty"`

	// File is the local path of the resolved artifact, if any.
	File string `json:"file,omitempty" toml:"file,omitempty"`
}

// Key returns the "groupId:artifactId" identifier of a.
func (a Artifact) Key() string { return a.GroupID + ":" + a.ArtifactID }

// EffectiveType returns the packaging type of a, defaulting to "jar".
func (a Artifact) EffectiveType() string {
	if a.Type == "" {
		return "jar"
	}
	return a.Type
}

// EffectiveScope returns the scope of a, defaulting to "compile".
func (a Artifact) EffectiveScope() string {
	if a.Scope == "" {
		return ScopeCompile
	}
	return a.Scope
}

// String renders a in the conventional
// groupId:artifactId:type[:classifier]:version[:scope] form.
func (a Artifact) String() string {
	parts := []string{a.GroupID, a.ArtifactID, a.EffectiveType()}
	if a.Classifier != "" {
		parts = append(parts, a.Classifier)
	}
	parts = append(parts, a.Version)
	if a.Scope != "" {
		parts = append(parts, a.Scope)
	}
	return strings.Join(parts, ":")
}

// MavenURL returns the Pax URL handler form of a, mvn:groupId/artifactId/version
// with the type and classifier appended when they are not the defaults.
func (a Artifact) MavenURL() string {
	url := fmt.Sprintf("mvn:%s/%s/%s", a.GroupID, a.ArtifactID, a.Version)
	switch {
	case a.Classifier != "":
		url += "/" + a.EffectiveType() + "/" + a.Classifier
	case a.Type != "" && a.Type != "jar" && a.Type != "bundle":
		url += "/" + a.Type
	}
	return url
}

// ParseCoordinate parses an artifact coordinate of the form
//
//	<groupId>:<artifactId>[:<type>[:<classifier>]]:<version>
//
// A bare "<groupId>:<artifactId>" is also accepted and leaves the version empty.
func ParseCoordinate(s string) (Artifact, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	for _, p := range parts {
		if p == "" || strings.ContainsAny(p, " \t") {
			return Artifact{}, fmt.Errorf("malformed artifact coordinate %q", s)
		}
	}
	a := Artifact{}
	switch len(parts) {
	case 2:
		a.GroupID, a.ArtifactID = parts[0], parts[1]
	case 3:
		a.GroupID, a.ArtifactID, a.Version = parts[0], parts[1], parts[2]
	case 4:
		a.GroupID, a.ArtifactID, a.Type, a.Version = parts[0], parts[1], parts[2], parts[3]
	case 5:
		a.GroupID, a.ArtifactID, a.Type, a.Classifier, a.Version = parts[0], parts[1], parts[2], parts[3], parts[4]
	default:
		return Artifact{}, fmt.Errorf("malformed artifact coordinate %q", s)
	}
	return a, nil
}
