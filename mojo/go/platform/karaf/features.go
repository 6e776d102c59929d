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

// Package karaf generates Apache Karaf features repositories (features.xml)
// describing the bundles, configuration and feature dependencies of a
// project.
package karaf // import "mojo.io/mojo/go/platform/karaf"

// Namespace is the XML namespace of the features documents written by
// WriteXML.
const Namespace = "http://karaf.apache.org/xmlns/features/v1.0.0"

// Features is a features repository.
type Features struct {
	Name         string     `json:"name,omitempty"`
	Repositories []string   `json:"repositories,omitempty"`
	Features     []*Feature `json:"features,omitempty"`
}

// A Feature is a named, optionally versioned, set of bundles and
// configuration that Karaf installs as a unit.
type Feature struct {
	Name         string       `json:"name"`
	Version      string       `json:"version,omitempty"`
	Description  string       `json:"description,omitempty"`
	Details      string       `json:"details,omitempty"`
	Configs      []Config     `json:"configs,omitempty"`
	ConfigFiles  []ConfigFile `json:"configFiles,omitempty"`
	Dependencies []Dependency `json:"features,omitempty"`
	Bundles      []Bundle     `json:"bundles,omitempty"`
}

// Config is an inline configuration: Value holds properties-file text for
// the configuration PID Name.
type Config struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ConfigFile installs the file at Location as FinalName.
type ConfigFile struct {
	Location  string `json:"location"`
	FinalName string `json:"finalName"`
	Override  *bool  `json:"override,omitempty"`
}

// Dependency refers to another feature.
type Dependency struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// A Bundle is an OSGi bundle location, usually an mvn: URL.
type Bundle struct {
	Location   string `json:"location"`
	StartLevel int    `json:"startLevel,omitempty"` // 0 means the default
	Start      *bool  `json:"start,omitempty"`
	Dependency *bool  `json:"dependency,omitempty"`
}
