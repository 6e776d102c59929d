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
	"fmt"
	"regexp"
	"strings"

	"github.com/beevik/etree"
)

// ReadPOM reads the coordinates, build layout and declared dependencies from
// a pom.xml file. Values inherited from a parent POM are limited to the
// <parent> groupId and version; ${...} references to project coordinates and
// to <properties> entries are expanded.
func ReadPOM(pomXMLFile string) (*Project, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(pomXMLFile); err != nil {
		return nil, fmt.Errorf("reading XML file %s: %v", pomXMLFile, err)
	}
	project := doc.SelectElement("project")
	if project == nil {
		return nil, fmt.Errorf("%s: no top level <project> element", pomXMLFile)
	}

	p := &Project{
		GroupID:    childText(project, "groupId"),
		ArtifactID: childText(project, "artifactId"),
		Version:    childText(project, "version"),
		Packaging:  childText(project, "packaging"),
	}
	if parent := project.SelectElement("parent"); parent != nil {
		if p.GroupID == "" {
			p.GroupID = childText(parent, "groupId")
		}
		if p.Version == "" {
			p.Version = childText(parent, "version")
		}
	}

	props := map[string]string{
		"project.groupId":    p.GroupID,
		"project.artifactId": p.ArtifactID,
		"project.version":    p.Version,
	}
	if pe := project.SelectElement("properties"); pe != nil {
		for _, e := range pe.ChildElements() {
			props[e.Tag] = e.Text()
		}
	}
	expand := func(s string) string { return Interpolate(s, props) }

	if build := project.SelectElement("build"); build != nil {
		p.Build = Build{
			Directory:           expand(childText(build, "directory")),
			OutputDirectory:     expand(childText(build, "outputDirectory")),
			SourceDirectory:     expand(childText(build, "sourceDirectory")),
			TestSourceDirectory: expand(childText(build, "testSourceDirectory")),
			TestOutputDirectory: expand(childText(build, "testOutputDirectory")),
			FinalName:           expand(childText(build, "finalName")),
		}
	}

	for _, d := range project.FindElements("./dependencies/dependency") {
		p.Artifacts = append(p.Artifacts, Artifact{
			GroupID:    expand(childText(d, "groupId")),
			ArtifactID: expand(childText(d, "artifactId")),
			Version:    expand(childText(d, "version")),
			Type:       expand(childText(d, "type")),
			Classifier: expand(childText(d, "classifier")),
			Scope:      expand(childText(d, "scope")),
			Optional:   childText(d, "optional") == "true",
		})
	}
	return p, nil
}

func childText(e *etree.Element, tag string) string {
	if c := e.SelectElement(tag); c != nil {
		return strings.TrimSpace(c.Text())
	}
	return ""
}

var propertyRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate replaces ${name} references in s with values from props.
// Unknown references are left untouched.
func Interpolate(s string, props map[string]string) string {
	return propertyRef.ReplaceAllStringFunc(s, func(ref string) string {
		if v, ok := props[ref[2:len(ref)-1]]; ok {
			return v
		}
		return ref
	})
}
