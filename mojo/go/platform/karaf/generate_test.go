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
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"mojo.io/mojo/go/test/testutil"
	"mojo.io/mojo/go/util/maven"
)

func testProject() *maven.Project {
	return &maven.Project{
		GroupID:    "org.opennms",
		ArtifactID: "opennms-core",
		Version:    "1.11.1",
		Packaging:  "bundle",
		Artifacts: []maven.Artifact{
			{GroupID: "org.opennms", ArtifactID: "opennms-model", Version: "1.11.1", Type: "bundle"},
			{GroupID: "org.springframework", ArtifactID: "spring-core", Version: "3.0.5"},
			{GroupID: "org.slf4j", ArtifactID: "slf4j-api", Version: "1.6.1"},
			{GroupID: "junit", ArtifactID: "junit", Version: "4.8", Scope: "test"},
			{GroupID: "javax.servlet", ArtifactID: "servlet-api", Version: "2.5", Scope: "provided"},
			{GroupID: "org.opennms", ArtifactID: "opennms-webapp", Version: "1.11.1", Type: "war"},
			{GroupID: "org.opennms", ArtifactID: "opennms-optional", Version: "1.11.1", Optional: true},
			{GroupID: "org.opennms", ArtifactID: "opennms-rrd", Version: "1.11.1", Classifier: "jrobin", Scope: "runtime"},
		},
	}
}

func TestGenerate(t *testing.T) {
	def, err := LoadDefinition(filepath.Join("testdata", "features.yaml"))
	if err != nil {
		t.Fatalf("LoadDefinition: %v", err)
	}
	var buf bytes.Buffer
	if err := Generate(&buf, testProject(), def); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	want := testutil.MustReadFile(t, filepath.Join("testdata", "features.xml"))
	if eq, diff := testutil.TrimmedEqual(buf.Bytes(), want); !eq {
		t.Errorf("Generate: (-got +want)\n%s", diff)
	}
}

func TestBuildDefaults(t *testing.T) {
	f, err := Build(testProject(), &Definition{Project: &ProjectFeature{Excludes: []string{"org.springframework:spring-core"}}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if f.Name != "opennms-core" {
		t.Errorf("Name: got %q, want opennms-core", f.Name)
	}
	if len(f.Features) != 1 {
		t.Fatalf("Features: got %d, want 1", len(f.Features))
	}
	pf := f.Features[0]
	if pf.Name != "opennms-core" || pf.Version != "1.11.1" {
		t.Errorf("Project feature: got %s/%s, want opennms-core/1.11.1", pf.Name, pf.Version)
	}
	var got []string
	for _, b := range pf.Bundles {
		if b.StartLevel != 0 {
			t.Errorf("Bundle %s: got start level %d, want default", b.Location, b.StartLevel)
		}
		got = append(got, b.Location)
	}
	want := "mvn:org.opennms/opennms-model/1.11.1 mvn:org.slf4j/slf4j-api/1.6.1 mvn:org.opennms/opennms-rrd/1.11.1/jar/jrobin"
	if strings.Join(got, " ") != want {
		t.Errorf("Bundles: got %q, want %q", got, want)
	}
}

func TestBuildErrors(t *testing.T) {
	for _, def := range []*Definition{
		{Features: []Feature{{Version: "1"}}},
		{Features: []Feature{{Name: "x", Bundles: []Bundle{{StartLevel: 3}}}}},
	} {
		if f, err := Build(testProject(), def); err == nil {
			t.Errorf("Build(%+v): got %+v, wanted error", def, f)
		}
	}
}

func TestLoadDefinitionErrors(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"unknown.yaml": "name: x\nbogus: true\n",
		"bad.yaml":     "features: {\n",
	})
	for _, name := range []string{"unknown.yaml", "bad.yaml", "missing.yaml"} {
		if def, err := LoadDefinition(filepath.Join(dir, name)); err == nil {
			t.Errorf("LoadDefinition(%s): got %+v, wanted error", name, def)
		}
	}
}
