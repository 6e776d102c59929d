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
	"testing"

	"github.com/google/go-cmp/cmp"
)

var scoped = []Artifact{
	{ArtifactID: "none"},
	{ArtifactID: "compile", Scope: ScopeCompile},
	{ArtifactID: "provided", Scope: ScopeProvided},
	{ArtifactID: "runtime", Scope: ScopeRuntime},
	{ArtifactID: "test", Scope: ScopeTest},
	{ArtifactID: "system", Scope: ScopeSystem},
}

func ids(as []Artifact) []string {
	var out []string
	for _, a := range as {
		out = append(out, a.ArtifactID)
	}
	return out
}

func TestScopeFilter(t *testing.T) {
	tests := []struct {
		scope string
		want  []string
	}{
		{ScopeCompile, []string{"none", "compile", "provided", "system"}},
		{ScopeRuntime, []string{"none", "compile", "runtime"}},
		{ScopeTest, []string{"none", "compile", "provided", "runtime", "test", "system"}},
		{ScopeProvided, []string{"provided"}},
		{ScopeSystem, []string{"system"}},
	}
	for _, test := range tests {
		f, err := ScopeFilter(test.scope)
		if err != nil {
			t.Fatalf("ScopeFilter(%q): %v", test.scope, err)
		}
		if diff := cmp.Diff(test.want, ids(Select(scoped, f))); diff != "" {
			t.Errorf("Scope %q: (-want +got)\n%s", test.scope, diff)
		}
	}
}

func TestScopeFilterUnknown(t *testing.T) {
	if _, err := ScopeFilter("import"); !errors.Is(err, ErrUnknownScope) {
		t.Errorf("ScopeFilter(import): got error %v, want %v", err, ErrUnknownScope)
	}
}

func TestWarFilter(t *testing.T) {
	in := []Artifact{
		{ArtifactID: "lib"},
		{ArtifactID: "web", Type: "war"},
		{ArtifactID: "rt", Type: "war", Scope: ScopeRuntime},
		{ArtifactID: "opt", Type: "war", Optional: true},
		{ArtifactID: "prov", Type: "war", Scope: ScopeProvided},
		{ArtifactID: "tst", Type: "war", Scope: ScopeTest},
	}
	if diff := cmp.Diff([]string{"web", "rt"}, ids(Select(in, WarFilter))); diff != "" {
		t.Errorf("WarFilter: (-want +got)\n%s", diff)
	}
}

func TestSelectAllFilters(t *testing.T) {
	notNone := func(a Artifact) bool { return a.ArtifactID != "none" }
	runtime, err := ScopeFilter(ScopeRuntime)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"compile", "runtime"}, ids(Select(scoped, runtime, notNone))); diff != "" {
		t.Errorf("Select: (-want +got)\n%s", diff)
	}
	if got := Select(scoped); len(got) != len(scoped) {
		t.Errorf("Select with no filters: got %d artifacts, want %d", len(got), len(scoped))
	}
}
