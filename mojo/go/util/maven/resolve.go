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

import "strings"

// Resolve returns declared with the File of each artifact taken from the
// resolved artifact with the same key, followed by the resolved artifacts
// whose keys are not declared. A declared artifact keeps its own File when
// no resolved artifact matches it. The first resolved artifact for a
// declared key is used; later ones with that key are dropped.
func Resolve(declared, resolved []Artifact) []Artifact {
	byKey := make(map[string]Artifact)
	for _, r := range resolved {
		if _, ok := byKey[r.Key()]; !ok {
			byKey[r.Key()] = r
		}
	}

	out := make([]Artifact, 0, len(declared)+len(resolved))
	isDeclared := make(map[string]bool)
	for _, a := range declared {
		isDeclared[a.Key()] = true
		if r, ok := byKey[a.Key()]; ok {
			a.File = r.File
			if a.Version == "" {
				a.Version = r.Version
			}
		}
		out = append(out, a)
	}
	for _, r := range resolved {
		if !isDeclared[r.Key()] {
			out = append(out, r)
		}
	}
	return out
}

// Resolved is a Filter accepting artifacts that have a local file.
func Resolved(a Artifact) bool { return a.File != "" }

// Unresolved returns an error naming every artifact without a local file,
// or nil if there are none. The message is prefixed with what.
func Unresolved(what string, artifacts []Artifact) error {
	var missing []string
	for _, a := range artifacts {
		if !Resolved(a) {
			missing = append(missing, a.String())
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &UnresolvedError{What: what, Artifacts: missing}
}

// UnresolvedError reports artifacts that have not been resolved to files.
type UnresolvedError struct {
	What      string
	Artifacts []string
}

func (e *UnresolvedError) Error() string {
	return e.What + " not resolved to a file: " + strings.Join(e.Artifacts, ", ")
}
