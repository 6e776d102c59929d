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
)

// ErrUnknownScope is returned by ScopeFilter for a scope it does not know.
var ErrUnknownScope = errors.New("unknown dependency scope")

// A Filter selects artifacts.
type Filter func(Artifact) bool

// ScopeFilter returns a Filter accepting the artifacts visible in the given
// classpath scope:
//
//	compile  -- compile, provided, system
//	runtime  -- compile, runtime
//	test     -- every scope
//	provided -- provided
//	system   -- system
func ScopeFilter(scope string) (Filter, error) {
	var accept map[string]bool
	switch scope {
	case ScopeCompile:
		accept = map[string]bool{ScopeCompile: true, ScopeProvided: true, ScopeSystem: true}
	case ScopeRuntime:
		accept = map[string]bool{ScopeCompile: true, ScopeRuntime: true}
	case ScopeTest:
		return func(Artifact) bool { return true }, nil
	case ScopeProvided, ScopeSystem:
		accept = map[string]bool{scope: true}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScope, scope)
	}
	return func(a Artifact) bool { return accept[a.EffectiveScope()] }, nil
}

// WarFilter accepts the non-optional war artifacts of the runtime classpath.
func WarFilter(a Artifact) bool {
	if a.Optional || a.EffectiveType() != "war" {
		return false
	}
	switch a.EffectiveScope() {
	case ScopeCompile, ScopeRuntime:
		return true
	}
	return false
}

// Select returns the artifacts accepted by every filter, in their original order.
func Select(artifacts []Artifact, filters ...Filter) []Artifact {
	var out []Artifact
outer:
	for _, a := range artifacts {
		for _, f := range filters {
			if !f(a) {
				continue outer
			}
		}
		out = append(out, a)
	}
	return out
}
