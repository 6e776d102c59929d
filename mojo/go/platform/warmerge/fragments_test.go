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

package warmerge

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFragments(t *testing.T) {
	f := NewFragments()
	f.AddAll(map[string]string{"servlet": "a-servlet\n", "filter": "a-filter\n"})
	f.AddAll(map[string]string{"servlet": "b-servlet\n", "listener": "b-listener\n"})
	f.Add("filter", "c-filter\n")

	if diff := cmp.Diff([]string{"filter", "servlet", "listener"}, f.Names()); diff != "" {
		t.Errorf("Names: (-want +got)\n%s", diff)
	}
	if got := f.Len(); got != 3 {
		t.Errorf("Len: got %d, want 3", got)
	}
	tests := map[string][]string{
		"servlet":  {"a-servlet\n", "b-servlet\n"},
		"filter":   {"a-filter\n", "c-filter\n"},
		"listener": {"b-listener\n"},
		"missing":  nil,
	}
	for name, want := range tests {
		if diff := cmp.Diff(want, f.Lookup(name)); diff != "" {
			t.Errorf("Lookup(%q): (-want +got)\n%s", name, diff)
		}
	}
}

func TestNilFragments(t *testing.T) {
	var f *Fragments
	if got := f.Lookup("x"); got != nil {
		t.Errorf("Lookup on nil: got %q", got)
	}
	if got := f.Names(); got != nil {
		t.Errorf("Names on nil: got %q", got)
	}
	if got := f.Len(); got != 0 {
		t.Errorf("Len on nil: got %d", got)
	}
}
