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

import "sort"

// Fragments is an ordered multimap from section name to the text blocks
// contributed for it, one per contributing descriptor, in contribution order.
// Only the merge driver and tests add to it; it is read-only once
// composition starts.
type Fragments struct {
	names  []string
	blocks map[string][]string
}

// NewFragments returns an empty fragment table.
func NewFragments() *Fragments {
	return &Fragments{blocks: make(map[string][]string)}
}

// Add appends block to the blocks recorded for name.
func (f *Fragments) Add(name, block string) {
	if _, ok := f.blocks[name]; !ok {
		f.names = append(f.names, name)
	}
	f.blocks[name] = append(f.blocks[name], block)
}

// AddAll appends the fragments of one descriptor, as returned by Extract.
// Names are added in lexical order.
func (f *Fragments) AddAll(sections map[string]string) {
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f.Add(name, sections[name])
	}
}

// Lookup returns the blocks recorded for name, or nil. The result must not
// be modified.
func (f *Fragments) Lookup(name string) []string {
	if f == nil {
		return nil
	}
	return f.blocks[name]
}

// Names returns the section names in the order they were first added.
func (f *Fragments) Names() []string {
	if f == nil {
		return nil
	}
	return append([]string(nil), f.names...)
}

// Len returns the number of distinct section names.
func (f *Fragments) Len() int {
	if f == nil {
		return 0
	}
	return len(f.names)
}
