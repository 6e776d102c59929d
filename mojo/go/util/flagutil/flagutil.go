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

// Package flagutil is a collection of flag.Value implementations shared by
// the mojo goals.
package flagutil // import "mojo.io/mojo/go/util/flagutil"

import (
	"fmt"
	"sort"
	"strings"
)

// StringList implements a flag.Value that accepts an sequence of values as a CSV.
type StringList []string

// Set implements part of the flag.Getter interface and will append new values to the flag.
func (f *StringList) Set(s string) error {
	*f = append(*f, strings.Split(s, ",")...)
	return nil
}

// String implements part of the flag.Getter interface and returns a string-ish value for the flag.
func (f *StringList) String() string {
	if f == nil {
		return ""
	}
	return strings.Join(*f, ",")
}

// Get implements flag.Getter and returns a slice of string values.
func (f *StringList) Get() any {
	if f == nil {
		return []string(nil)
	}
	return *f
}

// StringMap implements a flag.Value that accepts key=value entries, either
// as a CSV or by repeating the flag. A later value for a key replaces an
// earlier one.
type StringMap map[string]string

// Set implements part of the flag.Getter interface and will add new entries to the flag.
func (f *StringMap) Set(s string) error {
	if *f == nil {
		*f = make(map[string]string)
	}
	for _, e := range strings.Split(s, ",") {
		key, val, ok := strings.Cut(e, "=")
		if !ok || key == "" {
			return fmt.Errorf("invalid key-value entry: %q", e)
		}
		(*f)[key] = val
	}
	return nil
}

// Keys returns the keys of the map in lexicographic order.
func (f StringMap) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String implements part of the flag.Getter interface and returns a string-ish value for the flag.
func (f *StringMap) String() string {
	if f == nil || *f == nil {
		return ""
	}
	entries := make([]string, 0, len(*f))
	for _, k := range f.Keys() {
		entries = append(entries, k+"="+(*f)[k])
	}
	return strings.Join(entries, ",")
}

// Get implements flag.Getter and returns the map of values.
func (f *StringMap) Get() any {
	if f == nil {
		return map[string]string(nil)
	}
	return map[string]string(*f)
}
