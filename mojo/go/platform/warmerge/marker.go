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

// Package warmerge merges the WEB-INF/web.xml descriptors of several web
// archives into one, driven by marker comments of the form
//
//	<!-- WARMERGE: <command> <argument> -->
//
// Secondary descriptors delimit named fragments with "begin <name>" and
// "end <name>" markers. The primary descriptor is the template: each
// "insert <name>" marker in it is replaced by every fragment of that name,
// in the order the archives were processed. Descriptors are treated as
// opaque lines of text; no XML parsing is done.
package warmerge // import "mojo.io/mojo/go/platform/warmerge"

import (
	"regexp"
	"strings"
)

// Marker commands.
const (
	CommandBegin  = "begin"
	CommandEnd    = "end"
	CommandInsert = "insert"
)

var markerRE = regexp.MustCompile(`^\s*<!--\s*WARMERGE:\s+(.*?)\s+(.*?)\s*-->\s*$`)

// A Marker is a parsed marker line.
type Marker struct {
	Command  string // lower-cased
	Argument string
}

// ParseMarker reports whether line, with or without its line terminator, is
// a marker line and if so returns the parsed marker. A line that does not
// match the marker grammar is content.
func ParseMarker(line string) (Marker, bool) {
	m := markerRE.FindStringSubmatch(trimEOL(line))
	if m == nil {
		return Marker{}, false
	}
	return Marker{Command: strings.ToLower(m[1]), Argument: m[2]}, true
}

func (m Marker) String() string {
	return "<!-- WARMERGE: " + m.Command + " " + m.Argument + " -->"
}

// trimEOL removes a trailing "\n" or "\r\n" from line.
func trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// splitLines splits text into lines, each retaining its terminator. The last
// line has no terminator if text does not end with a newline.
func splitLines(text string) []string {
	lines := strings.SplitAfter(text, "\n")
	if n := len(lines); lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
