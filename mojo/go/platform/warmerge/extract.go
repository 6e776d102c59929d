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
	"strings"

	"mojo.io/mojo/go/util/log"
)

// A State is the state of one of the line automata.
type State int

const (
	Copying   State = iota // outside any region
	Capturing              // extraction: inside a begin/end region
	Skipping               // composition: inside a region the template should not define
)

func (s State) String() string {
	switch s {
	case Copying:
		return "copying"
	case Capturing:
		return "capturing"
	case Skipping:
		return "skipping"
	}
	return "unknown"
}

// Extract returns the sections defined in the descriptor text, keyed by
// name. A section is the text between "begin <name>" and "end <name>"
// markers, each line terminated by "\n". Repeating a name within one
// descriptor overwrites the earlier section. Text outside sections is
// discarded.
func Extract(text string) map[string]string {
	sections := make(map[string]string)
	var (
		st  = Copying
		buf strings.Builder
	)
	for _, line := range splitLines(text) {
		m, ok := ParseMarker(line)
		if !ok {
			if st == Capturing {
				buf.WriteString(trimEOL(line))
				buf.WriteByte('\n')
			}
			continue
		}
		switch m.Command {
		case CommandBegin:
			st = Capturing
			buf.Reset()
		case CommandEnd:
			st = Copying
			if name := strings.TrimSpace(m.Argument); name != "" {
				sections[name] = buf.String()
			}
			buf.Reset()
		case CommandInsert:
			// Only meaningful in the primary descriptor.
		default:
			log.Warningf("WARMERGE: unknown token: %s(%s)", m.Command, m.Argument)
		}
	}
	return sections
}
