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

// endContextParam is the only "end" argument that closes a skipped region
// of the template unless lenient end handling is enabled.
const endContextParam = "context-param"

// An Option configures Compose.
type Option func(*Compositor)

// WithLenientEnd makes every "end" marker close a skipped region of the
// template, not only "end context-param".
func WithLenientEnd() Option { return func(c *Compositor) { c.lenientEnd = true } }

// WithPrimary names the primary archive in warnings.
func WithPrimary(id string) Option { return func(c *Compositor) { c.primary = id } }

// A Compositor rewrites a template descriptor one line at a time, replacing
// insert markers with fragments.
type Compositor struct {
	frags      *Fragments
	lenientEnd bool
	primary    string
}

// NewCompositor returns a Compositor inserting from frags.
func NewCompositor(frags *Fragments, opts ...Option) *Compositor {
	c := &Compositor{frags: frags, primary: "the primary war"}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Step consumes one template line (including its terminator) in state s and
// returns the next state and the text to emit.
//
// Content lines are copied verbatim unless skipping. A "begin" marker starts
// skipping, since the template is not expected to define sections, and only
// "end context-param" (or any "end" with WithLenientEnd) stops it. An
// "insert <name>" marker emits each block recorded for name, newline
// terminated (an empty block is a bare newline), even while skipping; if
// there are none it emits nothing.
func (c *Compositor) Step(s State, line string) (State, string) {
	m, ok := ParseMarker(line)
	if !ok {
		if s == Skipping {
			return s, ""
		}
		return s, line
	}

	switch m.Command {
	case CommandBegin:
		log.Warningf("WARMERGE: %s is your primary war file, but it contains begin/end capture tokens!", c.primary)
		return Skipping, ""
	case CommandEnd:
		if s == Skipping && (c.lenientEnd || strings.EqualFold(m.Argument, endContextParam)) {
			return Copying, ""
		}
		return s, ""
	case CommandInsert:
		blocks := c.frags.Lookup(m.Argument)
		if len(blocks) == 0 {
			log.Debugf("WARMERGE: insert '%s' found, but there are no tokens", m.Argument)
			return s, ""
		}
		var out strings.Builder
		for _, b := range blocks {
			out.WriteString(b)
			if !strings.HasSuffix(b, "\n") {
				out.WriteByte('\n')
			}
		}
		return s, out.String()
	default:
		log.Warningf("WARMERGE: unknown token in %s: %s(%s)", c.primary, m.Command, m.Argument)
		return s, ""
	}
}

// Compose runs the template through the Compositor from the Copying state and
// returns the merged descriptor.
func (c *Compositor) Compose(template string) string {
	var (
		out strings.Builder
		st  = Copying
	)
	for _, line := range splitLines(template) {
		var emit string
		st, emit = c.Step(st, line)
		out.WriteString(emit)
	}
	return out.String()
}

// Compose merges frags into template. See Compositor.Step.
func Compose(template string, frags *Fragments, opts ...Option) string {
	return NewCompositor(frags, opts...).Compose(template)
}
