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
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mojo.io/mojo/go/util/log"
)

// captureLog redirects log output to a buffer for the duration of the test.
func captureLog(t *testing.T, verbose bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	old := log.Verbose()
	log.SetVerbose(verbose)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetVerbose(old)
	})
	return &buf
}

func TestExtract(t *testing.T) {
	tests := []struct {
		desc string
		in   string
		want map[string]string
	}{
		{"empty", "", map[string]string{}},
		{"blank", "  \n\n", map[string]string{}},
		{"no markers", "<web-app>\n</web-app>\n", map[string]string{}},
		{"one section", `<web-app>
  <!-- WARMERGE: begin servlet -->
  <servlet/>
  <!-- WARMERGE: end servlet -->
</web-app>
`, map[string]string{"servlet": "  <servlet/>\n"}},
		{"case-insensitive commands", `<!-- WARMERGE: BEGIN filter -->
<filter/>
<!-- WARMERGE: End filter -->`, map[string]string{"filter": "<filter/>\n"}},
		{"carriage returns stripped", "<!-- WARMERGE: begin a -->\r\nx\r\ny\r\n<!-- WARMERGE: end a -->\r\n",
			map[string]string{"a": "x\ny\n"}},
		{"last line unterminated", "<!-- WARMERGE: begin a -->\nx", map[string]string{}},
		{"end name stores", "<!-- WARMERGE: begin a -->\nx\n<!-- WARMERGE: end b -->\n",
			map[string]string{"b": "x\n"}},
		{"repeated name overwrites", `<!-- WARMERGE: begin a -->
first
<!-- WARMERGE: end a -->
<!-- WARMERGE: begin a -->
second
<!-- WARMERGE: end a -->
`, map[string]string{"a": "second\n"}},
		{"begin resets buffer", `<!-- WARMERGE: begin a -->
dropped
<!-- WARMERGE: begin a -->
kept
<!-- WARMERGE: end a -->
`, map[string]string{"a": "kept\n"}},
		{"blank end name discards", `<!-- WARMERGE: begin a -->
x
<!-- WARMERGE: end -->
<!-- WARMERGE: begin b -->
y
<!-- WARMERGE: end b -->
`, map[string]string{"b": "y\n"}},
		{"insert ignored", `<!-- WARMERGE: begin a -->
x
<!-- WARMERGE: insert a -->
y
<!-- WARMERGE: end a -->
`, map[string]string{"a": "x\ny\n"}},
		{"empty section", "<!-- WARMERGE: begin a -->\n<!-- WARMERGE: end a -->\n", map[string]string{"a": ""}},
		{"malformed marker is content", `<!-- WARMERGE: begin a -->
<!-- WARMERGE:begin b -->
<!-- WARMERGE: end a -->
`, map[string]string{"a": "<!-- WARMERGE:begin b -->\n"}},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			if diff := cmp.Diff(test.want, Extract(test.in)); diff != "" {
				t.Errorf("Extract: (-want +got)\n%s", diff)
			}
		})
	}
}

func TestExtractUnknownCommand(t *testing.T) {
	buf := captureLog(t, false)
	got := Extract(`<!-- WARMERGE: begin a -->
x
<!-- WARMERGE: replace a -->
y
<!-- WARMERGE: end a -->
`)
	if diff := cmp.Diff(map[string]string{"a": "x\ny\n"}, got); diff != "" {
		t.Errorf("Extract: (-want +got)\n%s", diff)
	}
	if !strings.Contains(buf.String(), "WARNING: WARMERGE: unknown token: replace(a)") {
		t.Errorf("Missing warning for unknown command; log:\n%s", buf)
	}
}
