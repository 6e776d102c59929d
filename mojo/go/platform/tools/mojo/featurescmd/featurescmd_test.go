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

package featurescmd

import (
	"context"
	"flag"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/subcommands"

	"mojo.io/mojo/go/test/testutil"
)

func run(t *testing.T, args ...string) subcommands.ExitStatus {
	t.Helper()
	c := New()
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse(%q): %v", args, err)
	}
	return c.Execute(context.Background(), fs)
}

func TestExecute(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"project.yaml": `
groupId: org.example
artifactId: web
version: "1.0"
artifacts:
- {groupId: org.example, artifactId: api, version: "1.0"}
- {groupId: junit, artifactId: junit, version: "4.8", scope: test}
`,
		"features.yaml": "project:\n  description: web bundles\n",
	})
	project := filepath.Join(dir, "project.yaml")
	definition := filepath.Join(dir, "features.yaml")

	if got := run(t, "--project", project, "--definition", definition); got != subcommands.ExitSuccess {
		t.Fatalf("Execute: got status %v, want success", got)
	}
	out := string(testutil.MustReadFile(t, filepath.Join(dir, "target", "features.xml")))
	for _, want := range []string{`<feature name="web" version="1.0"`, "mvn:org.example/api/1.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("features.xml lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "junit") {
		t.Errorf("features.xml includes a test dependency:\n%s", out)
	}

	custom := filepath.Join(dir, "out", "custom.xml")
	if got := run(t, "--project", project, "--definition", definition, "--output", custom); got != subcommands.ExitSuccess {
		t.Fatalf("Execute --output: got status %v, want success", got)
	}
	testutil.MustReadFile(t, custom)
}

func TestExecuteErrors(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"project.yaml": "artifactId: web\n",
		"bad.yaml":     "features:\n- version: \"1\"\n",
	})
	project := filepath.Join(dir, "project.yaml")

	tests := []struct {
		args []string
		want subcommands.ExitStatus
	}{
		{[]string{"--project", project}, subcommands.ExitUsageError},
		{[]string{"--project", project, "--definition", filepath.Join(dir, "missing.yaml")}, subcommands.ExitFailure},
		{[]string{"--project", project, "--definition", filepath.Join(dir, "bad.yaml")}, subcommands.ExitFailure},
	}
	for _, test := range tests {
		if got := run(t, test.args...); got != test.want {
			t.Errorf("Execute(%q): got status %v, want %v", test.args, got, test.want)
		}
	}
}
