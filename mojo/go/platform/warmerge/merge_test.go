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
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mojo.io/mojo/go/test/testutil"
	"mojo.io/mojo/go/util/archive"
	"mojo.io/mojo/go/util/maven"
)

// fakeArchiver serves descriptors from memory and records its calls.
type fakeArchiver struct {
	descriptors map[string]string // archive path -> descriptor text
	extracted   []string
	created     map[string]string // dest archive -> merged descriptor
	createErr   error
}

func (f *fakeArchiver) Extract(archivePath, entryPath, destDir string) ([]byte, error) {
	f.extracted = append(f.extracted, archivePath)
	text, ok := f.descriptors[archivePath]
	if !ok {
		return nil, fmt.Errorf("%s: %w: %s", archivePath, archive.ErrEntryNotFound, entryPath)
	}
	return []byte(text), nil
}

func (f *fakeArchiver) CreateArchive(sourceDir, destArchive string) error {
	if f.createErr != nil {
		return f.createErr
	}
	data, err := os.ReadFile(filepath.Join(sourceDir, "WEB-INF", "web.xml"))
	if err != nil {
		return err
	}
	if f.created == nil {
		f.created = make(map[string]string)
	}
	f.created[destArchive] = string(data)
	return nil
}

func war(group, artifact string) maven.Artifact {
	return maven.Artifact{
		GroupID:    group,
		ArtifactID: artifact,
		Version:    "1.0",
		Type:       "war",
		File:       artifact + ".war",
	}
}

func TestMergeNoPrimary(t *testing.T) {
	out := t.TempDir()
	fa := &fakeArchiver{descriptors: map[string]string{"web.war": "<web-app/>\n"}}
	m := &Merger{
		Archiver:   fa,
		PrimaryWar: "org.opennms:missing",
		OutputDir:  out,
		ArtifactID: "merged",
		Version:    "1.0",
	}
	_, err := m.Merge(context.Background(), []maven.Artifact{war("org.opennms", "web")})
	if !errors.Is(err, ErrNoPrimaryWar) {
		t.Fatalf("Merge: got error %v, want %v", err, ErrNoPrimaryWar)
	}
	if !strings.Contains(err.Error(), "org.opennms:missing") {
		t.Errorf("Merge error %q does not name the primary id", err)
	}
	if len(fa.extracted) != 0 || len(fa.created) != 0 {
		t.Errorf("Merge touched archives: extracted %v, created %v", fa.extracted, fa.created)
	}
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("Merge wrote output: %v", entries)
	}
}

func TestMergeDuplicatePrimary(t *testing.T) {
	fa := &fakeArchiver{descriptors: map[string]string{"a.war": "first\n", "b.war": "second\n"}}
	a, b := war("g", "web"), war("g", "web")
	a.File, b.File = "a.war", "b.war"
	m := &Merger{Archiver: fa, PrimaryWar: "g:web", OutputDir: t.TempDir(), ArtifactID: "m", Version: "1"}

	_, err := m.Merge(context.Background(), []maven.Artifact{a, b})
	if !errors.Is(err, ErrDuplicatePrimaryWar) {
		t.Fatalf("Merge: got error %v, want %v", err, ErrDuplicatePrimaryWar)
	}
	if len(fa.extracted) != 0 || len(fa.created) != 0 {
		t.Errorf("Merge touched archives: extracted %v, created %v", fa.extracted, fa.created)
	}
}

func TestMergeUnsafeWorkDir(t *testing.T) {
	tests := []struct {
		name     string
		work     func(out string) string
		wantSafe bool
	}{
		{"same", func(out string) string { return out }, false},
		{"ancestor", func(out string) string { return filepath.Dir(out) }, false},
		{"unclean", func(out string) string { return out + string(filepath.Separator) + "." }, false},
		{"inside", func(out string) string { return filepath.Join(out, "scratch") }, true},
		{"sibling", func(out string) string { return out + "-work" }, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "target")
			keep := filepath.Join(out, "classes", "Keep.class")
			testutil.WriteFiles(t, out, map[string]string{"classes/Keep.class": "cafebabe"})

			fa := &fakeArchiver{descriptors: map[string]string{"web.war": "<web-app/>\n"}}
			m := &Merger{
				Archiver:   fa,
				PrimaryWar: "g:web",
				OutputDir:  out,
				WorkDir:    test.work(out),
				ArtifactID: "m",
				Version:    "1",
			}
			_, err := m.Merge(context.Background(), []maven.Artifact{war("g", "web")})
			if test.wantSafe {
				if err != nil {
					t.Fatalf("Merge: unexpected error: %v", err)
				}
			} else if !errors.Is(err, ErrUnsafeWorkDir) {
				t.Fatalf("Merge: got error %v, want %v", err, ErrUnsafeWorkDir)
			} else if len(fa.extracted) != 0 || len(fa.created) != 0 {
				t.Errorf("Merge touched archives: extracted %v, created %v", fa.extracted, fa.created)
			}
			if _, err := os.Stat(keep); err != nil {
				t.Errorf("Output directory contents lost: %v", err)
			}
		})
	}
}

func TestMergeOrder(t *testing.T) {
	captureLog(t, false)
	out := t.TempDir()
	fa := &fakeArchiver{descriptors: map[string]string{
		"a.war":    "<!-- WARMERGE: begin foo -->\n<a/>\n<!-- WARMERGE: end foo -->\n",
		"b.war":    "<!-- WARMERGE: begin foo -->\n<b/>\n<!-- WARMERGE: end foo -->\n",
		"main.war": "<web-app>\n<!-- WARMERGE: insert foo -->\n</web-app>\n",
	}}
	m := &Merger{
		Archiver:   fa,
		PrimaryWar: "org.opennms:main",
		OutputDir:  out,
		ArtifactID: "opennms-webapp",
		Version:    "1.8.0",
	}
	wars := []maven.Artifact{war("org.opennms", "a"), war("org.opennms", "main"), war("org.opennms", "b"), war("org.other", "nodesc")}
	got, err := m.Merge(context.Background(), wars)
	if err != nil {
		t.Fatalf("Merge: unexpected error: %v", err)
	}
	want := filepath.Join(out, "opennms-webapp-1.8.0-merged.war")
	if got != want {
		t.Errorf("Merge: got output %q, want %q", got, want)
	}
	if diff := cmp.Diff([]string{"a.war", "main.war", "b.war", "nodesc.war"}, fa.extracted); diff != "" {
		t.Errorf("Extraction order: (-want +got)\n%s", diff)
	}
	const wantXML = "<web-app>\n<a/>\n<b/>\n</web-app>\n"
	if diff := testutil.LineDiff(wantXML, fa.created[want]); diff != "" {
		t.Errorf("Merged descriptor: (-want +got)\n%s", diff)
	}
	desc := filepath.Join(out, WorkDirName, "WEB-INF", "web.xml")
	if got := string(testutil.MustReadFile(t, desc)); got != wantXML {
		t.Errorf("Descriptor in work dir: got %q, want %q", got, wantXML)
	}
}

func TestMergeFailureCleansUp(t *testing.T) {
	out := t.TempDir()
	fa := &fakeArchiver{
		descriptors: map[string]string{"main.war": "<web-app/>\n"},
		createErr:   errors.New("disk full"),
	}
	m := &Merger{
		Archiver:   fa,
		PrimaryWar: "g:main",
		OutputDir:  out,
		WorkDir:    filepath.Join(out, "scratch"),
		ArtifactID: "x",
		Version:    "1",
	}
	_, err := m.Merge(context.Background(), []maven.Artifact{war("g", "main")})
	if err == nil || !strings.Contains(err.Error(), "disk full") || !strings.Contains(err.Error(), m.OutputPath()) {
		t.Fatalf("Merge: got error %v, want one naming %s and the cause", err, m.OutputPath())
	}
	if _, err := os.Stat(m.WorkDir); !os.IsNotExist(err) {
		t.Errorf("Work directory %s was not removed: %v", m.WorkDir, err)
	}
}

func TestMergeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := &Merger{
		Archiver:   &fakeArchiver{},
		PrimaryWar: "g:main",
		OutputDir:  t.TempDir(),
	}
	if _, err := m.Merge(ctx, []maven.Artifact{war("g", "main")}); !errors.Is(err, context.Canceled) {
		t.Errorf("Merge: got error %v, want %v", err, context.Canceled)
	}
}

func TestMergeMissingFile(t *testing.T) {
	w := war("g", "main")
	w.File = ""
	m := &Merger{Archiver: &fakeArchiver{}, PrimaryWar: "g:main", OutputDir: t.TempDir()}
	if _, err := m.Merge(context.Background(), []maven.Artifact{w}); err == nil {
		t.Error("Merge of an artifact without a file: got nil error")
	}
}

// buildWar writes a war at path containing the given files.
func buildWar(t *testing.T, path string, files map[string]string) {
	t.Helper()
	src := t.TempDir()
	testutil.WriteFiles(t, src, files)
	if err := archive.Create(src, path); err != nil {
		t.Fatalf("Creating %s: %v", path, err)
	}
}

func TestMergeArchives(t *testing.T) {
	captureLog(t, false)
	dir := t.TempDir()
	repo := filepath.Join(dir, "repo")
	read := func(name string) string { return string(testutil.MustReadFile(t, filepath.Join("testdata", name))) }

	wars := []maven.Artifact{
		{GroupID: "org.opennms", ArtifactID: "opennms-web", Type: "war", File: filepath.Join(repo, "web.war")},
		{GroupID: "org.opennms", ArtifactID: "opennms-reports", Type: "war", File: filepath.Join(repo, "reports.war")},
		{GroupID: "org.opennms", ArtifactID: "opennms-graphs", Type: "war", File: filepath.Join(repo, "graphs.war")},
	}
	buildWar(t, wars[0].File, map[string]string{
		"WEB-INF/web.xml":      read("primary.xml"),
		"index.jsp":            "web index",
		"WEB-INF/lib/core.jar": "core",
		"css/styles.css":       "body {}",
	})
	buildWar(t, wars[1].File, map[string]string{
		"WEB-INF/web.xml":         read("reports.xml"),
		"reports/index.jsp":       "reports",
		"WEB-INF/lib/reports.jar": "reports",
	})
	buildWar(t, wars[2].File, map[string]string{
		"WEB-INF/web.xml": read("graphs.xml"),
		"graph/index.jsp": "graphs",
		"index.jsp":       "graphs index",
	})

	m := &Merger{
		PrimaryWar: "org.opennms:opennms-web",
		OutputDir:  filepath.Join(dir, "target"),
		ArtifactID: "opennms-webapp",
		Version:    "1.8.0",
	}
	out, err := m.Merge(context.Background(), wars)
	if err != nil {
		t.Fatalf("Merge: unexpected error: %v", err)
	}

	got := make(map[string]string)
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	err = archive.Scan(f, out, func(e archive.Entry, err error, r io.Reader) error {
		if err != nil || e.IsDir() {
			return err
		}
		data, err := io.ReadAll(r)
		got[e.Name] = string(data)
		return err
	})
	if err != nil {
		t.Fatalf("Scanning %s: %v", out, err)
	}

	if diff := testutil.LineDiff(read("merged.xml"), got["WEB-INF/web.xml"]); diff != "" {
		t.Errorf("Merged web.xml: (-want +got)\n%s", diff)
	}
	delete(got, "WEB-INF/web.xml")
	want := map[string]string{
		"index.jsp":               "graphs index", // later archives overwrite
		"WEB-INF/lib/core.jar":    "core",
		"WEB-INF/lib/reports.jar": "reports",
		"css/styles.css":          "body {}",
		"reports/index.jsp":       "reports",
		"graph/index.jsp":         "graphs",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Merged war contents: (-want +got)\n%s", diff)
	}
}

func TestMergeSelfIdentity(t *testing.T) {
	captureLog(t, false)
	dir := t.TempDir()
	const desc = "<?xml version=\"1.0\"?>\r\n<web-app>\r\n  <display-name>solo</display-name>\r\n</web-app>"
	solo := maven.Artifact{GroupID: "g", ArtifactID: "solo", Type: "war", File: filepath.Join(dir, "solo.war")}
	buildWar(t, solo.File, map[string]string{"WEB-INF/web.xml": desc})

	m := &Merger{PrimaryWar: "g:solo", OutputDir: filepath.Join(dir, "out"), ArtifactID: "solo", Version: "2"}
	if _, err := m.Merge(context.Background(), []maven.Artifact{solo}); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	merged := filepath.Join(m.OutputDir, WorkDirName, "WEB-INF", "web.xml")
	if got := string(testutil.MustReadFile(t, merged)); got != desc {
		t.Errorf("Merged descriptor: got %q, want %q", got, desc)
	}
}
