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
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"mojo.io/mojo/go/util/archive"
	"mojo.io/mojo/go/util/log"
	"mojo.io/mojo/go/util/maven"
)

// DescriptorPath is the archive path of the deployment descriptor.
const DescriptorPath = "WEB-INF/web.xml"

// WorkDirName is the default working directory name beneath the output
// directory.
const WorkDirName = "warmerge-temp"

// ErrNoPrimaryWar is returned by Merge when no input archive matches the
// configured primary id.
var ErrNoPrimaryWar = errors.New("no war file matched the primary war")

// ErrDuplicatePrimaryWar is returned by Merge when more than one input
// archive matches the configured primary id.
var ErrDuplicatePrimaryWar = errors.New("more than one war file matched the primary war")

// ErrUnsafeWorkDir is returned by Merge when the working directory is the
// output directory or contains it.
var ErrUnsafeWorkDir = errors.New("work directory must not contain the output directory")

// An Archiver unpacks and packs web archives.
type Archiver interface {
	// Extract unpacks archive into destDir, except for entryPath whose
	// contents are returned. It returns an error wrapping
	// archive.ErrEntryNotFound if entryPath is absent.
	Extract(archive, entryPath, destDir string) ([]byte, error)

	// CreateArchive packs the contents of sourceDir into destArchive.
	CreateArchive(sourceDir, destArchive string) error
}

// A Merger combines web archives into one, merging their descriptors.
type Merger struct {
	// Archiver performs archive I/O; nil means archive.FileArchiver.
	Archiver Archiver

	// PrimaryWar is the groupId:artifactId of the archive whose descriptor
	// is the template.
	PrimaryWar string

	// OutputDir receives the merged archive.
	OutputDir string

	// WorkDir is where the archives are unpacked and merged. The default is
	// OutputDir/warmerge-temp. Any existing contents are removed, so it
	// must not be OutputDir or one of its ancestors.
	WorkDir string

	// ArtifactID and Version name the merged archive:
	// <ArtifactID>-<Version>-merged.war.
	ArtifactID, Version string

	// Options are passed to Compose.
	Options []Option
}

func (m *Merger) archiver() Archiver {
	if m.Archiver == nil {
		return archive.FileArchiver{}
	}
	return m.Archiver
}

func (m *Merger) workDir() string {
	if m.WorkDir != "" {
		return m.WorkDir
	}
	return filepath.Join(m.OutputDir, WorkDirName)
}

// OutputPath returns the path of the merged archive.
func (m *Merger) OutputPath() string {
	return filepath.Join(m.OutputDir, m.ArtifactID+"-"+m.Version+"-merged.war")
}

// Merge unpacks each of wars, in order, into the working directory, merges
// their descriptors into the primary one and packs the result as the merged
// archive, whose path is returned. Fragments are contributed in the order of
// wars. Exactly one of wars must match the primary id, and the working
// directory must not be the output directory or contain it. The working
// directory is removed if the merge fails.
func (m *Merger) Merge(ctx context.Context, wars []maven.Artifact) (_ string, err error) {
	switch n := countPrimary(wars, m.PrimaryWar); {
	case n == 0:
		return "", errors.Wrapf(ErrNoPrimaryWar, "%q did not match any of %d war files", m.PrimaryWar, len(wars))
	case n > 1:
		return "", errors.Wrapf(ErrDuplicatePrimaryWar, "%q matched %d war files", m.PrimaryWar, n)
	}

	work := m.workDir()
	if err := checkWorkDir(work, m.OutputDir); err != nil {
		return "", err
	}
	if err := os.RemoveAll(work); err != nil {
		return "", errors.Wrapf(err, "cleaning work directory %s", work)
	}
	if err := os.MkdirAll(work, 0755); err != nil {
		return "", errors.Wrapf(err, "creating work directory %s", work)
	}
	defer func() {
		if err != nil {
			if rerr := os.RemoveAll(work); rerr != nil {
				log.WarningContextf(ctx, "Removing %s: %v", work, rerr)
			}
		}
	}()

	var (
		ar      = m.archiver()
		frags   = NewFragments()
		primary string
	)
	for _, war := range wars {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if war.File == "" {
			return "", errors.Errorf("war %s has no file", war)
		}
		log.DebugContextf(ctx, "WARMERGE: processing WAR file: %s", war.File)
		data, err := ar.Extract(war.File, DescriptorPath, work)
		if errors.Is(err, archive.ErrEntryNotFound) {
			log.WarningContextf(ctx, "WARMERGE: %s has no %s", war.File, DescriptorPath)
		} else if err != nil {
			return "", errors.Wrapf(err, "unable to access %s as a war file", war.File)
		}
		text := string(data)
		frags.AddAll(Extract(text))
		if war.Key() == m.PrimaryWar {
			primary = text
		}
	}

	opts := append([]Option{WithPrimary(m.PrimaryWar)}, m.Options...)
	merged := Compose(primary, frags, opts...)

	desc := filepath.Join(work, filepath.FromSlash(DescriptorPath))
	if err := os.MkdirAll(filepath.Dir(desc), 0755); err != nil {
		return "", errors.Wrapf(err, "unable to write new %s", desc)
	}
	if err := os.WriteFile(desc, []byte(merged), 0644); err != nil {
		return "", errors.Wrapf(err, "unable to write new %s", desc)
	}

	out := m.OutputPath()
	if err := ar.CreateArchive(work, out); err != nil {
		return "", errors.Wrapf(err, "unable to write war file %s", out)
	}
	log.InfoContextf(ctx, "WARMERGE: merged %d war files into %s", len(wars), out)
	return out, nil
}

func countPrimary(wars []maven.Artifact, id string) int {
	var n int
	for _, war := range wars {
		if war.Key() == id {
			n++
		}
	}
	return n
}

// checkWorkDir rejects a work directory that is outDir or one of its
// ancestors, since the work directory is wiped and then archived whole.
func checkWorkDir(work, outDir string) error {
	w, err := filepath.Abs(work)
	if err != nil {
		return errors.Wrapf(err, "resolving work directory %s", work)
	}
	o, err := filepath.Abs(outDir)
	if err != nil {
		return errors.Wrapf(err, "resolving output directory %s", outDir)
	}
	if rel, err := filepath.Rel(w, o); err == nil && (rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))) {
		return errors.Wrapf(ErrUnsafeWorkDir, "work directory %s, output directory %s", work, outDir)
	}
	return nil
}
