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

// Package warmergecmd provides the mojo goal merging web archives.
package warmergecmd // import "mojo.io/mojo/go/platform/tools/mojo/warmergecmd"

import (
	"context"
	"flag"
	"fmt"

	"mojo.io/mojo/go/platform/tools/mojo/flags"
	"mojo.io/mojo/go/platform/warmerge"
	"mojo.io/mojo/go/util/cmdutil"
	"mojo.io/mojo/go/util/maven"

	"github.com/google/subcommands"
)

type warmergeCommand struct {
	cmdutil.Info

	project    flags.Project
	wars       flags.ArtifactList
	primaryWar string
	outputDir  string
	workDir    string
	lenientEnd bool
}

// New creates a new subcommand for merging war files.
func New() subcommands.Command {
	return &warmergeCommand{
		Info: cmdutil.NewInfo("warmerge", "merge war files and their web.xml descriptors",
			`--primary_war groupId:artifactId [--project pom.xml] [--war coordinate=file]*

Merges the runtime war dependencies of the project, followed by any --war
archives it does not declare, into <output_dir>/<artifactId>-<version>-merged.war and prints its
path. The web.xml of the primary war is the template; the others contribute
the fragments delimited by WARMERGE begin/end markers.`),
	}
}

// SetFlags implements the subcommands interface and provides command-specific flags
// for merging war files.
func (c *warmergeCommand) SetFlags(fs *flag.FlagSet) {
	c.project.Register(fs)
	fs.Var(&c.wars, "war", "Additional war files as <coordinate>=<file> (repeatable)")
	fs.StringVar(&c.primaryWar, "primary_war", "", "groupId:artifactId of the war whose web.xml is the template (required)")
	fs.StringVar(&c.outputDir, "output_dir", "", "Directory receiving the merged war (default: the project build directory)")
	fs.StringVar(&c.workDir, "work_dir", "", "Working directory (default: <output_dir>/"+warmerge.WorkDirName+")")
	fs.BoolVar(&c.lenientEnd, "lenient_end", false, "Let an end marker in the primary descriptor close any skipped block")
}

// Execute implements the subcommands interface and merges the war files.
func (c *warmergeCommand) Execute(ctx context.Context, fs *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.primaryWar == "" {
		return c.UsageError("required --primary_war missing")
	}
	if fs.NArg() != 0 {
		return c.UsageError("unexpected arguments: %q", fs.Args())
	}
	proj, err := c.project.Load()
	if err != nil {
		return c.Fail("Error loading project: %v", err)
	}

	m := &warmerge.Merger{
		PrimaryWar: c.primaryWar,
		OutputDir:  c.outputDir,
		WorkDir:    c.workDir,
		ArtifactID: proj.ArtifactID,
		Version:    proj.Version,
	}
	if m.OutputDir == "" {
		m.OutputDir = proj.Build.Directory
	}
	if c.lenientEnd {
		m.Options = append(m.Options, warmerge.WithLenientEnd())
	}

	wars, err := c.warList(proj)
	if err != nil {
		return c.Fail("%v", err)
	}
	out, err := m.Merge(ctx, wars)
	if err != nil {
		return c.Fail("Error merging wars: %v", err)
	}
	fmt.Println(out)
	return subcommands.ExitSuccess
}

// warList returns the runtime war dependencies of proj followed by the wars
// named on the command line that proj does not declare. A --war entry for a
// declared dependency supplies its file. Command-line wars are typed "war"
// unless given a type. Every returned war must have a file.
func (c *warmergeCommand) warList(proj *maven.Project) ([]maven.Artifact, error) {
	var extra []maven.Artifact
	for _, a := range c.wars {
		if a.Type == "" {
			a.Type = "war"
		}
		extra = append(extra, a)
	}
	wars := maven.Select(maven.Resolve(proj.Artifacts, extra), maven.WarFilter)
	if err := maven.Unresolved("war dependencies (pass them with --war)", wars); err != nil {
		return nil, err
	}
	return wars, nil
}
