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

// Package assemblycmd provides the mojo goals building distribution
// archives from assembly descriptors.
package assemblycmd // import "mojo.io/mojo/go/platform/tools/mojo/assemblycmd"

import (
	"context"
	"flag"
	"fmt"

	"mojo.io/mojo/go/platform/assembly"
	"mojo.io/mojo/go/platform/tools/mojo/flags"
	"mojo.io/mojo/go/util/cmdutil"
	"mojo.io/mojo/go/util/flagutil"
	"mojo.io/mojo/go/util/maven"

	"github.com/google/subcommands"
)

type assemblyCommand struct {
	cmdutil.Info

	// fixedFormats, if set, replaces both the descriptor and --format
	// formats.
	fixedFormats []string

	project          flags.Project
	descriptors      flagutil.StringList
	artifacts        flags.ArtifactList
	formats          flagutil.StringList
	outputDir        string
	appendAssemblyID bool
}

const usage = `--descriptor assembly.xml [--project pom.xml]

Builds the archives described by each assembly descriptor and prints their
paths, one per line.`

// New creates a new subcommand building assemblies in the formats named by
// their descriptors.
func New() subcommands.Command {
	return &assemblyCommand{
		Info: cmdutil.NewInfo("assembly", "build distribution archives", usage),
	}
}

// NewTGZ creates a new subcommand building assemblies as tar.gz archives.
func NewTGZ() subcommands.Command {
	return &assemblyCommand{
		Info:         cmdutil.NewInfo("tgz", "build distribution archives as tar.gz", usage),
		fixedFormats: []string{"tar.gz"},
	}
}

// SetFlags implements the subcommands interface and provides command-specific flags
// for building assemblies.
func (c *assemblyCommand) SetFlags(fs *flag.FlagSet) {
	c.project.Register(fs)
	fs.Var(&c.descriptors, "descriptor", "Assembly descriptor paths (required; repeatable or CSV)")
	fs.Var(&c.artifacts, "artifact", "Dependency files as <coordinate>=<file> (repeatable); undeclared ones are added as dependencies")
	if c.fixedFormats == nil {
		fs.Var(&c.formats, "format", "Archive formats replacing those of the descriptors (CSV)")
	}
	fs.StringVar(&c.outputDir, "output_dir", "", "Directory receiving the archives (default: the project build directory)")
	fs.BoolVar(&c.appendAssemblyID, "append_assembly_id", true, "Append -<id> to the archive names")
}

// Execute implements the subcommands interface and builds the assemblies.
func (c *assemblyCommand) Execute(ctx context.Context, fs *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if len(c.descriptors) == 0 {
		return c.UsageError("required --descriptor missing")
	}
	if fs.NArg() != 0 {
		return c.UsageError("unexpected arguments: %q", fs.Args())
	}
	proj, err := c.project.Load()
	if err != nil {
		return c.Fail("Error loading project: %v", err)
	}
	proj.Artifacts = maven.Resolve(proj.Artifacts, c.artifacts)

	a := &assembly.Assembler{
		Project:          proj,
		OutputDir:        c.outputDir,
		Formats:          c.formats,
		AppendAssemblyID: c.appendAssemblyID,
	}
	if c.fixedFormats != nil {
		a.Formats = c.fixedFormats
	}
	for _, path := range c.descriptors {
		d, err := assembly.ReadDescriptor(path)
		if err != nil {
			return c.Fail("Error reading descriptor: %v", err)
		}
		paths, err := a.Assemble(ctx, d)
		if err != nil {
			return c.Fail("Error building assembly %q: %v", d.ID, err)
		}
		for _, p := range paths {
			fmt.Println(p)
		}
	}
	return subcommands.ExitSuccess
}
