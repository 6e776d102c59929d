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

// Package featurescmd provides the mojo goal generating Karaf features
// descriptors.
package featurescmd // import "mojo.io/mojo/go/platform/tools/mojo/featurescmd"

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"

	"mojo.io/mojo/go/platform/karaf"
	"mojo.io/mojo/go/platform/tools/mojo/flags"
	"mojo.io/mojo/go/util/cmdutil"
	"mojo.io/mojo/go/util/log"

	"github.com/google/subcommands"
)

type featuresCommand struct {
	cmdutil.Info

	project    flags.Project
	definition string
	output     string
}

// New creates a new subcommand for generating a features.xml file.
func New() subcommands.Command {
	return &featuresCommand{
		Info: cmdutil.NewInfo("features", "generate a Karaf features descriptor",
			"--definition features.yaml [--project pom.xml] [--output path|-]"),
	}
}

// SetFlags implements the subcommands interface and provides command-specific flags
// for generating features descriptors.
func (c *featuresCommand) SetFlags(fs *flag.FlagSet) {
	c.project.Register(fs)
	fs.StringVar(&c.definition, "definition", "", "Path to the YAML features definition (required)")
	fs.StringVar(&c.output, "output", "", `Output path, or "-" for stdout (default: <build directory>/features.xml)`)
}

// Execute implements the subcommands interface and writes the features descriptor.
func (c *featuresCommand) Execute(ctx context.Context, fs *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.definition == "" {
		return c.UsageError("required --definition missing")
	}
	proj, err := c.project.Load()
	if err != nil {
		return c.Fail("Error loading project: %v", err)
	}
	def, err := karaf.LoadDefinition(c.definition)
	if err != nil {
		return c.Fail("Error loading definition: %v", err)
	}

	var buf bytes.Buffer
	if err := karaf.Generate(&buf, proj, def); err != nil {
		return c.Fail("Error generating features: %v", err)
	}
	if c.output == "-" {
		if _, err := os.Stdout.Write(buf.Bytes()); err != nil {
			return c.Fail("Error writing features: %v", err)
		}
		return subcommands.ExitSuccess
	}

	out := c.output
	if out == "" {
		out = filepath.Join(proj.Build.Directory, "features.xml")
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return c.Fail("Error creating output directory: %v", err)
	}
	if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
		return c.Fail("Error writing features: %v", err)
	}
	log.Infof("Wrote features descriptor %s", out)
	return subcommands.ExitSuccess
}
