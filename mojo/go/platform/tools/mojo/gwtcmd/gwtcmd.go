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

// Package gwtcmd provides the mojo goals running the Google Web Toolkit.
package gwtcmd // import "mojo.io/mojo/go/platform/tools/mojo/gwtcmd"

import (
	"context"
	"errors"
	"flag"

	"mojo.io/mojo/go/platform/gwt"
	"mojo.io/mojo/go/platform/tools/mojo/flags"
	"mojo.io/mojo/go/util/cmdutil"
	"mojo.io/mojo/go/util/flagutil"

	"github.com/google/subcommands"
)

type goal int

const (
	compileGoal goal = iota
	shellGoal
	testGoal
)

type gwtCommand struct {
	cmdutil.Info
	goal goal

	project    flags.Project
	gwtDir     string
	module     string
	homePage   string
	outputDir  string
	java       string
	testClass  string
	paths      flagutil.StringList
	properties flagutil.StringMap
	plugins    flags.ArtifactList
}

// NewCompile creates a new subcommand compiling a GWT module to JavaScript.
func NewCompile() subcommands.Command {
	return &gwtCommand{
		Info: cmdutil.NewInfo("gwt-compile", "compile a GWT module",
			"--module name [--project pom.xml] [--plugin coordinate=file]*"),
		goal: compileGoal,
	}
}

// NewShell creates a new subcommand running a GWT module in hosted mode.
func NewShell() subcommands.Command {
	return &gwtCommand{
		Info: cmdutil.NewInfo("gwt-shell", "run a GWT module in the hosted-mode shell",
			"--module name --gwt_dir dir [--home_page page] [--project pom.xml]"),
		goal: shellGoal,
	}
}

// NewTest creates a new subcommand running a GWT JUnit test.
func NewTest() subcommands.Command {
	return &gwtCommand{
		Info: cmdutil.NewInfo("gwt-test", "run a GWT JUnit test",
			"--test_class name --gwt_dir dir [--project pom.xml]"),
		goal: testGoal,
	}
}

// SetFlags implements the subcommands interface and provides command-specific flags
// for running the toolkit.
func (c *gwtCommand) SetFlags(fs *flag.FlagSet) {
	c.project.Register(fs)
	fs.StringVar(&c.gwtDir, "gwt_dir", "", "GWT installation directory")
	fs.StringVar(&c.outputDir, "output_dir", "", "Output directory (default: <build directory>/<final name>)")
	fs.StringVar(&c.java, "java", "java", "Java executable")
	fs.Var(&c.paths, "path", "Additional classpath entries (CSV)")
	fs.Var(&c.properties, "D", "JVM system properties as key=value (repeatable)")
	fs.Var(&c.plugins, "plugin", "Plugin dependencies as <coordinate>=<file> (repeatable)")
	switch c.goal {
	case testGoal:
		fs.StringVar(&c.testClass, "test_class", "", "JUnit test class to run (required)")
	default:
		fs.StringVar(&c.module, "module", "", "GWT module name (required)")
	}
	if c.goal == shellGoal {
		fs.StringVar(&c.homePage, "home_page", "index.html", "Page to open in the shell")
	}
}

// Execute implements the subcommands interface and runs the toolkit.
func (c *gwtCommand) Execute(ctx context.Context, fs *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if fs.NArg() != 0 {
		return c.UsageError("unexpected arguments: %q", fs.Args())
	}
	switch {
	case c.goal == testGoal && c.testClass == "":
		return c.UsageError("required --test_class missing")
	case c.goal != testGoal && c.module == "":
		return c.UsageError("required --module missing")
	}
	proj, err := c.project.Load()
	if err != nil {
		return c.Fail("Error loading project: %v", err)
	}

	l := &gwt.Launcher{Config: c.config(gwt.ConfigFromProject(proj))}
	switch c.goal {
	case compileGoal:
		err = l.Compile(ctx)
	case shellGoal:
		err = l.Shell(ctx)
	case testGoal:
		err = l.Test(ctx, c.testClass)
	}
	if errors.Is(err, gwt.ErrNoGWTDirectory) {
		return c.UsageError("%v; set --gwt_dir", err)
	} else if err != nil {
		return c.Fail("%v", err)
	}
	return subcommands.ExitSuccess
}

// config applies the command-line settings to cfg.
func (c *gwtCommand) config(cfg gwt.Config) gwt.Config {
	cfg.GWTDir = c.gwtDir
	cfg.ModuleName = c.module
	cfg.HomePage = c.homePage
	cfg.Java = c.java
	cfg.PathElements = c.paths
	cfg.Properties = c.properties
	cfg.PluginArtifacts = append(cfg.PluginArtifacts, c.plugins...)
	if c.outputDir != "" {
		cfg.OutputDir = c.outputDir
	}
	return cfg
}
