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

// Package gwt launches the Google Web Toolkit compiler, hosted-mode shell
// and JUnit test runner as java subprocesses with a classpath assembled from
// the project layout and its dependencies.
package gwt // import "mojo.io/mojo/go/platform/gwt"

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"bitbucket.org/creachadair/stringset"

	"mojo.io/mojo/go/util/log"
	"mojo.io/mojo/go/util/maven"
)

// ErrNoGWTDirectory is returned by goals that need a GWT installation when
// none is configured.
var ErrNoGWTDirectory = errors.New("gwt directory is not set")

// Entry point classes.
const (
	CompilerClass = "com.google.gwt.dev.GWTCompiler"
	ShellClass    = "com.google.gwt.dev.GWTShell"
	JUnitRunner   = "junit.textui.TestRunner"
)

const gwtGroupID = "com.google.gwt"

// isMac reports whether the JVM needs -XstartOnFirstThread for SWT.
var isMac = runtime.GOOS == "darwin"

// Config describes the project being compiled and the GWT installation.
type Config struct {
	SourceDir     string
	ClassDir      string
	TestSourceDir string
	TestClassDir  string
	OutputDir     string

	ModuleName string
	HomePage   string

	// GWTDir is the GWT installation directory. Its jars must be referenced
	// in place so the native libraries beside them can be loaded.
	GWTDir string

	// Properties are passed to the JVM as -Dkey=value.
	Properties map[string]string

	// PathElements are extra classpath entries.
	PathElements []string

	ProjectArtifacts []maven.Artifact
	PluginArtifacts  []maven.Artifact

	// Java is the java executable; the default is "java".
	Java string
}

// ConfigFromProject returns a Config populated from the layout and
// dependencies of p. The output directory defaults to
// <build directory>/<final name>.
func ConfigFromProject(p *maven.Project) Config {
	return Config{
		SourceDir:        p.Build.SourceDirectory,
		ClassDir:         p.Build.OutputDirectory,
		TestSourceDir:    p.Build.TestSourceDirectory,
		TestClassDir:     p.Build.TestOutputDirectory,
		OutputDir:        filepath.Join(p.Build.Directory, p.Build.FinalName),
		ProjectArtifacts: p.Artifacts,
		PluginArtifacts:  p.PluginArtifacts,
	}
}

// Classpath returns the classpath entries in precedence order: the source
// and class directories, then (for tests) the test source and test class
// directories, the configured path elements, the non-provided non-GWT
// project and plugin dependencies, and finally the GWT jars. Duplicate
// entries are dropped, keeping the first.
//
// The GWT jars are those of the GWT directory, excluding servlet jars,
// unless gwtFromPlugin is set, in which case they are the com.google.gwt
// plugin dependencies.
func (c *Config) Classpath(test, gwtFromPlugin bool) ([]string, error) {
	var (
		seen = stringset.New()
		cp   []string
	)
	add := func(entry string) {
		if entry == "" || seen.Contains(entry) {
			return
		}
		seen.Add(entry)
		cp = append(cp, entry)
	}

	add(abs(c.SourceDir))
	add(abs(c.ClassDir))
	if test {
		add(abs(c.TestSourceDir))
		add(abs(c.TestClassDir))
	}
	for _, p := range c.PathElements {
		add(p)
	}
	for _, a := range append(append([]maven.Artifact(nil), c.ProjectArtifacts...), c.PluginArtifacts...) {
		if a.File != "" && !strings.EqualFold(a.Scope, maven.ScopeProvided) && a.GroupID != gwtGroupID {
			log.Debugf("Dependency %s (%s)", a, a.File)
			add(abs(a.File))
		}
	}

	if gwtFromPlugin {
		for _, a := range c.PluginArtifacts {
			if a.File != "" && a.GroupID == gwtGroupID {
				add(abs(a.File))
			}
		}
	} else if c.GWTDir != "" {
		jars, err := c.gwtJars()
		if err != nil {
			return nil, err
		}
		for _, jar := range jars {
			log.Debugf("GWT directory jar %s", jar)
			add(jar)
		}
	}
	return cp, nil
}

// gwtJars returns the non-servlet jars in the GWT directory, sorted by name.
func (c *Config) gwtJars() ([]string, error) {
	entries, err := os.ReadDir(c.GWTDir)
	if err != nil {
		return nil, fmt.Errorf("reading gwt directory: %v", err)
	}
	var jars []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasSuffix(name, ".jar") && !strings.Contains(name, "servlet") {
			jars = append(jars, filepath.Join(abs(c.GWTDir), name))
		}
	}
	sort.Strings(jars)
	return jars, nil
}

func (c *Config) java() string {
	if c.Java == "" {
		return "java"
	}
	return c.Java
}

// jvmArgs returns the java executable and options shared by every command.
func (c *Config) jvmArgs(cp []string) []string {
	argv := []string{c.java()}
	if isMac {
		argv = append(argv, "-XstartOnFirstThread")
	}
	argv = append(argv, "-cp", strings.Join(cp, string(os.PathListSeparator)))
	keys := make([]string, 0, len(c.Properties))
	for k := range c.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		argv = append(argv, "-D"+k+"="+c.Properties[k])
	}
	return argv
}

// CommandLine returns the command line running class with args followed by
// "-out <OutputDir> <target>".
func (c *Config) CommandLine(class, target string, args []string, gwtFromPlugin bool) ([]string, error) {
	cp, err := c.Classpath(false, gwtFromPlugin)
	if err != nil {
		return nil, err
	}
	argv := append(c.jvmArgs(cp), class)
	argv = append(argv, args...)
	return append(argv, "-out", abs(c.OutputDir), target), nil
}

// JUnitCommandLine returns the command line running testClass with the
// JUnit text runner, including the test directories in the classpath.
func (c *Config) JUnitCommandLine(testClass string) ([]string, error) {
	cp, err := c.Classpath(true, false)
	if err != nil {
		return nil, err
	}
	argv := c.jvmArgs(cp)
	if isMac {
		// The test runner is not an SWT application.
		argv = append(argv[:1], argv[2:]...)
	}
	return append(argv, JUnitRunner, testClass), nil
}

// A Launcher runs the GWT goals.
type Launcher struct {
	Config Config
	Runner Runner // nil means ExecRunner{}
}

func (l *Launcher) run(ctx context.Context, argv []string) error {
	r := l.Runner
	if r == nil {
		r = ExecRunner{}
	}
	return r.Run(ctx, argv)
}

// Compile runs the GWT compiler over the configured module. The GWT jars
// come from the plugin dependencies.
func (l *Launcher) Compile(ctx context.Context) error {
	if l.Config.ModuleName == "" {
		return errors.New("gwt compile: module name is not set")
	}
	argv, err := l.Config.CommandLine(CompilerClass, l.Config.ModuleName, []string{"-style", "PRETTY"}, true)
	if err != nil {
		return err
	}
	return l.run(ctx, argv)
}

// Shell runs the hosted-mode shell on <module>/<home page>. The GWT
// directory must contain a gwt-dev jar.
func (l *Launcher) Shell(ctx context.Context) error {
	c := &l.Config
	if c.ModuleName == "" {
		return errors.New("gwt shell: module name is not set")
	}
	if c.GWTDir == "" {
		return fmt.Errorf("gwt shell: %w", ErrNoGWTDirectory)
	}
	jars, err := c.gwtJars()
	if err != nil {
		return err
	}
	found := false
	for _, jar := range jars {
		if strings.HasPrefix(filepath.Base(jar), "gwt-dev") {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("gwt directory %s does not contain the gwt-dev jar needed to run the shell", c.GWTDir)
	}
	argv, err := c.CommandLine(ShellClass, c.ModuleName+"/"+c.HomePage, nil, false)
	if err != nil {
		return err
	}
	return l.run(ctx, argv)
}

// Test runs testClass under the JUnit text runner.
func (l *Launcher) Test(ctx context.Context, testClass string) error {
	if l.Config.GWTDir == "" {
		return fmt.Errorf("gwt test: %w", ErrNoGWTDirectory)
	}
	if testClass == "" {
		return errors.New("gwt test: test class is not set")
	}
	argv, err := l.Config.JUnitCommandLine(testClass)
	if err != nil {
		return err
	}
	return l.run(ctx, argv)
}

func abs(path string) string {
	if path == "" {
		return ""
	}
	if a, err := filepath.Abs(path); err == nil {
		return a
	}
	return path
}
