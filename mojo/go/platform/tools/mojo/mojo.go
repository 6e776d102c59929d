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

// Binary mojo runs build goals for Maven-style projects: merging web
// archives, building distribution archives, generating Karaf features
// descriptors and running the Google Web Toolkit.
//
// Examples:
//
//	# Merge the war dependencies of a project into one war.
//	mojo warmerge --project pom.xml --primary_war org.example:webapp \
//	  --war org.example:webapp:1.0=webapp-1.0.war \
//	  --war org.example:reports:1.0=reports-1.0.war
//
//	# Build the archives described by an assembly descriptor.
//	mojo assembly --descriptor src/main/assembly/bin.xml
package main

import (
	"context"
	"flag"
	"os"

	"mojo.io/mojo/go/platform/tools/mojo/assemblycmd"
	"mojo.io/mojo/go/platform/tools/mojo/featurescmd"
	"mojo.io/mojo/go/platform/tools/mojo/gwtcmd"
	"mojo.io/mojo/go/platform/tools/mojo/warmergecmd"
	"mojo.io/mojo/go/util/log"

	"github.com/google/subcommands"
)

var verbose = flag.Bool("verbose", false, "Enable debug logging")

func init() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(warmergecmd.New(), "web archives")
	subcommands.Register(assemblycmd.New(), "assemblies")
	subcommands.Register(assemblycmd.NewTGZ(), "assemblies")
	subcommands.Register(featurescmd.New(), "karaf")
	subcommands.Register(gwtcmd.NewCompile(), "gwt")
	subcommands.Register(gwtcmd.NewShell(), "gwt")
	subcommands.Register(gwtcmd.NewTest(), "gwt")
}

func main() {
	flag.Parse()
	log.SetVerbose(*verbose)
	ctx := context.Background()

	os.Exit(int(subcommands.Execute(ctx)))
}
