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

package gwt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"bitbucket.org/creachadair/shell"

	"mojo.io/mojo/go/util/log"
)

// A Runner executes a command line.
type Runner interface {
	Run(ctx context.Context, argv []string) error
}

// ExecRunner runs commands as subprocesses. Standard output is logged at
// info level and standard error as warnings, line by line.
type ExecRunner struct {
	// Dir is the working directory; empty means the current directory.
	Dir string
}

// Run implements the Runner interface.
func (r ExecRunner) Run(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return errors.New("empty command line")
	}
	log.DebugContextf(ctx, "Running %s", shell.Join(argv))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.Dir
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %v", argv[0], err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); pump(stdout, func(args ...any) { log.InfoContext(ctx, args...) }) }()
	go func() { defer wg.Done(); pump(stderr, func(args ...any) { log.WarningContext(ctx, args...) }) }()
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("toolkit execution returned: '%d'", exitErr.ExitCode())
		}
		return err
	}
	return nil
}

func pump(r io.Reader, emit func(...any)) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for s.Scan() {
		emit(s.Text())
	}
}
