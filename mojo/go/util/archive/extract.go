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

package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrEntryNotFound is returned by Extract when the requested entry is not
// present in the archive. The remaining entries have still been unpacked.
var ErrEntryNotFound = errors.New("entry not found in archive")

// Extract unpacks the archive at archivePath into destDir, except for the
// entry named entryPath (matched case-insensitively), whose contents are
// returned instead of being written. Entries whose names would resolve
// outside destDir are rejected. Existing files in destDir are overwritten.
func Extract(archivePath, entryPath, destDir string) ([]byte, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	want := cleanName(entryPath)
	var data []byte
	found := false
	err = Scan(f, archivePath, func(e Entry, err error, r io.Reader) error {
		if err != nil {
			return fmt.Errorf("reading %q: %v", e.Name, err)
		}
		name := cleanName(e.Name)
		if name == "" {
			return nil
		}
		if !e.IsDir() && want != "" && strings.EqualFold(name, want) {
			found = true
			data, err = io.ReadAll(r)
			return err
		}
		target, err := securePath(destDir, name)
		if err != nil {
			return err
		}
		if e.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		return writeEntry(target, e, r)
	})
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", archivePath, err)
	}
	if !found {
		return nil, fmt.Errorf("%s: %w: %s", archivePath, ErrEntryNotFound, entryPath)
	}
	return data, nil
}

func writeEntry(target string, e Entry, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	mode := e.Mode.Perm()
	if mode == 0 {
		mode = 0644
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if !e.ModTime.IsZero() {
		return os.Chtimes(target, e.ModTime, e.ModTime)
	}
	return nil
}

// cleanName normalizes an archive entry name to a relative slash-separated
// path, or "" for the archive root. Leading ".." elements are kept so that
// securePath can reject them.
func cleanName(name string) string {
	name = strings.TrimLeft(strings.ReplaceAll(name, `\`, "/"), "/")
	if name = path.Clean(name); name == "." {
		return ""
	}
	return name
}

// securePath joins a cleaned entry name to dir, reporting an error if the
// result is not contained in dir.
func securePath(dir, name string) (string, error) {
	target := filepath.Join(dir, filepath.FromSlash(name))
	rel, err := filepath.Rel(dir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("entry %q escapes the destination directory", name)
	}
	return target, nil
}
