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
	"archive/tar"
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bitbucket.org/creachadair/stringset"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"mojo.io/mojo/go/util/log"
)

// A Writer builds an archive at a destination path. The format is chosen by
// the destination's extension, as for Scan, except that .tar.bz2 cannot be
// written. The archive is assembled in a temporary file beside the
// destination and only renamed into place by Close, so a failed or aborted
// write leaves no partial output.
//
// Entry names are slash-separated. The first entry added under a given name
// wins; later additions of the same name are skipped.
type Writer struct {
	dest string
	tmp  *os.File

	zw   *zip.Writer
	tw   *tar.Writer
	comp io.WriteCloser // gzip or zstd stream under tw, if any

	seen stringset.Set
}

// NewWriter creates a Writer for the archive at dest.
func NewWriter(dest string) (*Writer, error) {
	format, compression := parsePath(dest)
	if format == "" || compression == ".bz2" {
		return nil, fmt.Errorf("%s: %w", dest, ErrNotArchive)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*")
	if err != nil {
		return nil, err
	}

	w := &Writer{dest: dest, tmp: tmp, seen: stringset.New()}
	switch format {
	case ".zip":
		w.zw = zip.NewWriter(tmp)
	case ".tar":
		var out io.Writer = tmp
		switch compression {
		case ".gz":
			w.comp = gzip.NewWriter(tmp)
			out = w.comp
		case ".zst":
			enc, err := zstd.NewWriter(tmp)
			if err != nil {
				w.Abort()
				return nil, fmt.Errorf("archive: opening zstd writer: %v", err)
			}
			w.comp = enc
			out = enc
		}
		w.tw = tar.NewWriter(out)
	}
	return w, nil
}

// Path returns the destination path of the archive.
func (w *Writer) Path() string { return w.dest }

// Contains reports whether an entry with the given name has been added.
func (w *Writer) Contains(name string) bool {
	return w.seen.Contains(cleanName(name))
}

// claim records name as written, reporting false if it already was.
func (w *Writer) claim(name string) bool {
	if w.seen.Contains(name) {
		log.Debugf("Skipping duplicate archive entry %q in %s", name, w.dest)
		return false
	}
	w.seen.Add(name)
	return true
}

// AddDir adds a directory entry.
func (w *Writer) AddDir(name string, modTime time.Time) error {
	name = cleanName(name)
	if name == "" || !w.claim(name) {
		return nil
	}
	if w.zw != nil {
		hdr := &zip.FileHeader{Name: name + "/", Method: zip.Store, Modified: modTime}
		hdr.SetMode(fs.ModeDir | 0755)
		_, err := w.zw.CreateHeader(hdr)
		return err
	}
	return w.tw.WriteHeader(&tar.Header{
		Typeflag: tar.TypeDir,
		Name:     name + "/",
		Mode:     0755,
		ModTime:  modTime,
	})
}

// AddFile adds the contents of the local file src under name. If mode is
// zero, the permission bits of src are used.
func (w *Writer) AddFile(name, src string, mode fs.FileMode) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return err
	}
	if mode == 0 {
		mode = fi.Mode().Perm()
	}
	return w.add(name, f, fi.Size(), mode, fi.ModTime())
}

// AddBytes adds data under name.
func (w *Writer) AddBytes(name string, data []byte, mode fs.FileMode, modTime time.Time) error {
	if mode == 0 {
		mode = 0644
	}
	return w.add(name, bytes.NewReader(data), int64(len(data)), mode, modTime)
}

func (w *Writer) add(name string, r io.Reader, size int64, mode fs.FileMode, modTime time.Time) error {
	name = cleanName(name)
	if name == "" || strings.HasPrefix(name, "../") || name == ".." {
		return fmt.Errorf("invalid archive entry name %q", name)
	}
	if !w.claim(name) {
		return nil
	}
	if w.zw != nil {
		hdr := &zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modTime}
		hdr.SetMode(mode.Perm())
		out, err := w.zw.CreateHeader(hdr)
		if err != nil {
			return err
		}
		_, err = io.Copy(out, r)
		return err
	}
	if err := w.tw.WriteHeader(&tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Size:     size,
		Mode:     int64(mode.Perm()),
		ModTime:  modTime,
	}); err != nil {
		return err
	}
	_, err := io.Copy(w.tw, r)
	return err
}

// AddTree adds the contents of the local directory root, excluding root
// itself, under the archive directory prefix ("" for the archive root).
// Entries are added in lexical order.
func (w *Writer) AddTree(root, prefix string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		name := joinName(prefix, filepath.ToSlash(rel))
		switch {
		case d.IsDir():
			fi, err := d.Info()
			if err != nil {
				return err
			}
			return w.AddDir(name, fi.ModTime())
		case d.Type().IsRegular():
			return w.AddFile(name, path, 0)
		}
		return nil
	})
}

// Close finishes the archive and moves it into place at its destination.
func (w *Writer) Close() error {
	var err error
	if w.zw != nil {
		err = w.zw.Close()
	} else {
		err = w.tw.Close()
		if w.comp != nil {
			if cerr := w.comp.Close(); err == nil {
				err = cerr
			}
		}
	}
	if cerr := w.tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(w.tmp.Name(), w.dest)
	}
	if err != nil {
		os.Remove(w.tmp.Name())
		return fmt.Errorf("writing %s: %v", w.dest, err)
	}
	return nil
}

// Abort discards the archive. The destination is left untouched.
func (w *Writer) Abort() error {
	w.tmp.Close()
	return os.Remove(w.tmp.Name())
}

// Create writes the contents of sourceDir, excluding sourceDir itself, into
// a new archive at dest. Directory entries carry a trailing slash and the
// modification time of the directory.
func Create(sourceDir, dest string) error {
	w, err := NewWriter(dest)
	if err != nil {
		return err
	}
	if err := w.AddTree(sourceDir, ""); err != nil {
		w.Abort()
		return fmt.Errorf("archiving %s: %v", sourceDir, err)
	}
	return w.Close()
}

func joinName(prefix, name string) string {
	prefix = strings.Trim(cleanName(prefix), "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// FileArchiver unpacks and packs archives on the local filesystem.
type FileArchiver struct{}

// Extract implements part of the warmerge.Archiver interface. See Extract.
func (FileArchiver) Extract(archive, entryPath, destDir string) ([]byte, error) {
	return Extract(archive, entryPath, destDir)
}

// CreateArchive implements part of the warmerge.Archiver interface. See Create.
func (FileArchiver) CreateArchive(sourceDir, destArchive string) error {
	return Create(sourceDir, destArchive)
}
