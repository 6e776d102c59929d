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

// Package archive reads, unpacks and writes the archive formats produced and
// consumed by the build goals: .zip (and the .jar/.war/.ear variants) and
// .tar with optional gzip, bzip2 or zstd compression.
package archive // import "mojo.io/mojo/go/util/archive"

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// File defines the input capabilities needed to scan an archive file.
type File interface {
	io.Closer
	io.Reader
	io.ReaderAt
	io.Seeker
}

// ErrNotArchive is returned by Scan when passed a file it does not recognize
// as a readable archive.
var ErrNotArchive = errors.New("not a supported archive file")

// An Entry describes one member of an archive.
type Entry struct {
	Name    string // slash-separated, as encoded in the archive
	Mode    fs.FileMode
	ModTime time.Time
}

// IsDir reports whether e is a directory entry.
func (e Entry) IsDir() bool { return e.Mode.IsDir() }

// A ScanFunc is invoked by the Scan function for each entry found in the
// specified archive. The arguments are the entry header, and either an error
// or a reader positioned at the beginning of the entry's contents. Directory
// entries have empty contents.
//
// Any error returned by the ScanFunc is propagated to the caller of Scan,
// terminating the traversal of the archive.  The callback may choose to ignore
// err, in which case the error is ignored and scanning continues.
type ScanFunc func(entry Entry, err error, r io.Reader) error

// Scan sequentially scans the contents of an archive and invokes f for each
// entry found. If f returns an error, scanning stops and that error is
// returned to the caller of Scan. The path is used to determine what type of
// archive is referred to by file. If the type is not known, it returns
// ErrNotArchive.
//
// The supported archive formats are:
//
//	.zip     -- ZIP archive (also .ZIP, .jar, .war, .ear)
//	.tar     -- uncompressed tar
//	.tar.gz  -- gzip-compressed tar (also .tgz)
//	.tar.bz2 -- bzip2-compressed tar
//	.tar.zst -- zstd-compressed tar
//
// Scan only invokes f for regular files and directories; links and other
// special entries are skipped.
func Scan(file File, path string, f ScanFunc) error {
	format, compression := parsePath(path)
	switch format {
	case ".zip":
		size, err := file.Seek(0, io.SeekEnd)
		if err != nil {
			return fmt.Errorf("archive: finding ZIP file size: %v", err)
		}
		archive, err := zip.NewReader(file, size)
		if err != nil && !(errors.Is(err, zip.ErrInsecurePath) && archive != nil) {
			return fmt.Errorf("archive: opening ZIP reader: %v", err)
		}

		for _, entry := range archive.File {
			info := entry.FileInfo()
			e := Entry{Name: entry.Name, Mode: info.Mode(), ModTime: entry.Modified}
			if !e.Mode.IsRegular() && !e.IsDir() {
				continue
			}
			rc, err := entry.Open()
			err = f(e, err, rc)
			if rc != nil {
				rc.Close()
			}
			if err != nil {
				return err
			}
		}

	case ".tar":
		r := io.Reader(file)
		switch compression {
		case ".gz":
			gz, err := gzip.NewReader(file)
			if err != nil {
				return fmt.Errorf("archive: opening gzip reader: %v", err)
			}
			defer gz.Close()
			r = gz
		case ".bz2":
			r = bzip2.NewReader(file)
		case ".zst":
			zr, err := zstd.NewReader(file)
			if err != nil {
				return fmt.Errorf("archive: opening zstd reader: %v", err)
			}
			defer zr.Close()
			r = zr
		}
		archive := tar.NewReader(r)

		for {
			entry, err := archive.Next()
			if err == io.EOF {
				break
			}
			if entry == nil {
				return fmt.Errorf("archive: reading tar header: %v", err)
			}
			info := entry.FileInfo()
			if !info.Mode().IsRegular() && !info.IsDir() {
				continue
			}
			e := Entry{Name: entry.Name, Mode: info.Mode(), ModTime: entry.ModTime}

			// If we got an entry, invoke the callback whether or not we have
			// an error.
			if err == nil {
				err = f(e, nil, archive)
			} else {
				err = f(e, err, nil)
			}
			if err != nil {
				return err
			}
		}

	default:
		return ErrNotArchive
	}
	return nil
}

// parsePath determines which file format is represented by path, returning the
// base file format (.zip or .tar) and the additional compression format
// extension (.gz, .bz2 or .zst), or "" if there is no additional compression.
// Returns "", "" if the format could not be determined.
func parsePath(path string) (format, compression string) {
	switch ext := filepath.Ext(path); strings.ToLower(ext) {
	case ".zip", ".jar", ".war", ".ear":
		return ".zip", ""
	case ".tar":
		return ".tar", ""
	case ".tgz":
		return ".tar", ".gz"
	case ".gz", ".bz2", ".zst":
		base := filepath.Ext(strings.TrimSuffix(path, ext))
		if strings.EqualFold(base, ".tar") {
			return ".tar", strings.ToLower(ext)
		}
	}
	return "", "" // format unknown
}
