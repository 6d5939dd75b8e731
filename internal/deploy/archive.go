// Copyright 2026 The hola Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package deploy

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/hola-deploy/hola/internal/errors"
	"github.com/klauspost/compress/zip"
)

const manifestName = "META-INF/MANIFEST.MF"

const manifest = "Manifest-Version: 1.0\r\nCreated-By: hola\r\n\r\n"

// entryTime is stamped on every archive entry so that identical build
// trees produce byte-identical archives.
var entryTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// WriteArchive zips the contents of dir into the file at dest, replacing
// it. Entries are written in lexical order; a manifest is added unless dir
// already has one. It returns the number of file entries written.
func WriteArchive(dir, dest string) (int, error) {
	const op errors.Op = "deploy.WriteArchive"

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+"-*")
	if err != nil {
		return 0, errors.E(op, errors.Package, errors.Path(dest), err)
	}
	defer func() {
		// no-op once renamed
		_ = os.Remove(tmp.Name())
	}()

	n, err := writeZip(tmp, dir)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, errors.E(op, errors.Package, errors.Path(dest), err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return 0, errors.E(op, errors.Package, errors.Path(dest), err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return 0, errors.E(op, errors.Package, errors.Path(dest), err)
	}
	return n, nil
}

func writeZip(w io.Writer, dir string) (int, error) {
	zw := zip.NewWriter(w)
	files := 0

	if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(manifestName))); os.IsNotExist(err) {
		// the walk below adds the directory entry if dir has one
		if _, err := os.Stat(filepath.Join(dir, "META-INF")); os.IsNotExist(err) {
			if _, err := zw.CreateHeader(header("META-INF/", zip.Store)); err != nil {
				return 0, err
			}
		}
		f, err := zw.CreateHeader(header(manifestName, zip.Deflate))
		if err != nil {
			return 0, err
		}
		if _, err := io.WriteString(f, manifest); err != nil {
			return 0, err
		}
		files++
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dir {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if d.IsDir() {
			_, err := zw.CreateHeader(header(name+"/", zip.Store))
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		dst, err := zw.CreateHeader(header(name, zip.Deflate))
		if err != nil {
			return err
		}
		if _, err := io.Copy(dst, src); err != nil {
			return err
		}
		files++
		return nil
	})
	if err != nil {
		return 0, err
	}
	return files, zw.Close()
}

func header(name string, method uint16) *zip.FileHeader {
	return &zip.FileHeader{
		Name:     name,
		Method:   method,
		Modified: entryTime,
	}
}

// ArchiveEntries lists the entry names of the archive at path in the order
// they are stored.
func ArchiveEntries(path string) ([]string, error) {
	const op errors.Op = "deploy.ArchiveEntries"
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.E(op, errors.IO, errors.Path(path), err)
	}
	defer r.Close()
	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names, nil
}
