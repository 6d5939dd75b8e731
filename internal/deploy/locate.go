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
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hola-deploy/hola/internal/errors"
)

// LibraryNotFoundError is returned when no candidate directory holds a
// file matching the library pattern.
type LibraryNotFoundError struct {
	Pattern string
	Dirs    []string
}

func (e *LibraryNotFoundError) Error() string {
	return fmt.Sprintf("no file matching %q in %s", e.Pattern, strings.Join(e.Dirs, ", "))
}

// LocateLibrary returns the first regular file matching pattern, searching
// dirs in order. Within a directory matches are taken in lexical order.
func LocateLibrary(dirs []string, pattern string) (string, error) {
	const op errors.Op = "deploy.LocateLibrary"
	for _, dir := range dirs {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return "", errors.E(op, errors.InvalidParam, err)
		}
		for _, m := range matches {
			fi, err := os.Stat(m)
			if err == nil && fi.Mode().IsRegular() {
				return m, nil
			}
		}
	}
	return "", errors.E(op, errors.MissingDependency, &LibraryNotFoundError{
		Pattern: pattern,
		Dirs:    dirs,
	})
}

// FindSources returns every .java file below dir in lexical order. A
// missing dir yields no sources rather than an IO error.
func FindSources(dir string) ([]string, error) {
	const op errors.Op = "deploy.FindSources"
	var sources []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if d.Type().IsRegular() && strings.HasSuffix(d.Name(), ".java") {
			sources = append(sources, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.E(op, errors.IO, errors.Path(dir), err)
	}
	if len(sources) == 0 {
		return nil, errors.E(op, errors.NoSources, errors.Path(dir),
			fmt.Errorf("no .java files found"))
	}
	return sources, nil
}
