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

// Package errors defines the error handling used by the hola codebase.
package errors

import (
	goerrors "errors"
	"fmt"
	"strings"
)

// Error is an implementation of the error interface used in the hola
// codebase.
// It is based on the design in https://commandcenter.blogspot.com/2017/12/error-handling-in-upspin.html
type Error struct {
	// Path is the filesystem path or URL involved in the operation.
	Path Path

	// Op is the operation being performed, for ex. deploy.compile
	Op Op

	// Kind refers to class of errors
	Kind Kind

	// Err refers to wrapped error (if any)
	Err error
}

func (e *Error) Error() string {
	b := new(strings.Builder)

	if e.Op != "" {
		pad(b, ": ")
		b.WriteString(string(e.Op))
	}

	if e.Path != "" {
		pad(b, ": ")
		b.WriteString(string(e.Path))
	}

	if e.Kind != 0 {
		pad(b, ": ")
		b.WriteString(e.Kind.String())
	}

	if e.Err != nil {
		if wrappedErr, ok := e.Err.(*Error); ok {
			if !wrappedErr.Zero() {
				pad(b, ":\n\t")
				b.WriteString(wrappedErr.Error())
			}
		} else {
			pad(b, ": ")
			b.WriteString(e.Err.Error())
		}
	}
	if b.Len() == 0 {
		return "no error"
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// pad appends given str to the string buffer.
func pad(b *strings.Builder, str string) {
	if b.Len() == 0 {
		return
	}
	b.WriteString(str)
}

func (e *Error) Zero() bool {
	return e.Op == "" && e.Path == "" && e.Kind == 0 && e.Err == nil
}

// Op describes the operation being performed.
type Op string

// Path is the path or URL an operation acted on.
type Path string

// Kind describes the class of errors encountered.
type Kind int

const (
	Other             Kind = iota // Unclassified. Will not be printed.
	Internal                      // Internal error.
	InvalidParam                  // Value is not valid.
	MissingParam                  // Required value is missing or empty.
	IO                            // Error doing IO operations.
	Git                           // Errors from Git
	MissingTool                   // A required executable is not available.
	MissingDependency             // A required library artifact was not found.
	SourceRefresh                 // Updating the sources from the remote failed.
	NoSources                     // No source files to compile.
	Compile                       // The compiler reported a failure.
	Package                       // Building the archive failed.
	DeployCopy                    // Copying the archive into the container failed.
	Restart                       // Restarting the container service failed.
	HealthTimeout                 // The health endpoint never answered.
)

func (k Kind) String() string {
	switch k {
	case Other:
		return "other error"
	case Internal:
		return "internal error"
	case InvalidParam:
		return "invalid parameter value"
	case MissingParam:
		return "missing parameter value"
	case IO:
		return "IO error"
	case Git:
		return "git error"
	case MissingTool:
		return "missing tool"
	case MissingDependency:
		return "missing dependency"
	case SourceRefresh:
		return "source refresh failed"
	case NoSources:
		return "no sources"
	case Compile:
		return "compilation failed"
	case Package:
		return "packaging failed"
	case DeployCopy:
		return "deploy copy failed"
	case Restart:
		return "service restart failed"
	case HealthTimeout:
		return "health check timed out"
	}
	return "unknown kind"
}

func E(args ...interface{}) error {
	if len(args) == 0 {
		panic("errors.E must have at least one argument")
	}

	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Path:
			e.Path = a
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case *Error:
			cp := *a
			e.Err = &cp
		case error:
			e.Err = a
		case string:
			e.Err = goerrors.New(a)
		default:
			panic(fmt.Errorf("unknown type %T for value %v in call to error.E", a, a))
		}
	}

	wrappedErr, ok := e.Err.(*Error)
	if !ok {
		return e
	}

	if e.Path == wrappedErr.Path {
		wrappedErr.Path = ""
	}

	if e.Op == wrappedErr.Op {
		wrappedErr.Op = ""
	}

	if e.Kind == wrappedErr.Kind {
		wrappedErr.Kind = 0
	}

	return e
}

// KindOf returns the first classified Kind found walking the chain of
// wrapped errors, or Other if there is none.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind != Other {
			return e.Kind
		}
		err = goerrors.Unwrap(err)
	}
	return Other
}

// PathOf returns the first Path found walking the chain of wrapped errors.
func PathOf(err error) Path {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Path != "" {
			return e.Path
		}
		err = goerrors.Unwrap(err)
	}
	return ""
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return goerrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return goerrors.As(err, target)
}
