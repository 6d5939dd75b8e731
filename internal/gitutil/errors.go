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

package gitutil

import (
	"regexp"
	"strings"
)

type GitExecErrorType int

const (
	Unknown GitExecErrorType = iota
	GitExecutableNotFound
	NotARepository
	NoUpstream
	PullConflict
	HTTPSAuthRequired
	RepositoryNotFound
	RepositoryUnavailable
)

type GitExecError struct {
	Type    GitExecErrorType
	Args    []string
	Err     error
	Command string
	Dir     string
	StdErr  string
	StdOut  string
}

func (e *GitExecError) Error() string {
	b := new(strings.Builder)
	b.WriteString(e.Err.Error())
	if e.StdErr != "" {
		b.WriteString(": ")
		b.WriteString(strings.TrimSpace(e.StdErr))
	}
	return b.String()
}

func (e *GitExecError) Unwrap() error {
	return e.Err
}

func determineErrorType(stdErr string) GitExecErrorType {
	switch {
	case strings.Contains(stdErr, "not a git repository"):
		return NotARepository
	case strings.Contains(stdErr, "There is no tracking information for the current branch"):
		return NoUpstream
	case strings.Contains(stdErr, "Not possible to fast-forward"),
		strings.Contains(stdErr, "would be overwritten by merge"),
		strings.Contains(stdErr, "CONFLICT"):
		return PullConflict
	case strings.Contains(stdErr, "could not read Username"),
		strings.Contains(stdErr, "Authentication failed"):
		return HTTPSAuthRequired
	case strings.Contains(stdErr, "Could not resolve host"):
		return RepositoryUnavailable
	case matches(`fatal: repository '.*' not found`, stdErr):
		return RepositoryNotFound
	}
	return Unknown
}

func matches(pattern, s string) bool {
	matched, err := regexp.Match(pattern, []byte(s))
	if err != nil {
		// This should only return an error if the pattern is invalid, so
		// we just panic if that happens.
		panic(err)
	}
	return matched
}
