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

// Package gitutil runs git against the local checkout the deployment
// driver builds from.
package gitutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/hola-deploy/hola/internal/errors"
	"k8s.io/klog/v2"
)

// NewLocalGitRunner returns a new GitLocalRunner for a local checkout.
func NewLocalGitRunner(dir string) (*GitLocalRunner, error) {
	const op errors.Op = "gitutil.NewLocalGitRunner"
	p, err := exec.LookPath("git")
	if err != nil {
		return nil, errors.E(op, errors.Git, &GitExecError{
			Type: GitExecutableNotFound,
			Err:  fmt.Errorf("no 'git' program on path: %w", err),
			Dir:  dir,
		})
	}

	return &GitLocalRunner{
		gitPath: p,
		Dir:     dir,
	}, nil
}

// GitLocalRunner runs git commands in a local git repo.
type GitLocalRunner struct {
	// Path to the git executable.
	gitPath string

	// Dir is the directory the commands are run in.
	Dir string
}

type RunResult struct {
	Stdout string
	Stderr string
}

// Run runs a git command.
// Omit the 'git' part of the command.
func (g *GitLocalRunner) Run(ctx context.Context, args ...string) (RunResult, error) {
	const op errors.Op = "gitutil.run"

	cmd := exec.CommandContext(ctx, g.gitPath, args...)
	cmd.Dir = g.Dir
	cmd.Env = os.Environ()

	cmdStdout := &bytes.Buffer{}
	cmdStderr := &bytes.Buffer{}
	cmd.Stdout = cmdStdout
	cmd.Stderr = cmdStderr

	klog.V(2).Infof("running git %s in %q", strings.Join(args, " "), g.Dir)
	err := cmd.Run()
	if err != nil {
		command := ""
		if len(args) > 0 {
			command = args[0]
		}
		return RunResult{}, errors.E(op, errors.Git, &GitExecError{
			Type:    determineErrorType(cmdStderr.String()),
			Args:    args,
			Err:     err,
			Command: command,
			Dir:     g.Dir,
			StdOut:  cmdStdout.String(),
			StdErr:  cmdStderr.String(),
		})
	}
	return RunResult{
		Stdout: cmdStdout.String(),
		Stderr: cmdStderr.String(),
	}, nil
}

// Pull updates the checkout from its configured upstream.
func (g *GitLocalRunner) Pull(ctx context.Context) error {
	const op errors.Op = "gitutil.Pull"
	if _, err := g.Run(ctx, "pull"); err != nil {
		return errors.E(op, errors.Path(g.Dir), err)
	}
	return nil
}

// Head returns the commit SHA the checkout is at.
func (g *GitLocalRunner) Head(ctx context.Context) (string, error) {
	const op errors.Op = "gitutil.Head"
	rr, err := g.Run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", errors.E(op, errors.Path(g.Dir), err)
	}
	return strings.TrimSpace(rr.Stdout), nil
}
