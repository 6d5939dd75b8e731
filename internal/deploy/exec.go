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
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"k8s.io/klog/v2"
)

// Executor resolves and runs the external tools the pipeline drives.
type Executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, dir, name string, args ...string) (RunResult, error)
}

type RunResult struct {
	Stdout string
	Stderr string
}

// ExecError is returned by Executor.Run when the command could not be
// started or exited non-zero.
type ExecError struct {
	Name   string
	Args   []string
	Err    error
	StdOut string
	StdErr string
}

func (e *ExecError) Error() string {
	b := new(strings.Builder)
	b.WriteString(e.Name)
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	if s := strings.TrimSpace(e.StdErr); s != "" {
		b.WriteString(": ")
		b.WriteString(s)
	}
	return b.String()
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// CommandLine returns the command as it would be typed in a shell.
func (e *ExecError) CommandLine() string {
	return strings.Join(append([]string{e.Name}, e.Args...), " ")
}

// LocalExecutor runs commands on the local machine.
type LocalExecutor struct{}

var _ Executor = LocalExecutor{}

func (LocalExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (LocalExecutor) Run(ctx context.Context, dir, name string, args ...string) (RunResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = os.Environ()

	cmdStdout := &bytes.Buffer{}
	cmdStderr := &bytes.Buffer{}
	cmd.Stdout = cmdStdout
	cmd.Stderr = cmdStderr

	klog.V(2).Infof("running %s %s", name, strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		return RunResult{}, &ExecError{
			Name:   name,
			Args:   args,
			Err:    err,
			StdOut: cmdStdout.String(),
			StdErr: cmdStderr.String(),
		}
	}
	return RunResult{
		Stdout: cmdStdout.String(),
		Stderr: cmdStderr.String(),
	}, nil
}
