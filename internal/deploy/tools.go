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
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/hola-deploy/hola/internal/errors"
)

// MissingToolError lists the required tools that are not on PATH.
type MissingToolError struct {
	Tools []string
}

func (e *MissingToolError) Error() string {
	return fmt.Sprintf("required tools not found on PATH: %s", strings.Join(e.Tools, ", "))
}

// ToolVersionError is returned when a tool is present but too old or too
// new for the configured constraint.
type ToolVersionError struct {
	Tool       string
	Version    string
	Constraint string
	Output     string
}

func (e *ToolVersionError) Error() string {
	if e.Version == "" {
		return fmt.Sprintf("unable to determine the version of %s", e.Tool)
	}
	return fmt.Sprintf("%s version %s does not satisfy %q", e.Tool, e.Version, e.Constraint)
}

var versionPattern = regexp.MustCompile(`\d+(\.\d+){0,2}`)

// CheckTools verifies every tool can be resolved and returns the resolved
// paths keyed by tool name.
func CheckTools(ex Executor, tools []string) (map[string]string, error) {
	const op errors.Op = "deploy.CheckTools"
	found := make(map[string]string, len(tools))
	var missing []string
	for _, tool := range tools {
		p, err := ex.LookPath(tool)
		if err != nil {
			missing = append(missing, tool)
			continue
		}
		found[tool] = p
	}
	if len(missing) > 0 {
		return found, errors.E(op, errors.MissingTool, &MissingToolError{Tools: missing})
	}
	return found, nil
}

// CheckToolVersion runs `tool -version` and matches the first version
// number in its output against constraint.
func CheckToolVersion(ctx context.Context, ex Executor, tool, constraint string) (string, error) {
	const op errors.Op = "deploy.CheckToolVersion"
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return "", errors.E(op, errors.InvalidParam, err)
	}
	if _, err := ex.LookPath(tool); err != nil {
		return "", errors.E(op, errors.MissingTool, &MissingToolError{Tools: []string{tool}})
	}
	rr, err := ex.Run(ctx, "", tool, "-version")
	if err != nil {
		return "", errors.E(op, errors.MissingTool, err)
	}
	// Older JDKs print the version on stderr.
	out := strings.TrimSpace(rr.Stdout + "\n" + rr.Stderr)
	raw := versionPattern.FindString(out)
	v, err := semver.NewVersion(raw)
	if raw == "" || err != nil {
		return "", errors.E(op, errors.MissingTool, &ToolVersionError{
			Tool:       filepath.Base(tool),
			Constraint: constraint,
			Output:     out,
		})
	}
	if !c.Check(v) {
		return v.String(), errors.E(op, errors.MissingTool, &ToolVersionError{
			Tool:       filepath.Base(tool),
			Version:    v.String(),
			Constraint: constraint,
			Output:     out,
		})
	}
	return v.String(), nil
}
