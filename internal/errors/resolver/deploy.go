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

package resolver

import (
	"github.com/hola-deploy/hola/internal/deploy"
	"github.com/hola-deploy/hola/internal/errors"
	"github.com/hola-deploy/hola/internal/gitutil"
)

//nolint:gochecknoinits
func init() {
	AddErrorResolver(&deployErrorResolver{})
}

const (
	missingToolMsg = `
Error: Required tools are not installed or not on PATH: {{ join .tools ", " }}.
`

	unknownToolVersionMsg = `
Error: Unable to determine the version of {{ .tool }}.

{{- template "ExecOutputDetails" . }}
`

	toolVersionMsg = `
Error: {{ .tool }} {{ .version }} does not satisfy the required version {{ printf "%q" .constraint }}.
`

	libraryNotFoundMsg = `
Error: The servlet API library could not be found. No file matching {{ printf "%q" .pattern }} in:
{{- range .dirs }}
  {{ . }}
{{- end }}
`

	sourceRefreshMsg = `
Error: Unable to refresh the sources in {{ printf "%q" .path }}.

{{- template "NestedErrDetails" . }}
`

	noSourcesMsg = `
Error: No Java source files found under {{ printf "%q" .path }}.
`

	compileMsg = `
Error: Compilation failed.

{{- template "ExecOutputDetails" . }}
`

	packageMsg = `
Error: Unable to write the archive {{ printf "%q" .path }}.

{{- template "NestedErrDetails" . }}
`

	deployCopyMsg = `
Error: Unable to copy the archive into {{ printf "%q" .path }}.

{{- template "NestedErrDetails" . }}
`

	restartMsg = `
Error: Unable to restart the container service.

{{- template "NestedErrDetails" . }}
`

	healthTimeoutMsg = `
Error: {{ .url }} did not answer after {{ .attempts }} attempt(s).
{{- if .service }}
Inspect the container logs with 'sudo journalctl -u {{ .service }}'.
{{- end }}

{{- template "NestedErrDetails" . }}
`

	validationMsg = `
Error: Invalid configuration.
{{- range .violations }}
  {{ .Reason }}
{{- end }}
`

	invalidConfigMsg = `
Error: Invalid configuration.

{{- template "NestedErrDetails" . }}
`
)

// deployErrorResolver is an implementation of the ErrorResolver interface
// that produces messages for failures of the deployment pipeline stages.
type deployErrorResolver struct{}

func (*deployErrorResolver) Resolve(err error) (ResolvedResult, bool) {
	var missingTool *deploy.MissingToolError
	if errors.As(err, &missingTool) {
		return resolved(missingToolMsg, map[string]interface{}{
			"tools": missingTool.Tools,
		})
	}

	var toolVersion *deploy.ToolVersionError
	if errors.As(err, &toolVersion) {
		if toolVersion.Version == "" {
			return resolved(unknownToolVersionMsg, map[string]interface{}{
				"tool":   toolVersion.Tool,
				"stdout": toolVersion.Output,
				"stderr": "",
			})
		}
		return resolved(toolVersionMsg, map[string]interface{}{
			"tool":       toolVersion.Tool,
			"version":    toolVersion.Version,
			"constraint": toolVersion.Constraint,
		})
	}

	var notFound *deploy.LibraryNotFoundError
	if errors.As(err, &notFound) {
		return resolved(libraryNotFoundMsg, map[string]interface{}{
			"pattern": notFound.Pattern,
			"dirs":    notFound.Dirs,
		})
	}

	var timeout *deploy.HealthTimeoutError
	if errors.As(err, &timeout) {
		return resolved(healthTimeoutMsg, map[string]interface{}{
			"url":      timeout.URL,
			"attempts": timeout.Attempts,
			"service":  timeout.Service,
			"err":      timeout.LastErr,
		})
	}

	var validation *errors.ValidationError
	if errors.As(err, &validation) {
		return resolved(validationMsg, map[string]interface{}{
			"violations": validation.Violations,
		})
	}

	// Git failures have their own resolver.
	var gitExecErr *gitutil.GitExecError
	if errors.As(err, &gitExecErr) {
		return ResolvedResult{}, false
	}

	path := string(errors.PathOf(err))
	switch errors.KindOf(err) {
	case errors.SourceRefresh:
		return resolved(sourceRefreshMsg, map[string]interface{}{
			"path": path,
			"err":  innermost(err),
		})
	case errors.NoSources:
		return resolved(noSourcesMsg, map[string]interface{}{
			"path": path,
		})
	case errors.Compile:
		var execErr *deploy.ExecError
		if !errors.As(err, &execErr) {
			return resolved(compileMsg, map[string]interface{}{
				"stdout": "",
				"stderr": innermost(err).Error(),
			})
		}
		return resolved(compileMsg, map[string]interface{}{
			"stdout": execErr.StdOut,
			"stderr": execErr.StdErr,
		})
	case errors.Package:
		return resolved(packageMsg, map[string]interface{}{
			"path": path,
			"err":  innermost(err),
		})
	case errors.DeployCopy:
		return resolved(deployCopyMsg, map[string]interface{}{
			"path": path,
			"err":  innermost(err),
		})
	case errors.Restart:
		return resolved(restartMsg, map[string]interface{}{
			"err": innermost(err),
		})
	case errors.InvalidParam, errors.MissingParam:
		return resolved(invalidConfigMsg, map[string]interface{}{
			"err": innermost(err),
		})
	}
	return ResolvedResult{}, false
}

func resolved(tmpl string, args map[string]interface{}) (ResolvedResult, bool) {
	return ResolvedResult{
		Message: ExecuteTemplate(tmpl, args),
	}, true
}

// innermost returns the error wrapped by the deepest *errors.Error in the
// chain, so that messages do not repeat the op and kind prefixes.
func innermost(err error) error {
	for {
		var e *errors.Error
		if !errors.As(err, &e) || e.Err == nil {
			return err
		}
		err = e.Err
	}
}
