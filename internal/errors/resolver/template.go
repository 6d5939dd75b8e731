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
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

var baseTemplate = func() *template.Template {
	tmpl := template.New("base").Funcs(template.FuncMap{
		"join": strings.Join,
	})
	tmpl = template.Must(tmpl.Parse(execOutputTemplate))
	tmpl = template.Must(tmpl.Parse(nestedErrTemplate))
	return tmpl
}()

var (
	// execOutputTemplate renders the captured output of a failed command.
	// It expects .stdout and .stderr to be set.
	execOutputTemplate = `
{{- define "ExecOutputDetails" }}
{{- if or (gt (len .stdout) 0) (gt (len .stderr) 0)}}
{{ printf "\nDetails:" }}
{{- end }}

{{- if gt (len .stdout) 0 }}
{{ printf "%s" .stdout }}
{{- end }}

{{- if gt (len .stderr) 0 }}
{{ printf "%s" .stderr }}
{{- end }}
{{ end }}
`

	// nestedErrTemplate renders .err as details when it is set.
	nestedErrTemplate = `
{{- define "NestedErrDetails" }}
{{- if .err }}
{{- if gt (len .err.Error) 0 }}
{{ printf "\nDetails:" }}
{{ printf "%s" .err.Error }}
{{- end }}
{{- end }}
{{ end }}
`
)

// ExecuteTemplate takes the provided template string and data, and renders
// the template. If something goes wrong, it panics.
func ExecuteTemplate(text string, data interface{}) string {
	tmpl := template.Must(baseTemplate.Clone())
	template.Must(tmpl.Parse(text))

	var b bytes.Buffer
	if err := tmpl.Execute(&b, data); err != nil {
		panic(fmt.Errorf("error executing template: %w", err))
	}
	return strings.TrimSpace(b.String())
}

// BuildOutputDetails formats the output of a failed command the same way
// the ExecOutputDetails template does.
func BuildOutputDetails(stdout string, stderr string) string {
	var sb strings.Builder
	if len(stdout) > 0 || len(stderr) > 0 {
		sb.WriteString("\nDetails:\n")
	}
	if len(stdout) > 0 {
		sb.WriteString(strings.TrimRight(stdout, "\n"))
		sb.WriteString("\n")
	}
	if len(stderr) > 0 {
		sb.WriteString(strings.TrimRight(stderr, "\n"))
	}
	return sb.String()
}
