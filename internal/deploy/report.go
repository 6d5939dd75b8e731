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
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

type Status string

const (
	StatusPending Status = "not run"
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// StageResult is the outcome of one stage.
type StageResult struct {
	Name     StageName
	Status   Status
	Duration time.Duration
	Detail   string
}

// Report holds one result per stage, in execution order.
type Report struct {
	Results []StageResult
}

func newReport() *Report {
	r := &Report{Results: make([]StageResult, len(Stages))}
	for i, name := range Stages {
		r.Results[i] = StageResult{Name: name, Status: StatusPending}
	}
	return r
}

func (r *Report) set(i int, status Status, d time.Duration, detail string) {
	if line, _, found := strings.Cut(detail, "\n"); found {
		detail = line
	}
	r.Results[i].Status = status
	r.Results[i].Duration = d
	r.Results[i].Detail = detail
}

// Result returns the result recorded for the named stage.
func (r *Report) Result(name StageName) (StageResult, bool) {
	for _, res := range r.Results {
		if res.Name == name {
			return res, true
		}
	}
	return StageResult{}, false
}

// Failed returns the failed stage, if any.
func (r *Report) Failed() (StageResult, bool) {
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			return res, true
		}
	}
	return StageResult{}, false
}

// Render writes the report as a table.
func (r *Report) Render(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "STAGE", "STATUS", "DURATION", "DETAIL"})
	for i, res := range r.Results {
		d := ""
		if res.Status == StatusOK || res.Status == StatusFailed {
			d = res.Duration.Round(time.Millisecond).String()
		}
		t.AppendRow(table.Row{i + 1, res.Name, res.Status, d, res.Detail})
	}
	t.Render()
}
