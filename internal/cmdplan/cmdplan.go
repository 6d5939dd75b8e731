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

// Package cmdplan contains the plan command
package cmdplan

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hola-deploy/hola/internal/deploy"
	docs "github.com/hola-deploy/hola/internal/docs/holadocs"
	"github.com/hola-deploy/hola/internal/util/cmdutil"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	TableOutput = "table"
	YAMLOutput  = "yaml"
)

// NewRunner returns a command runner
func NewRunner(ctx context.Context, parent string) *Runner {
	r := &Runner{ctx: ctx}
	c := &cobra.Command{
		Use:     "plan [flags]",
		Short:   docs.PlanShort,
		Long:    docs.PlanShort + "\n" + docs.PlanLong,
		Example: docs.PlanExamples,
		Args:    cobra.NoArgs,
		PreRunE: r.preRunE,
		RunE:    r.runE,
	}
	c.Flags().StringVar(&r.configPath, "config", "",
		"path to a YAML file overriding the default configuration")
	c.Flags().StringVarP(&r.output, "output", "o", TableOutput,
		"output format, one of table or yaml")
	cmdutil.FixDocs("hola", parent, c)
	r.Command = c
	return r
}

func NewCommand(ctx context.Context, parent string) *cobra.Command {
	return NewRunner(ctx, parent).Command
}

// Runner contains the run function for the plan command
type Runner struct {
	Command    *cobra.Command
	ctx        context.Context
	configPath string
	output     string
	config     deploy.Config
}

func (r *Runner) preRunE(_ *cobra.Command, _ []string) error {
	switch r.output {
	case TableOutput, YAMLOutput:
	default:
		return fmt.Errorf("unknown output format %q, must be one of %s or %s", r.output, TableOutput, YAMLOutput)
	}

	cfg := deploy.Defaults()
	if r.configPath != "" {
		var err error
		if cfg, err = deploy.LoadConfig(r.configPath); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	resolved, err := cfg.Resolve()
	if err != nil {
		return err
	}
	r.config = resolved
	return nil
}

func (r *Runner) runE(c *cobra.Command, _ []string) error {
	out := newPlanOutput(r.config, deploy.Plan(r.config))
	if r.output == YAMLOutput {
		return writeYAML(c.OutOrStdout(), out)
	}
	writeTables(c.OutOrStdout(), out)
	return nil
}

// planOutput is the document printed by the plan command. Every value is
// rendered as a string so that both formats show the same text.
type planOutput struct {
	Config []setting   `yaml:"config"`
	Stages []stageStep `yaml:"stages"`
}

type setting struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

type stageStep struct {
	Name    string `yaml:"name"`
	Action  string `yaml:"action"`
	Skipped bool   `yaml:"skipped,omitempty"`
}

func newPlanOutput(cfg deploy.Config, plan []deploy.PlannedStage) planOutput {
	out := planOutput{
		Config: []setting{
			{"appName", cfg.AppName},
			{"repoDir", cfg.RepoDir},
			{"sourceDir", cfg.SourceDir},
			{"webDir", cfg.WebDir},
			{"buildDir", cfg.BuildDir},
			{"archive", cfg.Archive},
			{"webapps", cfg.Webapps},
			{"service", cfg.Service},
			{"healthURL", cfg.HealthURL},
			{"healthAttempts", strconv.Itoa(cfg.HealthAttempts)},
			{"healthInterval", cfg.HealthInterval.Duration.String()},
			{"requiredTools", strings.Join(cfg.RequiredTools, ", ")},
			{"libraryDirs", strings.Join(cfg.LibraryDirs, ", ")},
			{"libraryPattern", cfg.LibraryPattern},
			{"compiler", cfg.Compiler},
			{"compilerFlags", cfg.CompilerFlags},
			{"compilerVersion", cfg.CompilerVersion},
			{"privileged", strconv.FormatBool(cfg.Privileged)},
			{"skipPull", strconv.FormatBool(cfg.SkipPull)},
		},
	}
	for _, s := range plan {
		out.Stages = append(out.Stages, stageStep{
			Name:    string(s.Name),
			Action:  s.Action,
			Skipped: s.Skipped,
		})
	}
	return out
}

func writeYAML(w io.Writer, out planOutput) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}

func writeTables(w io.Writer, out planOutput) {
	cfgTable := table.NewWriter()
	cfgTable.SetOutputMirror(w)
	cfgTable.AppendHeader(table.Row{"KEY", "VALUE"})
	for _, s := range out.Config {
		cfgTable.AppendRow(table.Row{s.Key, s.Value})
	}
	cfgTable.Render()

	fmt.Fprintln(w)

	stageTable := table.NewWriter()
	stageTable.SetOutputMirror(w)
	stageTable.AppendHeader(table.Row{"#", "STAGE", "ACTION"})
	for i, s := range out.Stages {
		action := s.Action
		if s.Skipped {
			action = "skipped"
		}
		stageTable.AppendRow(table.Row{i + 1, s.Name, action})
	}
	stageTable.Render()
}
