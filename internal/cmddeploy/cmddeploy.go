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

// Package cmddeploy contains the deploy command
package cmddeploy

import (
	"context"

	"github.com/hola-deploy/hola/internal/deploy"
	docs "github.com/hola-deploy/hola/internal/docs/holadocs"
	"github.com/hola-deploy/hola/internal/printer"
	"github.com/hola-deploy/hola/internal/util/cmdutil"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

// NewRunner returns a command runner
func NewRunner(ctx context.Context, parent string) *Runner {
	r := &Runner{
		ctx:         ctx,
		NewPipeline: deploy.New,
	}
	c := &cobra.Command{
		Use:     "deploy [flags]",
		Short:   docs.DeployShort,
		Long:    docs.DeployShort + "\n" + docs.DeployLong,
		Example: docs.DeployExamples,
		Args:    cobra.NoArgs,
		PreRunE: r.preRunE,
		RunE:    r.runE,
	}
	c.Flags().StringVar(&r.configPath, "config", "",
		"path to a YAML file overriding the default configuration")
	cmdutil.FixDocs("hola", parent, c)
	r.Command = c
	return r
}

func NewCommand(ctx context.Context, parent string) *cobra.Command {
	return NewRunner(ctx, parent).Command
}

// Runner contains the run function for the deploy command
type Runner struct {
	Command    *cobra.Command
	ctx        context.Context
	configPath string
	config     deploy.Config

	// NewPipeline builds the pipeline for the loaded configuration.
	NewPipeline func(deploy.Config) (*deploy.Pipeline, error)
}

func (r *Runner) preRunE(_ *cobra.Command, _ []string) error {
	if r.configPath == "" {
		r.config = deploy.Defaults()
		return nil
	}
	cfg, err := deploy.LoadConfig(r.configPath)
	if err != nil {
		return err
	}
	klog.V(2).Infof("loaded configuration from %q", r.configPath)
	r.config = cfg
	return nil
}

func (r *Runner) runE(c *cobra.Command, _ []string) error {
	p, err := r.NewPipeline(r.config)
	if err != nil {
		return err
	}
	pr := printer.FromContextOrDie(r.ctx)
	pr.Printf("deploying %s from %s\n", p.Config.AppName, p.Config.RepoDir)

	report, err := p.Run(r.ctx)
	if report != nil {
		pr.Printf("\n")
		report.Render(c.OutOrStdout())
	}
	return err
}
