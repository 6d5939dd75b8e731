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

// Package cmdserve contains the serve command
package cmdserve

import (
	"context"

	"github.com/hola-deploy/hola/internal/deploy"
	docs "github.com/hola-deploy/hola/internal/docs/holadocs"
	"github.com/hola-deploy/hola/internal/greeting"
	"github.com/hola-deploy/hola/internal/util/cmdutil"
	"github.com/spf13/cobra"
)

// NewRunner returns a command runner
func NewRunner(ctx context.Context, parent string) *Runner {
	r := &Runner{ctx: ctx}
	c := &cobra.Command{
		Use:     "serve [flags]",
		Short:   docs.ServeShort,
		Long:    docs.ServeShort + "\n" + docs.ServeLong,
		Example: docs.ServeExamples,
		Args:    cobra.NoArgs,
		PreRunE: r.preRunE,
		RunE:    r.runE,
	}
	c.Flags().StringVar(&r.Server.Addr, "listen", greeting.DefaultAddr,
		"TCP address to listen on")
	c.Flags().StringVar(&r.Server.App, "app", deploy.DefaultAppName,
		"context root the greeting is served under")
	c.Flags().DurationVar(&r.Server.ShutdownTimeout, "shutdown-timeout", greeting.DefaultShutdownTimeout,
		"how long to wait for in-flight requests when stopping")
	cmdutil.FixDocs("hola", parent, c)
	r.Command = c
	return r
}

func NewCommand(ctx context.Context, parent string) *cobra.Command {
	return NewRunner(ctx, parent).Command
}

// Runner contains the run function for the serve command
type Runner struct {
	Command *cobra.Command
	Server  greeting.Server
	ctx     context.Context
}

func (r *Runner) preRunE(_ *cobra.Command, _ []string) error {
	return greeting.ValidateApp(r.Server.App)
}

func (r *Runner) runE(_ *cobra.Command, _ []string) error {
	return r.Server.ListenAndServe(r.ctx)
}
