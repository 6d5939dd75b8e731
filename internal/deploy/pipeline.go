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

// Package deploy builds, packages and installs the servlet archive into the
// container and waits for it to answer.
package deploy

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	goerrors "github.com/go-errors/errors"
	"github.com/hola-deploy/hola/internal/errors"
	"github.com/hola-deploy/hola/internal/gitutil"
	"github.com/hola-deploy/hola/internal/printer"
)

type StageName string

const (
	StageCheckTools    StageName = "check-tools"
	StageLocateLibrary StageName = "locate-library"
	StageRefreshSource StageName = "refresh-source"
	StageCleanBuild    StageName = "clean-build"
	StageFindSources   StageName = "find-sources"
	StageCompile       StageName = "compile"
	StagePackage       StageName = "package"
	StageInstall       StageName = "install"
	StageRestart       StageName = "restart"
	StageHealthCheck   StageName = "health-check"
)

// Stages lists the pipeline stages in execution order.
var Stages = []StageName{
	StageCheckTools,
	StageLocateLibrary,
	StageRefreshSource,
	StageCleanBuild,
	StageFindSources,
	StageCompile,
	StagePackage,
	StageInstall,
	StageRestart,
	StageHealthCheck,
}

// SourceRefresher updates the checkout at dir from its remote and returns
// the commit it ended up at.
type SourceRefresher interface {
	Refresh(ctx context.Context, dir string) (string, error)
}

// GitRefresher refreshes the checkout with `git pull`.
type GitRefresher struct{}

func (GitRefresher) Refresh(ctx context.Context, dir string) (string, error) {
	g, err := gitutil.NewLocalGitRunner(dir)
	if err != nil {
		return "", err
	}
	if err := g.Pull(ctx); err != nil {
		return "", err
	}
	return g.Head(ctx)
}

// Pipeline runs the deployment stages in order and stops at the first
// failure.
type Pipeline struct {
	Config  Config
	Exec    Executor
	Source  SourceRefresher
	Prober  Prober
	Clock   func() time.Time
	Printer printer.Printer

	library string
	sources []string
}

// New returns a pipeline for cfg wired to the local machine. cfg is
// validated and resolved against its RepoDir.
func New(cfg Config) (*Pipeline, error) {
	const op errors.Op = "deploy.New"
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	resolved, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	if rel, err := filepath.Rel(resolved.BuildDir, resolved.RepoDir); err == nil && !strings.HasPrefix(rel, "..") {
		return nil, errors.E(op, errors.InvalidParam, errors.Path(resolved.BuildDir),
			fmt.Errorf("buildDir must not contain repoDir"))
	}
	return &Pipeline{
		Config: resolved,
		Exec:   LocalExecutor{},
		Source: GitRefresher{},
		Prober: &HTTPProber{Client: &http.Client{Timeout: resolved.HealthInterval.Duration}},
	}, nil
}

type stage struct {
	name StageName
	skip bool
	run  func(ctx context.Context) (string, error)
}

func (p *Pipeline) stages() []stage {
	return []stage{
		{name: StageCheckTools, run: p.checkTools},
		{name: StageLocateLibrary, run: p.locateLibrary},
		{name: StageRefreshSource, run: p.refreshSource, skip: p.Config.SkipPull},
		{name: StageCleanBuild, run: p.cleanBuild},
		{name: StageFindSources, run: p.findSources},
		{name: StageCompile, run: p.compile},
		{name: StagePackage, run: p.packageArchive},
		{name: StageInstall, run: p.install},
		{name: StageRestart, run: p.restart},
		{name: StageHealthCheck, run: p.healthCheck},
	}
}

// Run executes every stage in order. The report is returned even when a
// stage fails; the error is the failing stage's error.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	pr := p.Printer
	if pr == nil {
		pr = printer.FromContextOrDie(ctx)
	}
	now := p.Clock
	if now == nil {
		now = time.Now
	}

	stages := p.stages()
	report := newReport()
	for i, s := range stages {
		opt := printer.NewOpt().Stage(i+1, len(stages), string(s.name))
		if err := ctx.Err(); err != nil {
			return report, goerrors.Wrap(err, 0)
		}
		if s.skip {
			report.set(i, StatusSkipped, 0, "")
			pr.OptPrintf(opt, "skipped\n")
			continue
		}
		start := now()
		detail, err := s.run(ctx)
		elapsed := now().Sub(start)
		if err != nil {
			report.set(i, StatusFailed, elapsed, err.Error())
			pr.OptPrintf(opt.Stderr(), "failed\n")
			return report, goerrors.Wrap(err, 0)
		}
		report.set(i, StatusOK, elapsed, detail)
		pr.OptPrintf(opt, "%s\n", detail)
	}
	return report, nil
}

func (p *Pipeline) checkTools(ctx context.Context) (string, error) {
	found, err := CheckTools(p.Exec, p.Config.RequiredTools)
	if err != nil {
		return "", err
	}
	detail := fmt.Sprintf("found %d tool(s)", len(found))
	if len(found) > 0 {
		detail = "found " + strings.Join(p.Config.RequiredTools, ", ")
	}
	if p.Config.CompilerVersion != "" {
		v, err := CheckToolVersion(ctx, p.Exec, p.Config.Compiler, p.Config.CompilerVersion)
		if err != nil {
			return "", err
		}
		detail += fmt.Sprintf(" (%s %s)", filepath.Base(p.Config.Compiler), v)
	}
	return detail, nil
}

func (p *Pipeline) locateLibrary(context.Context) (string, error) {
	lib, err := LocateLibrary(p.Config.LibraryDirs, p.Config.LibraryPattern)
	if err != nil {
		return "", err
	}
	p.library = lib
	return lib, nil
}

func (p *Pipeline) refreshSource(ctx context.Context) (string, error) {
	const op errors.Op = "deploy.refreshSource"
	head, err := p.Source.Refresh(ctx, p.Config.RepoDir)
	if err != nil {
		return "", errors.E(op, errors.SourceRefresh, errors.Path(p.Config.RepoDir), err)
	}
	if len(head) > 12 {
		head = head[:12]
	}
	return "at " + head, nil
}

func (p *Pipeline) cleanBuild(context.Context) (string, error) {
	const op errors.Op = "deploy.cleanBuild"
	if err := os.RemoveAll(p.Config.BuildDir); err != nil {
		return "", errors.E(op, errors.IO, errors.Path(p.Config.BuildDir), err)
	}
	if err := os.MkdirAll(p.Config.ClassesPath(), 0755); err != nil {
		return "", errors.E(op, errors.IO, errors.Path(p.Config.BuildDir), err)
	}
	return p.Config.BuildDir, nil
}

func (p *Pipeline) findSources(context.Context) (string, error) {
	sources, err := FindSources(p.Config.SourceDir)
	if err != nil {
		return "", err
	}
	p.sources = sources
	return fmt.Sprintf("%d source file(s)", len(sources)), nil
}

func (p *Pipeline) compile(ctx context.Context) (string, error) {
	const op errors.Op = "deploy.compile"
	flags, err := p.Config.CompilerArgs()
	if err != nil {
		return "", errors.E(op, errors.InvalidParam, err)
	}
	args := []string{"-cp", p.library, "-d", p.Config.ClassesPath()}
	args = append(args, flags...)
	args = append(args, p.sources...)
	if _, err := p.Exec.Run(ctx, p.Config.RepoDir, p.Config.Compiler, args...); err != nil {
		return "", errors.E(op, errors.Compile, err)
	}
	detail := fmt.Sprintf("compiled %d file(s)", len(p.sources))
	copied, err := CopyWebContent(p.Config.WebDir, p.Config.BuildDir)
	if err != nil {
		return "", err
	}
	if copied {
		detail += ", copied web content"
	}
	return detail, nil
}

func (p *Pipeline) packageArchive(context.Context) (string, error) {
	n, err := WriteArchive(p.Config.BuildDir, p.Config.Archive)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s (%d file(s))", p.Config.Archive, n), nil
}

func (p *Pipeline) install(ctx context.Context) (string, error) {
	target, err := InstallArchive(ctx, p.Exec, p.Config.Archive, p.Config.Webapps, p.Config.Privileged)
	if err != nil {
		return "", err
	}
	return target, nil
}

func (p *Pipeline) restart(ctx context.Context) (string, error) {
	if err := RestartService(ctx, p.Exec, p.Config.Service, p.Config.Privileged); err != nil {
		return "", err
	}
	return p.Config.Service + " restarted", nil
}

func (p *Pipeline) healthCheck(ctx context.Context) (string, error) {
	n, err := WaitForHealthy(ctx, p.Prober, p.Config.HealthURL,
		p.Config.HealthAttempts, p.Config.HealthInterval.Duration)
	if err != nil {
		var timeout *HealthTimeoutError
		if errors.As(err, &timeout) {
			timeout.Service = p.Config.Service
		}
		return "", err
	}
	return fmt.Sprintf("%s answered after %d attempt(s)", p.Config.HealthURL, n), nil
}
