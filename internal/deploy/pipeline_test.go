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
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/hola-deploy/hola/internal/errors"
	"github.com/hola-deploy/hola/internal/printer/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const servletSource = `package hola;

public class HolaServlet {}
`

type fakeExec struct {
	missing map[string]bool
	fail    map[string]error
	version string
	calls   [][]string
}

func (f *fakeExec) LookPath(file string) (string, error) {
	if f.missing[file] {
		return "", exec.ErrNotFound
	}
	return "/usr/bin/" + file, nil
}

func (f *fakeExec) Run(_ context.Context, _ string, name string, args ...string) (RunResult, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if err, found := f.fail[name]; found {
		return RunResult{}, &ExecError{Name: name, Args: args, Err: err, StdErr: name + " failed"}
	}
	if name == DefaultCompiler {
		if len(args) == 1 && args[0] == "-version" {
			return RunResult{Stdout: f.version}, nil
		}
		return RunResult{}, fakeCompile(args)
	}
	return RunResult{}, nil
}

// compileCalls returns the compiler invocations that were not version
// queries.
func (f *fakeExec) compileCalls() [][]string {
	var calls [][]string
	for _, c := range f.calls {
		if c[0] == DefaultCompiler && !(len(c) == 2 && c[1] == "-version") {
			calls = append(calls, c)
		}
	}
	return calls
}

// fakeCompile writes one class file per source into the -d directory.
func fakeCompile(args []string) error {
	var out string
	for i, a := range args {
		if a == "-d" && i+1 < len(args) {
			out = args[i+1]
		}
	}
	if out == "" {
		return fmt.Errorf("no -d given")
	}
	for _, a := range args {
		if !strings.HasSuffix(a, ".java") {
			continue
		}
		name := strings.TrimSuffix(filepath.Base(a), ".java")
		dir := filepath.Join(out, "hola")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, name+".class"), []byte("class "+name), 0644); err != nil {
			return err
		}
	}
	return nil
}

type fakeRefresher struct {
	calls int
	err   error
}

func (f *fakeRefresher) Refresh(context.Context, string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "0123456789abcdef0123", nil
}

type fakeProber struct {
	calls     int
	succeedOn int
	times     []time.Time
}

func (f *fakeProber) Probe(context.Context, string) error {
	f.calls++
	f.times = append(f.times, time.Now())
	if f.succeedOn > 0 && f.calls >= f.succeedOn {
		return nil
	}
	return fmt.Errorf("connection refused")
}

type testEnv struct {
	repo     string
	libDir   string
	webapps  string
	exec     *fakeExec
	source   *fakeRefresher
	prober   *fakeProber
	pipeline *Pipeline
}

func setupEnv(t *testing.T, mutate func(*Config)) *testEnv {
	t.Helper()
	root := t.TempDir()
	env := &testEnv{
		repo:    filepath.Join(root, "repo"),
		libDir:  filepath.Join(root, "lib"),
		webapps: filepath.Join(root, "webapps"),
		exec:    &fakeExec{version: "javac 17.0.2\n"},
		source:  &fakeRefresher{},
		prober:  &fakeProber{succeedOn: 1},
	}
	for _, d := range []string{filepath.Join(env.repo, "src", "hola"), env.libDir, env.webapps} {
		require.NoError(t, os.MkdirAll(d, 0755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(env.repo, "src", "hola", "HolaServlet.java"), []byte(servletSource), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(env.libDir, "jakarta.servlet-api-6.0.0.jar"), []byte("jar"), 0644))

	cfg := Defaults()
	cfg.RepoDir = env.repo
	cfg.LibraryDirs = []string{filepath.Join(root, "missing"), env.libDir}
	cfg.Webapps = env.webapps
	cfg.HealthInterval.Duration = 5 * time.Millisecond
	cfg.Privileged = false
	if mutate != nil {
		mutate(&cfg)
	}

	p, err := New(cfg)
	require.NoError(t, err)
	p.Exec = env.exec
	p.Source = env.source
	p.Prober = env.prober
	env.pipeline = p
	return env
}

func TestRun_success(t *testing.T) {
	env := setupEnv(t, nil)
	env.prober.succeedOn = 3

	report, err := env.pipeline.Run(fake.CtxWithNilPrinter())
	require.NoError(t, err)

	for _, res := range report.Results {
		assert.Equal(t, StatusOK, res.Status, "stage %s", res.Name)
	}
	assert.Equal(t, 3, env.prober.calls)
	assert.Equal(t, 1, env.source.calls)

	compile := env.exec.compileCalls()
	require.Len(t, compile, 1)
	assert.Equal(t, []string{
		"javac",
		"-cp", filepath.Join(env.libDir, "jakarta.servlet-api-6.0.0.jar"),
		"-d", filepath.Join(env.repo, "build", "WEB-INF", "classes"),
		filepath.Join(env.repo, "src", "hola", "HolaServlet.java"),
	}, compile[0])
	assert.Contains(t, env.exec.calls, []string{"systemctl", "restart", "tomcat10"})

	installed := filepath.Join(env.webapps, "hola.war")
	entries, err := ArchiveEntries(installed)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"META-INF/",
		"META-INF/MANIFEST.MF",
		"WEB-INF/",
		"WEB-INF/classes/",
		"WEB-INF/classes/hola/",
		"WEB-INF/classes/hola/HolaServlet.class",
	}, entries)

	res, found := report.Result(StageHealthCheck)
	require.True(t, found)
	assert.Contains(t, res.Detail, "after 3 attempt(s)")
}

func TestRun_healthCheckTimeout(t *testing.T) {
	env := setupEnv(t, nil)
	env.prober.succeedOn = 0

	report, err := env.pipeline.Run(fake.CtxWithNilPrinter())
	require.Error(t, err)
	assert.Equal(t, errors.HealthTimeout, errors.KindOf(err))

	assert.Equal(t, DefaultHealthAttempts, env.prober.calls)
	for i := 1; i < len(env.prober.times); i++ {
		gap := env.prober.times[i].Sub(env.prober.times[i-1])
		assert.GreaterOrEqual(t, gap, 5*time.Millisecond)
	}

	var timeout *HealthTimeoutError
	require.True(t, errors.As(err, &timeout))
	assert.Equal(t, DefaultHealthAttempts, timeout.Attempts)
	assert.Equal(t, "tomcat10", timeout.Service)

	failed, found := report.Failed()
	require.True(t, found)
	assert.Equal(t, StageHealthCheck, failed.Name)
}

func TestRun_failures(t *testing.T) {
	testCases := map[string]struct {
		setup         func(t *testing.T, env *testEnv)
		expectedKind  errors.Kind
		expectedStage StageName
		archive       bool
	}{
		"missing tool": {
			setup: func(_ *testing.T, env *testEnv) {
				env.exec.missing = map[string]bool{"sudo": true}
			},
			expectedKind:  errors.MissingTool,
			expectedStage: StageCheckTools,
		},
		"compiler too old": {
			setup: func(_ *testing.T, env *testEnv) {
				env.exec.version = "javac 1.8.0_292\n"
			},
			expectedKind:  errors.MissingTool,
			expectedStage: StageCheckTools,
		},
		"missing library": {
			setup: func(t *testing.T, env *testEnv) {
				require.NoError(t, os.Remove(filepath.Join(env.libDir, "jakarta.servlet-api-6.0.0.jar")))
			},
			expectedKind:  errors.MissingDependency,
			expectedStage: StageLocateLibrary,
		},
		"source refresh fails": {
			setup: func(_ *testing.T, env *testEnv) {
				env.source.err = fmt.Errorf("fatal: unable to access remote")
			},
			expectedKind:  errors.SourceRefresh,
			expectedStage: StageRefreshSource,
		},
		"no sources": {
			setup: func(t *testing.T, env *testEnv) {
				require.NoError(t, os.RemoveAll(filepath.Join(env.repo, "src")))
			},
			expectedKind:  errors.NoSources,
			expectedStage: StageFindSources,
		},
		"compile fails": {
			setup: func(_ *testing.T, env *testEnv) {
				env.pipeline.Config.CompilerVersion = ""
				env.exec.fail = map[string]error{"javac": fmt.Errorf("exit status 1")}
			},
			expectedKind:  errors.Compile,
			expectedStage: StageCompile,
		},
		"restart fails": {
			setup: func(_ *testing.T, env *testEnv) {
				env.exec.fail = map[string]error{"systemctl": fmt.Errorf("exit status 5")}
			},
			expectedKind:  errors.Restart,
			expectedStage: StageRestart,
			archive:       true,
		},
	}

	for tn, tc := range testCases {
		t.Run(tn, func(t *testing.T) {
			env := setupEnv(t, nil)
			tc.setup(t, env)

			report, err := env.pipeline.Run(fake.CtxWithNilPrinter())
			require.Error(t, err)
			assert.Equal(t, tc.expectedKind, errors.KindOf(err))

			failed, found := report.Failed()
			require.True(t, found)
			assert.Equal(t, tc.expectedStage, failed.Name)

			// every stage after the failing one is left untouched
			after := false
			for _, res := range report.Results {
				if after {
					assert.Equal(t, StatusPending, res.Status, "stage %s", res.Name)
				}
				if res.Name == tc.expectedStage {
					after = true
				}
			}

			if tc.archive {
				assert.FileExists(t, filepath.Join(env.repo, "hola.war"))
			} else {
				assert.NoFileExists(t, filepath.Join(env.repo, "hola.war"))
			}
			assert.Equal(t, 0, env.prober.calls)
		})
	}
}

func TestRun_missingLibraryStopsBeforeCompile(t *testing.T) {
	env := setupEnv(t, func(c *Config) {
		c.LibraryDirs = []string{t.TempDir()}
	})

	_, err := env.pipeline.Run(fake.CtxWithNilPrinter())
	require.Error(t, err)

	var notFound *LibraryNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, DefaultLibraryPattern, notFound.Pattern)
	assert.Empty(t, env.exec.compileCalls())
	assert.Equal(t, 0, env.source.calls)
}

func TestRun_skipPull(t *testing.T) {
	env := setupEnv(t, func(c *Config) {
		c.SkipPull = true
	})

	report, err := env.pipeline.Run(fake.CtxWithNilPrinter())
	require.NoError(t, err)
	assert.Equal(t, 0, env.source.calls)

	res, found := report.Result(StageRefreshSource)
	require.True(t, found)
	assert.Equal(t, StatusSkipped, res.Status)
}

func TestRun_privileged(t *testing.T) {
	env := setupEnv(t, func(c *Config) {
		c.Privileged = true
	})

	_, err := env.pipeline.Run(fake.CtxWithNilPrinter())
	require.NoError(t, err)

	assert.Contains(t, env.exec.calls, []string{"sudo", "cp",
		filepath.Join(env.repo, "hola.war"), env.webapps + string(filepath.Separator)})
	assert.Contains(t, env.exec.calls, []string{"sudo", "systemctl", "restart", "tomcat10"})
}

func TestRun_webContent(t *testing.T) {
	env := setupEnv(t, nil)
	webInf := filepath.Join(env.repo, "web", "WEB-INF")
	require.NoError(t, os.MkdirAll(webInf, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(webInf, "web.xml"), []byte("<web-app/>"), 0644))

	_, err := env.pipeline.Run(fake.CtxWithNilPrinter())
	require.NoError(t, err)

	entries, err := ArchiveEntries(filepath.Join(env.repo, "hola.war"))
	require.NoError(t, err)
	assert.Contains(t, entries, "WEB-INF/web.xml")
}

func TestRun_rerunOverwritesArtifacts(t *testing.T) {
	env := setupEnv(t, nil)
	ctx := fake.CtxWithNilPrinter()

	_, err := env.pipeline.Run(ctx)
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(env.repo, "hola.war"))
	require.NoError(t, err)
	firstTree := listTree(t, filepath.Join(env.repo, "build"))

	stale := filepath.Join(env.repo, "build", "stale.txt")
	require.NoError(t, os.WriteFile(stale, []byte("left over"), 0644))

	_, err = env.pipeline.Run(ctx)
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(env.repo, "hola.war"))
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first, second), "archives differ between runs")
	assert.NoFileExists(t, stale)
	if diff := cmp.Diff(firstTree, listTree(t, filepath.Join(env.repo, "build"))); diff != "" {
		t.Errorf("build tree differs between runs (-first +second):\n%s", diff)
	}
}

func TestRun_cancelled(t *testing.T) {
	env := setupEnv(t, nil)
	ctx, cancel := context.WithCancel(fake.CtxWithNilPrinter())
	cancel()

	report, err := env.pipeline.Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	for _, res := range report.Results {
		assert.Equal(t, StatusPending, res.Status)
	}
}

func TestRun_printsStages(t *testing.T) {
	env := setupEnv(t, nil)
	ctx, buf := fake.CtxWithPrinter()

	_, err := env.pipeline.Run(ctx)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(Stages))
	for i, name := range Stages {
		assert.True(t, strings.HasPrefix(lines[i], fmt.Sprintf("[%d/10] %s: ", i+1, name)), lines[i])
	}
}

func TestNew_rejectsBuildDirContainingRepo(t *testing.T) {
	repo := t.TempDir()
	cfg := Defaults()
	cfg.RepoDir = repo
	cfg.BuildDir = filepath.Dir(repo)

	_, err := New(cfg)
	require.Error(t, err)
	assert.Equal(t, errors.InvalidParam, errors.KindOf(err))
}

func TestNew_rejectsArchiveInsideBuildDir(t *testing.T) {
	repo := t.TempDir()
	cfg := Defaults()
	cfg.RepoDir = repo
	cfg.Archive = filepath.Join(repo, "build", "hola.war")

	_, err := New(cfg)
	require.Error(t, err)
	assert.Equal(t, errors.InvalidParam, errors.KindOf(err))
	var verr *errors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"archive"}, verr.Violations.Fields())
}

func listTree(t *testing.T, dir string) map[string]string {
	t.Helper()
	tree := map[string]string{}
	require.NoError(t, filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, path)
		if d.IsDir() {
			tree[rel] = "dir"
			return nil
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		tree[rel] = string(b)
		return nil
	}))
	return tree
}
