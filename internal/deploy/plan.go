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
	"fmt"
	"path/filepath"
	"strings"
)

// PlannedStage describes what a stage does for a given configuration.
type PlannedStage struct {
	Name    StageName
	Skipped bool
	Action  string
}

// Plan describes every stage a pipeline built from cfg would run, in
// order. cfg is expected to be resolved.
func Plan(cfg Config) []PlannedStage {
	checkTools := "look up " + strings.Join(cfg.RequiredTools, ", ") + " on PATH"
	if cfg.CompilerVersion != "" {
		checkTools += fmt.Sprintf("; require %s %s", filepath.Base(cfg.Compiler), cfg.CompilerVersion)
	}

	compile := strings.Join(compileCommand(cfg), " ")
	if cfg.WebDir != "" {
		compile += fmt.Sprintf("; copy %s into %s", cfg.WebDir, cfg.BuildDir)
	}

	install := fmt.Sprintf("copy %s to %s", cfg.Archive, filepath.Join(cfg.Webapps, filepath.Base(cfg.Archive)))
	restart := "systemctl restart " + cfg.Service
	if cfg.Privileged {
		install = fmt.Sprintf("sudo cp %s %s/", cfg.Archive, cfg.Webapps)
		restart = "sudo " + restart
	}

	return []PlannedStage{
		{Name: StageCheckTools, Action: checkTools},
		{Name: StageLocateLibrary, Action: fmt.Sprintf("first %s in %s", cfg.LibraryPattern, strings.Join(cfg.LibraryDirs, ", "))},
		{Name: StageRefreshSource, Action: "git pull in " + cfg.RepoDir, Skipped: cfg.SkipPull},
		{Name: StageCleanBuild, Action: fmt.Sprintf("remove %s; create %s", cfg.BuildDir, cfg.ClassesPath())},
		{Name: StageFindSources, Action: "*.java under " + cfg.SourceDir},
		{Name: StageCompile, Action: compile},
		{Name: StagePackage, Action: fmt.Sprintf("zip %s into %s", cfg.BuildDir, cfg.Archive)},
		{Name: StageInstall, Action: install},
		{Name: StageRestart, Action: restart},
		{Name: StageHealthCheck, Action: fmt.Sprintf("GET %s up to %d time(s), %s apart",
			cfg.HealthURL, cfg.HealthAttempts, cfg.HealthInterval.Duration)},
	}
}

func compileCommand(cfg Config) []string {
	cmd := []string{filepath.Base(cfg.Compiler), "-cp", "<library>", "-d", cfg.ClassesPath()}
	// Validate has already rejected flags that do not split.
	flags, _ := cfg.CompilerArgs()
	cmd = append(cmd, flags...)
	return append(cmd, "<sources>")
}
