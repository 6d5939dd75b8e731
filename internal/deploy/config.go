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
	"maps"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/shlex"
	"github.com/hola-deploy/hola/internal/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"
)

const (
	DefaultAppName         = "hola"
	DefaultSourceDir       = "src"
	DefaultWebDir          = "web"
	DefaultBuildDir        = "build"
	DefaultArchive         = "hola.war"
	DefaultWebapps         = "/var/lib/tomcat10/webapps"
	DefaultService         = "tomcat10"
	DefaultHealthURL       = "http://localhost:8080/hola/"
	DefaultHealthAttempts  = 20
	DefaultHealthInterval  = time.Second
	DefaultLibraryPattern  = "jakarta.servlet-api*.jar"
	DefaultCompiler        = "javac"
	DefaultCompilerVersion = ">= 11"

	// ClassesDir is where compiled classes go, relative to the build dir.
	ClassesDir = "WEB-INF/classes"
)

// Config holds every parameter of a deployment run. The zero value is not
// usable; start from Defaults.
type Config struct {
	AppName   string `json:"appName"`
	RepoDir   string `json:"repoDir"`
	SourceDir string `json:"sourceDir"`
	WebDir    string `json:"webDir"`
	BuildDir  string `json:"buildDir"`
	Archive   string `json:"archive"`
	Webapps   string `json:"webapps"`
	Service   string `json:"service"`

	HealthURL      string          `json:"healthURL"`
	HealthAttempts int             `json:"healthAttempts"`
	HealthInterval metav1.Duration `json:"healthInterval"`

	RequiredTools  []string `json:"requiredTools"`
	LibraryDirs    []string `json:"libraryDirs"`
	LibraryPattern string   `json:"libraryPattern"`

	Compiler        string `json:"compiler"`
	CompilerFlags   string `json:"compilerFlags,omitempty"`
	CompilerVersion string `json:"compilerVersion,omitempty"`

	// Privileged runs the install and restart stages through sudo.
	Privileged bool `json:"privileged"`
	SkipPull   bool `json:"skipPull"`
}

// Defaults returns the configuration used when no config file is given.
func Defaults() Config {
	return Config{
		AppName:         DefaultAppName,
		RepoDir:         ".",
		SourceDir:       DefaultSourceDir,
		WebDir:          DefaultWebDir,
		BuildDir:        DefaultBuildDir,
		Archive:         DefaultArchive,
		Webapps:         DefaultWebapps,
		Service:         DefaultService,
		HealthURL:       DefaultHealthURL,
		HealthAttempts:  DefaultHealthAttempts,
		HealthInterval:  metav1.Duration{Duration: DefaultHealthInterval},
		RequiredTools:   []string{"git", "javac", "sudo", "systemctl"},
		LibraryDirs:     []string{"/usr/share/java", "/usr/share/tomcat10/lib"},
		LibraryPattern:  DefaultLibraryPattern,
		Compiler:        DefaultCompiler,
		CompilerVersion: DefaultCompilerVersion,
		Privileged:      true,
	}
}

// LoadConfig reads the YAML file at path on top of Defaults. Unknown keys
// are rejected.
func LoadConfig(path string) (Config, error) {
	const op errors.Op = "deploy.LoadConfig"
	cfg := Defaults()
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.E(op, errors.IO, errors.Path(path), err)
	}
	if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
		return Config{}, errors.E(op, errors.InvalidParam, errors.Path(path), err)
	}
	return cfg, nil
}

// Validate reports every problem found in the configuration as a single
// *errors.ValidationError.
func (c Config) Validate() error {
	const op errors.Op = "deploy.Validate"
	var v errors.Violations
	missing := func(field string) {
		v = append(v, errors.Violation{
			Field:  field,
			Type:   errors.Missing,
			Reason: fmt.Sprintf("%s must not be empty", field),
		})
	}
	invalid := func(field, value, reason string) {
		v = append(v, errors.Violation{
			Field:  field,
			Value:  value,
			Type:   errors.Invalid,
			Reason: reason,
		})
	}

	required := map[string]string{
		"appName":        c.AppName,
		"repoDir":        c.RepoDir,
		"sourceDir":      c.SourceDir,
		"buildDir":       c.BuildDir,
		"archive":        c.Archive,
		"webapps":        c.Webapps,
		"service":        c.Service,
		"healthURL":      c.HealthURL,
		"libraryPattern": c.LibraryPattern,
		"compiler":       c.Compiler,
	}
	for _, key := range slices.Sorted(maps.Keys(required)) {
		if strings.TrimSpace(required[key]) == "" {
			missing(key)
		}
	}
	if len(c.LibraryDirs) == 0 {
		v = append(v, errors.Violation{
			Field:  "libraryDirs",
			Type:   errors.Missing,
			Reason: "libraryDirs must list at least one directory",
		})
	}
	if c.HealthAttempts < 1 {
		invalid("healthAttempts", fmt.Sprint(c.HealthAttempts),
			fmt.Sprintf("healthAttempts must be positive, got %d", c.HealthAttempts))
	}
	if c.HealthInterval.Duration <= 0 {
		invalid("healthInterval", c.HealthInterval.Duration.String(),
			fmt.Sprintf("healthInterval must be positive, got %s", c.HealthInterval.Duration))
	}
	if strings.TrimSpace(c.HealthURL) != "" {
		if u, err := url.ParseRequestURI(c.HealthURL); err != nil || u.Host == "" {
			invalid("healthURL", c.HealthURL, fmt.Sprintf("healthURL %q is not an absolute URL", c.HealthURL))
		}
	}
	if _, err := filepath.Match(c.LibraryPattern, ""); err != nil {
		invalid("libraryPattern", c.LibraryPattern, fmt.Sprintf("libraryPattern %q: %v", c.LibraryPattern, err))
	}
	if strings.TrimSpace(c.BuildDir) != "" {
		if err := checkBuildDir(c.BuildDir); err != nil {
			invalid("buildDir", c.BuildDir, err.Error())
		}
		if strings.TrimSpace(c.Archive) != "" && isWithin(c.inRepo(c.BuildDir), c.inRepo(c.Archive)) {
			invalid("archive", c.Archive, fmt.Sprintf("archive %q must not be inside buildDir %q", c.Archive, c.BuildDir))
		}
	}
	if _, err := c.CompilerArgs(); err != nil {
		invalid("compilerFlags", c.CompilerFlags, fmt.Sprintf("compilerFlags: %v", err))
	}
	if c.CompilerVersion != "" {
		if _, err := semver.NewConstraint(c.CompilerVersion); err != nil {
			invalid("compilerVersion", c.CompilerVersion, fmt.Sprintf("compilerVersion %q: %v", c.CompilerVersion, err))
		}
	}

	if len(v) == 0 {
		return nil
	}
	verr := &errors.ValidationError{Violations: v}
	return errors.E(op, verr.Kind(), verr)
}

// checkBuildDir rejects build directories that would make the clean-build
// stage delete the checkout itself.
func checkBuildDir(dir string) error {
	clean := filepath.Clean(dir)
	if filepath.IsAbs(clean) {
		if clean == string(filepath.Separator) {
			return fmt.Errorf("buildDir must not be the filesystem root")
		}
		return nil
	}
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("buildDir %q must be a subdirectory of repoDir", dir)
	}
	return nil
}

// isWithin reports whether p is dir or lies below it. Both are cleaned.
func isWithin(dir, p string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// CompilerArgs splits CompilerFlags the way a shell would.
func (c Config) CompilerArgs() ([]string, error) {
	if strings.TrimSpace(c.CompilerFlags) == "" {
		return nil, nil
	}
	return shlex.Split(c.CompilerFlags)
}

// Resolve returns a copy of the config with RepoDir made absolute and
// every repository relative path joined to it.
func (c Config) Resolve() (Config, error) {
	const op errors.Op = "deploy.Resolve"
	repo, err := filepath.Abs(c.RepoDir)
	if err != nil {
		return Config{}, errors.E(op, errors.IO, errors.Path(c.RepoDir), err)
	}
	r := c
	r.RepoDir = repo
	r.SourceDir = r.inRepo(c.SourceDir)
	r.BuildDir = r.inRepo(c.BuildDir)
	r.Archive = r.inRepo(c.Archive)
	if c.WebDir != "" {
		r.WebDir = r.inRepo(c.WebDir)
	}
	r.RequiredTools = append([]string(nil), c.RequiredTools...)
	r.LibraryDirs = append([]string(nil), c.LibraryDirs...)
	return r, nil
}

func (c Config) inRepo(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.RepoDir, p)
}

// ClassesPath is the directory the compiler writes classes to.
func (c Config) ClassesPath() string {
	return filepath.Join(c.BuildDir, filepath.FromSlash(ClassesDir))
}
