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

// Package cmdinspect contains the inspect command
package cmdinspect

import (
	"context"
	"io"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hola-deploy/hola/internal/deploy"
	docs "github.com/hola-deploy/hola/internal/docs/holadocs"
	"github.com/hola-deploy/hola/internal/util/cmdutil"
	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"
)

// NewRunner returns a command runner
func NewRunner(ctx context.Context, parent string) *Runner {
	r := &Runner{ctx: ctx}
	c := &cobra.Command{
		Use:     "inspect ARCHIVE",
		Short:   docs.InspectShort,
		Long:    docs.InspectShort + "\n" + docs.InspectLong,
		Example: docs.InspectExamples,
		Args:    cobra.ExactArgs(1),
		RunE:    r.runE,
	}
	cmdutil.FixDocs("hola", parent, c)
	r.Command = c
	return r
}

func NewCommand(ctx context.Context, parent string) *cobra.Command {
	return NewRunner(ctx, parent).Command
}

// Runner contains the run function for the inspect command
type Runner struct {
	Command *cobra.Command
	ctx     context.Context
}

func (r *Runner) runE(c *cobra.Command, args []string) error {
	entries, err := deploy.ArchiveEntries(args[0])
	if err != nil {
		return err
	}
	return WriteTree(c.OutOrStdout(), filepath.Base(args[0]), entries)
}

// WriteTree prints archive entry names as a tree under root. Directories
// without an entry of their own are still shown.
func WriteTree(w io.Writer, root string, entries []string) error {
	tree := treeprint.New()
	tree.SetValue(root)

	// keyed by directory name with its trailing slash, "" for root
	branches := map[string]treeprint.Tree{"": tree}
	var branch func(dir string) treeprint.Tree
	branch = func(dir string) treeprint.Tree {
		if b, found := branches[dir]; found {
			return b
		}
		parent, name := path.Split(strings.TrimSuffix(dir, "/"))
		b := branch(parent).AddBranch(name)
		branches[dir] = b
		return b
	}

	sorted := slices.Clone(entries)
	slices.Sort(sorted)
	for _, e := range sorted {
		if strings.HasSuffix(e, "/") {
			branch(e)
			continue
		}
		dir, name := path.Split(e)
		branch(dir).AddNode(name)
	}

	_, err := io.WriteString(w, tree.String())
	return err
}
