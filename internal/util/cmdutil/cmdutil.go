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

package cmdutil

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	goerrors "github.com/go-errors/errors"
	"github.com/hola-deploy/hola/internal/errors"
	"github.com/hola-deploy/hola/internal/errors/resolver"
	"github.com/spf13/cobra"
)

const (
	StackTraceOnErrors = "COBRA_STACK_TRACE_ON_ERRORS"
	trueString         = "true"
)

// FixDocs replaces instances of old with new in the docs for c
func FixDocs(old, new string, c *cobra.Command) {
	c.Use = strings.ReplaceAll(c.Use, old, new)
	c.Short = strings.ReplaceAll(c.Short, old, new)
	c.Long = strings.ReplaceAll(c.Long, old, new)
	c.Example = strings.ReplaceAll(c.Example, old, new)
}

func PrintErrorStacktrace() bool {
	e := os.Getenv(StackTraceOnErrors)
	if StackOnError || e == trueString || e == "1" {
		return true
	}
	return false
}

// StackOnError if true, will print a stack trace on failure.
var StackOnError bool

// HandleError writes the message for err to w and returns the exit code
// the process should terminate with. A nil error yields 0.
func HandleError(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	if PrintErrorStacktrace() {
		var stackErr *goerrors.Error
		if errors.As(err, &stackErr) {
			fmt.Fprintf(w, "%s\n", stackErr.ErrorStack())
		}
	}

	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(w, "Error: Interrupted.")
		return 1
	}
	if rr, ok := resolver.ResolveError(err); ok {
		fmt.Fprintln(w, rr.Message)
		return rr.ExitCode
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return 1
}
