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

// Package printer writes the progress lines of the hola CLI.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Printer is what commands and the deployment pipeline print through.
type Printer interface {
	Printf(format string, args ...interface{})
	OptPrintf(opt *Options, format string, args ...interface{})
}

// Options decorate a single OptPrintf call.
type Options struct {
	// StageLabel prefixes the message, e.g. "[3/10] refresh-source".
	StageLabel string
	// OutputToStderr sends the message to the error stream.
	OutputToStderr bool
}

func NewOpt() *Options {
	return &Options{}
}

// Stage labels the message with the stage position and name.
func (opt *Options) Stage(ordinal, total int, name string) *Options {
	opt.StageLabel = fmt.Sprintf("[%d/%d] %s", ordinal, total, name)
	return opt
}

func (opt *Options) Stderr() *Options {
	opt.OutputToStderr = true
	return opt
}

func (opt *Options) prefix() string {
	if opt.StageLabel == "" {
		return ""
	}
	return opt.StageLabel + ": "
}

// New returns a Printer writing to out and errOut. Nil writers fall back
// to the process streams.
func New(out, errOut io.Writer) Printer {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &printer{out: out, errOut: errOut}
}

type printer struct {
	out    io.Writer
	errOut io.Writer
}

func (pr *printer) Printf(format string, args ...interface{}) {
	fmt.Fprintf(pr.out, format, args...)
}

func (pr *printer) OptPrintf(opt *Options, format string, args ...interface{}) {
	if opt == nil {
		pr.Printf(format, args...)
		return
	}
	w := pr.out
	if opt.OutputToStderr {
		w = pr.errOut
	}
	fmt.Fprint(w, opt.prefix())
	fmt.Fprintf(w, format, args...)
}

type contextKey int

const printerKey contextKey = 0

// FromContextOrDie returns the Printer stored in ctx and panics when there
// is none.
func FromContextOrDie(ctx context.Context) Printer {
	if pr, ok := ctx.Value(printerKey).(Printer); ok {
		return pr
	}
	panic("printer missing in context")
}

// WithContext returns a copy of ctx carrying pr.
func WithContext(ctx context.Context, pr Printer) context.Context {
	return context.WithValue(ctx, printerKey, pr)
}
