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

package fake

import (
	"bytes"
	"context"

	"github.com/hola-deploy/hola/internal/printer"
)

// NilPrinter implements the printer.Printer interface and just ignores
// all print calls.
type NilPrinter struct{}

func (np *NilPrinter) OptPrintf(*printer.Options, string, ...interface{}) {}

func (np *NilPrinter) Printf(string, ...interface{}) {}

// CtxWithNilPrinter returns a new context with the NilPrinter added.
func CtxWithNilPrinter() context.Context {
	ctx := context.Background()
	return printer.WithContext(ctx, &NilPrinter{})
}

// CtxWithPrinter returns a new context with a printer writing both
// streams to the returned buffer.
func CtxWithPrinter() (context.Context, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	ctx := printer.WithContext(context.Background(), printer.New(buf, buf))
	return ctx, buf
}
