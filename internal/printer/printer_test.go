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

package printer

import (
	"bytes"
	"context"
	"testing"
)

func TestOptPrintf_WithStage(t *testing.T) {
	var buf bytes.Buffer
	pr := New(&buf, &buf)

	pr.OptPrintf(NewOpt().Stage(3, 10, "refresh-source"), "ok\n")

	expected := "[3/10] refresh-source: ok\n"
	if buf.String() != expected {
		t.Errorf("Expected %q, got %q", expected, buf.String())
	}
}

func TestOptPrintf_NilOptions(t *testing.T) {
	var buf bytes.Buffer
	pr := New(&buf, &buf)

	pr.OptPrintf(nil, "General message\n")

	expected := "General message\n"
	if buf.String() != expected {
		t.Errorf("Expected %q, got %q", expected, buf.String())
	}
}

func TestOptPrintf_Stderr(t *testing.T) {
	var out, errOut bytes.Buffer
	pr := New(&out, &errOut)

	pr.OptPrintf(NewOpt().Stderr(), "warning\n")

	if out.Len() != 0 {
		t.Errorf("Expected no stdout output, got %q", out.String())
	}
	if errOut.String() != "warning\n" {
		t.Errorf("Expected %q, got %q", "warning\n", errOut.String())
	}
}

func TestOptPrintf_StageToStderr(t *testing.T) {
	var out, errOut bytes.Buffer
	pr := New(&out, &errOut)

	pr.OptPrintf(NewOpt().Stage(5, 10, "find-sources").Stderr(), "failed\n")

	if out.Len() != 0 {
		t.Errorf("Expected no stdout output, got %q", out.String())
	}
	expected := "[5/10] find-sources: failed\n"
	if errOut.String() != expected {
		t.Errorf("Expected %q, got %q", expected, errOut.String())
	}
}

func TestFromContextOrDie(t *testing.T) {
	pr := New(nil, nil)
	ctx := WithContext(context.Background(), pr)
	if FromContextOrDie(ctx) != pr {
		t.Errorf("Expected printer from context")
	}

	defer func() {
		if recover() == nil {
			t.Errorf("Expected panic for context without printer")
		}
	}()
	FromContextOrDie(context.Background())
}
