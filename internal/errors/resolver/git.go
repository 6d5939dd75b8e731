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

package resolver

import (
	goerrors "errors"
	"fmt"
	"strings"

	"github.com/hola-deploy/hola/internal/gitutil"
)

//nolint:gochecknoinits
func init() {
	AddErrorResolver(&gitExecErrorResolver{})
}

// gitExecErrorResolver is an implementation of the ErrorResolver interface
// that can produce error messages for errors of the gitutil.GitExecError type.
type gitExecErrorResolver struct{}

func (*gitExecErrorResolver) Resolve(err error) (ResolvedResult, bool) {
	var gitExecErr *gitutil.GitExecError
	if !goerrors.As(err, &gitExecErr) {
		return ResolvedResult{}, false
	}
	fullCommand := strings.TrimSpace("git " + strings.Join(gitExecErr.Args, " "))

	var msg string
	switch gitExecErr.Type {
	case gitutil.GitExecutableNotFound:
		msg = "Error: No git executable found. hola requires git to be installed and available in the path."

	case gitutil.NotARepository:
		msg = fmt.Sprintf("Error: %q is not a git repository. Run hola from the application checkout or set repoDir.", gitExecErr.Dir)

	case gitutil.NoUpstream:
		msg = fmt.Sprintf("Error: The current branch of %q has no upstream branch to pull from.", gitExecErr.Dir)
		msg += " Set one with 'git branch --set-upstream-to'."

	case gitutil.PullConflict:
		msg = fmt.Sprintf("Error: Local changes in %q conflict with the upstream branch.", gitExecErr.Dir)
		msg += " Resolve them and run the deployment again."

	case gitutil.HTTPSAuthRequired:
		msg = fmt.Sprintf("Error: The remote of %q requires authentication.", gitExecErr.Dir)
		msg += " Configure a credential helper or use an ssh remote."

	case gitutil.RepositoryUnavailable:
		msg = fmt.Sprintf("Error: Unable to reach the remote of %q.", gitExecErr.Dir)

	case gitutil.RepositoryNotFound:
		msg = fmt.Sprintf("Error: The remote repository of %q was not found.", gitExecErr.Dir)

	default:
		msg = fmt.Sprintf("Error: Failed to execute git command %q", fullCommand)
		if gitExecErr.Dir != "" {
			msg += fmt.Sprintf(" in %q", gitExecErr.Dir)
		}
	}
	msg = msg + "\n" + BuildOutputDetails(gitExecErr.StdOut, gitExecErr.StdErr)
	return ResolvedResult{
		Message: strings.TrimSpace(msg),
	}, true
}
