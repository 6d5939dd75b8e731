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
	"context"
	"os"
	"path/filepath"

	"github.com/hola-deploy/hola/internal/errors"
	"github.com/otiai10/copy"
)

// CopyWebContent merges the tree at webDir into buildDir. A missing webDir
// is not an error.
func CopyWebContent(webDir, buildDir string) (bool, error) {
	const op errors.Op = "deploy.CopyWebContent"
	if webDir == "" {
		return false, nil
	}
	fi, err := os.Stat(webDir)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.E(op, errors.IO, errors.Path(webDir), err)
	}
	if !fi.IsDir() {
		return false, errors.E(op, errors.InvalidParam, errors.Path(webDir), "web content path is not a directory")
	}
	if err := copy.Copy(webDir, buildDir); err != nil {
		return false, errors.E(op, errors.IO, errors.Path(webDir), err)
	}
	return true, nil
}

// InstallArchive places the archive in the webapps directory, through
// sudo when privileged is set. It returns the installed path.
func InstallArchive(ctx context.Context, ex Executor, archive, webapps string, privileged bool) (string, error) {
	const op errors.Op = "deploy.InstallArchive"
	target := filepath.Join(webapps, filepath.Base(archive))
	if privileged {
		if _, err := ex.Run(ctx, "", "sudo", "cp", archive, webapps+string(filepath.Separator)); err != nil {
			return "", errors.E(op, errors.DeployCopy, errors.Path(webapps), err)
		}
		return target, nil
	}
	if err := copy.Copy(archive, target); err != nil {
		return "", errors.E(op, errors.DeployCopy, errors.Path(webapps), err)
	}
	return target, nil
}

// RestartService restarts the container service with systemctl.
func RestartService(ctx context.Context, ex Executor, service string, privileged bool) error {
	const op errors.Op = "deploy.RestartService"
	name, args := "systemctl", []string{"restart", service}
	if privileged {
		name, args = "sudo", append([]string{"systemctl"}, args...)
	}
	if _, err := ex.Run(ctx, "", name, args...); err != nil {
		return errors.E(op, errors.Restart, err)
	}
	return nil
}
