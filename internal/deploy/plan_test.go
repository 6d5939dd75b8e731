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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan(t *testing.T) {
	cfg := Defaults()
	cfg.RepoDir = "/srv/hola"
	cfg.CompilerFlags = "--release 17"
	cfg, err := cfg.Resolve()
	require.NoError(t, err)

	plan := Plan(cfg)
	require.Len(t, plan, len(Stages))
	for i, s := range plan {
		assert.Equal(t, Stages[i], s.Name)
		assert.False(t, s.Skipped)
	}

	actions := map[StageName]string{}
	for _, s := range plan {
		actions[s.Name] = s.Action
	}
	assert.Equal(t, "look up git, javac, sudo, systemctl on PATH; require javac >= 11", actions[StageCheckTools])
	assert.Equal(t, "first jakarta.servlet-api*.jar in /usr/share/java, /usr/share/tomcat10/lib", actions[StageLocateLibrary])
	assert.Equal(t, "git pull in /srv/hola", actions[StageRefreshSource])
	assert.Equal(t, "javac -cp <library> -d /srv/hola/build/WEB-INF/classes --release 17 <sources>; "+
		"copy /srv/hola/web into /srv/hola/build", actions[StageCompile])
	assert.Equal(t, "sudo cp /srv/hola/hola.war /var/lib/tomcat10/webapps/", actions[StageInstall])
	assert.Equal(t, "sudo systemctl restart tomcat10", actions[StageRestart])
	assert.Equal(t, "GET http://localhost:8080/hola/ up to 20 time(s), 1s apart", actions[StageHealthCheck])
}

func TestPlan_unprivilegedWithoutPull(t *testing.T) {
	cfg := Defaults()
	cfg.RepoDir = "/srv/hola"
	cfg.Privileged = false
	cfg.SkipPull = true
	cfg, err := cfg.Resolve()
	require.NoError(t, err)

	plan := Plan(cfg)
	assert.True(t, plan[2].Skipped)
	assert.Equal(t, "copy /srv/hola/hola.war to /var/lib/tomcat10/webapps/hola.war", plan[7].Action)
	assert.Equal(t, "systemctl restart tomcat10", plan[8].Action)
}
