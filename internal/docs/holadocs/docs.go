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

// Package holadocs holds the help text of the hola commands.
package holadocs

var CliShort = `Build, deploy and serve the hola servlet`
var CliLong = `
hola builds the hola servlet from its git checkout, packages it as a web
archive, installs it into the local Tomcat container and waits until the
application answers on its health URL.

It can also serve the same greeting directly, without a container.
`

var DeployShort = `Compile, package and install the servlet archive`
var DeployLong = `
  hola deploy [--config FILE]

The deployment runs these stages in order and stops at the first failure:

  check-tools      every required tool is on PATH and javac is recent enough
  locate-library   find the servlet API jar in the library directories
  refresh-source   git pull in the repository directory
  clean-build      recreate the build directory
  find-sources     collect the .java files under the source directory
  compile          javac against the servlet API jar
  package          zip the build directory into the web archive
  install          copy the archive into the container webapps directory
  restart          restart the container service
  health-check     poll the health URL until it answers

Flags:

  --config:
    Path to a YAML file overriding the defaults. Unknown keys are rejected.
    Run 'hola plan' to see the resolved values.
`
var DeployExamples = `
  # deploy the checkout in the current directory with the defaults
  $ hola deploy

  # deploy with a configuration file
  $ hola deploy --config hola.yaml
`

var ServeShort = `Serve the greeting over HTTP`
var ServeLong = `
  hola serve [--listen ADDR] [--app NAME]

Serves the greeting under /NAME/ until interrupted.

Flags:

  --listen:
    TCP address to listen on. Defaults to :8080.

  --app:
    Context root the greeting is mounted under. Defaults to hola.
`
var ServeExamples = `
  # serve on the default port
  $ hola serve

  # answer on http://localhost:9090/saludo/
  $ hola serve --listen :9090 --app saludo
`

var PlanShort = `Print the resolved configuration and stages without running them`
var PlanLong = `
  hola plan [--config FILE] [--output table|yaml]

Flags:

  --config:
    Path to a YAML file overriding the defaults.

  --output, -o:
    Output format, either table or yaml. Defaults to table.
`
var PlanExamples = `
  # show what 'hola deploy' would do
  $ hola plan

  # print the resolved configuration as YAML
  $ hola plan --config hola.yaml -o yaml
`

var InspectShort = `Print the entries of a web archive as a tree`
var InspectLong = `
  hola inspect ARCHIVE

Args:

  ARCHIVE:
    Path to a web archive, such as the hola.war written by 'hola deploy'.
`
var InspectExamples = `
  # list what was packaged by the last deployment
  $ hola inspect hola.war
`
