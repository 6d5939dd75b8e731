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

// Package greeting serves the fixed greeting the servlet answers with.
package greeting

import (
	"fmt"
	"net/http"
	"strings"

	"k8s.io/klog/v2"
)

const (
	// Greeting is the body written for every request, without the
	// trailing newline.
	Greeting = "Hola desde Tomcat 10 (deploy automatizado)"

	ContentType = "text/plain; charset=UTF-8"
)

// Handler returns a handler that answers every request with the greeting.
// Query, headers and body of the request are ignored.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", ContentType)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, Greeting)
	})
}

// NewMux mounts the greeting handler under the /<app>/ context root. Every
// path below the root is served by it. An empty app mounts it at /.
func NewMux(app string) (*http.ServeMux, error) {
	if err := ValidateApp(app); err != nil {
		return nil, err
	}
	root := "/"
	if app = strings.Trim(app, "/"); app != "" {
		root += app + "/"
	}
	mux := http.NewServeMux()
	mux.Handle("GET "+root, logRequests(Handler()))
	return mux, nil
}

// ValidateApp checks that app is usable as a context root: a single path
// segment made of unreserved URL characters. Leading and trailing slashes
// are ignored.
func ValidateApp(app string) error {
	seg := strings.Trim(app, "/")
	if seg == "." || seg == ".." {
		return fmt.Errorf("app %q must be a plain path segment", app)
	}
	for _, r := range seg {
		if !isUnreserved(r) {
			return fmt.Errorf("app %q must be a plain path segment", app)
		}
	}
	return nil
}

// isUnreserved matches the unreserved characters of RFC 3986.
func isUnreserved(r rune) bool {
	switch {
	case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
		return true
	case r == '-', r == '.', r == '_', r == '~':
		return true
	}
	return false
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		klog.V(2).Infof("%s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
	})
}
