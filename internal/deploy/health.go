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
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hola-deploy/hola/internal/errors"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/klog/v2"
)

// Prober performs a single health probe.
type Prober interface {
	Probe(ctx context.Context, url string) error
}

// HTTPProber probes with a GET request. Any response below 400 counts as
// healthy.
type HTTPProber struct {
	Client *http.Client
}

func (p *HTTPProber) Probe(ctx context.Context, url string) error {
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("unexpected status %s", res.Status)
	}
	return nil
}

// HealthTimeoutError is returned when no probe succeeded.
type HealthTimeoutError struct {
	URL      string
	Attempts int
	Service  string
	LastErr  error
}

func (e *HealthTimeoutError) Error() string {
	msg := fmt.Sprintf("%s did not respond after %d attempts", e.URL, e.Attempts)
	if e.LastErr != nil {
		msg += fmt.Sprintf(": %v", e.LastErr)
	}
	return msg
}

func (e *HealthTimeoutError) Unwrap() error {
	return e.LastErr
}

// WaitForHealthy probes url up to attempts times with interval between
// consecutive probes, and returns the number of probes made.
func WaitForHealthy(ctx context.Context, p Prober, url string, attempts int, interval time.Duration) (int, error) {
	const op errors.Op = "deploy.WaitForHealthy"
	made := 0
	var lastErr error
	backoff := wait.Backoff{
		Duration: interval,
		Factor:   1,
		Steps:    attempts,
	}
	err := wait.ExponentialBackoffWithContext(ctx, backoff, func(ctx context.Context) (bool, error) {
		made++
		if err := p.Probe(ctx, url); err != nil {
			klog.V(2).Infof("health probe %d/%d of %s failed: %v", made, attempts, url, err)
			lastErr = err
			return false, nil
		}
		return true, nil
	})
	if err == nil {
		return made, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return made, errors.E(op, errors.Path(url), ctxErr)
	}
	if wait.Interrupted(err) {
		return made, errors.E(op, errors.HealthTimeout, errors.Path(url), &HealthTimeoutError{
			URL:      url,
			Attempts: made,
			LastErr:  lastErr,
		})
	}
	return made, errors.E(op, errors.Path(url), err)
}
