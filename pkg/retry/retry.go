/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package retry bounds how often a flaky test step is repeated.
//
// A Policy belongs to exactly one test and must not be shared between
// concurrently running tests.
package retry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/go-logr/logr"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/unikorn-cloud/bookcatalog/pkg/config"
	"github.com/unikorn-cloud/bookcatalog/pkg/request"
)

var (
	// ErrExhausted is raised when an operation never succeeded.
	ErrExhausted = errors.New("retry attempts exhausted")
)

const (
	// DefaultMaxRetries is the number of retries after the first attempt.
	DefaultMaxRetries = 2

	defaultMinBackoff = 100 * time.Millisecond
	defaultMaxBackoff = 2 * time.Second
)

// Policy is a bounded retry counter.
type Policy struct {
	max   int
	count int
}

// NewPolicy returns a policy allowing up to maxRetries retries.  Negative
// bounds are treated as zero.
func NewPolicy(maxRetries int) *Policy {
	return &Policy{
		max: max(maxRetries, 0),
	}
}

// Default returns a policy with the default bound.
func Default() *Policy {
	return NewPolicy(DefaultMaxRetries)
}

// FromConfig derives the bound from the configured total attempt count.
func FromConfig(c *config.Config) *Policy {
	return NewPolicy(c.MaxRetryAttempts - 1)
}

// Retry records a failure and reports whether another attempt is allowed.
// Once it returns false it always returns false.
func (p *Policy) Retry() bool {
	if p.count >= p.max {
		return false
	}

	p.count++

	return true
}

// Count is the number of retries granted so far.
func (p *Policy) Count() int {
	return p.count
}

// Max is the retry bound.
func (p *Policy) Max() int {
	return p.max
}

// Operation is a single attempt at a test step.
type Operation func(ctx context.Context) (*request.Response, error)

// Condition decides whether an attempt succeeded.
type Condition func(resp *request.Response, err error) bool

// StatusIs succeeds when the service could be reached and answered with one
// of the given codes.
func StatusIs(codes ...int) Condition {
	return func(resp *request.Response, err error) bool {
		return err == nil && resp != nil && slices.Contains(codes, resp.StatusCode)
	}
}

// Reachable succeeds on any response at all, retrying transport failures
// only.
func Reachable(resp *request.Response, err error) bool {
	return err == nil && resp != nil
}

type options struct {
	backoff    retryablehttp.Backoff
	minBackoff time.Duration
	maxBackoff time.Duration
}

// Option modifies Do.
type Option func(*options)

// WithBackoff bounds the delay between attempts.
func WithBackoff(minimum, maximum time.Duration) Option {
	return func(o *options) {
		o.minBackoff = minimum
		o.maxBackoff = maximum
	}
}

// WithBackoffFunc replaces the jittered linear backoff, e.g. with
// retryablehttp.DefaultBackoff for exponential delays.
func WithBackoffFunc(backoff retryablehttp.Backoff) Option {
	return func(o *options) {
		o.backoff = backoff
	}
}

// Do runs operation up to maxAttempts times until succeeded holds, sleeping
// between attempts.  On success the last response and error are returned
// untouched.  Otherwise the last response is returned with an error that
// wraps ErrExhausted and the last transport failure, if any.
func Do(ctx context.Context, operation Operation, maxAttempts int, succeeded Condition, opts ...Option) (*request.Response, error) {
	o := &options{
		backoff:    retryablehttp.LinearJitterBackoff,
		minBackoff: defaultMinBackoff,
		maxBackoff: defaultMaxBackoff,
	}

	for _, opt := range opts {
		opt(o)
	}

	log := logr.FromContextOrDiscard(ctx)

	policy := NewPolicy(maxAttempts - 1)

	for attempt := 1; ; attempt++ {
		resp, err := operation(ctx)
		if succeeded(resp, err) {
			return resp, err
		}

		if !policy.Retry() {
			if err != nil {
				return resp, fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempt, err)
			}

			return resp, fmt.Errorf("%w after %d attempts: last status %s", ErrExhausted, attempt, status(resp))
		}

		delay := o.backoff(o.minBackoff, o.maxBackoff, attempt, nil)

		log.Info("retrying", "attempt", attempt, "delay", delay, "status", status(resp), "error", err)

		timer := time.NewTimer(delay)

		select {
		case <-ctx.Done():
			timer.Stop()

			return resp, fmt.Errorf("%w: %w", ErrExhausted, ctx.Err())
		case <-timer.C:
		}
	}
}

func status(resp *request.Response) string {
	if resp == nil {
		return "none"
	}

	return fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}
