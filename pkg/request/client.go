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

package request

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/alessio/shellescape"
	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TransportFailure is a network or timeout error.  The backend was never
// heard from so there is no status code.
type TransportFailure struct {
	Method  string
	URL     string
	Elapsed time.Duration
	Err     error
}

func (e *TransportFailure) Error() string {
	return fmt.Sprintf("%s %s failed after %s: %v", e.Method, e.URL, e.Elapsed, e.Err)
}

func (e *TransportFailure) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was the request deadline expiring.
func (e *TransportFailure) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// Client executes request specs.
type Client struct {
	doer       Doer
	logger     logr.Logger
	propagator propagation.TextMapPropagator
	traceState trace.TraceState
}

// Option customizes a Client.
type Option func(*Client)

// WithDoer replaces the default HTTP client.
func WithDoer(doer Doer) Option {
	return func(c *Client) {
		c.doer = doer
	}
}

// WithLogger sets the logger used when a spec has logging enabled.
func WithLogger(logger logr.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient returns a new executor.
func NewClient(options ...Option) *Client {
	// The only member is a well formed constant, so the error is impossible.
	traceState, _ := trace.ParseTraceState("test-automation=bookcatalog")

	c := &Client{
		doer:       &http.Client{},
		logger:     logr.Discard(),
		propagator: propagation.TraceContext{},
		traceState: traceState,
	}

	for _, o := range options {
		o(c)
	}

	return c
}

// newSpanContext creates a fresh sampled span per request so a failure can
// be located in the backend's logs by trace ID.
func (c *Client) newSpanContext() trace.SpanContext {
	var traceID trace.TraceID

	var spanID trace.SpanID

	_, _ = rand.Read(traceID[:])
	_, _ = rand.Read(spanID[:])

	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
		TraceState: c.traceState,
	})
}

// encodeBody accepts nil, raw bytes, which are sent untouched, or anything
// that marshals to JSON.
func encodeBody(body any) ([]byte, error) {
	switch t := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return t, nil
	case json.RawMessage:
		return t, nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request body: %w", err)
	}

	return data, nil
}

// Do sends a request built from spec and reads the whole response.  An
// error is only returned when no response was received.
func (c *Client) Do(ctx context.Context, spec Spec, method, path string, body any) (*Response, error) {
	data, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	if spec.Timeout() > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, spec.Timeout())
		defer cancel()
	}

	spanContext := c.newSpanContext()

	fullURL := spec.BaseURL() + path

	var reader io.Reader

	if data != nil {
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header = spec.Header()

	c.propagator.Inject(trace.ContextWithSpanContext(ctx, spanContext), propagation.HeaderCarrier(req.Header))

	start := time.Now()

	resp, err := c.doer.Do(req)
	if err != nil {
		failure := &TransportFailure{
			Method:  method,
			URL:     fullURL,
			Elapsed: time.Since(start),
			Err:     err,
		}

		c.logFailure(spec, req, data, spanContext, "request failed", "error", err.Error())

		return nil, failure
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)

	if err != nil {
		c.logFailure(spec, req, data, spanContext, "reading response body failed", "status", resp.StatusCode, "error", err.Error())

		return nil, &TransportFailure{
			Method:  method,
			URL:     fullURL,
			Elapsed: elapsed,
			Err:     fmt.Errorf("reading response body: %w", err),
		}
	}

	response := NewResponse(req, resp.StatusCode, resp.Header, respBody, elapsed)
	response.TraceID = spanContext.TraceID().String()

	if spec.Logging() {
		c.logger.Info("request", "method", method, "path", path, "status", resp.StatusCode, "duration", elapsed, "traceID", response.TraceID)

		if len(respBody) > 0 {
			c.logger.V(1).Info("response body", "method", method, "path", path, "body", string(respBody))
		}

		if resp.StatusCode >= http.StatusBadRequest {
			c.logFailure(spec, req, data, spanContext, "request returned an error status", "status", resp.StatusCode)
		}
	}

	return response, nil
}

// logFailure logs a replayable curl command for a failed exchange.
// Authorization headers are redacted.
func (c *Client) logFailure(spec Spec, req *http.Request, body []byte, spanContext trace.SpanContext, msg string, keysAndValues ...any) {
	if !spec.Logging() {
		return
	}

	args := []string{"curl", "-X", req.Method}

	keys := make([]string, 0, len(req.Header))

	for key := range req.Header {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	for _, key := range keys {
		value := req.Header.Get(key)

		if key == headerAuthorization {
			value = "Bearer <redacted>"
		}

		args = append(args, "-H", key+": "+value)
	}

	if len(body) > 0 {
		args = append(args, "--data-raw", string(body))
	}

	args = append(args, req.URL.String())

	keysAndValues = append(keysAndValues, "traceID", spanContext.TraceID().String(), "replay", shellescape.QuoteCommand(args))

	c.logger.Info(msg, keysAndValues...)
}
