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
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

var (
	// ErrUnexpectedBody is raised when a body cannot be interpreted as JSON.
	ErrUnexpectedBody = errors.New("unexpected response body")
)

// Response is a fully read HTTP response.  Non-2xx statuses are ordinary
// responses, never errors.
type Response struct {
	// Request is the request that produced the response.  Its body has
	// already been consumed.
	Request *http.Request
	// StatusCode is the HTTP status.
	StatusCode int
	// Header holds the response headers.
	Header http.Header
	// Body is the raw body.
	Body []byte
	// Elapsed is the wall clock time from send to fully read body.
	Elapsed time.Duration
	// TraceID correlates the request with backend logs.
	TraceID string

	document ldvalue.Value
	parseErr error
}

// NewResponse wraps an already read exchange.
func NewResponse(req *http.Request, status int, header http.Header, body []byte, elapsed time.Duration) *Response {
	r := &Response{
		Request:    req,
		StatusCode: status,
		Header:     header,
		Body:       body,
		Elapsed:    elapsed,
		document:   ldvalue.Null(),
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		return r
	}

	var document ldvalue.Value

	if err := json.Unmarshal(body, &document); err != nil {
		r.parseErr = fmt.Errorf("%w: %w", ErrUnexpectedBody, err)
	} else {
		r.document = document
	}

	return r
}

// Document returns the parsed JSON body.  An empty body is JSON null.
func (r *Response) Document() (ldvalue.Value, error) {
	return r.document, r.parseErr
}

// Lookup walks a dotted path such as "data.id", "data[0].title" or
// "data.0.title" and reports whether every segment exists.  A key that is
// present with a null value is found.
func (r *Response) Lookup(path string) (ldvalue.Value, bool) {
	return Lookup(r.document, path)
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	if r.parseErr != nil {
		return r.parseErr
	}

	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: %w", ErrUnexpectedBody, err)
	}

	return nil
}

// String summarizes the exchange for failure messages.
func (r *Response) String() string {
	var b strings.Builder

	if r.Request != nil {
		fmt.Fprintf(&b, "%s %s ", r.Request.Method, r.Request.URL.Path)
	}

	fmt.Fprintf(&b, "-> %d in %s", r.StatusCode, r.Elapsed)

	if r.TraceID != "" {
		fmt.Fprintf(&b, " (trace ID: %s)", r.TraceID)
	}

	if len(r.Body) > 0 {
		fmt.Fprintf(&b, ": %s", r.Body)
	}

	return b.String()
}

// Lookup walks path through a JSON document.
func Lookup(document ldvalue.Value, path string) (ldvalue.Value, bool) {
	value := document

	for _, segment := range splitPath(path) {
		switch value.Type() {
		case ldvalue.ObjectType:
			if !slices.Contains(value.Keys(), segment) {
				return ldvalue.Null(), false
			}

			value = value.GetByKey(segment)
		case ldvalue.ArrayType:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= value.Count() {
				return ldvalue.Null(), false
			}

			value = value.GetByIndex(index)
		default:
			return ldvalue.Null(), false
		}
	}

	return value, true
}

// splitPath turns "$.data[0].title" into ["data", "0", "title"].
func splitPath(path string) []string {
	path = strings.TrimPrefix(path, "$")
	path = strings.NewReplacer("[", ".", "]", "").Replace(path)

	return slices.DeleteFunc(strings.Split(path, "."), func(s string) bool {
		return s == ""
	})
}
