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
	"net/http"
	"time"

	"github.com/unikorn-cloud/bookcatalog/pkg/config"
	"github.com/unikorn-cloud/bookcatalog/pkg/constants"
)

const (
	mimeJSON = "application/json"

	headerAuthorization = "Authorization"
)

// Spec describes how to issue a request: where, with which headers and
// whether to log it.  It is a value; the With methods return modified
// copies and never touch the receiver.
type Spec struct {
	baseURL string
	header  http.Header
	logging bool
	timeout time.Duration
}

// BaseURL returns the service root.
func (s Spec) BaseURL() string {
	return s.baseURL
}

// Header returns a copy of the request headers.
func (s Spec) Header() http.Header {
	return cloneHeader(s.header)
}

// Logging reports whether exchanges made with this spec are logged.
func (s Spec) Logging() bool {
	return s.logging
}

// Timeout is the upper bound on a single exchange.
func (s Spec) Timeout() time.Duration {
	return s.timeout
}

// Authenticated reports whether an Authorization header is attached.
func (s Spec) Authenticated() bool {
	_, ok := s.header[headerAuthorization]

	return ok
}

// WithHeader returns a copy of the spec with the header set.
func (s Spec) WithHeader(key, value string) Spec {
	s.header = cloneHeader(s.header)
	s.header.Set(key, value)

	return s
}

// WithoutHeader returns a copy of the spec with the header removed.
func (s Spec) WithoutHeader(key string) Spec {
	s.header = cloneHeader(s.header)
	s.header.Del(key)

	return s
}

// WithBearer returns a copy of the spec carrying the token verbatim,
// empty or malformed tokens included.
func (s Spec) WithBearer(token string) Spec {
	return s.WithHeader(headerAuthorization, "Bearer "+token)
}

// WithLogging returns a copy of the spec with logging toggled.
func (s Spec) WithLogging(enabled bool) Spec {
	s.logging = enabled

	return s
}

// WithTimeout returns a copy of the spec with a different timeout.
func (s Spec) WithTimeout(timeout time.Duration) Spec {
	s.timeout = timeout

	return s
}

func cloneHeader(h http.Header) http.Header {
	if h == nil {
		return http.Header{}
	}

	return h.Clone()
}

// Factory builds request specs from a configuration snapshot.
type Factory struct {
	baseURL string
	logging bool
	timeout time.Duration
}

// NewFactory reads everything it needs from the snapshot once.
func NewFactory(c *config.Config) *Factory {
	return &Factory{
		baseURL: c.BaseURL,
		logging: c.LoggingEnabled,
		timeout: c.Timeout,
	}
}

// Base returns an anonymous JSON spec.
func (f *Factory) Base() Spec {
	header := http.Header{}
	header.Set("Content-Type", mimeJSON)
	header.Set("Accept", mimeJSON)
	header.Set("User-Agent", constants.UserAgent())

	return Spec{
		baseURL: f.baseURL,
		header:  header,
		logging: f.logging,
		timeout: f.timeout,
	}
}

// Authenticated returns Base with a bearer token attached.
func (f *Factory) Authenticated(token string) Spec {
	return f.Base().WithBearer(token)
}
