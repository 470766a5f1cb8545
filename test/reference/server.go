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

// Package reference is an in-process book catalog used to exercise the
// verification client hermetically.  It reproduces the service's routes,
// status codes and envelopes but is not a general purpose mock.
package reference

import (
	"net/http/httptest"
)

// Server is a running reference service.
type Server struct {
	*httptest.Server

	// Handler exposes the catalog so tests can reset it.
	Handler *Handler
}

// NewServer starts a reference service on a loopback port.  Callers must
// Close it.
func NewServer(options *Options) (*Server, error) {
	handler, err := New(options)
	if err != nil {
		return nil, err
	}

	return &Server{
		Server:  httptest.NewServer(handler.Router()),
		Handler: handler,
	}, nil
}
