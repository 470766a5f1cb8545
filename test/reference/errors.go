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

package reference

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-logr/logr"
)

// Error is an HTTP error rendered as the service's error envelope.
type Error struct {
	status  int
	error   string
	message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.error, e.message, e.err)
	}

	return fmt.Sprintf("%s: %s", e.error, e.message)
}

func (e *Error) Unwrap() error {
	return e.err
}

// WithError attaches a cause that is logged but not returned to the client.
func (e *Error) WithError(err error) *Error {
	e.err = err

	return e
}

// BadRequest is a validation failure.
func BadRequest(message string) *Error {
	return &Error{status: http.StatusBadRequest, error: "Bad Request", message: message}
}

// Unauthorized is a credential failure.
func Unauthorized(reason, message string) *Error {
	return &Error{status: http.StatusUnauthorized, error: reason, message: message}
}

// NotFound is a missing resource or route.
func NotFound(message string) *Error {
	return &Error{status: http.StatusNotFound, error: "Not Found", message: message}
}

// ServerError is anything unexpected.
func ServerError(message string) *Error {
	return &Error{status: http.StatusInternalServerError, error: "Internal Server Error", message: message}
}

// HandleError writes the error envelope.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var httpError *Error

	if !errors.As(err, &httpError) {
		httpError = ServerError("unhandled error").WithError(err)
	}

	if httpError.status >= http.StatusInternalServerError {
		logr.FromContextOrDiscard(r.Context()).Error(httpError, "request failed", "method", r.Method, "path", r.URL.Path)
	}

	body := map[string]string{
		"error":   httpError.error,
		"message": httpError.message,
	}

	WriteJSONResponse(w, r, httpError.status, body)
}

// WriteJSONResponse writes a JSON body with the given status.
func WriteJSONResponse(w http.ResponseWriter, r *http.Request, status int, response any) {
	body, err := json.Marshal(response)
	if err != nil {
		logr.FromContextOrDiscard(r.Context()).Error(err, "failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(body); err != nil {
		logr.FromContextOrDiscard(r.Context()).Error(err, "failed to write response")
	}
}
