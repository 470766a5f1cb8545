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

// Package types defines the wire shapes exchanged with the book catalog.
package types

import (
	"net/http"
)

// Credentials are sent to the login endpoint.  Empty fields are omitted
// from the payload so missing-field handling can be exercised.
type Credentials struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// Token is an opaque bearer token.  It is never decoded client side.
type Token struct {
	Value     string
	ExpiresIn string
}

// String hides the token value from logs.
func (t Token) String() string {
	if t.Value == "" {
		return "<empty>"
	}

	return "<redacted>"
}

// User describes the authenticated principal.
type User struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	Message   string `json:"message"`
	Token     string `json:"token"`
	ExpiresIn string `json:"expiresIn"`
	User      User   `json:"user"`
}

// Book is a catalog entry.  Every field is optional so partial payloads
// can be expressed.  ID is assigned by the service and must not be set by
// callers on create.
type Book struct {
	ID            string `json:"id,omitempty"`
	Title         string `json:"title,omitempty"`
	Author        string `json:"author,omitempty"`
	ISBN          string `json:"isbn,omitempty"`
	PublishedYear *int   `json:"publishedYear,omitempty"`
	Available     *bool  `json:"available,omitempty"`
}

// Envelope is the success shape.  Count is only present on collections.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Count   *int   `json:"count,omitempty"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// ErrorEnvelope is the failure shape.
type ErrorEnvelope struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode,omitempty"`
}

// DeleteResponse acknowledges a deletion.
type DeleteResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	DeletedID string `json:"deletedId"`
}

// Health is the service liveness report.
type Health struct {
	Status      string  `json:"status"`
	Timestamp   string  `json:"timestamp"`
	Uptime      float64 `json:"uptime"`
	Environment string  `json:"environment"`
}

// Outcome classifies a response for reporting.
type Outcome string

const (
	OutcomeSuccess    Outcome = "Success"
	OutcomeValidation Outcome = "BackendValidationError"
	OutcomeAuth       Outcome = "BackendAuthError"
	OutcomeNotFound   Outcome = "BackendNotFound"
	OutcomeUnexpected Outcome = "Unexpected"
)

// OutcomeForStatus maps an HTTP status code to an outcome.
func OutcomeForStatus(status int) Outcome {
	switch {
	case status >= http.StatusOK && status < http.StatusMultipleChoices:
		return OutcomeSuccess
	case status == http.StatusBadRequest:
		return OutcomeValidation
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return OutcomeAuth
	case status == http.StatusNotFound:
		return OutcomeNotFound
	}

	return OutcomeUnexpected
}
