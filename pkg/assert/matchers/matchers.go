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

// Package matchers exposes the response assertions as gomega matchers so
// specs can write Expect(resp).To(HaveStatusCode(http.StatusOK)).
package matchers

import (
	"errors"
	"fmt"
	"time"

	"github.com/onsi/gomega/types"

	"github.com/unikorn-cloud/bookcatalog/pkg/assert"
	"github.com/unikorn-cloud/bookcatalog/pkg/request"
)

var (
	// ErrNotResponse is raised when a matcher is given anything other
	// than a *request.Response.
	ErrNotResponse = errors.New("matcher expects a *request.Response")
)

type responseMatcher struct {
	description string
	check       func(*request.Response) error
	failure     error
}

func newMatcher(description string, check func(*request.Response) error) types.GomegaMatcher {
	return &responseMatcher{
		description: description,
		check:       check,
	}
}

func (m *responseMatcher) Match(actual any) (bool, error) {
	resp, ok := actual.(*request.Response)
	if !ok || resp == nil {
		return false, fmt.Errorf("%w, got %T", ErrNotResponse, actual)
	}

	m.failure = m.check(resp)

	return m.failure == nil, nil
}

func (m *responseMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("Expected\n\t%v\nto %s\n\t%v", actual, m.description, m.failure)
}

func (m *responseMatcher) NegatedFailureMessage(actual any) string {
	return fmt.Sprintf("Expected\n\t%v\nnot to %s", actual, m.description)
}

// HaveStatusCode matches the HTTP status.
func HaveStatusCode(expected int) types.GomegaMatcher {
	return newMatcher(fmt.Sprintf("have status code %d", expected), func(resp *request.Response) error {
		return assert.StatusCode(resp, expected)
	})
}

// HaveJSONField matches a present, non-null field.
func HaveJSONField(path string) types.GomegaMatcher {
	return newMatcher("have field "+path, func(resp *request.Response) error {
		return assert.FieldPresent(resp, path)
	})
}

// HaveJSONFieldEqual matches a field's value structurally.
func HaveJSONFieldEqual(path string, expected any) types.GomegaMatcher {
	return newMatcher(fmt.Sprintf("have field %s equal to %v", path, expected), func(resp *request.Response) error {
		return assert.FieldEquals(resp, path, expected)
	})
}

// RespondWithin matches the exchange's elapsed time.
func RespondWithin(limit time.Duration) types.GomegaMatcher {
	return newMatcher("respond within "+limit.String(), func(resp *request.Response) error {
		return assert.ResponseTimeUnder(resp, limit)
	})
}

// BeSuccessEnvelope matches a 200 with success true.
func BeSuccessEnvelope() types.GomegaMatcher {
	return newMatcher("be a success envelope", assert.Success)
}

// BeSuccessEnvelopeWithData also requires a data member.
func BeSuccessEnvelopeWithData() types.GomegaMatcher {
	return newMatcher("be a success envelope with data", assert.SuccessWithData)
}

// BeErrorEnvelope matches an error shape with the given status.
func BeErrorEnvelope(status int) types.GomegaMatcher {
	return newMatcher(fmt.Sprintf("be an error envelope with status %d", status), func(resp *request.Response) error {
		return assert.Error(resp, status)
	})
}

// HaveErrorMessageContaining matches the error message.
func HaveErrorMessageContaining(substring string) types.GomegaMatcher {
	return newMatcher(fmt.Sprintf("have an error message containing %q", substring), func(resp *request.Response) error {
		return assert.ErrorMessageContains(resp, substring)
	})
}

// HaveConsistentCount matches count against the length of data.
func HaveConsistentCount() types.GomegaMatcher {
	return newMatcher("have a count matching its data", assert.CountMatchesData)
}
