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

// Package assert provides predicates over service responses.  Each returns
// nil when the expectation holds and an *ExpectationFailure otherwise.
package assert

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/unikorn-cloud/bookcatalog/pkg/request"
)

// ExpectationFailure describes a failed check.
type ExpectationFailure struct {
	// Check names the predicate that failed.
	Check string
	// Expected is what the check wanted.
	Expected any
	// Actual is what was observed.
	Actual any
	// Response is the exchange under test, if any.
	Response *request.Response
}

func (e *ExpectationFailure) Error() string {
	msg := fmt.Sprintf("%s: expected %v, got %v", e.Check, e.Expected, e.Actual)

	if e.Response != nil && e.Response.TraceID != "" {
		msg += fmt.Sprintf(" (trace ID: %s)", e.Response.TraceID)
	}

	return msg
}

// IsExpectationFailure reports whether err is, or wraps, a failed check.
func IsExpectationFailure(err error) bool {
	var failure *ExpectationFailure

	return errors.As(err, &failure)
}

func fail(resp *request.Response, check string, expected, actual any) error {
	return &ExpectationFailure{
		Check:    check,
		Expected: expected,
		Actual:   actual,
		Response: resp,
	}
}

// All combines several checks, returning every failure.
func All(checks ...error) error {
	return errors.Join(checks...)
}

// StatusCode checks the HTTP status.
func StatusCode(resp *request.Response, expected int) error {
	if resp.StatusCode != expected {
		return fail(resp, "status code", expected, resp.StatusCode)
	}

	return nil
}

// FieldPresent checks the path exists and is not null.
func FieldPresent(resp *request.Response, path string) error {
	value, found := resp.Lookup(path)
	if !found {
		return fail(resp, "field "+path, "present", "absent")
	}

	if value.IsNull() {
		return fail(resp, "field "+path, "present", "null")
	}

	return nil
}

// FieldEquals checks the value at path is structurally equal to expected.
// Numbers compare by value so 2 equals 2.0.
func FieldEquals(resp *request.Response, path string, expected any) error {
	want, ok := expected.(ldvalue.Value)
	if !ok {
		want = ldvalue.CopyArbitraryValue(expected)
	}

	value, found := resp.Lookup(path)
	if !found {
		return fail(resp, "field "+path, want.JSONString(), "absent")
	}

	if !value.Equal(want) {
		return fail(resp, "field "+path, want.JSONString(), value.JSONString())
	}

	return nil
}

// FieldContains checks the string at path contains substring.
func FieldContains(resp *request.Response, path, substring string) error {
	value, found := resp.Lookup(path)
	if !found {
		return fail(resp, "field "+path, fmt.Sprintf("containing %q", substring), "absent")
	}

	if value.Type() != ldvalue.StringType || !strings.Contains(value.StringValue(), substring) {
		return fail(resp, "field "+path, fmt.Sprintf("containing %q", substring), value.JSONString())
	}

	return nil
}

// ResponseTimeUnder checks the exchange took no longer than limit.
func ResponseTimeUnder(resp *request.Response, limit time.Duration) error {
	if resp.Elapsed > limit {
		return fail(resp, "response time", "at most "+limit.String(), resp.Elapsed)
	}

	return nil
}

// Success checks for a 200 with a true success flag.
func Success(resp *request.Response) error {
	if err := StatusCode(resp, http.StatusOK); err != nil {
		return err
	}

	return FieldEquals(resp, "success", true)
}

// SuccessWithData is Success plus a non-null data member.
func SuccessWithData(resp *request.Response) error {
	if err := Success(resp); err != nil {
		return err
	}

	return FieldPresent(resp, "data")
}

// Error checks for the given status with error and message members.
func Error(resp *request.Response, expected int) error {
	if err := StatusCode(resp, expected); err != nil {
		return err
	}

	if err := FieldPresent(resp, "error"); err != nil {
		return err
	}

	return FieldPresent(resp, "message")
}

// ErrorMessageContains checks the message member contains substring.
func ErrorMessageContains(resp *request.Response, substring string) error {
	return FieldContains(resp, "message", substring)
}

// CountMatchesData checks that count, when present, equals the number of
// elements in data.
func CountMatchesData(resp *request.Response) error {
	count, found := resp.Lookup("count")
	if !found {
		return nil
	}

	data, found := resp.Lookup("data")
	if !found || data.Type() != ldvalue.ArrayType {
		return fail(resp, "count consistency", "array data", "non-array data")
	}

	if count.Type() != ldvalue.NumberType || count.IntValue() != data.Count() {
		return fail(resp, "count consistency", data.Count(), count.JSONString())
	}

	return nil
}
