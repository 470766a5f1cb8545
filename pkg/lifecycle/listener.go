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

// Package lifecycle observes test runs and reports on them.  Listeners are
// pure sinks, nothing they do can change whether a test passes.
package lifecycle

import (
	"time"
)

// Listener receives test lifecycle events.  Implementations must be safe
// for concurrent use as tests may run in parallel.
type Listener interface {
	SuiteStarted(suite string)
	TestStarted(test string)
	TestPassed(test string, elapsed time.Duration)
	TestFailed(test, message string, elapsed time.Duration)
	TestSkipped(test, reason string)
	SuiteFinished(suite string)
}

// Summary aggregates a run.
type Summary struct {
	Passed  int
	Failed  int
	Skipped int
}

// Total is the number of tests that reported a result.
func (s Summary) Total() int {
	return s.Passed + s.Failed + s.Skipped
}

// OK is true when nothing failed.
func (s Summary) OK() bool {
	return s.Failed == 0
}

// Multi fans events out to every listener in order.
type Multi []Listener

var _ Listener = Multi{}

func (m Multi) SuiteStarted(suite string) {
	for _, l := range m {
		l.SuiteStarted(suite)
	}
}

func (m Multi) TestStarted(test string) {
	for _, l := range m {
		l.TestStarted(test)
	}
}

func (m Multi) TestPassed(test string, elapsed time.Duration) {
	for _, l := range m {
		l.TestPassed(test, elapsed)
	}
}

func (m Multi) TestFailed(test, message string, elapsed time.Duration) {
	for _, l := range m {
		l.TestFailed(test, message, elapsed)
	}
}

func (m Multi) TestSkipped(test, reason string) {
	for _, l := range m {
		l.TestSkipped(test, reason)
	}
}

func (m Multi) SuiteFinished(suite string) {
	for _, l := range m {
		l.SuiteFinished(suite)
	}
}
