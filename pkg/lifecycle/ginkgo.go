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

package lifecycle

import (
	"github.com/onsi/ginkgo/v2/types"
)

// ObserveSpecStart forwards a ReportBeforeEach report.
func ObserveSpecStart(listener Listener, report types.SpecReport) {
	listener.TestStarted(report.FullText())
}

// ObserveSpec forwards a ReportAfterEach report.  Interrupted and aborted
// specs count as failures, pending ones as skipped.
func ObserveSpec(listener Listener, report types.SpecReport) {
	name := report.FullText()

	switch {
	case report.State == types.SpecStatePassed:
		listener.TestPassed(name, report.RunTime)
	case report.State == types.SpecStateSkipped:
		listener.TestSkipped(name, report.Failure.Message)
	case report.State == types.SpecStatePending:
		listener.TestSkipped(name, "pending")
	case report.State.Is(types.SpecStateFailureStates):
		listener.TestFailed(name, report.FailureMessage(), report.RunTime)
	}
}
