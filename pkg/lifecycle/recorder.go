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
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const (
	resultPassed  = "passed"
	resultFailed  = "failed"
	resultSkipped = "skipped"
)

// Recorder counts results in a private prometheus registry so a run can be
// exported in the text exposition format, e.g. for a node exporter's
// textfile collector.
type Recorder struct {
	registry *prometheus.Registry
	results  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	suites   *prometheus.GaugeVec
}

var _ Listener = &Recorder{}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		results: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookcatalog_tests_total",
				Help: "Total number of tests by result",
			},
			[]string{"result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bookcatalog_test_duration_seconds",
				Help:    "Test run time by result",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		),
		suites: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bookcatalog_suite_last_finished_timestamp_seconds",
				Help: "Unix time each suite last finished",
			},
			[]string{"suite"},
		),
	}

	r.registry.MustRegister(r.results, r.duration, r.suites)

	// Report zero rather than absent for results that never happen.
	for _, result := range []string{resultPassed, resultFailed, resultSkipped} {
		r.results.WithLabelValues(result)
	}

	return r
}

func (r *Recorder) SuiteStarted(string) {}

func (r *Recorder) TestStarted(string) {}

func (r *Recorder) TestPassed(_ string, elapsed time.Duration) {
	r.results.WithLabelValues(resultPassed).Inc()
	r.duration.WithLabelValues(resultPassed).Observe(elapsed.Seconds())
}

func (r *Recorder) TestFailed(_, _ string, elapsed time.Duration) {
	r.results.WithLabelValues(resultFailed).Inc()
	r.duration.WithLabelValues(resultFailed).Observe(elapsed.Seconds())
}

func (r *Recorder) TestSkipped(string, string) {
	r.results.WithLabelValues(resultSkipped).Inc()
}

func (r *Recorder) SuiteFinished(suite string) {
	r.suites.WithLabelValues(suite).SetToCurrentTime()
}

func (r *Recorder) count(result string) int {
	var m dto.Metric

	if err := r.results.WithLabelValues(result).Write(&m); err != nil {
		return 0
	}

	return int(m.GetCounter().GetValue())
}

// Summary returns the counts so far.
func (r *Recorder) Summary() Summary {
	return Summary{
		Passed:  r.count(resultPassed),
		Failed:  r.count(resultFailed),
		Skipped: r.count(resultSkipped),
	}
}

// Gatherer exposes the registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile atomically writes the metrics to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}

	return nil
}
