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
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// Console prints events as they happen and a summary table when a suite
// finishes.
type Console struct {
	out      io.Writer
	recorder *Recorder
	lock     sync.Mutex
	failures []string

	heading *color.Color
	pass    *color.Color
	fail    *color.Color
	skip    *color.Color
}

var _ Listener = &Console{}

// ConsoleOption modifies a console.
type ConsoleOption func(*Console)

// WithoutColor disables ANSI colours regardless of the terminal.
func WithoutColor() ConsoleOption {
	return func(c *Console) {
		for _, col := range []*color.Color{c.heading, c.pass, c.fail, c.skip} {
			col.DisableColor()
		}
	}
}

// NewConsole writes to out.  Counts in the summary are read from recorder,
// which must also be receiving events, typically via Multi.
func NewConsole(out io.Writer, recorder *Recorder, options ...ConsoleOption) *Console {
	c := &Console{
		out:      out,
		recorder: recorder,
		heading:  color.New(color.Bold),
		pass:     color.New(color.FgGreen),
		fail:     color.New(color.FgRed, color.Bold),
		skip:     color.New(color.FgYellow),
	}

	for _, o := range options {
		o(c)
	}

	return c
}

func (c *Console) SuiteStarted(suite string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.failures = nil

	_, _ = c.heading.Fprintf(c.out, "=== %s\n", suite)
}

func (c *Console) TestStarted(string) {}

func (c *Console) TestPassed(test string, elapsed time.Duration) {
	c.lock.Lock()
	defer c.lock.Unlock()

	_, _ = c.pass.Fprint(c.out, "PASS")
	_, _ = fmt.Fprintf(c.out, " %s (%s)\n", test, elapsed.Round(time.Millisecond))
}

func (c *Console) TestFailed(test, message string, elapsed time.Duration) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.failures = append(c.failures, test)

	_, _ = c.fail.Fprint(c.out, "FAIL")
	_, _ = fmt.Fprintf(c.out, " %s (%s)\n", test, elapsed.Round(time.Millisecond))

	for _, line := range strings.Split(strings.TrimSpace(message), "\n") {
		_, _ = fmt.Fprintf(c.out, "    %s\n", line)
	}
}

func (c *Console) TestSkipped(test, reason string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	_, _ = c.skip.Fprint(c.out, "SKIP")

	if reason == "" {
		_, _ = fmt.Fprintf(c.out, " %s\n", test)
		return
	}

	_, _ = fmt.Fprintf(c.out, " %s: %s\n", test, reason)
}

func (c *Console) SuiteFinished(suite string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	summary := c.recorder.Summary()

	_, _ = c.heading.Fprintf(c.out, "=== %s summary\n", suite)

	table := tablewriter.NewWriter(c.out)
	table.Header("Result", "Tests")

	_ = table.Append([]string{"Passed", strconv.Itoa(summary.Passed)})
	_ = table.Append([]string{"Failed", strconv.Itoa(summary.Failed)})
	_ = table.Append([]string{"Skipped", strconv.Itoa(summary.Skipped)})

	table.Footer("Total", strconv.Itoa(summary.Total()))

	_ = table.Render()

	for _, test := range c.failures {
		_, _ = c.fail.Fprintf(c.out, "failed: %s\n", test)
	}
}
