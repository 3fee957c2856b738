package framework

import (
	"fmt"
	"time"
)

// Status is the final disposition of one executed test.
type Status string

const (
	// StatusPass means every assertion in the test held.
	StatusPass Status = "pass"
	// StatusFail means an assertion recorded a mismatch.
	StatusFail Status = "fail"
	// StatusError means the test stopped for a reason other than an
	// assertion, such as an unexpected panic. It is kept distinct from
	// StatusFail so bugs in the harness or in test code are
	// distinguishable from server defects.
	StatusError Status = "error"
	// StatusSkipped means the test chose not to run to completion.
	StatusSkipped Status = "skipped"
)

// TestID identifies a test as suite name plus test name.
type TestID struct {
	Suite string
	Name  string
}

func (id TestID) String() string {
	return id.Suite + "." + id.Name
}

// Failure is one recorded assertion failure. Expected and Actual are empty
// for failures that are not value comparisons.
type Failure struct {
	Message  string
	Expected string
	Actual   string
}

func (f Failure) String() string {
	if f.Expected == "" && f.Actual == "" {
		return f.Message
	}
	return fmt.Sprintf("%s\n    expected: %s\n    actual:   %s", f.Message, f.Expected, f.Actual)
}

// TestResult is the immutable outcome of one test case.
type TestResult struct {
	ID         TestID
	Status     Status
	Failures   []Failure
	Elapsed    time.Duration
	Output     CapturedOutput
	SkipReason string
}

// Results aggregates every TestResult for one harness invocation.
type Results struct {
	Tests   []TestResult
	Started time.Time
	Elapsed time.Duration
}

// Counts returns the number of tests in each status.
func (r Results) Counts() (passed, failed, errored, skipped int) {
	for _, t := range r.Tests {
		switch t.Status {
		case StatusPass:
			passed++
		case StatusFail:
			failed++
		case StatusError:
			errored++
		case StatusSkipped:
			skipped++
		}
	}
	return
}

// Failures returns the tests that finished as fail or error, in run order.
func (r Results) Failures() []TestResult {
	var out []TestResult
	for _, t := range r.Tests {
		if t.Status == StatusFail || t.Status == StatusError {
			out = append(out, t)
		}
	}
	return out
}

// OK reports whether the run had no failing or erroring tests.
func (r Results) OK() bool {
	return len(r.Failures()) == 0
}
