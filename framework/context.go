package framework

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Context is the per-test scope handed to every test function. It plays the
// role of testing.T outside the Go test runner: assertions record structured
// failures on it, FailNow stops the test body immediately, and Skip marks the
// test as skipped. It implements require.TestingT so the testify assert and
// require packages can be used against it directly.
//
// Stopping a test early works by panicking with the Context itself; the
// panic never crosses the test boundary because runOne recovers it. Any
// other panic value is an unexpected error in the test or the harness and
// is recorded as StatusError rather than StatusFail.
type Context struct {
	id         TestID
	debugLog   outputCapture
	failures   []Failure
	failed     bool
	errored    bool
	skipped    bool
	skipReason string
}

// ID returns the identity of the running test.
func (c *Context) ID() TestID {
	return c.id
}

// Errorf records a failure without stopping the test. It is the method the
// testify assert package calls.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	c.failures = append(c.failures, Failure{Message: fmt.Sprintf(format, args...)})
}

// FailNow stops the test immediately. It is the method the testify require
// package calls after Errorf.
func (c *Context) FailNow() {
	c.failed = true
	panic(c)
}

// FailWith records a structured failure and stops the test.
func (c *Context) FailWith(f Failure) {
	c.failures = append(c.failures, f)
	c.FailNow()
}

// Skip marks the test as skipped and stops it.
func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

// SkipWithReason marks the test as skipped with an explanation and stops it.
func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Debug records a line of debug output that will be attached to the result.
func (c *Context) Debug(format string, args ...interface{}) {
	c.debugLog.Printf(format, args...)
}

// DebugLogger returns a Logger that writes into the test's captured output.
func (c *Context) DebugLogger() Logger {
	return &c.debugLog
}

// runOne executes a single test body together with its suite hooks and turns
// whatever happened into a TestResult. Teardown runs even when the body or
// setup stopped early; a panic inside teardown is confined the same way.
func runOne(id TestID, setup, body, teardown func(*Context)) TestResult {
	c := &Context{id: id}
	started := time.Now()

	func() {
		defer func() {
			if teardown != nil {
				c.protect(teardown)
			}
		}()
		if setup != nil {
			if stopped := c.protect(setup); stopped {
				return
			}
		}
		c.protect(body)
	}()

	result := TestResult{
		ID:         id,
		Elapsed:    time.Since(started),
		Failures:   c.failures,
		Output:     c.debugLog.Lines(),
		SkipReason: c.skipReason,
	}
	switch {
	case c.errored:
		result.Status = StatusError
	case c.failed:
		result.Status = StatusFail
	case c.skipped:
		result.Status = StatusSkipped
	default:
		result.Status = StatusPass
	}
	return result
}

// protect runs fn, absorbing the early-exit panic and converting any other
// panic into an error-status failure. It reports whether fn stopped early.
func (c *Context) protect(fn func(*Context)) (stopped bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		stopped = true
		if _, ok := r.(*Context); ok {
			if c.failed && len(c.failures) == 0 {
				c.failures = append(c.failures, Failure{Message: "test failed with no failure message"})
			}
			return
		}
		c.errored = true
		c.failures = append(c.failures, Failure{
			Message: fmt.Sprintf("unexpected panic in test: %+v\n%s", r, string(debug.Stack())),
		})
	}()
	fn(c)
	return false
}
