// Package wstests contains the webserv conformance suites. Each suite is a
// plain list of named test functions taking a *T; registration is explicit
// in Register, no reflective scanning. A T wraps the framework test context
// with the shared client and server handles plus the assertion vocabulary
// the suites are written in.
package wstests

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/webservtools/webserv-contract-tests/client"
	"github.com/webservtools/webserv-contract-tests/config"
	"github.com/webservtools/webserv-contract-tests/framework"
	"github.com/webservtools/webserv-contract-tests/server"
)

// Env carries the handles every test needs: the HTTP client aimed at the
// server-under-test, the process controller, and the harness configuration.
// The orchestrator builds exactly one Env per run and injects it here; tests
// never reach for global state.
type Env struct {
	Client       *client.Client
	Server       *server.Controller
	Config       config.Config
	Interpreters server.InterpreterMap
}

// T is the per-test handle passed to every suite test function. It
// implements require.TestingT, so the testify assert and require packages
// work against it directly, and additionally offers the harness's own
// structured assertion methods, which record expected/actual pairs on the
// test outcome.
type T struct {
	ctx    *framework.Context
	env    *Env
	client *client.Client
}

func newT(ctx *framework.Context, env *Env) *T {
	t := &T{ctx: ctx, env: env}
	if env.Client != nil {
		t.client = env.Client.WithLogger(ctx.DebugLogger())
	}
	return t
}

// Errorf records a failure without stopping the test (testify TestingT).
func (t *T) Errorf(format string, args ...interface{}) { t.ctx.Errorf(format, args...) }

// FailNow stops the test immediately (testify TestingT).
func (t *T) FailNow() { t.ctx.FailNow() }

// Skip marks the test skipped with an explanation and stops it.
func (t *T) Skip(reason string) { t.ctx.SkipWithReason(reason) }

// Debug records a line of captured per-test output.
func (t *T) Debug(format string, args ...interface{}) { t.ctx.Debug(format, args...) }

// Env returns the shared run environment.
func (t *T) Env() *Env { return t.env }

// Config returns the harness configuration.
func (t *T) Config() config.Config { return t.env.Config }

// Send issues a structured request against the server-under-test.
func (t *T) Send(method, path string, opts client.RequestOpts) client.HTTPResult {
	return t.client.Do(method, path, opts)
}

// Get issues a plain GET against the server-under-test.
func (t *T) Get(path string) client.HTTPResult {
	return t.client.Get(path)
}

// SendRaw writes an arbitrary byte sequence to the server, for requests
// net/http cannot be made to produce.
func (t *T) SendRaw(raw string) client.RawResult {
	return t.client.SendRaw([]byte(raw))
}

// RequireTransportOK fails the test when the exchange did not complete at
// the transport level.
func (t *T) RequireTransportOK(r client.HTTPResult) {
	if !r.OK() {
		t.ctx.FailWith(framework.Failure{
			Message: fmt.Sprintf("%s %s did not complete: %s (%v)", r.Method, r.Path, r.ErrKind, r.Err),
		})
	}
}

// AssertStatus fails unless the exchange completed with the given status.
func (t *T) AssertStatus(r client.HTTPResult, expected int, msg string) {
	t.RequireTransportOK(r)
	if r.StatusCode != expected {
		t.ctx.FailWith(framework.Failure{
			Message:  msg,
			Expected: fmt.Sprintf("%d", expected),
			Actual:   fmt.Sprintf("%d", r.StatusCode),
		})
	}
}

// AssertTrue fails with msg when the condition does not hold.
func (t *T) AssertTrue(condition bool, msg string) {
	if !condition {
		t.ctx.FailWith(framework.Failure{Message: msg})
	}
}

// AssertFalse fails with msg when the condition holds.
func (t *T) AssertFalse(condition bool, msg string) {
	if condition {
		t.ctx.FailWith(framework.Failure{Message: msg})
	}
}

// AssertEqual fails unless actual equals expected, recording both.
func (t *T) AssertEqual(actual, expected interface{}, msg string) {
	if fmt.Sprintf("%v", actual) != fmt.Sprintf("%v", expected) {
		t.ctx.FailWith(framework.Failure{
			Message:  msg,
			Expected: fmt.Sprintf("%v", expected),
			Actual:   fmt.Sprintf("%v", actual),
		})
	}
}

// AssertNotEqual fails when the two values are equal.
func (t *T) AssertNotEqual(actual, unexpected interface{}, msg string) {
	if fmt.Sprintf("%v", actual) == fmt.Sprintf("%v", unexpected) {
		t.ctx.FailWith(framework.Failure{
			Message: fmt.Sprintf("%s: both values are %v", msg, actual),
		})
	}
}

// AssertContains fails unless needle occurs in haystack.
func (t *T) AssertContains(haystack, needle, msg string) {
	if !contains(haystack, needle) {
		t.ctx.FailWith(framework.Failure{
			Message:  msg,
			Expected: fmt.Sprintf("contains %q", needle),
			Actual:   truncate(haystack, 200),
		})
	}
}

// AssertNotContains fails when needle occurs in haystack.
func (t *T) AssertNotContains(haystack, needle, msg string) {
	if contains(haystack, needle) {
		t.ctx.FailWith(framework.Failure{
			Message:  msg,
			Expected: fmt.Sprintf("does not contain %q", needle),
			Actual:   truncate(haystack, 200),
		})
	}
}

// AssertInRange fails unless lo <= value <= hi.
func (t *T) AssertInRange(value, lo, hi int, msg string) {
	if value < lo || value > hi {
		t.ctx.FailWith(framework.Failure{
			Message:  msg,
			Expected: fmt.Sprintf("in [%d, %d]", lo, hi),
			Actual:   fmt.Sprintf("%d", value),
		})
	}
}

// AssertMatches fails unless s matches the regular expression pattern.
func (t *T) AssertMatches(s, pattern, msg string) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		t.ctx.FailWith(framework.Failure{Message: fmt.Sprintf("bad pattern %q: %v", pattern, err)})
	}
	if !re.MatchString(s) {
		t.ctx.FailWith(framework.Failure{
			Message:  msg,
			Expected: fmt.Sprintf("matches %q", pattern),
			Actual:   truncate(s, 200),
		})
	}
}

// RequireInterpreter skips the test when no interpreter was resolved for
// the given script extension.
func (t *T) RequireInterpreter(ext string) {
	path, known := t.env.Interpreters[ext]
	if known && path != server.Unavailable {
		return
	}
	t.Skip(fmt.Sprintf("no interpreter available for %s scripts", ext))
}

func contains(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
