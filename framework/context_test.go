package framework

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSingle(t *testing.T, setup, body, teardown func(*Context)) TestResult {
	t.Helper()
	suite := Suite{Name: "s", Setup: setup, Teardown: teardown,
		Tests: []TestCase{{Name: "test_x", Run: body}}}
	plan := []PlannedTest{{Suite: &suite, Case: suite.Tests[0]}}
	results := RunPlan(context.Background(), plan, nil)
	require.Len(t, results.Tests, 1)
	return results.Tests[0]
}

func TestPassingTest(t *testing.T) {
	result := runSingle(t, nil, func(c *Context) {}, nil)
	assert.Equal(t, StatusPass, result.Status)
	assert.Empty(t, result.Failures)
}

func TestFailWithStopsBodyAndRecordsStructuredFailure(t *testing.T) {
	reached := false
	result := runSingle(t, nil, func(c *Context) {
		c.FailWith(Failure{Message: "status mismatch", Expected: "200", Actual: "500"})
		reached = true
	}, nil)
	assert.False(t, reached, "FailWith should stop the test body")
	assert.Equal(t, StatusFail, result.Status)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "200", result.Failures[0].Expected)
	assert.Equal(t, "500", result.Failures[0].Actual)
}

func TestErrorfDoesNotStopBody(t *testing.T) {
	reached := false
	result := runSingle(t, nil, func(c *Context) {
		c.Errorf("soft failure %d", 1)
		reached = true
	}, nil)
	assert.True(t, reached)
	assert.Equal(t, StatusFail, result.Status)
}

func TestUnexpectedPanicBecomesErrorStatus(t *testing.T) {
	result := runSingle(t, nil, func(c *Context) {
		panic("boom")
	}, nil)
	assert.Equal(t, StatusError, result.Status)
	require.NotEmpty(t, result.Failures)
	assert.Contains(t, result.Failures[0].Message, "boom")
}

func TestSkipWithReason(t *testing.T) {
	result := runSingle(t, nil, func(c *Context) {
		c.SkipWithReason("no interpreter for .php")
	}, nil)
	assert.Equal(t, StatusSkipped, result.Status)
	assert.Equal(t, "no interpreter for .php", result.SkipReason)
}

func TestTeardownRunsAfterFailure(t *testing.T) {
	tornDown := false
	result := runSingle(t, nil,
		func(c *Context) { c.FailNow() },
		func(c *Context) { tornDown = true })
	assert.True(t, tornDown, "teardown must run even when the test failed")
	assert.Equal(t, StatusFail, result.Status)
}

func TestSetupFailureSkipsBodyButNotTeardown(t *testing.T) {
	bodyRan := false
	tornDown := false
	result := runSingle(t,
		func(c *Context) { c.FailWith(Failure{Message: "setup broke"}) },
		func(c *Context) { bodyRan = true },
		func(c *Context) { tornDown = true })
	assert.False(t, bodyRan)
	assert.True(t, tornDown)
	assert.Equal(t, StatusFail, result.Status)
}

func TestCancelledContextStopsRemainingTests(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	executed := 0
	suite := Suite{Name: "s", Tests: []TestCase{
		{Name: "test_a", Run: func(c *Context) { executed++; cancel() }},
		{Name: "test_b", Run: func(c *Context) { executed++ }},
	}}
	plan := []PlannedTest{
		{Suite: &suite, Case: suite.Tests[0]},
		{Suite: &suite, Case: suite.Tests[1]},
	}
	results := RunPlan(ctx, plan, nil)
	assert.Equal(t, 1, executed)
	assert.Len(t, results.Tests, 1, "partial results are still reported")
}

func TestDebugOutputIsCaptured(t *testing.T) {
	result := runSingle(t, nil, func(c *Context) {
		c.Debug("sent %s %s", "GET", "/")
	}, nil)
	require.Len(t, result.Output, 1)
	assert.Equal(t, "sent GET /", result.Output[0].Message)
}
