package framework

import (
	"context"
	"time"
)

// RunPlan executes a resolved plan in order. One test runs at a time; a
// failing or erroring test never prevents the next one from running. When
// ctx is cancelled the remaining tests are not executed and the partial
// results collected so far are returned.
func RunPlan(ctx context.Context, plan []PlannedTest, logger TestLogger) Results {
	if logger == nil {
		logger = NullTestLogger()
	}
	results := Results{Started: time.Now()}

	lastSuite := ""
	for _, pt := range plan {
		if ctx.Err() != nil {
			break
		}
		if pt.Suite.Name != lastSuite {
			lastSuite = pt.Suite.Name
			logger.SuiteStarted(pt.Suite.Name)
		}
		logger.TestStarted(pt.ID())
		result := runOne(pt.ID(), pt.Suite.Setup, pt.Case.Run, pt.Suite.Teardown)
		results.Tests = append(results.Tests, result)
		logger.TestFinished(result)
	}

	results.Elapsed = time.Since(results.Started)
	return results
}
