package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/webservtools/webserv-contract-tests/framework"
)

const roundTo = time.Millisecond

// harnessLogger is the framework.Logger used for the harness's own debug
// output when --debug is on.
type harnessLogger struct {
	out io.Writer
}

func (l harnessLogger) Printf(message string, args ...interface{}) {
	fmt.Fprintf(l.out, "[harness] "+message+"\n", args...)
}

var (
	passMark  = color.New(color.FgGreen).Sprint("✓")
	failMark  = color.New(color.FgRed).Sprint("✗")
	errorMark = color.New(color.FgRed, color.Bold).Sprint("!")
	skipMark  = color.New(color.FgYellow).Sprint("-")
	suiteHead = color.New(color.FgCyan, color.Bold)
)

// consoleTestLogger prints per-test progress as the run goes, one line per
// finished test. With debug enabled it also dumps the captured output of
// failed tests inline; debugAll dumps it for every test.
type consoleTestLogger struct {
	out      io.Writer
	debug    bool
	debugAll bool
}

func newConsoleTestLogger(out io.Writer, debug, debugAll bool) *consoleTestLogger {
	return &consoleTestLogger{out: out, debug: debug, debugAll: debugAll}
}

func (c *consoleTestLogger) SuiteStarted(suite string) {
	fmt.Fprintf(c.out, "\n%s\n", suiteHead.Sprintf("── suite: %s", suite))
}

func (c *consoleTestLogger) TestStarted(id framework.TestID) {}

func (c *consoleTestLogger) TestFinished(result framework.TestResult) {
	mark := passMark
	switch result.Status {
	case framework.StatusFail:
		mark = failMark
	case framework.StatusError:
		mark = errorMark
	case framework.StatusSkipped:
		mark = skipMark
	}

	fmt.Fprintf(c.out, "  %s %s (%v)\n", mark, result.ID.Name, result.Elapsed.Round(roundTo))
	if result.Status == framework.StatusSkipped && result.SkipReason != "" {
		fmt.Fprintf(c.out, "      skipped: %s\n", result.SkipReason)
	}
	for _, failure := range result.Failures {
		fmt.Fprintf(c.out, "      %s\n", failure)
	}

	if c.debugAll || (c.debug && (result.Status == framework.StatusFail || result.Status == framework.StatusError)) {
		result.Output.WriteIndented(c.out, "      | ")
	}
}
