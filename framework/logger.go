package framework

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Logger is the minimal logging interface used throughout the harness.
type Logger interface {
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (n nullLogger) Printf(message string, args ...interface{}) {}

// NullLogger returns a Logger that discards everything.
func NullLogger() Logger { return nullLogger{} }

// OutputLine is one line of a test's captured output. Offset is measured
// from the first line the test logged; within a single test the relative
// timing is what matters for debugging, not the wall clock.
type OutputLine struct {
	Offset  time.Duration
	Message string
}

// CapturedOutput is the accumulated output of one test, attached to its
// result after the test finishes.
type CapturedOutput []OutputLine

// WriteIndented renders the captured lines with their offsets, one per
// line, each prefixed with indent. This is the format used both in failure
// log files and in the console debug dump.
func (output CapturedOutput) WriteIndented(dest io.Writer, indent string) {
	for _, line := range output {
		fmt.Fprintf(dest, "%s[+%.3fs] %s\n", indent, line.Offset.Seconds(), line.Message)
	}
}

// outputCapture accumulates a test's output in memory. The zero value is
// ready to use; the clock starts at the first message. Safe for concurrent
// use, a test may log from several goroutines at once.
type outputCapture struct {
	mu    sync.Mutex
	start time.Time
	lines []OutputLine
}

func (c *outputCapture) Printf(message string, args ...interface{}) {
	c.mu.Lock()
	now := time.Now()
	if c.start.IsZero() {
		c.start = now
	}
	c.lines = append(c.lines, OutputLine{
		Offset:  now.Sub(c.start),
		Message: fmt.Sprintf(message, args...),
	})
	c.mu.Unlock()
}

// Lines returns a copy of everything logged so far.
func (c *outputCapture) Lines() CapturedOutput {
	c.mu.Lock()
	ret := append(CapturedOutput(nil), c.lines...)
	c.mu.Unlock()
	return ret
}
