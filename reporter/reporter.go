// Package reporter renders the run outcome: a colored console summary with
// aggregate counts, one detail log file per failed test, and for single-test
// runs the failing test's own source text for offline debugging. Reporting is best-effort and never fails the run; when a log
// file cannot be written the detail falls back to the console.
package reporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alessio/shellescape"
	"github.com/fatih/color"

	"github.com/webservtools/webserv-contract-tests/framework"
)

const separatorWidth = 56

// Options configures a report.
type Options struct {
	// LogsDir receives the per-failure detail files.
	LogsDir string
	// ServerStderr is the captured stderr of the server-under-test,
	// attached to every failure log.
	ServerStderr string
	// RerunArgs is the command prefix that reproduces this run; the
	// failing test's selection flags are appended per failure.
	RerunArgs []string
	// TestSource, when non-empty, is the source text of the single
	// requested test, appended to its failure log.
	TestSource string
	// Comprehensive marks an all-suites run, which earns the celebratory
	// banner when everything passes.
	Comprehensive bool
}

var (
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	cyan   = color.New(color.FgCyan)
	bold   = color.New(color.Bold)
	yellow = color.New(color.FgYellow)
)

// Report writes the failure detail logs and then the console summary.
func Report(w io.Writer, results framework.Results, opts Options) {
	detailPaths := writeFailureLogs(w, results, opts)
	printSummary(w, results, opts, detailPaths)
}

func separator(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("─", separatorWidth))
}

func printSummary(w io.Writer, results framework.Results, opts Options, detailPaths []string) {
	passed, failed, errored, skipped := results.Counts()
	total := len(results.Tests)

	fmt.Fprintln(w)
	separator(w)
	if results.OK() && opts.Comprehensive && total > 0 {
		fmt.Fprintf(w, "%s\n", green.Add(color.Bold).Sprint("All tests passed!"))
	} else {
		fmt.Fprintf(w, "%s\n", bold.Sprint("Test Results Summary"))
	}
	separator(w)

	fmt.Fprintf(w, "Total tests:    %s\n", bold.Sprint(total))
	fmt.Fprintf(w, "Passed:         %s\n", green.Sprint(passed))
	if failed > 0 {
		fmt.Fprintf(w, "Failed:         %s\n", red.Sprint(failed))
	} else {
		fmt.Fprintf(w, "Failed:         %s\n", green.Sprint(0))
	}
	if errored > 0 {
		fmt.Fprintf(w, "Errors:         %s\n", red.Sprint(errored))
	}
	if skipped > 0 {
		fmt.Fprintf(w, "Skipped:        %s\n", yellow.Sprint(skipped))
	}
	fmt.Fprintf(w, "Total duration: %s\n", cyan.Sprintf("%.2fs", results.Elapsed.Seconds()))

	failures := results.Failures()
	if len(failures) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s\n", red.Add(color.Bold).Sprint("Failing tests:"))
		for _, f := range failures {
			fmt.Fprintf(w, "  %s\n", red.Sprint(f.ID))
		}
		for _, p := range detailPaths {
			fmt.Fprintf(w, "Details: %s\n", cyan.Sprint(p))
		}
	}
}

func writeFailureLogs(w io.Writer, results framework.Results, opts Options) []string {
	failures := results.Failures()
	if len(failures) == 0 {
		return nil
	}

	var paths []string
	stamp := time.Now().Format("20060102-150405")
	for _, result := range failures {
		name := fmt.Sprintf("failed-%s-%s-%s.log", result.ID.Suite, result.ID.Name, stamp)
		path := filepath.Join(opts.LogsDir, name)
		if err := writeFailureDetail(path, result, opts); err != nil {
			// Fall back to console-only output.
			fmt.Fprintf(w, "\n--- %s ---\n%s", result.ID, failureDetail(result, opts))
			continue
		}
		paths = append(paths, path)
	}
	return paths
}

func writeFailureDetail(path string, result framework.TestResult, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(failureDetail(result, opts)), 0o644)
}

func failureDetail(result framework.TestResult, opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Test:    %s\n", result.ID)
	fmt.Fprintf(&b, "Status:  %s\n", result.Status)
	fmt.Fprintf(&b, "Elapsed: %v\n\n", result.Elapsed)

	for i, f := range result.Failures {
		fmt.Fprintf(&b, "%d. %s\n", i+1, f)
	}

	if len(result.Output) > 0 {
		fmt.Fprintf(&b, "\nCaptured output:\n")
		result.Output.WriteIndented(&b, "  ")
	}

	if opts.ServerStderr != "" {
		fmt.Fprintf(&b, "\nServer stderr:\n%s\n", tail(opts.ServerStderr, 50))
	}

	if len(opts.RerunArgs) > 0 {
		rerun := append(append([]string{}, opts.RerunArgs...),
			"--suite", result.ID.Suite, "--test", result.ID.Name)
		fmt.Fprintf(&b, "\nReproduce with:\n  %s\n", shellescape.QuoteCommand(rerun))
	}

	if opts.TestSource != "" {
		fmt.Fprintf(&b, "\nTest source:\n%s\n", opts.TestSource)
	}
	return b.String()
}

func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
