package reporter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webservtools/webserv-contract-tests/framework"
)

func sampleResults() framework.Results {
	return framework.Results{
		Tests: []framework.TestResult{
			{ID: framework.TestID{Suite: "basic", Name: "test_get_request"}, Status: framework.StatusPass},
			{
				ID:     framework.TestID{Suite: "http", Name: "test_host_header_required"},
				Status: framework.StatusFail,
				Failures: []framework.Failure{
					{Message: "status mismatch", Expected: "400", Actual: "200"},
				},
			},
		},
		Elapsed: 1234 * time.Millisecond,
	}
}

func TestReportSummaryCounts(t *testing.T) {
	var buf bytes.Buffer
	Report(&buf, sampleResults(), Options{LogsDir: t.TempDir()})

	out := buf.String()
	assert.Contains(t, out, "Total tests:")
	assert.Contains(t, out, "2")
	assert.Contains(t, out, "Failing tests:")
	assert.Contains(t, out, "http.test_host_header_required")
	assert.NotContains(t, out, "All tests passed!")
}

func TestReportCleanComprehensiveRun(t *testing.T) {
	results := framework.Results{
		Tests: []framework.TestResult{
			{ID: framework.TestID{Suite: "basic", Name: "test_get_request"}, Status: framework.StatusPass},
		},
	}
	var buf bytes.Buffer
	Report(&buf, results, Options{LogsDir: t.TempDir(), Comprehensive: true})
	assert.Contains(t, buf.String(), "All tests passed!")
}

func TestFailureLogContents(t *testing.T) {
	logsDir := t.TempDir()
	var buf bytes.Buffer
	Report(&buf, sampleResults(), Options{
		LogsDir:      logsDir,
		ServerStderr: "segfault at 0x0\n",
		RerunArgs:    []string{"./webserv-contract-tests", "--server-path", "./webserv"},
		TestSource:   "func doHostHeaderRequired(t *T) { ... }",
	})

	entries, err := os.ReadDir(logsDir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "one detail log per failed test")

	data, err := os.ReadFile(filepath.Join(logsDir, entries[0].Name()))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "http.test_host_header_required")
	assert.Contains(t, content, "expected: 400")
	assert.Contains(t, content, "actual:   200")
	assert.Contains(t, content, "segfault at 0x0")
	assert.Contains(t, content, "--suite http --test test_host_header_required")
	assert.Contains(t, content, "doHostHeaderRequired")
}

func TestUnwritableLogsDirFallsBackToConsole(t *testing.T) {
	var buf bytes.Buffer
	Report(&buf, sampleResults(), Options{LogsDir: "/proc/definitely/not/writable"})
	assert.Contains(t, buf.String(), "status mismatch", "detail must reach the console when files cannot be written")
}

func TestTail(t *testing.T) {
	assert.Equal(t, "c\nd", tail("a\nb\nc\nd\n", 2))
	assert.Equal(t, "a\nb", tail("a\nb", 5))
}
