package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webservtools/webserv-contract-tests/config"
	"github.com/webservtools/webserv-contract-tests/framework"
)

const fixtureConf = `server {
    listen 8080;
    root data/www;
    location /cgi-bin/ {
        cgi_handler .py python3;
    }
}
`

// buildFixtureTree lays out the directory structure CheckEnvironment
// expects, plus a fake server binary, and makes it the working directory
// for the duration of the test.
func buildFixtureTree(t *testing.T, serverScript string) string {
	t.Helper()
	dir := t.TempDir()

	for _, sub := range []string{"data/conf", "data/www/cgi-bin", "data/uploads", "logs"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ServerConfigPath), []byte(fixtureConf), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data/www/index.html"), []byte("<html>index</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data/www/404.html"), []byte("<html>404</html>"), 0o644))

	serverPath := filepath.Join(dir, "webserv")
	require.NoError(t, os.WriteFile(serverPath, []byte("#!/bin/sh\n"+serverScript+"\n"), 0o755))

	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })

	return serverPath
}

func fixtureConfig(serverPath string) config.Config {
	cfg := config.Default()
	cfg.ServerPath = serverPath
	// Port 0 skips the readiness probe; the fake server never listens.
	cfg.Port = 0
	return cfg
}

func TestUnknownSuiteFailsBeforeServerStart(t *testing.T) {
	serverPath := buildFixtureTree(t, "touch started.marker; sleep 30")
	var out bytes.Buffer

	code := Run(context.Background(), Params{
		Config: fixtureConfig(serverPath),
		Suite:  "no-such-suite",
		Out:    &out,
	})

	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, out.String(), "no-such-suite")
	assert.Contains(t, out.String(), "Available suites")
	_, err := os.Stat("started.marker")
	assert.True(t, os.IsNotExist(err), "server must not be started when discovery fails")
}

func TestMissingEnvironmentIsStartupError(t *testing.T) {
	serverPath := buildFixtureTree(t, "sleep 30")
	require.NoError(t, os.Remove(config.ServerConfigPath))
	var out bytes.Buffer

	code := Run(context.Background(), Params{
		Config: fixtureConfig(serverPath),
		Suite:  framework.SuiteAll,
		Out:    &out,
	})

	assert.Equal(t, ExitStartup, code)
	assert.Contains(t, out.String(), "Error:")
}

func TestUnstartableServerIsStartupError(t *testing.T) {
	serverPath := buildFixtureTree(t, "echo 'bad config' >&2; exit 1")
	var out bytes.Buffer

	code := Run(context.Background(), Params{
		Config: fixtureConfig(serverPath),
		Suite:  "basic",
		Out:    &out,
	})

	assert.Equal(t, ExitStartup, code)
	assert.Contains(t, out.String(), "Error:")
}

// TestRunCompletesAgainstDeadEndpoint drives a whole run where every request
// fails at the transport level: the run must finish, report, stop the
// server, and exit nonzero without hanging.
func TestRunCompletesAgainstDeadEndpoint(t *testing.T) {
	serverPath := buildFixtureTree(t, "sleep 30")
	var out bytes.Buffer

	code := Run(context.Background(), Params{
		Config: fixtureConfig(serverPath),
		Suite:  "basic",
		Out:    &out,
	})

	assert.Equal(t, ExitTestsFailed, code)
	assert.Contains(t, out.String(), "Test Results Summary")
	assert.Contains(t, out.String(), "Failed:")
}

func TestCancelledContextReportsPartialRun(t *testing.T) {
	serverPath := buildFixtureTree(t, "sleep 30")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer

	code := Run(ctx, Params{
		Config: fixtureConfig(serverPath),
		Suite:  "basic",
		Out:    &out,
	})

	assert.Equal(t, ExitInterrupted, code)
	assert.Contains(t, out.String(), "interrupted")
}

func TestInterpreterRewriteUpdatesConfig(t *testing.T) {
	serverPath := buildFixtureTree(t, "sleep 30")
	var out bytes.Buffer

	cfg := fixtureConfig(serverPath)
	cfg.Interpreters = map[string][]string{".py": {"sh"}}

	_ = Run(context.Background(), Params{
		Config: cfg,
		Suite:  "basic",
		Out:    &out,
	})

	rewritten, err := os.ReadFile(config.ServerConfigPath)
	require.NoError(t, err)
	assert.Contains(t, string(rewritten), "cgi_handler .py ")
	assert.NotContains(t, string(rewritten), "cgi_handler .py python3;",
		"the candidate list should be replaced with a resolved absolute path")
}
