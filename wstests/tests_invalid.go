package wstests

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// invalidSuite starts a throwaway server instance per test instead of using
// the shared one, because every test feeds the binary a broken configuration
// and expects it to refuse to start.
func invalidSuite() suiteDef {
	return suiteDef{
		name:       "invalid",
		standalone: true,
		tests: []testDef{
			{"test_missing_semicolon", invalidMissingSemicolon},
			{"test_unknown_directive", invalidUnknownDirective},
			{"test_bad_port", invalidBadPort},
			{"test_unclosed_block", invalidUnclosedBlock},
			{"test_empty_config", invalidEmptyConfig},
			{"test_missing_config_file", invalidMissingConfigFile},
		},
	}
}

const invalidRunWait = 3 * time.Second

// expectRejected runs the server once with the given config text and fails
// unless the binary exits on its own with a nonzero status.
func expectRejected(t *T, label, configText string) {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("webserv-invalid-%s.conf", uuid.NewString()))
	if err := os.WriteFile(path, []byte(configText), 0o644); err != nil {
		t.Errorf("writing temp config: %v", err)
		t.FailNow()
	}
	defer os.Remove(path)

	t.Debug("one-shot run with %s config at %s", label, path)
	result, err := t.Env().Server.RunOnce(path, invalidRunWait)
	if err != nil {
		t.Errorf("spawning server: %v", err)
		t.FailNow()
	}
	t.AssertFalse(result.TimedOut,
		fmt.Sprintf("server accepted a config with %s and kept running", label))
	t.AssertNotEqual(result.ExitCode, 0,
		fmt.Sprintf("server should exit nonzero for a config with %s", label))
}

func invalidMissingSemicolon(t *T) {
	expectRejected(t, "a missing semicolon", `server {
    listen 8090
    root data/www;
}
`)
}

func invalidUnknownDirective(t *T) {
	expectRejected(t, "an unknown directive", `server {
    listen 8090;
    frobnicate on;
}
`)
}

func invalidBadPort(t *T) {
	expectRejected(t, "an out-of-range port", `server {
    listen 99999;
    root data/www;
}
`)
}

func invalidUnclosedBlock(t *T) {
	expectRejected(t, "an unclosed block", `server {
    listen 8090;
    root data/www;
`)
}

func invalidEmptyConfig(t *T) {
	expectRejected(t, "no content at all", "")
}

func invalidMissingConfigFile(t *T) {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("webserv-absent-%s.conf", uuid.NewString()))

	result, err := t.Env().Server.RunOnce(path, invalidRunWait)
	if err != nil {
		t.Errorf("spawning server: %v", err)
		t.FailNow()
	}
	t.AssertFalse(result.TimedOut, "server kept running with a nonexistent config file")
	t.AssertNotEqual(result.ExitCode, 0, "server should exit nonzero when the config file does not exist")
}
