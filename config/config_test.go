package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := Default()
	assert.Equal(t, "127.0.0.1", c.Host)
	assert.Equal(t, DefaultPort, c.Port)
	assert.Equal(t, 2*time.Second, c.Timeout.D())
	assert.Contains(t, c.Interpreters, ".py")
	assert.Empty(t, c.Interpreters[".cgi"], ".cgi needs no interpreter")
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tester.yaml")
	require.NoError(t, os.WriteFile(path, []byte("host: 10.0.0.5\ntimeout: 5s\n"), 0o644))

	c := Default()
	require.NoError(t, c.LoadFile(path, true))
	assert.Equal(t, "10.0.0.5", c.Host)
	assert.Equal(t, 5*time.Second, c.Timeout.D())
	assert.Equal(t, DefaultPort, c.Port, "unset keys keep their defaults")
}

func TestLoadFileMissing(t *testing.T) {
	c := Default()
	assert.NoError(t, c.LoadFile("no-such-file.yaml", false))
	assert.Error(t, c.LoadFile("no-such-file.yaml", true))
}

func TestDurationFlagAcceptsBothForms(t *testing.T) {
	var d Duration
	require.NoError(t, d.Set("500ms"))
	assert.Equal(t, 500*time.Millisecond, d.D())

	require.NoError(t, d.Set("2"))
	assert.Equal(t, 2*time.Second, d.D(), "a bare number is seconds")

	require.NoError(t, d.Set("1.5"))
	assert.Equal(t, 1500*time.Millisecond, d.D())

	assert.Error(t, d.Set("soon"))
	assert.Equal(t, "duration", d.Type())
	assert.Equal(t, "1.5s", d.String())
}

func TestLoadFileAcceptsBareSecondsDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tester.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeout: 3\nstartupDelay: \"2\"\n"), 0o644))

	c := Default()
	require.NoError(t, c.LoadFile(path, true))
	assert.Equal(t, 3*time.Second, c.Timeout.D())
	assert.Equal(t, 2*time.Second, c.StartupDelay.D(), "quoted bare numbers parse as seconds too")
}

func TestBaseURL(t *testing.T) {
	c := Default()
	c.Host = "localhost"
	c.Port = 8888
	assert.Equal(t, "http://localhost:8888", c.BaseURL())
}
