// Package config holds the harness settings: where the server-under-test
// lives, how to reach it, the fixed data/logs directory layout, and the CGI
// interpreter candidates. An optional webserv-tests.yml overrides the
// defaults, and CLI flags override both.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Fixed layout relative to the harness working directory. Only the
// interpreter directives inside ServerConfigPath are ever rewritten.
const (
	ServerConfigPath = "data/conf/test.conf"
	DocumentRoot     = "data/www"
	UploadsDir       = "data/uploads"
	LogsDir          = "logs"
)

// DefaultPort is the main listen port declared in the fixed server config.
const DefaultPort = 8080

// Duration accepts both Go duration syntax ("500ms", "2s") and a bare
// number of seconds, in YAML and on the command line alike.
type Duration time.Duration

func parseDuration(s string) (Duration, error) {
	if parsed, err := time.ParseDuration(s); err == nil {
		return Duration(parsed), nil
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return Duration(time.Duration(secs * float64(time.Second))), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, perr := parseDuration(s)
		if perr != nil {
			return perr
		}
		*d = parsed
		return nil
	}
	var secs float64
	if err := value.Decode(&secs); err != nil {
		return err
	}
	*d = Duration(time.Duration(secs * float64(time.Second)))
	return nil
}

// Set implements pflag.Value so Duration can back a CLI flag.
func (d *Duration) Set(s string) error {
	parsed, err := parseDuration(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Duration) String() string { return time.Duration(d).String() }

// Type implements pflag.Value.
func (d *Duration) Type() string { return "duration" }

func (d Duration) D() time.Duration { return time.Duration(d) }

// Config is the resolved harness configuration for one run.
type Config struct {
	ServerPath   string   `yaml:"serverPath"`
	Host         string   `yaml:"host"`
	Port         int      `yaml:"port"`
	Timeout      Duration `yaml:"timeout"`
	StartupDelay Duration `yaml:"startupDelay"`

	// Interpreters maps a CGI script extension to candidate executables
	// searched in PATH order. An extension mapped to an empty list (".cgi")
	// needs no interpreter.
	Interpreters map[string][]string `yaml:"interpreters"`
}

// Default returns the harness defaults.
func Default() Config {
	return Config{
		ServerPath:   "./webserv",
		Host:         "127.0.0.1",
		Port:         DefaultPort,
		Timeout:      Duration(2 * time.Second),
		StartupDelay: Duration(1 * time.Second),
		Interpreters: map[string][]string{
			".py":  {"python3", "python"},
			".php": {"php", "php-cgi"},
			".pl":  {"perl"},
			".rb":  {"ruby"},
			".sh":  {"sh", "bash"},
			".cgi": {},
		},
	}
}

// LoadFile overlays settings from a YAML file onto c. A missing file is not
// an error unless the path was explicitly requested.
func (c *Config) LoadFile(path string, explicit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// BaseURL returns the root URL of the server-under-test.
func (c Config) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.Host, c.Port)
}

// CheckEnvironment verifies the fixed filesystem layout before a run:
// required files must exist and be non-empty, essential directories must
// exist, and the logs directory is created if absent.
func (c Config) CheckEnvironment() error {
	if err := os.MkdirAll(LogsDir, 0o755); err != nil {
		return fmt.Errorf("create logs directory: %w", err)
	}

	required := []string{
		ServerConfigPath,
		filepath.Join(DocumentRoot, "index.html"),
		filepath.Join(DocumentRoot, "404.html"),
	}
	for _, path := range required {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("required file missing: %s", path)
		}
		if info.Size() == 0 {
			return fmt.Errorf("required file is empty: %s", path)
		}
	}

	for _, dir := range []string{UploadsDir, filepath.Join(DocumentRoot, "cgi-bin")} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("essential directory missing: %s", dir)
		}
	}
	return nil
}
