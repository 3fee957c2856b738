// Package server owns the server-under-test process: spawning it with the
// fixed configuration, probing liveness, and guaranteeing termination and
// log cleanup no matter how the run ends. It also resolves CGI interpreters
// into the server configuration before startup.
package server

import (
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/webservtools/webserv-contract-tests/framework"
)

// StartupError means the server failed to launch or never became reachable.
// It is fatal to the whole run.
type StartupError struct {
	Reason   string
	Exited   bool
	ExitCode int
	Stderr   string
	Err      error
}

func (e *StartupError) Error() string {
	msg := "server startup failed: " + e.Reason
	if e.Exited {
		msg += fmt.Sprintf(" (exit code %d)", e.ExitCode)
	}
	if e.Stderr != "" {
		msg += "\nserver stderr:\n" + e.Stderr
	}
	return msg
}

func (e *StartupError) Unwrap() error { return e.Err }

// crashWindow is how long a freshly spawned server is watched for an
// immediate exit before it is considered launched.
const crashWindow = 500 * time.Millisecond

// stopGrace is how long Stop waits after SIGTERM before force-killing.
const stopGrace = 5 * time.Second

// Controller manages exactly one server process per run. Start and Stop are
// paired: Stop is idempotent and must be called on every exit path once
// Start succeeded.
type Controller struct {
	serverPath string
	configPath string
	logDir     string
	logger     framework.Logger

	mu         sync.Mutex
	cmd        *exec.Cmd
	done       chan struct{}
	exitErr    error
	stdoutPath string
	stderrPath string
	stdoutFile *os.File
	stderrFile *os.File
	stopped    bool
}

// NewController prepares a controller; nothing is spawned until Start.
func NewController(serverPath, configPath, logDir string, logger framework.Logger) *Controller {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &Controller{
		serverPath: serverPath,
		configPath: configPath,
		logDir:     logDir,
		logger:     logger,
	}
}

// Start spawns the server with the configured file, redirecting its output
// to timestamped log sinks. The spawn is attempted with the verbose flag
// first and retried without it if that variant exits within the crash
// window. A missing or non-executable
// binary, or a process that dies in every variant, is a StartupError.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cmd != nil {
		return nil // already running
	}

	info, err := os.Stat(c.serverPath)
	if err != nil {
		return &StartupError{Reason: "executable not found at " + c.serverPath, Err: err}
	}
	if info.Mode()&0o111 == 0 {
		return &StartupError{Reason: c.serverPath + " is not executable"}
	}

	if err := os.MkdirAll(c.logDir, 0o755); err != nil {
		return &StartupError{Reason: "cannot create log directory", Err: err}
	}
	stamp := time.Now().Format("20060102-150405")
	c.stdoutPath = filepath.Join(c.logDir, "server-"+stamp+".out")
	c.stderrPath = filepath.Join(c.logDir, "server-"+stamp+".err")

	var lastExit int
	for _, args := range [][]string{
		{"-c", c.configPath, "-v"},
		{"-c", c.configPath},
	} {
		exited, code, err := c.spawnLocked(args)
		if err != nil {
			c.closeSinksLocked()
			return &StartupError{Reason: "cannot spawn " + c.serverPath, Err: err}
		}
		if !exited {
			c.logger.Printf("server started: %s %s (pid %d)", c.serverPath, strings.Join(args, " "), c.cmd.Process.Pid)
			return nil
		}
		lastExit = code
		c.logger.Printf("server exited immediately with variant %q (code %d), trying next", strings.Join(args, " "), code)
		c.cmd = nil
	}

	stderr := c.readStderrLocked()
	c.closeSinksLocked()
	return &StartupError{
		Reason:   "server exited during startup",
		Exited:   true,
		ExitCode: lastExit,
		Stderr:   stderr,
		Err:      c.exitErr,
	}
}

// spawnLocked starts one argument variant and watches the crash window.
func (c *Controller) spawnLocked(args []string) (exited bool, exitCode int, err error) {
	if c.stdoutFile == nil {
		if c.stdoutFile, err = os.Create(c.stdoutPath); err != nil {
			return false, 0, err
		}
		if c.stderrFile, err = os.Create(c.stderrPath); err != nil {
			return false, 0, err
		}
	}

	cmd := exec.Command(c.serverPath, args...)
	cmd.Stdout = c.stdoutFile
	cmd.Stderr = c.stderrFile
	// Own process group so Stop can signal the server and any CGI children
	// it leaves behind in one shot.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		return false, 0, err
	}

	done := make(chan struct{})
	c.cmd = cmd
	c.done = done
	// exitErr is published by the close of done: readers must observe done
	// closed before touching it.
	go func() {
		c.exitErr = cmd.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true, cmd.ProcessState.ExitCode(), nil
	case <-time.After(crashWindow):
		return false, 0, nil
	}
}

// WaitReady sleeps the configured startup delay (with a progress display on
// out) and then, when port is non-zero, probes the listen port with bounded
// retries and backoff. A process that died meanwhile or a port that never
// opens is a StartupError.
func (c *Controller) WaitReady(host string, port int, startupDelay time.Duration, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if startupDelay > 0 {
		steps := int(startupDelay / (100 * time.Millisecond))
		if steps < 1 {
			steps = 1
		}
		bar := progressbar.NewOptions(steps,
			progressbar.OptionSetDescription("waiting for server"),
			progressbar.OptionSetWriter(out),
			progressbar.OptionClearOnFinish(),
		)
		for i := 0; i < steps; i++ {
			time.Sleep(startupDelay / time.Duration(steps))
			_ = bar.Add(1)
		}
		_ = bar.Finish()
	}

	if !c.Alive() {
		return c.earlyExitError()
	}
	if port == 0 {
		return nil
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	backoff := 200 * time.Millisecond
	const attempts = 5
	for i := 0; i < attempts; i++ {
		conn, err := net.DialTimeout("tcp", addr, time.Second)
		if err == nil {
			conn.Close()
			c.logger.Printf("server is accepting connections on %s", addr)
			return nil
		}
		if !c.Alive() {
			return c.earlyExitError()
		}
		c.logger.Printf("attempt %d/%d: %s not reachable, retrying in %v", i+1, attempts, addr, backoff)
		time.Sleep(backoff)
		backoff *= 2
	}
	return &StartupError{Reason: fmt.Sprintf("server never became reachable at %s", addr)}
}

func (c *Controller) earlyExitError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	code := -1
	var exitErr error
	if c.cmd != nil && c.cmd.ProcessState != nil {
		code = c.cmd.ProcessState.ExitCode()
	}
	if c.done != nil {
		select {
		case <-c.done:
			exitErr = c.exitErr
		default:
		}
	}
	return &StartupError{
		Reason:   "server exited before becoming ready",
		Exited:   true,
		ExitCode: code,
		Stderr:   c.readStderrLocked(),
		Err:      exitErr,
	}
}

// Alive reports whether the spawned process is still running.
func (c *Controller) Alive() bool {
	c.mu.Lock()
	done := c.done
	cmd := c.cmd
	c.mu.Unlock()
	if cmd == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

// Pid returns the server's process ID, or 0 when nothing is running.
func (c *Controller) Pid() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cmd == nil || c.cmd.Process == nil {
		return 0
	}
	return c.cmd.Process.Pid
}

// StderrPath returns the path of the server's stderr sink for this run.
func (c *Controller) StderrPath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stderrPath
}

// Stderr returns whatever the server has written to stderr so far.
func (c *Controller) Stderr() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readStderrLocked()
}

// Stop terminates the server: SIGTERM to the process group, a bounded grace
// wait, then SIGKILL. It is best-effort, idempotent, and always leaves the
// controller cleaned up; empty log sinks are removed.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.stopped = true

	if c.cmd != nil && c.cmd.Process != nil {
		pid := c.cmd.Process.Pid
		select {
		case <-c.done:
			// already gone
		default:
			c.logger.Printf("stopping server (pid %d)", pid)
			_ = syscall.Kill(-pid, syscall.SIGTERM)
			select {
			case <-c.done:
			case <-time.After(stopGrace):
				c.logger.Printf("server did not terminate gracefully, force killing")
				_ = syscall.Kill(-pid, syscall.SIGKILL)
				<-c.done
			}
		}
		c.cmd = nil
	}
	c.closeSinksLocked()
}

func (c *Controller) readStderrLocked() string {
	if c.stderrFile != nil {
		_ = c.stderrFile.Sync()
	}
	if c.stderrPath == "" {
		return ""
	}
	data, err := os.ReadFile(c.stderrPath)
	if err != nil {
		return ""
	}
	return string(data)
}

func (c *Controller) closeSinksLocked() {
	for _, f := range []*os.File{c.stdoutFile, c.stderrFile} {
		if f == nil {
			continue
		}
		name := f.Name()
		_ = f.Close()
		if info, err := os.Stat(name); err == nil && info.Size() == 0 {
			_ = os.Remove(name)
		}
	}
	c.stdoutFile = nil
	c.stderrFile = nil
}
