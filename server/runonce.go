package server

import (
	"bytes"
	"os/exec"
	"syscall"
	"time"
)

// RunResult captures one throwaway server invocation made by the
// invalid-configuration tests, which expect the binary to reject the config
// and exit on its own.
type RunResult struct {
	ExitCode int
	// TimedOut means the server was still running when the wait window
	// closed and had to be terminated, i.e. it accepted the config.
	TimedOut bool
	Stdout   string
	Stderr   string
}

// RunOnce spawns the server with an arbitrary configuration file and waits
// briefly for it to exit. Config errors should surface fast, so the wait is
// a short poll; a server that survives the window is terminated and the
// result marked TimedOut.
func (c *Controller) RunOnce(configPath string, maxWait time.Duration) (RunResult, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(c.serverPath, "-c", configPath)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return RunResult{}, err
	}
	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()

	result := RunResult{}
	select {
	case <-done:
	case <-time.After(maxWait):
		result.TimedOut = true
		_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
			<-done
		}
	}

	result.ExitCode = cmd.ProcessState.ExitCode()
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()
	c.logger.Printf("one-shot run with %s: exit %d, timed out %v", configPath, result.ExitCode, result.TimedOut)
	return result, nil
}
