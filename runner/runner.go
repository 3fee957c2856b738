// Package runner orchestrates a harness run end to end: environment check,
// test resolution, interpreter resolution, server lifecycle, test execution,
// and reporting. The sequencing guarantee it owns is that a started server
// is stopped exactly once, on every exit path including interrupts.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/webservtools/webserv-contract-tests/client"
	"github.com/webservtools/webserv-contract-tests/config"
	"github.com/webservtools/webserv-contract-tests/framework"
	"github.com/webservtools/webserv-contract-tests/reporter"
	"github.com/webservtools/webserv-contract-tests/server"
	"github.com/webservtools/webserv-contract-tests/wstests"
)

// Exit codes. Anything nonzero means the run cannot be trusted as a pass.
const (
	ExitOK          = 0
	ExitTestsFailed = 1
	ExitUsage       = 2
	ExitStartup     = 3
	ExitInterrupted = 130
)

// Params configures one run.
type Params struct {
	Config config.Config
	// Suite selects a suite by name, or framework.SuiteAll for everything.
	Suite string
	// Test optionally narrows the run to one test within Suite.
	Test string
	// RerunArgs is the command prefix reproducing this invocation, used in
	// failure logs.
	RerunArgs []string
	// Out receives all console output.
	Out io.Writer
	// Logger receives harness-level debug output.
	Logger framework.Logger
	// TestLogger observes per-test progress.
	TestLogger framework.TestLogger
}

// Run executes one full harness run and returns the process exit code.
// Cancelling ctx stops the run after the current test; the server is still
// shut down and the partial results reported.
func Run(ctx context.Context, p Params) int {
	if p.Out == nil {
		p.Out = io.Discard
	}
	if p.Logger == nil {
		p.Logger = framework.NullLogger()
	}
	if p.TestLogger == nil {
		p.TestLogger = framework.NullTestLogger()
	}

	if err := p.Config.CheckEnvironment(); err != nil {
		fmt.Fprintf(p.Out, "Error: %v\n", err)
		return ExitStartup
	}

	// Registration happens before the environment handles exist; the env
	// is filled in below, before any test runs.
	env := &wstests.Env{Config: p.Config}
	registry := framework.NewRegistry()
	wstests.Register(registry, env)

	plan, err := registry.Resolve(p.Suite, p.Test)
	if err != nil {
		var de *framework.DiscoveryError
		if errors.As(err, &de) {
			fmt.Fprintf(p.Out, "Error: %v\n", de)
			fmt.Fprintf(p.Out, "Available suites: %v\n", registry.SuiteNames())
			return ExitUsage
		}
		fmt.Fprintf(p.Out, "Error: %v\n", err)
		return ExitUsage
	}

	env.Interpreters = server.ResolveInterpreters(p.Config.Interpreters, p.Logger)
	n, err := server.RewriteConfig(config.ServerConfigPath, env.Interpreters, p.Logger)
	if err != nil {
		fmt.Fprintf(p.Out, "Error: updating %s: %v\n", config.ServerConfigPath, err)
		return ExitStartup
	}
	p.Logger.Printf("updated %d cgi_handler directive(s) in %s", n, config.ServerConfigPath)
	for _, ext := range env.Interpreters.Missing() {
		fmt.Fprintf(p.Out, "Warning: no interpreter found for %s scripts; those tests will be skipped\n", ext)
	}

	ctl := server.NewController(p.Config.ServerPath, config.ServerConfigPath, config.LogsDir, p.Logger)
	env.Server = ctl
	env.Client = client.New(p.Config.Host, p.Config.Port, p.Config.Timeout.D(), p.Logger)

	if framework.RequiresServer(plan) {
		if err := ctl.Start(); err != nil {
			reportStartupFailure(p.Out, err)
			return ExitStartup
		}
		// The only stop for this start. Stop is idempotent, so the
		// explicit stop before reporting below is safe too.
		defer ctl.Stop()

		if err := ctl.WaitReady(p.Config.Host, p.Config.Port, p.Config.StartupDelay.D(), p.Out); err != nil {
			reportStartupFailure(p.Out, err)
			return ExitStartup
		}
	}

	results := framework.RunPlan(ctx, plan, p.TestLogger)

	// Tests are done; bring the server down before rendering the report so
	// its stderr is complete.
	ctl.Stop()

	opts := reporter.Options{
		LogsDir:       config.LogsDir,
		ServerStderr:  ctl.Stderr(),
		RerunArgs:     p.RerunArgs,
		Comprehensive: p.Suite == framework.SuiteAll && p.Test == "",
	}
	if p.Test != "" && len(plan) == 1 {
		if src, err := framework.FuncSource(plan[0].Case.SourceFn); err == nil {
			opts.TestSource = src
		}
	}
	reporter.Report(p.Out, results, opts)

	if ctx.Err() != nil {
		fmt.Fprintln(p.Out, "Run interrupted; results above are partial.")
		return ExitInterrupted
	}
	if !results.OK() {
		return ExitTestsFailed
	}
	return ExitOK
}

func reportStartupFailure(out io.Writer, err error) {
	var se *server.StartupError
	if errors.As(err, &se) {
		fmt.Fprintf(out, "Error: %v\n", se)
		if se.Stderr != "" {
			fmt.Fprintf(out, "Server stderr:\n%s\n", se.Stderr)
		}
		return
	}
	fmt.Fprintf(out, "Error: %v\n", err)
}
