// Command webserv-contract-tests runs a black-box conformance suite against
// an externally built webserv binary. It owns the server process for the
// duration of the run: start, readiness probe, test traffic, shutdown.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/webservtools/webserv-contract-tests/config"
	"github.com/webservtools/webserv-contract-tests/framework"
	"github.com/webservtools/webserv-contract-tests/runner"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// A .env next to the binary can pin WEBSERV_PATH for local runs.
	_ = godotenv.Load()

	cfg := config.Default()
	if p := os.Getenv("WEBSERV_PATH"); p != "" {
		cfg.ServerPath = p
	}

	var (
		configFile string
		suite      string
		test       string
		debug      bool
		debugAll   bool
	)
	timeout := cfg.Timeout
	startupDelay := cfg.StartupDelay

	exitCode := runner.ExitOK
	cmd := &cobra.Command{
		Use:           "webserv-contract-tests",
		Short:         "Black-box conformance tests for a webserv HTTP server binary",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.LoadFile(configFile, cmd.Flags().Changed("config")); err != nil {
				return err
			}
			// Flags given explicitly win over the config file.
			if cmd.Flags().Changed("server-path") {
				cfg.ServerPath, _ = cmd.Flags().GetString("server-path")
			}
			if cmd.Flags().Changed("host") {
				cfg.Host, _ = cmd.Flags().GetString("host")
			}
			if cmd.Flags().Changed("port") {
				cfg.Port, _ = cmd.Flags().GetInt("port")
			}
			if cmd.Flags().Changed("timeout") {
				cfg.Timeout = timeout
			}
			if cmd.Flags().Changed("startup-delay") {
				cfg.StartupDelay = startupDelay
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var logger framework.Logger = framework.NullLogger()
			if debug || debugAll {
				logger = harnessLogger{out: os.Stderr}
			}

			exitCode = runner.Run(ctx, runner.Params{
				Config:     cfg,
				Suite:      suite,
				Test:       test,
				RerunArgs:  rerunArgs(cfg),
				Out:        os.Stdout,
				Logger:     logger,
				TestLogger: newConsoleTestLogger(os.Stdout, debug, debugAll),
			})
			return nil
		},
	}

	flags := cmd.Flags()
	flags.String("server-path", cfg.ServerPath, "path to the webserv binary under test")
	flags.String("host", cfg.Host, "host the server listens on")
	flags.Int("port", cfg.Port, "port the server listens on")
	flags.StringVar(&configFile, "config", "webserv-tests.yml", "harness configuration file")
	flags.StringVar(&suite, "suite", framework.SuiteAll, "suite to run, or 'all'")
	flags.StringVar(&test, "test", "", "single test to run within --suite")
	flags.Var(&timeout, "timeout", "per-request timeout, Go syntax or bare seconds")
	flags.Var(&startupDelay, "startup-delay", "grace period before probing the server, Go syntax or bare seconds")
	flags.BoolVar(&debug, "debug", false, "dump captured output of failed tests")
	flags.BoolVar(&debugAll, "debug-all", false, "dump captured output of every test")

	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return runner.ExitUsage
	}
	return exitCode
}

// rerunArgs is the command prefix written into failure logs; the reporter
// appends the per-test selection flags.
func rerunArgs(cfg config.Config) []string {
	return []string{os.Args[0], "--server-path", cfg.ServerPath}
}
