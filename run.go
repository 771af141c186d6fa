package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/restful-objects/objects-contract-tests/config"
	"github.com/restful-objects/objects-contract-tests/framework"
	"github.com/restful-objects/objects-contract-tests/objectstests"

	"github.com/fatih/color"
)

func runTests(cmd *cobra.Command, params *commandParams, stdout, stderr io.Writer) error {
	if params.format != "text" && params.format != "json" {
		return fmt.Errorf(`unknown format %q, expected "text" or "json"`, params.format)
	}
	if params.noColor {
		color.NoColor = true
	}
	changed := cmd.Flags().Changed

	cfg, err := params.resolveConfig(changed)
	if err != nil {
		return err
	}
	if !params.watch {
		ok, err := runOnce(params, cfg, stdout, stderr)
		if err != nil {
			return err
		}
		if !ok {
			return errTestsFailed
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path, _ := params.configFile()
	changes := make(chan struct{}, 1)
	watcher, err := config.NewWatcher(path, func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}, framework.LoggerWithPrefix(log.New(stderr, "", log.LstdFlags), "[watch] "))
	if err != nil {
		return err
	}
	go func() { _ = watcher.Run(ctx) }()

	for {
		if _, err := runOnce(params, cfg, stdout, stderr); err != nil {
			fmt.Fprintf(stderr, "Error: %s\n", err)
		}
		fmt.Fprintf(stderr, "Watching %s for changes (Ctrl-C to stop)\n", path)

		select {
		case <-ctx.Done():
			return nil
		case <-changes:
		}
		newConfig, err := params.resolveConfig(changed)
		if err != nil {
			fmt.Fprintf(stderr, "Config error, keeping previous settings: %s\n", err)
			continue
		}
		cfg = newConfig
	}
}

// runOnce runs the whole suite and prints the report. It returns false if any test failed.
func runOnce(params *commandParams, cfg *config.Config, stdout, stderr io.Writer) (bool, error) {
	// progress goes to stderr when stdout carries the JSON report
	progress := stdout
	if params.format == "json" {
		progress = stderr
	}

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(progress, "", log.LstdFlags)
	}

	harness, err := framework.NewTestHarness(
		cfg.BaseURL,
		cfg.Timeout,
		cfg.ConnectTimeout,
		mainDebugLogger,
		progress,
	)
	if err != nil {
		return false, fmt.Errorf("test service error: %w", err)
	}

	fmt.Fprintln(progress)
	framework.PrintFilterDescription(progress, params.filters)
	fmt.Fprintf(progress, "Running test suite against %s\n", harness.BaseURL())

	testLogger := &ConsoleTestLogger{
		Out:                  progress,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}
	suiteParams := objectstests.SuiteParams{
		DeletedMessage:  cfg.Messages.Deleted,
		NotFoundMessage: cfg.Messages.NotFound,
		StrictNotFound:  cfg.StrictNotFound,
		RecentWindow:    cfg.RecentWindow,
		Parallel:        cfg.Parallel,
	}
	results := objectstests.RunTestSuite(harness, suiteParams, params.filters.AsFilter, testLogger)

	if params.format == "json" {
		if err := framework.WriteJSONResults(stdout, results); err != nil {
			return false, err
		}
		return results.OK(), nil
	}

	fmt.Fprintln(stdout)
	framework.PrintResults(stdout, results)
	if !results.OK() {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "To run only the failed tests again:")
		fmt.Fprintf(stdout, "  %s\n", params.rerunCommand(os.Args[0], cfg, results.Failures))
	}
	return results.OK(), nil
}
