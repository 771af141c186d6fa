package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var errTestsFailed = errors.New("some tests failed")

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		if !errors.Is(err, errTestsFailed) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	params := &commandParams{}
	root := &cobra.Command{
		Use:   "objects-contract-tests",
		Short: "Contract tests for the /objects REST service",
		Long: "Runs create, read, update and delete requests against an /objects service and checks\n" +
			"status codes, content types and field values against the expected contract.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(cmd, params, stdout, stderr)
		},
	}
	params.addFlags(root)

	runParams := &commandParams{}
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the test suite (the default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(cmd, runParams, stdout, stderr)
		},
	}
	runParams.addFlags(runCmd)

	root.SetOut(stdout)
	root.SetErr(stderr)
	root.AddCommand(runCmd, newValidateCommand(stdout), newServeCommand(stderr))
	return root
}
