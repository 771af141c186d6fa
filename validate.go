package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/restful-objects/objects-contract-tests/rules"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func newValidateCommand(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a saved /objects listing against the field rules",
		Long: "Reads a JSON array of objects, as returned by GET /objects, from FILE (or stdin if FILE\n" +
			"is \"-\") and prints every field that breaks a rule.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			violations, count, err := validateListing(data, rules.Default(time.Now()))
			if err != nil {
				return err
			}
			for _, v := range violations {
				fmt.Fprintln(stdout, v)
			}
			fmt.Fprintf(stdout, "%d objects checked, %d violations\n", count, len(violations))
			if len(violations) != 0 {
				return errTestsFailed
			}
			return nil
		},
	}
}

func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}

func validateListing(data []byte, ruleSet rules.RuleSet) ([]rules.ItemViolation, int, error) {
	var list ldvalue.Value
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, 0, fmt.Errorf("not valid JSON: %w", err)
	}
	if list.Type() != ldvalue.ArrayType {
		return nil, 0, fmt.Errorf("expected a JSON array of objects, got %s", list.Type())
	}
	items := make([]ldvalue.Value, 0, list.Count())
	for i := 0; i < list.Count(); i++ {
		items = append(items, list.GetByIndex(i))
	}
	return ruleSet.ValidateCollection(items), len(items), nil
}
