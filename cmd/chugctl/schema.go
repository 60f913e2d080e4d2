package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newSchemaCmd())
}

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema [scenario|manifest|result]",
		Short: "Print the JSON schema of a chugctl format",
		Long: `The schema command prints the JSON schema (draft 2020-12) of the scenario
files run accepts, of the classes --json output or of the run --json output.

Example:
  chugctl schema
  chugctl schema manifest`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"scenario", "manifest", "result"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(args)
		},
	}
	return cmd
}

func runSchema(args []string) error {
	kind := "scenario"
	if len(args) > 0 {
		kind = args[0]
	}

	var v interface{}
	switch kind {
	case "scenario":
		v = &Scenario{}
	case "manifest":
		v = &manifestReport{}
	case "result":
		v = &runResult{}
	default:
		return fmt.Errorf("unknown schema %q (want scenario, manifest or result)", kind)
	}

	b, err := generateSchema(v)
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
