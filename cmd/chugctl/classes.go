package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/justyntemme/chuckgo/pkg/chuck"
	"github.com/justyntemme/chuckgo/pkg/chugin"
	"github.com/justyntemme/chuckgo/pkg/host"
)

// classReport is what the host ended up with for one class
type classReport struct {
	chugin.ClassInfo `yaml:",inline"`
	Members          []host.Member `json:"members" yaml:"members"`
	Size             uint          `json:"size" yaml:"size"`
}

// manifestReport is the output of the classes command
type manifestReport struct {
	Name    string        `json:"name" yaml:"name"`
	Version string        `json:"version" yaml:"version"`
	Encoded string        `json:"encoded_version" yaml:"encoded_version"`
	Classes []classReport `json:"classes" yaml:"classes"`
}

func init() {
	rootCmd.AddCommand(newClassesCmd())
}

func newClassesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classes",
		Short: "List the classes the bundled chugins register",
		Long: `The classes command loads the bundled chugins and prints every class the
host accepted: parent, unit generator I/O, members with their offsets and
method signatures.

Example:
  chugctl classes
  chugctl classes --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClasses()
		},
	}
	return cmd
}

func buildManifest() (manifestReport, error) {
	vm, m, err := loadVM()
	if err != nil {
		return manifestReport{}, err
	}

	man := m.Manifest()
	report := manifestReport{
		Name:    man.Name,
		Version: man.Version,
		Encoded: fmt.Sprintf("0x%08X", man.Encoded),
	}
	for _, info := range man.Classes {
		c, err := vm.Class(info.Name)
		if err != nil {
			return manifestReport{}, err
		}
		report.Classes = append(report.Classes, classReport{
			ClassInfo: info,
			Members:   c.Members,
			Size:      c.Size,
		})
	}
	return report, nil
}

func runClasses() error {
	report, err := buildManifest()
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(report)
	}

	printVerbose("Module %s, chugin protocol %s (%s)\n", report.Name, report.Version, report.Encoded)
	for _, c := range report.Classes {
		fmt.Printf("%s : %s", c.Name, c.Parent)
		if c.Tick != nil {
			fmt.Printf("  [%d in, %d out]", c.Tick.Inputs, c.Tick.Outputs)
		}
		fmt.Println()
		if c.Doc != "" {
			printVerbose("  %s\n", c.Doc)
		}
		for _, mem := range c.Members {
			if mem.Name == chuck.DataMember {
				printVerbose("  %-6s %-10s @%d\n", mem.Type, mem.Name, mem.Offset)
				continue
			}
			fmt.Printf("  %-6s %-10s @%d\n", mem.Type, mem.Name, mem.Offset)
		}
		for _, method := range c.Methods {
			fmt.Printf("  %s\n", method.Signature())
		}
	}
	return nil
}
