package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/justyntemme/chuckgo/pkg/chuck"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersion()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion() error {
	if jsonOut {
		return printJSON(map[string]interface{}{
			"version":          version,
			"commit":           commit,
			"built":            date,
			"protocol":         chuck.FormatVersion(chuck.DLLVersion),
			"protocol_encoded": fmt.Sprintf("0x%08X", chuck.DLLVersion),
		})
	}
	fmt.Printf("chugctl %s\n", version)
	fmt.Printf("  commit: %s\n", commit)
	fmt.Printf("  built: %s\n", date)
	fmt.Printf("  chugin protocol: %s (0x%08X)\n", chuck.FormatVersion(chuck.DLLVersion), chuck.DLLVersion)
	return nil
}
