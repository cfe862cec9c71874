package main

import (
	"fmt"

	"github.com/philipparndt/dowelhub/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dowelhub %s\n", version.GetVersion())
		fmt.Printf("  commit: %s\n", version.GitCommit)
		fmt.Printf("  built: %s\n", version.BuildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
