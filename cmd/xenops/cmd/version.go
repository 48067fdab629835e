package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version will be set by the build process
var Version = "dev"
var Commit = "none"

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of xenops",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("xenops version: %s\n", Version)
		fmt.Printf("Git Commit: %s\n", Commit)
	},
}
