package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eldamar-labs/epoch-distributor/internal/version"
)

var runVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and commit of the distributor",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Version: %s\n", version.GetVersion())
		fmt.Printf("Commit: %s\n", version.GetCommit())
	},
}
