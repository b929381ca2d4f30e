package cli

import (
	"github.com/spf13/cobra"
)

// version is the CLI version, overridable at build time with
// -ldflags "-X .../internal/cli.version=...".
var version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("runar-sqlite version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
