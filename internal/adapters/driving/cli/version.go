package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/examprep/internal/core/domain"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("examprep version %s\n", version)
		if verbose {
			defaults := domain.DefaultAppSettings()
			cmd.Printf("default provider %s (extraction %s, synthesis %s, embedding %s)\n",
				defaults.AI.Provider, defaults.AI.Models.Extraction,
				defaults.AI.Models.Synthesis, defaults.AI.Models.Embedding)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
