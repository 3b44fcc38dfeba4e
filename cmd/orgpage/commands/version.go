package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/orgpage/internal/output"
	"github.com/jmylchreest/orgpage/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			return output.Encode(cmd.OutOrStdout(), output.FormatJSON, version.Get(), output.WithPretty(true))
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Full())
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("json", false, "print version information as JSON")
}
