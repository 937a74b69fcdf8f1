package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AttachCobraVersionCommand attaches a `version` subcommand to the provided root command
// and sets the root --version flag output.
func AttachCobraVersionCommand(root *cobra.Command) {
	root.Version = Short()

	// Subcommand: `version`.
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information.",
		Long:  "Print version information including the commit hash, build timestamp and Go version. Values not injected at build time are read from the VCS stamp of the binary.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), Full())
		},
	})
}
