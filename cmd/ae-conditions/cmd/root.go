package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/ae-conditions/internal/config"
	"github.com/oshokin/ae-conditions/internal/service/inspect"
	"github.com/oshokin/ae-conditions/internal/service/replay"
	"github.com/oshokin/ae-conditions/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// scriptPath to the replay script YAML file.
	scriptPath string
	// strict fails the replay when the engine rejected a request.
	strict bool

	// rootCmd represents the base command when called without any subcommands.
	rootCmd = &cobra.Command{
		Use:   "ae-conditions",
		Short: "Alarms & Events condition catalog and runtime engine.",
		Long: `Loads an Alarms & Events catalog (event categories, condition definitions,
process areas, sources and condition bindings) from a YAML settings file.

The catalog can be validated, its area tree printed, and a YAML script of
condition state changes, acknowledgments and events replayed through the
condition engine. Replay output is one protobuf JSON record per line on stdout;
logs go to stderr.`,
		SilenceUsage: true,
	}

	// validateCmd checks the catalog of the settings file.
	validateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Validate the settings file and its catalog.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return inspect.Validate(cmd.Context(), &inspect.Options{
				Output:     cmd.OutOrStdout(),
				ConfigPath: configPath,
			})
		},
	}

	// topologyCmd prints the area, source and condition tree.
	topologyCmd = &cobra.Command{
		Use:   "topology",
		Short: "Print the area tree with its sources and conditions.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return inspect.Topology(cmd.Context(), &inspect.Options{
				Output:     cmd.OutOrStdout(),
				ConfigPath: configPath,
			})
		},
	}

	// replayCmd feeds a script through the engine.
	replayCmd = &cobra.Command{
		Use:   "replay [script]",
		Short: "Replay a script of state changes, acknowledgments and events.",
		Long: `Replays the steps of a YAML script through the condition engine in order.

The first state change of every condition records its baseline and produces no
notification. Acknowledgments and tracking events without an actor are
attributed to the current user.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Positional argument overrides the flag.
			path := scriptPath
			if len(args) > 0 {
				path = args[0]
			}

			return replay.Run(cmd.Context(), &replay.Options{
				Output:     cmd.OutOrStdout(),
				ConfigPath: configPath,
				ScriptPath: path,
				Strict:     strict,
			})
		},
	}
)

// Execute runs the ae-conditions CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")

	replayCmd.Flags().StringVarP(&scriptPath, "script", "s", "", "path to replay script")
	replayCmd.Flags().BoolVar(&strict, "strict", false, "exit with an error if any request was rejected")

	rootCmd.AddCommand(validateCmd, topologyCmd, replayCmd)
}
