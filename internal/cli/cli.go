package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// rootOptions carries persistent flag values shared by all subcommands.
type rootOptions struct {
	configPath string
	section    []string
	logLevel   string
}

// Execute runs the llamad command tree. It returns an error instead of
// exiting, enabling reuse from tests.
func Execute(args []string) error {
	root := buildRootCmd()
	root.SetArgs(args)
	return root.Execute()
}

// buildRootCmd constructs the Cobra command tree.
func buildRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "llamad",
		Short:         "Supervise a local llama.cpp server subprocess",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to config file (.yaml/.json/.toml)")
	root.PersistentFlags().StringSliceVar(&opts.section, "section", nil, "Nested config keys of the server section (default LlamaServer)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug|info|warn|error (overrides config)")

	serveCmd := &cobra.Command{
		Use:     "serve",
		Short:   "Start the server subprocess and the control-plane API",
		Example: "  llamad serve --config llamad.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			return runServe(opts, addr)
		},
	}
	serveCmd.Flags().String("addr", "", "Control-plane listen address (overrides config, default :9090)")

	checkCmd := &cobra.Command{
		Use:     "check",
		Short:   "Resolve the config and print the launch command without starting anything",
		Example: "  llamad check --config llamad.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the llamad version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "llamad "+version)
		},
	}

	root.AddCommand(serveCmd, checkCmd, versionCmd)
	return root
}
