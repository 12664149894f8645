package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/doshii/internal/cmd/output"
)

// Execute runs the doshii CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "doshii",
		Short:   "Doshii partner platform CLI",
		Version: a.version,
		Long: `doshii talks to the Doshii partner platform with your application's
credentials. It lists devices, locations, webhooks and rejection codes,
and streams realtime events from the partner socket.

Credentials are read from DOSHII_CLIENT_ID and DOSHII_CLIENT_SECRET, a
.env file, or client_id and client_secret in $HOME/.doshii.yaml.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "realtime",
		Title: "Realtime Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "resources",
		Title: "Resource Commands:",
	})

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.doshii.yaml)")
	flags.BoolVarP(&a.config.Verbose, "verbose", "v", a.config.Verbose, "verbose output (shortcut for --log-level=debug)")
	flags.BoolVarP(&a.config.Quiet, "quiet", "q", a.config.Quiet, "minimal output (shortcut for --log-level=error)")
	flags.BoolVar(&a.config.NoColor, "no-color", a.config.NoColor, "disable colored output")
	flags.StringVarP(&a.config.Format, "format", "o", a.config.Format, "output format: table, json, yaml")
	flags.StringVar(&a.config.LogLevel, "log-level", a.config.LogLevel, "log level: trace, debug, info, warn, error (overrides -v/-q)")
	flags.BoolVar(&a.config.Credentials.Sandbox, "sandbox", a.config.Credentials.Sandbox, "use the sandbox environment")

	rootCmd.SetVersionTemplate("doshii {{.Version}}\n")
	rootCmd.SetOut(a.stdout)

	a.registerCommands(rootCmd)
	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if _, err := output.ParseFormat(a.config.Format); err != nil {
		return err
	}
	if cmd.Flags().Changed("config") {
		path, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}
		sandbox := a.config.Credentials.Sandbox
		if err := a.config.reloadConfigFile(path); err != nil {
			return err
		}
		if cmd.Flags().Changed("sandbox") {
			a.config.Credentials.Sandbox = sandbox
		}
	}

	logger := NewLogger(a.config)
	a.logger = &logger
	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(a.NewListenCommand())

	rootCmd.AddCommand(a.NewDevicesCommand())
	rootCmd.AddCommand(a.NewLocationsCommand())
	rootCmd.AddCommand(a.NewWebhooksCommand())
	rootCmd.AddCommand(a.NewRejectionCodesCommand())

	rootCmd.AddCommand(a.NewVersionCommand())
}

// render writes data in the configured output format.
func (a *App) render(data any) error {
	return output.NewFormatter(output.DetectFormat(a.config.Format)).Format(a.stdout, data)
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
