// Package cmd contains the CLI command definitions for relayq.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/relayq/relayq/internal/app"
	"github.com/relayq/relayq/internal/pkg/config"
	apperrors "github.com/relayq/relayq/internal/pkg/errors"
	"github.com/relayq/relayq/internal/pkg/remote"
	"github.com/relayq/relayq/internal/pkg/settings"
	"github.com/relayq/relayq/internal/pkg/ui"
)

// NewRootCmd creates the root command for the relayq CLI.
func NewRootCmd(version, commitHash, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "relayq",
		Short: "Command-line interface for the RelayQ message queue service",
		Long: `relayq manages queues, consumer groups, schedules and messages on the
hosted RelayQ service.

Credentials are stored per environment in ~/.relayq/config.json. The
active token is resolved in priority order: the --token flag, the
RELAYQ_TOKEN environment variable, then the configured default
environment (or the one named with --env).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			apperrors.SetVerbose(verbose)
		},
	}

	rootCmd.SetVersionTemplate(`relayq {{.Version}}
Commit: ` + commitHash + `
Built:  ` + date + "\n")

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default: ~/.relayq/config.json)")
	rootCmd.PersistentFlags().String("token", "", "API token, overrides all other token sources")
	rootCmd.PersistentFlags().StringP("env", "e", "", "Environment to use instead of the default")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "Skip confirmation prompts")

	rootCmd.AddCommand(NewEnvCmd())
	rootCmd.AddCommand(NewQueueCmd())
	rootCmd.AddCommand(NewGroupCmd())
	rootCmd.AddCommand(NewScheduleCmd())
	rootCmd.AddCommand(NewMessageCmd())
	rootCmd.AddCommand(NewFailedCmd())
	rootCmd.AddCommand(NewKeysCmd())
	rootCmd.AddCommand(NewPrefsCmd())
	rootCmd.AddCommand(NewSettingsCmd())

	return rootCmd
}

// runtime holds everything a command needs, assembled from the global
// flags on each invocation.
type runtime struct {
	svc *app.Service
	ui  ui.Manager
	yes bool
}

func newRuntime(cmd *cobra.Command) (*runtime, error) {
	configPath, _ := cmd.Flags().GetString("config")
	token, _ := cmd.Flags().GetString("token")
	envName, _ := cmd.Flags().GetString("env")
	noColor, _ := cmd.Flags().GetBool("no-color")
	yes, _ := cmd.Flags().GetBool("yes")

	store, err := config.NewStore(configPath)
	if err != nil {
		return nil, err
	}

	mgr, err := settings.NewManager("")
	if err != nil {
		return nil, err
	}

	colorEnabled := !noColor && store.GetPreferences().ColorOutput

	var uiMgr ui.Manager
	if yes {
		uiMgr = ui.NewNonInteractiveManager(colorEnabled)
	} else {
		uiMgr = ui.NewDefaultManager(colorEnabled)
	}

	svc, err := app.NewService(store, mgr, uiMgr,
		app.WithResolveOptions(config.ResolveOptions{
			CLIToken:    token,
			Environment: envName,
		}),
	)
	if err != nil {
		return nil, err
	}

	return &runtime{svc: svc, ui: uiMgr, yes: yes}, nil
}

// confirmDestructive asks before an irreversible action. The --yes flag
// and the confirmDestructiveActions preference both bypass the prompt.
func (rt *runtime) confirmDestructive(prompt string) (bool, error) {
	if rt.yes {
		return true, nil
	}
	if !rt.svc.Store().GetPreferences().ConfirmDestructiveActions {
		return true, nil
	}
	return rt.ui.PromptConfirm(prompt)
}

// finish unwraps an operation result: on failure the classified error
// propagates to main for rendering.
func finish[T any](result remote.OperationResult[T]) (T, error) {
	if !result.Success {
		return result.Data, result.Classified
	}
	return result.Data, nil
}
