package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/relayq/relayq/internal/pkg/config"
)

// NewPrefsCmd creates the prefs command and its subcommands.
func NewPrefsCmd() *cobra.Command {
	prefsCmd := &cobra.Command{
		Use:   "prefs",
		Short: "Manage CLI preferences",
		Long: `Manage the preference flags stored alongside credentials in the
config file: colorOutput and confirmDestructiveActions.`,
	}

	prefsCmd.AddCommand(newPrefsListCmd())
	prefsCmd.AddCommand(newPrefsSetCmd())

	return prefsCmd
}

func newPrefsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			prefs := rt.svc.Store().GetPreferences()
			fmt.Printf("colorOutput: %t\n", prefs.ColorOutput)
			fmt.Printf("confirmDestructiveActions: %t\n", prefs.ConfirmDestructiveActions)
			return nil
		},
	}
}

func newPrefsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <true|false>",
		Short: "Set a preference",
		Long: `Set a preference flag.

Examples:
  relayq prefs set colorOutput false
  relayq prefs set confirmDestructiveActions false`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			value, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("invalid value %q, expected true or false", args[1])
			}

			var update config.PreferencesUpdate
			switch args[0] {
			case "colorOutput":
				update.ColorOutput = &value
			case "confirmDestructiveActions":
				update.ConfirmDestructiveActions = &value
			default:
				return fmt.Errorf("unknown preference %q", args[0])
			}

			if _, err := rt.svc.Store().UpdatePreferences(update); err != nil {
				return err
			}
			rt.ui.ShowSuccess(fmt.Sprintf("Set %s = %t", args[0], value))
			return nil
		},
	}
}
