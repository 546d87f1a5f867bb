package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/relayq/relayq/internal/pkg/settings"
)

// NewSettingsCmd creates the settings command and its subcommands.
func NewSettingsCmd() *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage tool settings",
		Long: `Manage the tool settings stored in ~/.relayq/settings.yaml: API
endpoint, request timeout, and retry tuning. Credentials are managed
separately with 'relayq env'.`,
	}

	settingsCmd.AddCommand(newSettingsInitCmd())
	settingsCmd.AddCommand(newSettingsSetCmd())
	settingsCmd.AddCommand(newSettingsGetCmd())
	settingsCmd.AddCommand(newSettingsListCmd())

	return settingsCmd
}

func newSettingsInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a settings file with default values",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := settings.NewManager("")
			if err != nil {
				return err
			}
			if err := mgr.Init(); err != nil {
				return err
			}
			fmt.Printf("Settings file created at %s\n", mgr.Path())
			return nil
		},
	}
}

func newSettingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a settings value",
		Long: `Set a settings value by key, using dot notation for nested keys.

Examples:
  relayq settings set endpoint https://eu.relayq.io
  relayq settings set timeout_seconds 60
  relayq settings set retry.max_retries 5`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := settings.NewManager("")
			if err != nil {
				return err
			}
			if err := mgr.Set(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Set %s = %s\n", args[0], args[1])
			return nil
		},
	}
}

func newSettingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a settings value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := settings.NewManager("")
			if err != nil {
				return err
			}
			value, err := mgr.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Println(value)
			return nil
		},
	}
}

func newSettingsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := settings.NewManager("")
			if err != nil {
				return err
			}
			printSettings("", mgr.List())
			return nil
		},
	}
}

// printSettings recursively prints settings with sorted keys so output
// is stable.
func printSettings(indent string, values map[string]interface{}) {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		switch v := values[key].(type) {
		case map[string]interface{}:
			fmt.Printf("%s%s:\n", indent, key)
			printSettings(indent+"  ", v)
		default:
			fmt.Printf("%s%s: %v\n", indent, key, v)
		}
	}
}
