package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relayq/relayq/internal/pkg/config"
	"github.com/relayq/relayq/internal/pkg/ui"
)

// NewEnvCmd creates the env command and its subcommands.
func NewEnvCmd() *cobra.Command {
	envCmd := &cobra.Command{
		Use:   "env",
		Short: "Manage credential environments",
		Long: `Manage the named credential environments stored in the config file.

Each environment holds an API token. One environment is the default and
supplies the token when neither --token nor RELAYQ_TOKEN is set.`,
	}

	envCmd.AddCommand(newEnvAddCmd())
	envCmd.AddCommand(newEnvListCmd())
	envCmd.AddCommand(newEnvRemoveCmd())
	envCmd.AddCommand(newEnvUpdateCmd())
	envCmd.AddCommand(newEnvUseCmd())
	envCmd.AddCommand(newEnvTokenCmd())

	return envCmd
}

// newEnvAddCmd creates the 'env add' subcommand.
func newEnvAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [id]",
		Short: "Add a credential environment",
		Long: `Add a named environment holding an API token.

With no arguments an interactive form collects the details. The first
environment added becomes the default.

Examples:
  relayq env add
  relayq env add prod --api-token rq_live_xxx --name "Production"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			token, _ := cmd.Flags().GetString("api-token")
			name, _ := cmd.Flags().GetString("name")

			input := ui.EnvironmentInput{Token: token, Name: name}
			if len(args) > 0 {
				input.ID = args[0]
			}

			if input.ID == "" || input.Token == "" {
				filled, err := rt.ui.PromptEnvironment(input)
				if err != nil {
					return err
				}
				input = *filled
			}

			env, err := rt.svc.Store().AddEnvironment(input.ID, input.Token, input.Name)
			if err != nil {
				return err
			}

			id := config.NormalizeEnvironmentID(input.ID)
			if rt.svc.Store().GetDefaultEnvironment() == id {
				rt.ui.ShowSuccess(fmt.Sprintf("Added environment %q (default) with token %s", id, config.MaskToken(env.Token)))
			} else {
				rt.ui.ShowSuccess(fmt.Sprintf("Added environment %q with token %s", id, config.MaskToken(env.Token)))
			}
			return nil
		},
	}

	cmd.Flags().String("api-token", "", "API token for the environment")
	cmd.Flags().String("name", "", "Display name (defaults to the id)")
	return cmd
}

// newEnvListCmd creates the 'env list' subcommand.
func newEnvListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List credential environments",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			showTokens, _ := cmd.Flags().GetBool("show-tokens")
			entries := rt.svc.Store().ListEnvironments(showTokens)
			if len(entries) == 0 {
				rt.ui.ShowInfo("No environments configured. Run 'relayq env add' to create one.")
				return nil
			}

			headers := []string{"ID", "NAME", "CREATED", "DEFAULT"}
			if showTokens {
				headers = append(headers, "TOKEN")
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				marker := ""
				if e.IsDefault {
					marker = "*"
				}
				row := []string{e.ID, e.Name, e.CreatedAt.Format("2006-01-02"), marker}
				if showTokens {
					row = append(row, e.MaskedToken)
				}
				rows = append(rows, row)
			}

			fmt.Print(rt.ui.RenderTable(headers, rows))
			return nil
		},
	}

	cmd.Flags().Bool("show-tokens", false, "Include masked tokens in the listing")
	return cmd
}

// newEnvRemoveCmd creates the 'env remove' subcommand.
func newEnvRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a credential environment",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			ok, err := rt.confirmDestructive(fmt.Sprintf("Remove environment %q?", args[0]))
			if err != nil {
				return err
			}
			if !ok {
				rt.ui.ShowInfo("Aborted.")
				return nil
			}

			result, err := rt.svc.Store().RemoveEnvironment(args[0])
			if err != nil {
				return err
			}

			rt.ui.ShowSuccess(fmt.Sprintf("Removed environment %q", args[0]))
			if result.DefaultAffected {
				if result.NewDefault != "" {
					rt.ui.ShowInfo(fmt.Sprintf("Default environment is now %q.", result.NewDefault))
				} else {
					rt.ui.ShowInfo("No environments remain; the default has been cleared.")
				}
			}
			return nil
		},
	}
}

// newEnvUpdateCmd creates the 'env update' subcommand.
func newEnvUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an environment's token or name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			var update config.EnvironmentUpdate
			if cmd.Flags().Changed("api-token") {
				token, _ := cmd.Flags().GetString("api-token")
				update.Token = &token
			}
			if cmd.Flags().Changed("name") {
				name, _ := cmd.Flags().GetString("name")
				update.Name = &name
			}
			if update.Token == nil && update.Name == nil {
				return fmt.Errorf("nothing to update, pass --api-token or --name")
			}

			env, err := rt.svc.Store().UpdateEnvironment(args[0], update)
			if err != nil {
				return err
			}

			rt.ui.ShowSuccess(fmt.Sprintf("Updated environment %q (token %s)", args[0], config.MaskToken(env.Token)))
			return nil
		},
	}

	cmd.Flags().String("api-token", "", "New API token")
	cmd.Flags().String("name", "", "New display name")
	return cmd
}

// newEnvUseCmd creates the 'env use' subcommand.
func newEnvUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <id>",
		Short: "Set the default environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			previous, err := rt.svc.Store().SetDefaultEnvironment(args[0])
			if err != nil {
				return err
			}

			if previous != "" && previous != config.NormalizeEnvironmentID(args[0]) {
				rt.ui.ShowSuccess(fmt.Sprintf("Default environment changed from %q to %q", previous, args[0]))
			} else {
				rt.ui.ShowSuccess(fmt.Sprintf("Default environment is %q", args[0]))
			}
			return nil
		},
	}
}

// newEnvTokenCmd creates the 'env token' subcommand.
func newEnvTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Show where the active token comes from",
		Long: `Show which source the active token resolves from without contacting
the service. Sources in priority order: the --token flag, the
RELAYQ_TOKEN environment variable, the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			res, ok := rt.svc.TokenResolution()
			if !ok {
				rt.ui.ShowInfo("No token configured. Run 'relayq env add' or set RELAYQ_TOKEN.")
				return nil
			}

			switch res.Source {
			case config.TokenSourceCLI:
				rt.ui.ShowInfo(fmt.Sprintf("Token %s from the --token flag", config.MaskToken(res.Token)))
			case config.TokenSourceEnv:
				rt.ui.ShowInfo(fmt.Sprintf("Token %s from %s", config.MaskToken(res.Token), config.TokenEnvVar))
			default:
				rt.ui.ShowInfo(fmt.Sprintf("Token %s from environment %q in the config file", config.MaskToken(res.Token), res.EnvironmentID))
			}
			return nil
		},
	}
}
