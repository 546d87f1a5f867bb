package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewKeysCmd creates the keys command and its subcommands.
func NewKeysCmd() *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage the webhook signing key",
	}

	keysCmd.AddCommand(newKeysShowCmd())
	keysCmd.AddCommand(newKeysRotateCmd())

	return keysCmd
}

func newKeysShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show signing key metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			key, err := finish(rt.svc.GetSigningKey(cmd.Context()))
			if err != nil {
				return err
			}

			fmt.Printf("Key ID:  %s\n", key.KeyID)
			fmt.Printf("Created: %s\n", key.CreatedAt.Format(time.RFC3339))
			if !key.RotatedAt.IsZero() {
				fmt.Printf("Rotated: %s\n", key.RotatedAt.Format(time.RFC3339))
			}
			return nil
		},
	}
}

func newKeysRotateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rotate",
		Short: "Rotate the signing key",
		Long: `Rotate the webhook signing key. The new secret is printed once and
cannot be retrieved again; the old key stays valid for a grace period.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			ok, err := rt.confirmDestructive("Rotate the signing key? Consumers must be updated to the new secret.")
			if err != nil {
				return err
			}
			if !ok {
				rt.ui.ShowInfo("Aborted.")
				return nil
			}

			key, err := finish(rt.svc.RotateSigningKey(cmd.Context()))
			if err != nil {
				return err
			}

			rt.ui.ShowSuccess(fmt.Sprintf("Rotated signing key, new key id %s", key.KeyID))
			fmt.Printf("Secret (shown once): %s\n", key.Secret)
			return nil
		},
	}
}
