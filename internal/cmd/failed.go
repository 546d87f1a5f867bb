package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/relayq/relayq/internal/pkg/client"
)

// NewFailedCmd creates the failed command and its subcommands.
func NewFailedCmd() *cobra.Command {
	failedCmd := &cobra.Command{
		Use:   "failed",
		Short: "Inspect and recover dead-lettered messages",
	}

	failedCmd.AddCommand(newFailedListCmd())
	failedCmd.AddCommand(newFailedRetryCmd())
	failedCmd.AddCommand(newFailedDeleteCmd())

	return failedCmd
}

func newFailedListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List messages that exhausted their delivery retries",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			queue, _ := cmd.Flags().GetString("queue")
			limit, _ := cmd.Flags().GetInt("limit")

			resp, err := finish(rt.svc.ListFailed(cmd.Context(), &client.FailedListOptions{
				Queue: queue,
				Limit: limit,
			}))
			if err != nil {
				return err
			}
			if len(resp.Messages) == 0 {
				rt.ui.ShowInfo("No failed messages.")
				return nil
			}

			rows := make([][]string, 0, len(resp.Messages))
			for _, m := range resp.Messages {
				rows = append(rows, []string{
					m.ID, m.Queue,
					strconv.Itoa(m.Attempts),
					m.FailedAt.Format(time.RFC3339),
					m.LastError,
				})
			}
			fmt.Print(rt.ui.RenderTable(
				[]string{"ID", "QUEUE", "ATTEMPTS", "FAILED AT", "LAST ERROR"},
				rows,
			))
			if resp.Total > len(resp.Messages) {
				rt.ui.ShowInfo(fmt.Sprintf("Showing %d of %d failed messages.", len(resp.Messages), resp.Total))
			}
			return nil
		},
	}

	cmd.Flags().String("queue", "", "Restrict to one queue")
	cmd.Flags().Int("limit", 0, "Maximum messages to return (0 = service default)")
	return cmd
}

func newFailedRetryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retry <message-id>",
		Short: "Requeue a failed message with a fresh attempt budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			resp, err := finish(rt.svc.RetryFailed(cmd.Context(), args[0]))
			if err != nil {
				return err
			}
			rt.ui.ShowSuccess(fmt.Sprintf("Requeued message %s to %q", resp.MessageID, resp.Queue))
			return nil
		},
	}
}

func newFailedDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <message-id>",
		Short: "Permanently discard a failed message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			ok, err := rt.confirmDestructive(fmt.Sprintf("Permanently delete failed message %s?", args[0]))
			if err != nil {
				return err
			}
			if !ok {
				rt.ui.ShowInfo("Aborted.")
				return nil
			}

			if _, err := finish(rt.svc.DeleteFailed(cmd.Context(), args[0])); err != nil {
				return err
			}
			rt.ui.ShowSuccess(fmt.Sprintf("Deleted failed message %s", args[0]))
			return nil
		},
	}
}
