package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/relayq/relayq/internal/pkg/client"
)

// NewQueueCmd creates the queue command and its subcommands.
func NewQueueCmd() *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Manage queues",
	}

	queueCmd.AddCommand(newQueueListCmd())
	queueCmd.AddCommand(newQueueGetCmd())
	queueCmd.AddCommand(newQueueCreateCmd())
	queueCmd.AddCommand(newQueueDeleteCmd())
	queueCmd.AddCommand(newQueuePauseCmd())
	queueCmd.AddCommand(newQueueResumeCmd())

	return queueCmd
}

func newQueueListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List queues",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			queues, err := finish(rt.svc.ListQueues(cmd.Context()))
			if err != nil {
				return err
			}
			if len(queues) == 0 {
				rt.ui.ShowInfo("No queues.")
				return nil
			}

			rows := make([][]string, 0, len(queues))
			for _, q := range queues {
				state := "active"
				if q.Paused {
					state = "paused"
				}
				rows = append(rows, []string{
					q.ID, q.Name, state,
					strconv.FormatInt(q.MessageCount, 10),
					strconv.FormatInt(q.InFlightCount, 10),
					strconv.FormatInt(q.FailedCount, 10),
				})
			}
			fmt.Print(rt.ui.RenderTable(
				[]string{"ID", "NAME", "STATE", "MESSAGES", "IN-FLIGHT", "FAILED"},
				rows,
			))
			return nil
		},
	}
}

func newQueueGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			q, err := finish(rt.svc.GetQueue(cmd.Context(), args[0]))
			if err != nil {
				return err
			}
			printQueue(q)
			return nil
		},
	}
}

func printQueue(q *client.Queue) {
	state := "active"
	if q.Paused {
		state = "paused"
	}
	fmt.Printf("ID:        %s\n", q.ID)
	fmt.Printf("Name:      %s\n", q.Name)
	fmt.Printf("State:     %s\n", state)
	fmt.Printf("Messages:  %d\n", q.MessageCount)
	fmt.Printf("In-flight: %d\n", q.InFlightCount)
	fmt.Printf("Failed:    %d\n", q.FailedCount)
	fmt.Printf("Created:   %s\n", q.CreatedAt.Format("2006-01-02 15:04:05"))
}

func newQueueCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			maxRetries, _ := cmd.Flags().GetInt("max-retries")
			retention, _ := cmd.Flags().GetInt("retention-hours")

			q, err := finish(rt.svc.CreateQueue(cmd.Context(), &client.CreateQueueRequest{
				Name:           args[0],
				MaxRetries:     maxRetries,
				RetentionHours: retention,
			}))
			if err != nil {
				return err
			}

			rt.ui.ShowSuccess(fmt.Sprintf("Created queue %q (%s)", q.Name, q.ID))
			return nil
		},
	}

	cmd.Flags().Int("max-retries", 0, "Delivery retry budget per message (0 = service default)")
	cmd.Flags().Int("retention-hours", 0, "Retention for delivered messages (0 = service default)")
	return cmd
}

func newQueueDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a queue and all its messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			ok, err := rt.confirmDestructive(fmt.Sprintf("Delete queue %q and all its messages?", args[0]))
			if err != nil {
				return err
			}
			if !ok {
				rt.ui.ShowInfo("Aborted.")
				return nil
			}

			if _, err := finish(rt.svc.DeleteQueue(cmd.Context(), args[0])); err != nil {
				return err
			}
			rt.ui.ShowSuccess(fmt.Sprintf("Deleted queue %q", args[0]))
			return nil
		},
	}
}

func newQueuePauseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pause <id>",
		Short: "Pause delivery from a queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			q, err := finish(rt.svc.PauseQueue(cmd.Context(), args[0]))
			if err != nil {
				return err
			}
			rt.ui.ShowSuccess(fmt.Sprintf("Paused queue %q", q.Name))
			return nil
		},
	}
}

func newQueueResumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resume <id>",
		Short: "Resume delivery from a paused queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			q, err := finish(rt.svc.ResumeQueue(cmd.Context(), args[0]))
			if err != nil {
				return err
			}
			rt.ui.ShowSuccess(fmt.Sprintf("Resumed queue %q", q.Name))
			return nil
		},
	}
}
