package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/relayq/relayq/internal/pkg/client"
)

// NewScheduleCmd creates the schedule command and its subcommands.
func NewScheduleCmd() *cobra.Command {
	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Manage scheduled deliveries",
	}

	scheduleCmd.AddCommand(newScheduleListCmd())
	scheduleCmd.AddCommand(newScheduleGetCmd())
	scheduleCmd.AddCommand(newScheduleCreateCmd())
	scheduleCmd.AddCommand(newScheduleDeleteCmd())
	scheduleCmd.AddCommand(newSchedulePauseCmd())
	scheduleCmd.AddCommand(newScheduleResumeCmd())

	return scheduleCmd
}

func newScheduleListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			schedules, err := finish(rt.svc.ListSchedules(cmd.Context()))
			if err != nil {
				return err
			}
			if len(schedules) == 0 {
				rt.ui.ShowInfo("No schedules.")
				return nil
			}

			rows := make([][]string, 0, len(schedules))
			for _, s := range schedules {
				when := s.Cron
				if when == "" && !s.RunAt.IsZero() {
					when = s.RunAt.Format(time.RFC3339)
				}
				state := "active"
				if s.Paused {
					state = "paused"
				}
				next := ""
				if !s.NextRunAt.IsZero() {
					next = s.NextRunAt.Format(time.RFC3339)
				}
				rows = append(rows, []string{s.ID, s.Name, s.Queue, when, state, next})
			}
			fmt.Print(rt.ui.RenderTable(
				[]string{"ID", "NAME", "QUEUE", "WHEN", "STATE", "NEXT RUN"},
				rows,
			))
			return nil
		},
	}
}

func newScheduleGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			s, err := finish(rt.svc.GetSchedule(cmd.Context(), args[0]))
			if err != nil {
				return err
			}

			fmt.Printf("ID:      %s\n", s.ID)
			fmt.Printf("Name:    %s\n", s.Name)
			fmt.Printf("Queue:   %s\n", s.Queue)
			if s.Cron != "" {
				fmt.Printf("Cron:    %s\n", s.Cron)
			} else if !s.RunAt.IsZero() {
				fmt.Printf("Run at:  %s\n", s.RunAt.Format(time.RFC3339))
			}
			if !s.NextRunAt.IsZero() {
				fmt.Printf("Next:    %s\n", s.NextRunAt.Format(time.RFC3339))
			}
			fmt.Printf("Paused:  %t\n", s.Paused)
			fmt.Printf("Body:    %s\n", s.Body)
			return nil
		},
	}
}

func newScheduleCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a schedule",
		Long: `Create a recurring or one-shot scheduled delivery.

Exactly one of --cron or --at must be given.

Examples:
  relayq schedule create nightly-report --queue reports --cron "0 2 * * *" --body '{"kind":"nightly"}'
  relayq schedule create launch --queue announcements --at 2026-09-01T09:00:00Z --body '{}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			queue, _ := cmd.Flags().GetString("queue")
			cron, _ := cmd.Flags().GetString("cron")
			at, _ := cmd.Flags().GetString("at")
			body, _ := cmd.Flags().GetString("body")

			if queue == "" {
				return fmt.Errorf("--queue is required")
			}
			if (cron == "") == (at == "") {
				return fmt.Errorf("exactly one of --cron or --at is required")
			}

			req := &client.CreateScheduleRequest{
				Name:  args[0],
				Queue: queue,
				Cron:  cron,
				Body:  body,
			}
			if at != "" {
				runAt, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at value, expected RFC 3339: %w", err)
				}
				req.RunAt = &runAt
			}

			s, err := finish(rt.svc.CreateSchedule(cmd.Context(), req))
			if err != nil {
				return err
			}

			rt.ui.ShowSuccess(fmt.Sprintf("Created schedule %q (%s)", s.Name, s.ID))
			return nil
		},
	}

	cmd.Flags().String("queue", "", "Target queue name")
	cmd.Flags().String("cron", "", "Cron expression for recurring delivery")
	cmd.Flags().String("at", "", "RFC 3339 time for one-shot delivery")
	cmd.Flags().String("body", "", "Message payload")
	return cmd
}

func newScheduleDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			ok, err := rt.confirmDestructive(fmt.Sprintf("Delete schedule %q?", args[0]))
			if err != nil {
				return err
			}
			if !ok {
				rt.ui.ShowInfo("Aborted.")
				return nil
			}

			if _, err := finish(rt.svc.DeleteSchedule(cmd.Context(), args[0])); err != nil {
				return err
			}
			rt.ui.ShowSuccess(fmt.Sprintf("Deleted schedule %q", args[0]))
			return nil
		},
	}
}

func newSchedulePauseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pause <id>",
		Short: "Pause a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			s, err := finish(rt.svc.PauseSchedule(cmd.Context(), args[0]))
			if err != nil {
				return err
			}
			rt.ui.ShowSuccess(fmt.Sprintf("Paused schedule %q", s.Name))
			return nil
		},
	}
}

func newScheduleResumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resume <id>",
		Short: "Resume a paused schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			s, err := finish(rt.svc.ResumeSchedule(cmd.Context(), args[0]))
			if err != nil {
				return err
			}
			rt.ui.ShowSuccess(fmt.Sprintf("Resumed schedule %q", s.Name))
			return nil
		},
	}
}
