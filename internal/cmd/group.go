package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/relayq/relayq/internal/pkg/client"
)

// NewGroupCmd creates the group command and its subcommands.
func NewGroupCmd() *cobra.Command {
	groupCmd := &cobra.Command{
		Use:   "group",
		Short: "Manage consumer groups",
	}

	groupCmd.AddCommand(newGroupListCmd())
	groupCmd.AddCommand(newGroupGetCmd())
	groupCmd.AddCommand(newGroupCreateCmd())
	groupCmd.AddCommand(newGroupDeleteCmd())
	groupCmd.AddCommand(newGroupPauseCmd())
	groupCmd.AddCommand(newGroupResumeCmd())

	return groupCmd
}

func newGroupListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List consumer groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			groups, err := finish(rt.svc.ListGroups(cmd.Context()))
			if err != nil {
				return err
			}
			if len(groups) == 0 {
				rt.ui.ShowInfo("No consumer groups.")
				return nil
			}

			rows := make([][]string, 0, len(groups))
			for _, g := range groups {
				state := "active"
				if g.Paused {
					state = "paused"
				}
				rows = append(rows, []string{
					g.ID, g.Name, state,
					strings.Join(g.Queues, ","),
					strconv.Itoa(g.Concurrency),
				})
			}
			fmt.Print(rt.ui.RenderTable([]string{"ID", "NAME", "STATE", "QUEUES", "CONCURRENCY"}, rows))
			return nil
		},
	}
}

func newGroupGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a consumer group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			g, err := finish(rt.svc.GetGroup(cmd.Context(), args[0]))
			if err != nil {
				return err
			}

			fmt.Printf("ID:          %s\n", g.ID)
			fmt.Printf("Name:        %s\n", g.Name)
			fmt.Printf("Queues:      %s\n", strings.Join(g.Queues, ", "))
			fmt.Printf("Concurrency: %d\n", g.Concurrency)
			fmt.Printf("Paused:      %t\n", g.Paused)
			if g.Endpoint != "" {
				fmt.Printf("Endpoint:    %s\n", g.Endpoint)
			}
			fmt.Printf("Created:     %s\n", g.CreatedAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}

func newGroupCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a consumer group",
		Long: `Create a consumer group subscribed to one or more queues.

Examples:
  relayq group create order-processors --queue orders
  relayq group create mailers --queue emails --queue digests --concurrency 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			queues, _ := cmd.Flags().GetStringSlice("queue")
			concurrency, _ := cmd.Flags().GetInt("concurrency")
			endpoint, _ := cmd.Flags().GetString("endpoint")

			if len(queues) == 0 {
				return fmt.Errorf("at least one --queue is required")
			}

			g, err := finish(rt.svc.CreateGroup(cmd.Context(), &client.CreateGroupRequest{
				Name:        args[0],
				Queues:      queues,
				Concurrency: concurrency,
				Endpoint:    endpoint,
			}))
			if err != nil {
				return err
			}

			rt.ui.ShowSuccess(fmt.Sprintf("Created group %q (%s)", g.Name, g.ID))
			return nil
		},
	}

	cmd.Flags().StringSlice("queue", nil, "Queue to subscribe (repeatable)")
	cmd.Flags().Int("concurrency", 0, "Parallel deliveries (0 = service default)")
	cmd.Flags().String("endpoint", "", "Webhook endpoint for push delivery")
	return cmd
}

func newGroupDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a consumer group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			ok, err := rt.confirmDestructive(fmt.Sprintf("Delete group %q?", args[0]))
			if err != nil {
				return err
			}
			if !ok {
				rt.ui.ShowInfo("Aborted.")
				return nil
			}

			if _, err := finish(rt.svc.DeleteGroup(cmd.Context(), args[0])); err != nil {
				return err
			}
			rt.ui.ShowSuccess(fmt.Sprintf("Deleted group %q", args[0]))
			return nil
		},
	}
}

func newGroupPauseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pause <id>",
		Short: "Pause delivery to a consumer group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			g, err := finish(rt.svc.PauseGroup(cmd.Context(), args[0]))
			if err != nil {
				return err
			}
			rt.ui.ShowSuccess(fmt.Sprintf("Paused group %q", g.Name))
			return nil
		},
	}
}

func newGroupResumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resume <id>",
		Short: "Resume delivery to a consumer group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			g, err := finish(rt.svc.ResumeGroup(cmd.Context(), args[0]))
			if err != nil {
				return err
			}
			rt.ui.ShowSuccess(fmt.Sprintf("Resumed group %q", g.Name))
			return nil
		},
	}
}
