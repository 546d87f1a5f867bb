package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/relayq/relayq/internal/pkg/client"
)

// NewMessageCmd creates the message command and its subcommands.
func NewMessageCmd() *cobra.Command {
	messageCmd := &cobra.Command{
		Use:     "message",
		Aliases: []string{"msg"},
		Short:   "Publish and track messages",
	}

	messageCmd.AddCommand(newMessagePublishCmd())
	messageCmd.AddCommand(newMessageEnqueueCmd())
	messageCmd.AddCommand(newMessageTrackCmd())
	messageCmd.AddCommand(newMessageCancelCmd())

	return messageCmd
}

// readBody resolves the message payload: the --body flag, or stdin
// when --body is "-" or absent.
func readBody(cmd *cobra.Command) (string, error) {
	body, _ := cmd.Flags().GetString("body")
	if body != "" && body != "-" {
		return body, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read message body from stdin: %w", err)
	}
	return string(data), nil
}

func parseHeaders(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid header %q, expected key=value", pair)
		}
		headers[key] = value
	}
	return headers, nil
}

func newMessagePublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish <queue>",
		Short: "Publish a message to a queue by name",
		Long: `Publish a message to a queue addressed by name.

The payload comes from --body, or from stdin when --body is omitted.

Examples:
  relayq message publish orders --body '{"orderId":"12345"}'
  cat payload.json | relayq message publish orders
  relayq message publish orders --body '{}' --delay 1h --header priority=high`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			body, err := readBody(cmd)
			if err != nil {
				return err
			}
			headerPairs, _ := cmd.Flags().GetStringSlice("header")
			headers, err := parseHeaders(headerPairs)
			if err != nil {
				return err
			}
			delay, _ := cmd.Flags().GetString("delay")
			dedupKey, _ := cmd.Flags().GetString("dedup-key")

			resp, err := finish(rt.svc.Publish(cmd.Context(), &client.PublishRequest{
				Queue:    args[0],
				Body:     body,
				Headers:  headers,
				Delay:    delay,
				DedupKey: dedupKey,
			}))
			if err != nil {
				return err
			}

			if resp.Duplicate {
				rt.ui.ShowInfo(fmt.Sprintf("Duplicate suppressed, original message %s", resp.MessageID))
				return nil
			}
			rt.ui.ShowSuccess(fmt.Sprintf("Published message %s to %q", resp.MessageID, resp.Queue))
			return nil
		},
	}

	cmd.Flags().String("body", "", "Message payload (reads stdin when omitted)")
	cmd.Flags().StringSlice("header", nil, "Message header key=value (repeatable)")
	cmd.Flags().String("delay", "", "Delivery delay, e.g. 30s or 1h")
	cmd.Flags().String("dedup-key", "", "Deduplication key")
	return cmd
}

func newMessageEnqueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enqueue <queue-id>",
		Short: "Publish a message to a queue by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			body, err := readBody(cmd)
			if err != nil {
				return err
			}
			headerPairs, _ := cmd.Flags().GetStringSlice("header")
			headers, err := parseHeaders(headerPairs)
			if err != nil {
				return err
			}
			delay, _ := cmd.Flags().GetString("delay")
			dedupKey, _ := cmd.Flags().GetString("dedup-key")

			resp, err := finish(rt.svc.Enqueue(cmd.Context(), args[0], &client.EnqueueRequest{
				Body:     body,
				Headers:  headers,
				Delay:    delay,
				DedupKey: dedupKey,
			}))
			if err != nil {
				return err
			}

			rt.ui.ShowSuccess(fmt.Sprintf("Enqueued message %s", resp.MessageID))
			return nil
		},
	}

	cmd.Flags().String("body", "", "Message payload (reads stdin when omitted)")
	cmd.Flags().StringSlice("header", nil, "Message header key=value (repeatable)")
	cmd.Flags().String("delay", "", "Delivery delay, e.g. 30s or 1h")
	cmd.Flags().String("dedup-key", "", "Deduplication key")
	return cmd
}

func newMessageTrackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "track <message-id>",
		Short: "Show the delivery state of a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			m, err := finish(rt.svc.TrackMessage(cmd.Context(), args[0]))
			if err != nil {
				return err
			}

			fmt.Printf("ID:        %s\n", m.ID)
			fmt.Printf("Queue:     %s\n", m.Queue)
			fmt.Printf("Status:    %s\n", m.Status)
			fmt.Printf("Attempts:  %d\n", m.Attempts)
			if m.LastError != "" {
				fmt.Printf("Last err:  %s\n", m.LastError)
			}
			fmt.Printf("Accepted:  %s\n", m.AcceptedAt.Format(time.RFC3339))
			if !m.DeliveredAt.IsZero() {
				fmt.Printf("Delivered: %s\n", m.DeliveredAt.Format(time.RFC3339))
			}
			return nil
		},
	}
}

func newMessageCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <message-id>",
		Short: "Cancel an undelivered message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			if _, err := finish(rt.svc.CancelMessage(cmd.Context(), args[0])); err != nil {
				return err
			}
			rt.ui.ShowSuccess(fmt.Sprintf("Cancelled message %s", args[0]))
			return nil
		},
	}
}
