package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	var session string
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Talk to the treasury assistant; without a message, read lines from stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			if session == "" {
				session = uuid.NewString()
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "session %s\n", session)
			}
			c := clientFrom(cmd.Context())

			if len(args) > 0 {
				reply, err := c.Chat(cmd.Context(), session, strings.Join(args, " "))
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), reply.Response)
				return nil
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				reply, err := c.Chat(cmd.Context(), session, line)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n", reply.Response)
			}
			return scanner.Err()
		},
	}
	cmd.Flags().StringVar(&session, "session", "", "Session id (default: a new random id)")
	return cmd
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <session>",
		Short: "Print a conversation transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msgs, err := clientFrom(cmd.Context()).History(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(msgs) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No messages.")
				return nil
			}
			for _, m := range msgs {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", m.Role, m.Content)
			}
			return nil
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <session>",
		Short: "Forget a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cleared, err := clientFrom(cmd.Context()).ClearHistory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if cleared {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cleared session %s\n", args[0])
			} else {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Session %s not found\n", args[0])
			}
			return nil
		},
	}
}
