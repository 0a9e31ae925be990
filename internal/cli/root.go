// Package cli implements valectl, a command-line client for the Vale API.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/valefinance/vale/pkg/client"
)

const defaultServer = "http://localhost:5000"

type clientKey struct{}

func withClient(ctx context.Context, c *client.Client) context.Context {
	return context.WithValue(ctx, clientKey{}, c)
}

func clientFrom(ctx context.Context) *client.Client {
	if c, ok := ctx.Value(clientKey{}).(*client.Client); ok {
		return c
	}
	return client.New(defaultServer)
}

func NewRootCmd(version string) *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:          "valectl",
		Short:        "valectl drives Vale payment agents from the terminal",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if server == "" {
				server = os.Getenv("VALE_URL")
			}
			if server == "" {
				server = defaultServer
			}
			cmd.SetContext(withClient(cmd.Context(), client.New(server)))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&server, "server", "", "Vale API base URL (default: http://localhost:5000, env: VALE_URL)")

	cmd.AddCommand(newAgentsCmd())
	cmd.AddCommand(newPayCmd())
	cmd.AddCommand(newChatCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newClearCmd())
	cmd.AddCommand(newMetricsCmd())
	cmd.AddCommand(newActivitiesCmd())

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.SetVersionTemplate("{{.Version}}\n")
	if version != "" {
		cmd.Version = version
	} else {
		cmd.Version = "dev"
	}
	return cmd
}
