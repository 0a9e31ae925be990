package cli

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/valefinance/vale/pkg/client"
)

func newAgentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "agents",
		Aliases: []string{"agent"},
		Short:   "Manage payment agents",
	}
	cmd.AddCommand(newAgentsListCmd())
	cmd.AddCommand(newAgentsCreateCmd())
	cmd.AddCommand(newAgentsStopCmd())
	cmd.AddCommand(newAgentsDeleteCmd())
	cmd.AddCommand(newAgentsTransactionsCmd())
	return cmd
}

func newAgentsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			agents, err := clientFrom(cmd.Context()).ListAgents(cmd.Context())
			if err != nil {
				return err
			}
			if len(agents) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No agents.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSTATUS\tBUDGET\tWALLET")
			for _, a := range agents {
				_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t$%d\t%s\n", a.ID, a.Name, a.Type, a.Status, a.Budget, a.WalletAddress)
			}
			return tw.Flush()
		},
	}
}

func newAgentsCreateCmd() *cobra.Command {
	var req client.CreateAgentRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create and deploy an agent (--name, --type, --budget)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Name == "" {
				return errors.New("--name is required")
			}
			a, err := clientFrom(cmd.Context()).CreateAgent(cmd.Context(), req)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created agent %q (id %d, status %s)\n", a.Name, a.ID, a.Status)
			if a.WalletAddress != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wallet: %s\n", a.WalletAddress)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "Agent name")
	cmd.Flags().StringVar(&req.Type, "type", "payroll", "Agent type: payroll, invoice, treasury or supplier")
	cmd.Flags().Int64Var(&req.Budget, "budget", 0, "Budget in USDC")
	cmd.Flags().BoolVar(&req.CrossmintEnabled, "crossmint", false, "Provision a Crossmint wallet")
	cmd.Flags().BoolVar(&req.RivalzEnabled, "rivalz", false, "Enable oracle triggers")
	return cmd
}

func newAgentsStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop <id>",
		Short: "Stop an agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAgentID(args[0])
			if err != nil {
				return err
			}
			if err := clientFrom(cmd.Context()).StopAgent(cmd.Context(), id); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stopped agent %d\n", id)
			return nil
		},
	}
}

func newAgentsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an agent (its transactions are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAgentID(args[0])
			if err != nil {
				return err
			}
			if err := clientFrom(cmd.Context()).DeleteAgent(cmd.Context(), id); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted agent %d\n", id)
			return nil
		},
	}
}

func newAgentsTransactionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transactions [id]",
		Short: "List transactions, optionally for one agent",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id int64
			if len(args) == 1 {
				var err error
				if id, err = parseAgentID(args[0]); err != nil {
					return err
				}
			}
			txs, err := clientFrom(cmd.Context()).ListTransactions(cmd.Context(), id)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tAGENT\tAMOUNT\tRECIPIENT\tSTATUS\tTX")
			for _, tx := range txs {
				_, _ = fmt.Fprintf(tw, "%d\t%d\t%s %s\t%s\t%s\t%s\n",
					tx.ID, tx.AgentID, strconv.FormatFloat(tx.Amount, 'f', -1, 64), tx.Currency, tx.Recipient, tx.Status, tx.TxHash)
			}
			return tw.Flush()
		},
	}
}

func parseAgentID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid agent id %q", s)
	}
	return id, nil
}
