package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/valefinance/vale/pkg/client"
)

func newPayCmd() *cobra.Command {
	var req client.PaymentRequest
	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Send a payment from an agent (--agent, --to, --amount)",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case req.AgentID <= 0:
				return errors.New("--agent is required")
			case req.Recipient == "":
				return errors.New("--to is required")
			case req.Amount <= 0:
				return errors.New("--amount must be positive")
			}
			res, err := clientFrom(cmd.Context()).SendPayment(cmd.Context(), req)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Sent %s %s to %s\nTx: %s\n",
				strconv.FormatFloat(res.Transaction.Amount, 'f', -1, 64), res.Transaction.Currency, res.Transaction.Recipient, res.TxHash)
			return nil
		},
	}
	cmd.Flags().Int64Var(&req.AgentID, "agent", 0, "Paying agent id")
	cmd.Flags().StringVar(&req.Recipient, "to", "", "Recipient address")
	cmd.Flags().Float64Var(&req.Amount, "amount", 0, "Amount to send")
	cmd.Flags().StringVar(&req.Currency, "currency", "", "Currency (default USDC)")
	return cmd
}

func newMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Show treasury metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := clientFrom(cmd.Context()).Metrics(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Treasury balance:  $%d USDC\n", m.TreasuryBalance)
			_, _ = fmt.Fprintf(out, "Active agents:     %d of %d\n", m.ActiveAgents, m.TotalAgents)
			_, _ = fmt.Fprintf(out, "Monthly payments:  $%s\n", strconv.FormatFloat(m.MonthlyPayments, 'f', 2, 64))
			_, _ = fmt.Fprintf(out, "Smart invoices:    %d\n", m.SmartInvoices)
			return nil
		},
	}
}

func newActivitiesCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "activities",
		Short: "Show the newest activity feed entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			acts, err := clientFrom(cmd.Context()).ListActivities(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, a := range acts {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", a.CreatedAt.Format("2006-01-02 15:04:05"), a.Title)
				if a.Description != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "    %s\n", a.Description)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Number of entries (default 10)")
	return cmd
}
