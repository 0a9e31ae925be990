// Seed script for loading demo agents and payments into a running Vale server.
// Run with: go run ./scripts/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/valefinance/vale/internal/wallet"
	"github.com/valefinance/vale/pkg/client"
)

type demoAgent struct {
	name     string
	kind     string
	budget   int64
	payments []float64
}

func main() {
	// Load environment
	envFile := os.Getenv("VALE_ENV")
	if envFile == "" {
		envFile = ".env"
	}
	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")

	baseURL := os.Getenv("VALE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}

	ctx := context.Background()
	c := client.New(baseURL)

	if _, err := c.Health(ctx); err != nil {
		log.Fatalf("Server not reachable at %s: %v", baseURL, err)
	}
	fmt.Printf("Connected to %s\n", baseURL)

	agents := []demoAgent{
		{"Demo Payroll Agent", "payroll", 12000, []float64{2500, 3100, 2750}},
		{"Demo Supplier Agent", "supplier", 8000, []float64{1200, 640.5}},
		{"Demo Invoice Agent", "invoice", 5000, []float64{2400}},
		{"Demo Treasury Agent", "treasury", 30000, nil},
	}

	for _, d := range agents {
		a, err := c.CreateAgent(ctx, client.CreateAgentRequest{Name: d.name, Type: d.kind, Budget: d.budget})
		if err != nil {
			log.Printf("Warning: Failed to create agent %q: %v", d.name, err)
			continue
		}
		fmt.Printf("Created agent [%s] %s (id %d)\n", a.Type, a.Name, a.ID)

		for _, amount := range d.payments {
			res, err := c.SendPayment(ctx, client.PaymentRequest{
				AgentID:   a.ID,
				Recipient: wallet.NewAddress(),
				Amount:    amount,
			})
			var apiErr *client.APIError
			switch {
			case errors.As(err, &apiErr):
				log.Printf("Warning: Payment of %.2f rejected: %s", amount, apiErr.Message)
			case err != nil:
				log.Printf("Warning: Payment of %.2f failed: %v", amount, err)
			default:
				fmt.Printf("  Paid %.2f USDC (%s)\n", amount, truncate(res.TxHash, 18))
			}
		}
	}

	m, err := c.Metrics(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch metrics: %v", err)
	}

	fmt.Println("\n=== Seed Complete ===")
	fmt.Printf("Treasury: $%d USDC across %d agents, $%.2f paid this month\n",
		m.TreasuryBalance, m.TotalAgents, m.MonthlyPayments)
	fmt.Println("\nTo watch the activity feed:")
	fmt.Printf("curl '%s/api/activities?limit=20'\n", baseURL)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
