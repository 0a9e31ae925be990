package store

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/valefinance/vale/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// SeedData is the startup dataset: integrations always, sample agents and
// activities optionally.
type SeedData struct {
	Integrations []SeedIntegration `yaml:"integrations"`
	Agents       []SeedAgent       `yaml:"agents"`
	Activities   []SeedActivity    `yaml:"activities"`
}

type SeedIntegration struct {
	Name     string         `yaml:"name"`
	Status   string         `yaml:"status"`
	Version  string         `yaml:"version"`
	Metadata map[string]any `yaml:"metadata"`
}

type SeedAgent struct {
	Name             string `yaml:"name"`
	Type             string `yaml:"type"`
	Status           string `yaml:"status"`
	Budget           int64  `yaml:"budget"`
	CrossmintEnabled bool   `yaml:"crossmint_enabled"`
	RivalzEnabled    bool   `yaml:"rivalz_enabled"`
}

// SeedActivity names its agent; the id is resolved after agents are seeded.
type SeedActivity struct {
	Type        string `yaml:"type"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Agent       string `yaml:"agent"`
}

// LoadSeed parses the seed file at path, or the embedded default when path
// is empty.
func LoadSeed(path string) (*SeedData, error) {
	content := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		content = b
	}

	var data SeedData
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	for _, a := range data.Agents {
		if !domain.AgentType(a.Type).IsValid() {
			return nil, fmt.Errorf("seed agent %q: invalid type %q", a.Name, a.Type)
		}
		if a.Status != "" && !domain.AgentStatus(a.Status).IsValid() {
			return nil, fmt.Errorf("seed agent %q: invalid status %q", a.Name, a.Status)
		}
	}
	return &data, nil
}

// Seed loads data into db. newAddress, when set, generates wallet addresses
// for sample agents.
func Seed(db *DB, data *SeedData, withSamples bool, newAddress func() string) {
	integrations := NewIntegrationStore(db)
	for _, i := range data.Integrations {
		integrations.insert(domain.Integration{
			Name:     i.Name,
			Status:   i.Status,
			Version:  i.Version,
			Metadata: i.Metadata,
		})
	}

	if !withSamples {
		return
	}

	agents := NewAgentStore(db)
	byName := make(map[string]int64, len(data.Agents))
	for _, sa := range data.Agents {
		status := domain.AgentStatus(sa.Status)
		if status == "" {
			status = domain.AgentStatusInactive
		}
		a := domain.Agent{
			Name:             sa.Name,
			Type:             domain.AgentType(sa.Type),
			Status:           status,
			Budget:           sa.Budget,
			CrossmintEnabled: sa.CrossmintEnabled,
			RivalzEnabled:    sa.RivalzEnabled,
		}
		if newAddress != nil {
			a.WalletAddress = newAddress()
			a.WalletProvider = domain.WalletProviderLocal
		}
		stored := agents.insert(a)
		byName[sa.Name] = stored.ID
	}

	activities := NewActivityStore(db)
	for _, sa := range data.Activities {
		act := &domain.Activity{
			Type:        domain.ActivityType(sa.Type),
			Title:       sa.Title,
			Description: sa.Description,
		}
		if id, ok := byName[sa.Agent]; ok {
			agentID := id
			act.AgentID = &agentID
		}
		_ = activities.Create(context.Background(), act)
	}
}
