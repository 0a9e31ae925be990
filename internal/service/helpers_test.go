package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/valefinance/vale/internal/chain"
	"github.com/valefinance/vale/internal/domain"
	"github.com/valefinance/vale/internal/runtime"
	"github.com/valefinance/vale/internal/store"
	"github.com/valefinance/vale/internal/wallet"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

// failingRuntime rejects every deployment.
type failingRuntime struct {
	*runtime.Registry
}

func (r *failingRuntime) Deploy(ctx context.Context, a *domain.Agent) error {
	return errors.New("runtime unavailable")
}

// recordingPublisher keeps published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Kind)
	}
	return out
}

// fakeCustodian stands in for the Crossmint client.
type fakeCustodian struct {
	mu    sync.Mutex
	sends []string
}

func (f *fakeCustodian) Name() string { return wallet.ProviderCrossmint }

func (f *fakeCustodian) CreateWallet(ctx context.Context, agentID int64, agentName string) (*domain.Wallet, error) {
	return &domain.Wallet{
		Address:    "0x00000000000000000000000000000000000000c1",
		WalletID:   "cm-wallet",
		Blockchain: "sei",
		Provider:   wallet.ProviderCrossmint,
	}, nil
}

func (f *fakeCustodian) SendTransaction(ctx context.Context, walletID, to string, amount float64, currency string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, walletID)
	return "0xcrossmint", nil
}

type testEnv struct {
	db        *store.DB
	agents    *store.AgentStore
	txs       *store.TransactionStore
	acts      *store.ActivityStore
	runtime   *runtime.Registry
	publisher *recordingPublisher
	manager   *AgentManager
}

type envOption func(*ManagerDeps)

func withRuntime(r domain.AgentRuntime) envOption {
	return func(d *ManagerDeps) { d.Runtime = r }
}

func withCrossmint(c CustodialWallet) envOption {
	return func(d *ManagerDeps) { d.Crossmint = c }
}

func withPolicy(p domain.PaymentPolicy) envOption {
	return func(d *ManagerDeps) { d.Policy = p }
}

func withAdvisor(a *DecisionAdvisor) envOption {
	return func(d *ManagerDeps) { d.Advisor = a }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	db := store.NewDB()
	seiClient := chain.NewSeiClient(chain.Config{}, testLogger())
	reg := runtime.NewRegistry(runtime.Config{}, seiClient, testLogger())
	env := &testEnv{
		db:        db,
		agents:    store.NewAgentStore(db),
		txs:       store.NewTransactionStore(db),
		acts:      store.NewActivityStore(db),
		runtime:   reg,
		publisher: &recordingPublisher{},
	}

	deps := ManagerDeps{
		Agents:       env.agents,
		Transactions: env.txs,
		Activities:   env.acts,
		Runtime:      reg,
		Chain:        seiClient,
		Wallets:      wallet.NewLocal(),
		Events:       env.publisher,
		Logger:       testLogger(),
	}
	for _, opt := range opts {
		opt(&deps)
	}
	env.manager = NewAgentManager(deps)
	return env
}

func (e *testEnv) mustCreate(t *testing.T, in domain.AgentInput) *domain.Agent {
	t.Helper()
	a, err := e.manager.CreateAndDeploy(context.Background(), in)
	if err != nil {
		t.Fatalf("create agent: %v", err)
	}
	return a
}

func (e *testEnv) counts(t *testing.T) (agents, txs, activities int) {
	t.Helper()
	ctx := context.Background()
	as, err := e.agents.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	ts, err := e.txs.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	acts, err := e.acts.List(ctx, 1000)
	if err != nil {
		t.Fatal(err)
	}
	return len(as), len(ts), len(acts)
}
