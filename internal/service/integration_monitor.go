package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/valefinance/vale/internal/chain"
	"github.com/valefinance/vale/internal/domain"
	"github.com/valefinance/vale/internal/store"
	"go.uber.org/zap"
)

const defaultMonitorInterval = 1 * time.Minute

// IntegrationMonitor periodically probes the Sei network and records the
// result on the matching integration entry.
type IntegrationMonitor struct {
	integrations domain.IntegrationStore
	network      domain.ChainClient
	logger       *zap.Logger

	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewIntegrationMonitor(is domain.IntegrationStore, network domain.ChainClient, logger *zap.Logger) *IntegrationMonitor {
	return &IntegrationMonitor{
		integrations: is,
		network:      network,
		logger:       logger,
		interval:     defaultMonitorInterval,
		stopCh:       make(chan struct{}),
	}
}

func (s *IntegrationMonitor) SetInterval(d time.Duration) {
	if d > 0 {
		s.interval = d
	}
}

// Start runs one check immediately, then on every tick until Stop.
func (s *IntegrationMonitor) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("integration monitor started", zap.Duration("interval", s.interval))
		s.check()

		for {
			select {
			case <-ticker.C:
				s.check()
			case <-s.stopCh:
				s.logger.Info("integration monitor stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the monitor.
func (s *IntegrationMonitor) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *IntegrationMonitor) check() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if _, err := s.CheckChain(ctx); err != nil {
		s.logger.Warn("chain integration check failed", zap.Error(err))
	}
}

// CheckChain refreshes the chain integration ("Sei Testnet" or
// "Sei Mainnet") from the current network info. A missing entry is not an
// error; nil is returned.
func (s *IntegrationMonitor) CheckChain(ctx context.Context) (*domain.Integration, error) {
	info, err := s.network.NetworkInfo(ctx)
	if err != nil {
		return nil, err
	}

	status := "connected"
	if !info.IsConnected {
		status = "disconnected"
	}
	metadata := map[string]any{
		"chainId":     info.ChainID,
		"networkName": info.NetworkName,
	}
	if info.BlockNumber > 0 {
		metadata["blockNumber"] = info.BlockNumber
	}

	updated, err := s.integrations.Update(ctx, chainIntegrationName(info.ChainID), status, metadata)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !info.IsConnected {
		s.logger.Warn("sei network unreachable", zap.Int64("chain_id", info.ChainID))
	}
	return updated, nil
}

func chainIntegrationName(chainID int64) string {
	if chainID == chain.TestnetChainID {
		return "Sei Testnet"
	}
	return "Sei Mainnet"
}
