package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/valefinance/vale/internal/api"
	"github.com/valefinance/vale/internal/buildconfig"
	"github.com/valefinance/vale/internal/chain"
	"github.com/valefinance/vale/internal/config"
	"github.com/valefinance/vale/internal/domain"
	"github.com/valefinance/vale/internal/events"
	"github.com/valefinance/vale/internal/llm"
	"github.com/valefinance/vale/internal/policy"
	"github.com/valefinance/vale/internal/runtime"
	"github.com/valefinance/vale/internal/service"
	"github.com/valefinance/vale/internal/store"
	"github.com/valefinance/vale/internal/telemetry"
	"github.com/valefinance/vale/internal/wallet"
	"go.uber.org/zap"
)

func newLogger() *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if config.LogLevel() == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func main() {
	if err := config.Load(); err != nil {
		panic(err)
	}

	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := telemetry.InitTracing(ctx, telemetry.TracingConfig{
		Endpoint:    config.OTLPEndpoint(),
		ServiceName: config.ServiceName(),
		Version:     buildconfig.Version(),
	}, logger)
	if err != nil {
		logger.Fatal("failed to init tracing", zap.Error(err))
	}
	metrics := telemetry.NewMetrics()

	db := store.NewDB()
	seed, err := store.LoadSeed(config.SeedFile())
	if err != nil {
		logger.Fatal("failed to load seed data", zap.Error(err))
	}
	store.Seed(db, seed, config.SeedSampleData(), wallet.NewAddress)
	logger.Info("store seeded", zap.Bool("samples", config.SeedSampleData()))

	httpClient := &http.Client{Timeout: config.OutboundTimeout()}

	llmOpts := []llm.Option{llm.WithHTTPClient(httpClient)}
	if config.LLMProvider() == llm.ProviderOpenAI {
		llmOpts = append(llmOpts, llm.WithModel(config.OpenAIModel()))
	}
	llmClient, err := llm.NewClient(config.LLMProvider(), config.LLMAPIKey(), llmOpts...)
	if err != nil {
		logger.Warn("llm unavailable, chat runs offline", zap.Error(err))
	}

	seiClient := chain.NewSeiClient(chain.Config{
		RPCURL:      config.SeiRPCURL(),
		ChainID:     config.SeiChainID(),
		Live:        config.SeiLiveRPC(),
		MockLatency: config.SeiMockLatency(),
	}, logger)
	defer seiClient.Close()

	var crossmint service.CustodialWallet
	cm, err := wallet.NewCrossmint(wallet.CrossmintConfig{
		ServerKey:  config.CrossmintServerKey(),
		ProjectID:  config.CrossmintProjectID(),
		BaseURL:    config.CrossmintBaseURL(),
		HTTPClient: httpClient,
	}, logger)
	switch {
	case err == nil:
		crossmint = cm
		logger.Info("crossmint wallets enabled")
	case errors.Is(err, wallet.ErrNotConfigured):
		logger.Info("crossmint not configured, using local wallets")
	default:
		logger.Warn("crossmint disabled", zap.Error(err))
	}

	engine, err := policy.Load(ctx, config.PolicyFile())
	if err != nil {
		logger.Fatal("failed to load payment policy", zap.Error(err))
	}

	hub := events.NewHub(logger)
	go hub.Run(ctx)

	publishers := []domain.EventPublisher{events.NewLogPublisher(logger), hub}
	if addr := config.RedisAddr(); addr != "" {
		rp, err := events.NewRedisPublisher(ctx, events.RedisConfig{
			Address:  addr,
			Password: config.RedisPassword(),
			Channel:  config.RedisChannel(),
		})
		if err != nil {
			logger.Warn("redis publisher disabled", zap.Error(err))
		} else {
			defer func() { _ = rp.Close() }()
			publishers = append(publishers, rp)
		}
	}
	if url := config.AMQPURL(); url != "" {
		ap, err := events.NewAMQPPublisher(events.AMQPConfig{
			URL:     url,
			Queue:   config.AMQPQueue(),
			Durable: true,
		})
		if err != nil {
			logger.Warn("amqp publisher disabled", zap.Error(err))
		} else {
			defer func() { _ = ap.Close() }()
			publishers = append(publishers, ap)
		}
	}
	bus := events.NewMulti(publishers...)
	logger.Info("activity publishers ready", zap.Int("count", bus.Len()))

	agentRuntime := runtime.NewRegistry(runtime.Config{
		Model:   config.OpenAIModel(),
		RPCURL:  config.SeiRPCURL(),
		ChainID: config.SeiChainID(),
	}, seiClient, logger)

	manager := service.NewAgentManager(service.ManagerDeps{
		Agents:       store.NewAgentStore(db),
		Transactions: store.NewTransactionStore(db),
		Activities:   store.NewActivityStore(db),
		Runtime:      agentRuntime,
		Chain:        seiClient,
		Wallets:      wallet.NewLocal(),
		Crossmint:    crossmint,
		Policy:       engine,
		Advisor:      service.NewDecisionAdvisor(llmClient, logger, metrics),
		Events:       bus,
		Metrics:      metrics,
		Logger:       logger,
	})

	app := api.NewApp(api.Deps{
		Agents: manager,
		Feed: service.NewFeedService(
			store.NewTransactionStore(db),
			store.NewActivityStore(db),
			store.NewIntegrationStore(db),
		),
		Conversation:       service.NewConversationService(manager, llmClient, logger, metrics),
		Chain:              seiClient,
		Hub:                hub,
		Metrics:            metrics,
		Logger:             logger,
		CORSAllowedOrigins: config.CORSAllowedOrigins(),
		RateLimitRPS:       config.RateLimitRPS(),
		RateLimitBurst:     config.RateLimitBurst(),
	})

	var monitor *service.IntegrationMonitor
	if interval := config.IntegrationCheckInterval(); interval > 0 {
		monitor = service.NewIntegrationMonitor(store.NewIntegrationStore(db), seiClient, logger)
		monitor.SetInterval(interval)
		monitor.Start()
	}

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:    addr,
		Handler: app.Router,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting",
			zap.String("addr", addr),
			zap.String("version", buildconfig.Version()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	if monitor != nil {
		monitor.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	cancel()

	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracing shutdown failed", zap.Error(err))
	}

	logger.Info("server stopped")
}
