package api

import (
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/valefinance/vale/internal/api/handlers"
	mw "github.com/valefinance/vale/internal/api/middleware"
	"github.com/valefinance/vale/internal/buildconfig"
	"github.com/valefinance/vale/internal/chain"
	"github.com/valefinance/vale/internal/domain"
	"github.com/valefinance/vale/internal/events"
	"github.com/valefinance/vale/internal/llm"
	"github.com/valefinance/vale/internal/policy"
	vruntime "github.com/valefinance/vale/internal/runtime"
	"github.com/valefinance/vale/internal/service"
	"github.com/valefinance/vale/internal/store"
	"github.com/valefinance/vale/internal/telemetry"
	"github.com/valefinance/vale/internal/wallet"
	"go.uber.org/zap"
)

// Deps are the services the HTTP layer serves. Hub and Metrics are optional.
type Deps struct {
	Agents       *service.AgentManager
	Feed         *service.FeedService
	Conversation *service.ConversationService
	Chain        domain.ChainClient
	Hub          *events.Hub
	Metrics      *telemetry.Metrics
	Logger       *zap.Logger

	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
}

// App holds the router and request counters.
type App struct {
	Router       *chi.Mux
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(d Deps) *App {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := d.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	agentHandler := handlers.NewAgentHandler(d.Agents, logger)
	paymentHandler := handlers.NewPaymentHandler(d.Agents, logger)
	feedHandler := handlers.NewFeedHandler(d.Feed, logger)
	seiHandler := handlers.NewSeiHandler(d.Chain, logger)
	conversationHandler := handlers.NewConversationHandler(d.Conversation)

	r := chi.NewRouter()
	app := &App{
		Router:    r,
		startTime: time.Now(),
	}

	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount, d.Metrics)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Telemetry)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", mw.RequestIDHeader},
		ExposedHeaders: []string{mw.RequestIDHeader},
		MaxAge:         300,
	}))
	if d.RateLimitRPS > 0 {
		r.Use(mw.RateLimit(d.RateLimitRPS, d.RateLimitBurst))
	}

	r.Get("/health", healthHandler)
	r.Get("/metrics", app.metricsHandler())
	if d.Metrics != nil {
		r.Handle("/metrics/prometheus", d.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/agents", func(r chi.Router) {
			r.Get("/", agentHandler.List)
			r.Post("/", agentHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", agentHandler.GetByID)
				r.Delete("/", agentHandler.Delete)
				r.Put("/stop", agentHandler.Stop)
				r.Get("/transactions", agentHandler.Transactions)
				r.Get("/runtime", agentHandler.Runtime)
				r.Post("/actions", agentHandler.ExecuteAction)
			})
		})

		r.Get("/transactions", feedHandler.Transactions)
		r.Post("/payments", paymentHandler.Create)

		r.Get("/integrations", feedHandler.Integrations)
		r.Put("/integrations/{name}", feedHandler.UpdateIntegration)

		r.Get("/activities", feedHandler.Activities)
		if d.Hub != nil {
			r.Handle("/activities/stream", d.Hub)
		}

		r.Get("/metrics", agentHandler.Metrics)

		r.Get("/sei/network", seiHandler.Network)
		r.Get("/sei/balance/{address}", seiHandler.Balance)

		r.Post("/mcp/chat", conversationHandler.QuickChat)
		r.Route("/conversation", func(r chi.Router) {
			r.Post("/message", conversationHandler.SendMessage)
			r.Get("/{sessionId}/history", conversationHandler.History)
			r.Delete("/{sessionId}", conversationHandler.Clear)
		})
	})

	return app
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	info := buildconfig.VersionInfo()
	info["status"] = "ok"
	writeJSON(w, http.StatusOK, info)
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		writeJSON(w, http.StatusOK, map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		})
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.AgentStore       = (*store.AgentStore)(nil)
	_ domain.TransactionStore = (*store.TransactionStore)(nil)
	_ domain.ActivityStore    = (*store.ActivityStore)(nil)
	_ domain.IntegrationStore = (*store.IntegrationStore)(nil)
	_ domain.LLMClient        = (*llm.OpenAIClient)(nil)
	_ domain.LLMClient        = (*llm.AnthropicClient)(nil)
	_ domain.LLMClient        = (*llm.MockClient)(nil)
	_ domain.ChainClient      = (*chain.SeiClient)(nil)
	_ domain.WalletProvider   = (*wallet.Local)(nil)
	_ service.CustodialWallet = (*wallet.Crossmint)(nil)
	_ domain.AgentRuntime     = (*vruntime.Registry)(nil)
	_ domain.PaymentPolicy    = (*policy.Engine)(nil)
	_ domain.EventPublisher   = (*events.Multi)(nil)
	_ domain.EventPublisher   = (*events.Hub)(nil)
	_ domain.EventPublisher   = (*events.RedisPublisher)(nil)
	_ domain.EventPublisher   = (*events.AMQPPublisher)(nil)
	_ service.AgentOperator   = (*service.AgentManager)(nil)
)
