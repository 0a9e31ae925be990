package telemetry

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	agentsDeployed *prometheus.CounterVec
	payments       *prometheus.CounterVec
	paymentVolume  *prometheus.CounterVec
	chatMessages   *prometheus.CounterVec
	llmFallbacks   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vale_http_requests_total",
			Help: "HTTP requests by method and status code.",
		}, []string{"method", "status"}),
		agentsDeployed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vale_agents_deployed_total",
			Help: "Agent deployments by agent type and outcome.",
		}, []string{"type", "outcome"}),
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vale_payments_total",
			Help: "Payments by rail and outcome.",
		}, []string{"rail", "outcome"}),
		paymentVolume: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vale_payment_volume_total",
			Help: "Sum of submitted payment amounts by currency.",
		}, []string{"currency"}),
		chatMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vale_chat_messages_total",
			Help: "Chat messages by classified intent.",
		}, []string{"intent"}),
		llmFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vale_llm_fallbacks_total",
			Help: "Canned replies substituted for LLM output, by reason.",
		}, []string{"reason"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.agentsDeployed,
		m.payments,
		m.paymentVolume,
		m.chatMessages,
		m.llmFallbacks,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) HTTPRequest(method string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

func (m *Metrics) AgentDeployed(agentType, outcome string) {
	if m == nil {
		return
	}
	m.agentsDeployed.WithLabelValues(agentType, outcome).Inc()
}

func (m *Metrics) Payment(rail, outcome, currency string, amount float64) {
	if m == nil {
		return
	}
	m.payments.WithLabelValues(rail, outcome).Inc()
	if outcome == "sent" && amount > 0 {
		m.paymentVolume.WithLabelValues(currency).Add(amount)
	}
}

func (m *Metrics) ChatMessage(intent string) {
	if m == nil {
		return
	}
	m.chatMessages.WithLabelValues(intent).Inc()
}

func (m *Metrics) LLMFallback(reason string) {
	if m == nil {
		return
	}
	m.llmFallbacks.WithLabelValues(reason).Inc()
}
