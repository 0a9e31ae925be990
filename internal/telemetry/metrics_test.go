package telemetry

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.HTTPRequest("GET", 200)
	m.HTTPRequest("GET", 200)
	m.AgentDeployed("payroll", "success")
	m.Payment("sei", "sent", "USDC", 12.5)
	m.Payment("sei", "blocked", "USDC", 99)
	m.ChatMessage("create_agent")
	m.LLMFallback("offline")

	body := scrape(t, m)
	assert.Contains(t, body, `vale_http_requests_total{method="GET",status="200"} 2`)
	assert.Contains(t, body, `vale_agents_deployed_total{outcome="success",type="payroll"} 1`)
	assert.Contains(t, body, `vale_payments_total{outcome="blocked",rail="sei"} 1`)
	assert.Contains(t, body, `vale_payment_volume_total{currency="USDC"} 12.5`)
	assert.Contains(t, body, `vale_chat_messages_total{intent="create_agent"} 1`)
	assert.Contains(t, body, `vale_llm_fallbacks_total{reason="offline"} 1`)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.HTTPRequest("GET", 200)
	m.AgentDeployed("payroll", "success")
	m.Payment("sei", "sent", "USDC", 1)
	m.ChatMessage("conversation")
	m.LLMFallback("offline")
	assert.Nil(t, m.Registry())
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.ChatMessage("check_balance")

	body := scrape(t, m)
	assert.Contains(t, body, `vale_chat_messages_total{intent="check_balance"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics/prometheus", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestInitTracing_DisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), TracingConfig{ServiceName: "vale"}, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.NotNil(t, Tracer("test"))
}
