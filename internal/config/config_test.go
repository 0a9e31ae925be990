package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	for _, k := range []string{"SERVER_PORT", "SEI_CHAIN_ID", "SEI_MOCK_LATENCY", "LLM_PROVIDER", "SEED_SAMPLE_DATA", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}

	if got := ServerAddr(); got != ":5000" {
		t.Fatalf("expected :5000, got %s", got)
	}
	if got := SeiChainID(); got != 1328 {
		t.Fatalf("expected chain 1328, got %d", got)
	}
	if got := SeiMockLatency(); got != time.Second {
		t.Fatalf("expected 1s latency, got %s", got)
	}
	if got := LLMProvider(); got != "openai" {
		t.Fatalf("expected openai provider, got %s", got)
	}
	if !SeedSampleData() {
		t.Fatal("expected sample data by default")
	}
	if got := CORSAllowedOrigins(); len(got) != 1 || got[0] != "*" {
		t.Fatalf("expected [*], got %v", got)
	}
}

func TestOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("SEI_CHAIN_ID", "1329")
	t.Setenv("SEI_MOCK_LATENCY", "0s")
	t.Setenv("SEED_SAMPLE_DATA", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("LLM_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

	if got := ServerAddr(); got != ":8081" {
		t.Fatalf("expected :8081, got %s", got)
	}
	if got := SeiChainID(); got != 1329 {
		t.Fatalf("expected 1329, got %d", got)
	}
	if got := SeiMockLatency(); got != 0 {
		t.Fatalf("expected zero latency, got %s", got)
	}
	if SeedSampleData() {
		t.Fatal("expected sample data disabled")
	}
	if got := CORSAllowedOrigins(); len(got) != 2 || got[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", got)
	}
	if got := LLMAPIKey(); got != "sk-ant" {
		t.Fatalf("expected anthropic key, got %q", got)
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envFile, []byte("VALE_TEST_VALUE=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(envFile+".secret", []byte("VALE_TEST_SECRET=shh\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VALE_ENV", envFile)
	t.Cleanup(func() {
		os.Unsetenv("VALE_TEST_VALUE")
		os.Unsetenv("VALE_TEST_SECRET")
	})

	if err := Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := os.Getenv("VALE_TEST_VALUE"); got != "from-file" {
		t.Fatalf("expected value from env file, got %q", got)
	}
	if got := os.Getenv("VALE_TEST_SECRET"); got != "shh" {
		t.Fatalf("expected value from secret file, got %q", got)
	}
}

func TestIntegrationCheckInterval(t *testing.T) {
	t.Setenv("INTEGRATION_CHECK_INTERVAL", "")
	if got := IntegrationCheckInterval(); got != time.Minute {
		t.Fatalf("expected 1m default, got %s", got)
	}
	t.Setenv("INTEGRATION_CHECK_INTERVAL", "0s")
	if got := IntegrationCheckInterval(); got != 0 {
		t.Fatalf("expected monitor disabled, got %s", got)
	}
	t.Setenv("INTEGRATION_CHECK_INTERVAL", "soon")
	if got := IntegrationCheckInterval(); got != time.Minute {
		t.Fatalf("expected default for invalid value, got %s", got)
	}
}
