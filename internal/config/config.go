package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by VALE_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("VALE_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 5000
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// CORSAllowedOrigins returns the comma separated CORS_ALLOWED_ORIGINS list.
// Defaults to "*".
func CORSAllowedOrigins() []string {
	return splitList(os.Getenv("CORS_ALLOWED_ORIGINS"), []string{"*"})
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func AnthropicAPIKey() string {
	return os.Getenv("ANTHROPIC_API_KEY")
}

// OpenAIModel returns the chat model. Defaults to gpt-4o-mini.
func OpenAIModel() string {
	m := os.Getenv("OPENAI_MODEL")
	if m == "" {
		return "gpt-4o-mini"
	}
	return m
}

// LLMProvider returns the configured LLM provider.
// Defaults to "openai" if not set.
// Valid values: openai, anthropic, mock
func LLMProvider() string {
	p := os.Getenv("LLM_PROVIDER")
	if p == "" {
		return "openai"
	}
	return p
}

// LLMAPIKey returns the API key for the configured LLM provider.
func LLMAPIKey() string {
	switch LLMProvider() {
	case "anthropic":
		return AnthropicAPIKey()
	case "mock":
		return ""
	default:
		return OpenAIAPIKey()
	}
}

// SeiRPCURL defaults to the public atlantic-2 EVM endpoint.
func SeiRPCURL() string {
	u := os.Getenv("SEI_RPC_URL")
	if u == "" {
		return "https://evm-rpc-testnet.sei-apis.com"
	}
	return u
}

// SeiChainID defaults to 1328 (atlantic-2 testnet).
func SeiChainID() int64 {
	id, err := strconv.ParseInt(os.Getenv("SEI_CHAIN_ID"), 10, 64)
	if err != nil || id <= 0 {
		return 1328
	}
	return id
}

// SeiLiveRPC reports whether balances and network info are read from the
// RPC endpoint instead of being mocked.
func SeiLiveRPC() bool {
	return boolEnv("SEI_LIVE_RPC", false)
}

// SeiMockLatency is the simulated settlement delay of mock transactions.
// Defaults to 1s.
func SeiMockLatency() time.Duration {
	return durationEnv("SEI_MOCK_LATENCY", time.Second)
}

func CrossmintServerKey() string {
	return os.Getenv("CROSSMINT_SERVER_KEY")
}

func CrossmintProjectID() string {
	return os.Getenv("CROSSMINT_PROJECT_ID")
}

// CrossmintBaseURL defaults to the staging API.
func CrossmintBaseURL() string {
	u := os.Getenv("CROSSMINT_BASE_URL")
	if u == "" {
		return "https://staging.crossmint.com/api"
	}
	return u
}

// PolicyFile is an optional rego module replacing the default payment policy.
func PolicyFile() string {
	return os.Getenv("POLICY_FILE")
}

// SeedFile is an optional YAML seed replacing the embedded dataset.
func SeedFile() string {
	return os.Getenv("SEED_FILE")
}

// SeedSampleData controls whether sample agents and activities are loaded.
// Defaults to true.
func SeedSampleData() bool {
	return boolEnv("SEED_SAMPLE_DATA", true)
}

func RedisAddr() string {
	return os.Getenv("REDIS_ADDR")
}

func RedisPassword() string {
	return os.Getenv("REDIS_PASSWORD")
}

// RedisChannel defaults to "vale:activities".
func RedisChannel() string {
	c := os.Getenv("REDIS_CHANNEL")
	if c == "" {
		return "vale:activities"
	}
	return c
}

func AMQPURL() string {
	return os.Getenv("AMQP_URL")
}

// AMQPQueue defaults to "vale.activities".
func AMQPQueue() string {
	q := os.Getenv("AMQP_QUEUE")
	if q == "" {
		return "vale.activities"
	}
	return q
}

// OTLPEndpoint enables tracing when set.
func OTLPEndpoint() string {
	return os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
}

// ServiceName defaults to "vale".
func ServiceName() string {
	n := os.Getenv("OTEL_SERVICE_NAME")
	if n == "" {
		return "vale"
	}
	return n
}

// OutboundTimeout bounds calls to LLM, wallet and RPC providers.
// Defaults to 30s.
func OutboundTimeout() time.Duration {
	return durationEnv("OUTBOUND_TIMEOUT", 30*time.Second)
}

// IntegrationCheckInterval is how often the chain integration is probed.
// Defaults to 1m; 0 disables the monitor.
func IntegrationCheckInterval() time.Duration {
	return durationEnv("INTEGRATION_CHECK_INTERVAL", time.Minute)
}

func boolEnv(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func durationEnv(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return def
	}
	return d
}

func splitList(raw string, def []string) []string {
	if strings.TrimSpace(raw) == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
