package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"hiring-backend/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	LogLevel        string
	LogFormat       string

	LLMProvider     string
	LLMModel        string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	GeminiAPIKey    string
	ProviderTimeout time.Duration

	GitHubToken      string
	GitHubAPIURL     string
	ValidatorTimeout time.Duration

	Level1Threshold    float64
	Level2Threshold    float64
	Level3Threshold    float64
	CompositeThreshold float64

	DatabaseURL string

	ReportStore     string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
	VerdictQueueURL string

	AdminToken     string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", ".env.local", "cmd/.env")
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "dev")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("LLM_PROVIDER", "placeholder")
	v.SetDefault("LLM_MODEL", "")
	v.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("PROVIDER_TIMEOUT_SECONDS", 90)

	v.SetDefault("GITHUB_API_URL", "https://api.github.com")
	v.SetDefault("VALIDATOR_TIMEOUT_SECONDS", 10)

	v.SetDefault("LEVEL_1_THRESHOLD", 7.0)
	v.SetDefault("LEVEL_2_THRESHOLD", 6.0)
	v.SetDefault("LEVEL_3_THRESHOLD", 8.0)

	v.SetDefault("REPORT_STORE", "none")
	v.SetDefault("LOCAL_STORAGE_PATH", "./data")

	v.SetDefault("RATE_LIMIT_RPS", 0.5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	return v
}

// FromViper maps a populated viper instance onto Config.
func FromViper(v *viper.Viper) Config {
	env := normalizeEnv(v.GetString("ENV"))
	dbURL := strings.TrimSpace(v.GetString("DATABASE_URL"))

	if env == "production" && strings.TrimSpace(v.GetString("ADMIN_TOKEN")) == "" {
		telemetry.Warn("ADMIN_TOKEN is empty in production; threshold updates are unauthenticated", nil)
	}

	level3 := v.GetFloat64("LEVEL_3_THRESHOLD")
	composite := level3
	if v.IsSet("COMPOSITE_THRESHOLD") {
		composite = v.GetFloat64("COMPOSITE_THRESHOLD")
	}

	return Config{
		Port:            v.GetString("PORT"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),

		LLMProvider:     normalizeProvider(v.GetString("LLM_PROVIDER")),
		LLMModel:        strings.TrimSpace(v.GetString("LLM_MODEL")),
		OpenAIAPIKey:    strings.TrimSpace(v.GetString("OPENAI_API_KEY")),
		OpenAIBaseURL:   strings.TrimRight(v.GetString("OPENAI_BASE_URL"), "/"),
		GeminiAPIKey:    firstNonEmpty(v.GetString("GEMINI_API_KEY"), v.GetString("GOOGLE_API_KEY")),
		ProviderTimeout: seconds(v.GetInt("PROVIDER_TIMEOUT_SECONDS")),

		GitHubToken:      strings.TrimSpace(v.GetString("GITHUB_TOKEN")),
		GitHubAPIURL:     strings.TrimRight(v.GetString("GITHUB_API_URL"), "/"),
		ValidatorTimeout: seconds(v.GetInt("VALIDATOR_TIMEOUT_SECONDS")),

		Level1Threshold:    v.GetFloat64("LEVEL_1_THRESHOLD"),
		Level2Threshold:    v.GetFloat64("LEVEL_2_THRESHOLD"),
		Level3Threshold:    level3,
		CompositeThreshold: composite,

		DatabaseURL: dbURL,

		ReportStore:     normalizeStoreType(v.GetString("REPORT_STORE")),
		LocalStoreDir:   v.GetString("LOCAL_STORAGE_PATH"),
		AWSRegion:       strings.TrimSpace(v.GetString("AWS_REGION")),
		S3Bucket:        strings.TrimSpace(v.GetString("S3_BUCKET")),
		S3Prefix:        strings.TrimSpace(v.GetString("S3_PREFIX")),
		SSEKMSKeyID:     strings.TrimSpace(v.GetString("SSE_KMS_KEY_ID")),
		VerdictQueueURL: strings.TrimSpace(v.GetString("VERDICT_QUEUE_URL")),

		AdminToken:     strings.TrimSpace(v.GetString("ADMIN_TOKEN")),
		RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),
	}
}

// IsDevLike reports whether env allows in-memory fallbacks.
func (c Config) IsDevLike() bool {
	switch c.Env {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	case "gemini", "google":
		return "gemini"
	default:
		return "placeholder"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "local":
		return "local"
	default:
		return "none"
	}
}
