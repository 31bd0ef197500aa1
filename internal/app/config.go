package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (ECOSTORE_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL string `usage:"PostgreSQL connection URL (ECOSTORE_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	JWT         JWTConfig
	Razorpay    RazorpayConfig
	Recommend   RecommendConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Graceful    GracefulConfig
}

// JWTConfig controls token issuance.
type JWTConfig struct {
	Secret string        `usage:"HMAC signing secret for access tokens (ECOSTORE_JWT_SECRET)" flag:"jwt-secret"`
	TTL    time.Duration `default:"24h" usage:"Access token lifetime" flag:"jwt-ttl"`
}

// RazorpayConfig holds the payment provider credentials.
type RazorpayConfig struct {
	KeyID  string `usage:"Razorpay API key id" flag:"razorpay-key-id"`
	Secret string `usage:"Razorpay API key secret" flag:"razorpay-secret"`
}

// RecommendConfig points at the external recommendation service.
type RecommendConfig struct {
	BaseURL string        `default:"http://localhost:5000" usage:"Recommendation service base URL" flag:"recommend-url"`
	Timeout time.Duration `default:"5s" usage:"Recommendation request timeout" flag:"recommend-timeout"`
}

// RateLimitConfig controls the per-client rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "ECOSTORE",
		Files:     []string{"config.yaml", "/etc/ecostore/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set ECOSTORE_DATABASE_URL or DATABASE_URL")
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("JWT secret is required: set ECOSTORE_JWT_SECRET")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) that use standard names like DATABASE_URL and PORT to the
// application's ECOSTORE_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
