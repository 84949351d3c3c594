package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	awspkg "github.com/vinitha-rv/library-backend/pkg/aws"
)

// Checkout total-mismatch policies
const (
	TotalPolicyLenient = "lenient"
	TotalPolicyStrict  = "strict"
)

// Config holds all environment variables for the bookstore backend.
type Config struct {
	Port   string
	AppEnv string

	MongoURI          string
	MongoDB           string
	MongoTransactions bool

	RedisURL string // empty disables caching and idempotency replay
	CacheTTL time.Duration

	JWTSecret    string
	JWTTTL       time.Duration
	AuthRequired bool

	ShippingFee decimal.Decimal
	TotalPolicy string

	AllowedOrigins     []string
	RateLimitPerMinute int
	RateLimitBurst     int
	RequestTimeout     time.Duration

	AWSEventsEnabled    bool
	CheckoutTopicARN    string
	CloudWatchEnabled   bool
	CloudWatchNamespace string

	CloudWatchLogsEnabled bool
	CloudWatchLogGroup    string

	// AWS_USE_SECRETS reads JWT_SECRET and MONGO_URI from Secrets Manager
	UseSecrets    bool
	SecretsPrefix string
}

// secretKeys are the settings that may come from Secrets Manager.
var secretKeys = []string{"JWT_SECRET", "MONGO_URI"}

// SecretSource is satisfied by *awspkg.SecretsClient.
type SecretSource interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// Load reads an optional .env file and then the process environment.
// With AWS_USE_SECRETS=true, JWT_SECRET and MONGO_URI are looked up in
// Secrets Manager under AWS_SECRETS_PREFIX first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	getenv := os.Getenv
	if os.Getenv("AWS_USE_SECRETS") == "true" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		awsCfg, endpoint, err := awspkg.LoadAWSConfig(ctx)
		if err != nil {
			return nil, err
		}
		getenv = WithSecrets(ctx, os.Getenv, awspkg.NewSecretsClient(awsCfg, endpoint))
	}
	return FromEnv(getenv)
}

// WithSecrets wraps getenv so the secret keys resolve from src when it holds
// a non-empty value. Misses fall back to the environment.
func WithSecrets(ctx context.Context, getenv func(string) string, src SecretSource) func(string) string {
	prefix := getenv("AWS_SECRETS_PREFIX")
	if prefix == "" {
		prefix = "bookstore/"
	}
	resolved := make(map[string]string, len(secretKeys))
	for _, key := range secretKeys {
		if v, err := src.GetSecret(ctx, prefix+key); err == nil && v != "" {
			resolved[key] = v
		}
	}
	return func(key string) string {
		if v, ok := resolved[key]; ok {
			return v
		}
		return getenv(key)
	}
}

// FromEnv builds a Config from the given lookup function and validates it.
func FromEnv(getenv func(string) string) (*Config, error) {
	l := loader{getenv: getenv}

	cfg := &Config{
		Port:                l.str("PORT", "5000"),
		AppEnv:              l.str("APP_ENV", "development"),
		MongoURI:            l.str("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:             l.str("MONGO_DB", "bookstore"),
		MongoTransactions:   l.boolean("MONGO_TRANSACTIONS", true),
		RedisURL:            l.str("REDIS_URL", ""),
		CacheTTL:            l.duration("CACHE_TTL", 10*time.Minute),
		JWTSecret:           l.str("JWT_SECRET", ""),
		JWTTTL:              l.duration("JWT_TTL", 24*time.Hour),
		AuthRequired:        l.boolean("AUTH_REQUIRED", false),
		ShippingFee:         l.money("CHECKOUT_SHIPPING_FEE", decimal.NewFromInt(50)),
		TotalPolicy:         strings.ToLower(l.str("CHECKOUT_TOTAL_POLICY", TotalPolicyLenient)),
		AllowedOrigins:      l.list("ALLOWED_ORIGINS", []string{"*"}),
		RateLimitPerMinute:  l.integer("RATE_LIMIT_PER_MINUTE", 100),
		RateLimitBurst:      l.integer("RATE_LIMIT_BURST", 50),
		RequestTimeout:      l.duration("REQUEST_TIMEOUT", 30*time.Second),
		AWSEventsEnabled:    l.boolean("AWS_EVENTS_ENABLED", false),
		CheckoutTopicARN:    l.str("CHECKOUT_TOPIC_ARN", ""),
		CloudWatchEnabled:   l.boolean("CLOUDWATCH_ENABLED", false),
		CloudWatchNamespace: l.str("CLOUDWATCH_NAMESPACE", "Bookstore"),

		CloudWatchLogsEnabled: l.boolean("CLOUDWATCH_LOGS_ENABLED", false),
		CloudWatchLogGroup:    l.str("CLOUDWATCH_LOG_GROUP", "/bookstore/backend"),

		UseSecrets:    l.boolean("AWS_USE_SECRETS", false),
		SecretsPrefix: l.str("AWS_SECRETS_PREFIX", "bookstore/"),
	}
	if l.err != nil {
		return nil, l.err
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.TotalPolicy != TotalPolicyLenient && cfg.TotalPolicy != TotalPolicyStrict {
		return nil, fmt.Errorf("CHECKOUT_TOTAL_POLICY must be %q or %q, got %q", TotalPolicyLenient, TotalPolicyStrict, cfg.TotalPolicy)
	}
	if cfg.ShippingFee.IsNegative() {
		return nil, fmt.Errorf("CHECKOUT_SHIPPING_FEE must not be negative")
	}
	if cfg.RateLimitPerMinute <= 0 || cfg.RateLimitBurst <= 0 {
		return nil, fmt.Errorf("rate limit settings must be positive")
	}
	if cfg.AWSEventsEnabled && cfg.CheckoutTopicARN == "" {
		return nil, fmt.Errorf("CHECKOUT_TOPIC_ARN is required when AWS_EVENTS_ENABLED=true")
	}

	return cfg, nil
}

// UsesAWS reports whether any AWS-backed feature is switched on.
func (c *Config) UsesAWS() bool {
	return c.AWSEventsEnabled || c.CloudWatchEnabled || c.CloudWatchLogsEnabled
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// loader keeps the first parse error so FromEnv can report it once.
type loader struct {
	getenv func(string) string
	err    error
}

func (l *loader) str(key, def string) string {
	if v := strings.TrimSpace(l.getenv(key)); v != "" {
		return v
	}
	return def
}

func (l *loader) fail(key, val string, err error) {
	if l.err == nil {
		l.err = fmt.Errorf("invalid %s=%q: %w", key, val, err)
	}
}

func (l *loader) boolean(key string, def bool) bool {
	v := l.str(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		l.fail(key, v, err)
		return def
	}
	return b
}

func (l *loader) integer(key string, def int) int {
	v := l.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		l.fail(key, v, err)
		return def
	}
	return n
}

func (l *loader) duration(key string, def time.Duration) time.Duration {
	v := l.str(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		l.fail(key, v, err)
		return def
	}
	if d <= 0 {
		l.fail(key, v, fmt.Errorf("must be positive"))
		return def
	}
	return d
}

func (l *loader) money(key string, def decimal.Decimal) decimal.Decimal {
	v := l.str(key, "")
	if v == "" {
		return def
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		l.fail(key, v, err)
		return def
	}
	return d
}

func (l *loader) list(key string, def []string) []string {
	v := l.str(key, "")
	if v == "" {
		return def
	}
	var out []string
	for _, o := range strings.Split(v, ",") {
		o = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(o), "/"))
		if o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
