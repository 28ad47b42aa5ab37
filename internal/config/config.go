package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	LLM        LLMConfig
	Extraction ExtractionConfig
	Referral   ReferralConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration

	AutoMigrate   bool
	MigrationsDir string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	AccessSecret    string
	RefreshSecret   string
	AccessExpiresIn time.Duration
}

// LLMConfig covers every generative model call. Provider is "openai" or "gemini".
type LLMConfig struct {
	Provider string

	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIModel       string
	OpenAISearchModel string

	GeminiAPIKey string
	GeminiModel  string

	Timeout           time.Duration
	MaxConcurrency    int64
	RatePerSecond     float64
	RequestsPerMinute int
}

type ExtractionConfig struct {
	Backend      string
	Headless     bool
	UserAgent    string
	FetchTimeout time.Duration
	MaxBodyBytes int
	CacheTTL     time.Duration

	MaxConcurrency    int64
	RatePerSecond     float64
	RequestsPerMinute int
}

type ReferralConfig struct {
	SearchDomain              string
	ProfilePathSegment        string
	URLDenylist               []string
	RequireCompanyInRelevance bool
	AttemptTimeout            time.Duration
	RequestTimeout            time.Duration
}

var errMissingRequiredEnv = errors.New("missing required environment variables")
var errInvalidEnv = errors.New("invalid environment variables")

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	BackendSelector   = "selector"
	BackendGenerative = "generative"
)

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	optDefault := func(key, def string) string {
		if v := opt(key); v != "" {
			return v
		}
		return def
	}
	optDuration := func(key string, def time.Duration) time.Duration {
		v := opt(key)
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			invalid = append(invalid, key)
			return def
		}
		return d
	}
	optInt := func(key string, def int) int {
		v := opt(key)
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			invalid = append(invalid, key)
			return def
		}
		return n
	}
	optFloat := func(key string, def float64) float64 {
		v := opt(key)
		if v == "" {
			return def
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			invalid = append(invalid, key)
			return def
		}
		return f
	}
	optBool := func(key string, def bool) bool {
		v := opt(key)
		if v == "" {
			return def
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return b
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  optDefault("DB_SSL_MODE", "disable"),

		ConnectTimeout:        optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(optInt("DB_POOL_MAX_CONNS", 10)),
		PoolMinConns:          int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   optDuration("DB_POOL_MAX_CONN_LIFETIME", time.Hour),
		PoolMaxConnIdleTime:   optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 30*time.Minute),
		PoolHealthCheckPeriod: optDuration("DB_POOL_HEALTH_CHECK_PERIOD", time.Minute),

		AutoMigrate:   optBool("DB_AUTO_MIGRATE", false),
		MigrationsDir: optDefault("DB_MIGRATIONS_DIR", "migrations"),
	}

	cfg.Redis = RedisConfig{
		Host:     optDefault("REDIS_HOST", "localhost"),
		Port:     optDefault("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD"),
		DB:       optInt("REDIS_DB", 0),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:    req("JWT_ACCESS_SECRET"),
		RefreshSecret:   opt("JWT_REFRESH_SECRET"),
		AccessExpiresIn: optDuration("JWT_ACCESS_EXPIRES_IN", 15*time.Minute),
	}

	cfg.LLM = LLMConfig{
		Provider: strings.ToLower(optDefault("LLM_PROVIDER", ProviderOpenAI)),

		OpenAIAPIKey:      opt("OPENAI_API_KEY"),
		OpenAIBaseURL:     optDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:       optDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAISearchModel: optDefault("OPENAI_SEARCH_MODEL", "gpt-4o-mini"),

		GeminiAPIKey: opt("GEMINI_API_KEY"),
		GeminiModel:  optDefault("GEMINI_MODEL", "gemini-2.5-flash"),

		Timeout:           optDuration("LLM_TIMEOUT", 90*time.Second),
		MaxConcurrency:    int64(optInt("LLM_MAX_CONCURRENCY", 4)),
		RatePerSecond:     optFloat("LLM_RATE_PER_SECOND", 2),
		RequestsPerMinute: optInt("LLM_REQUESTS_PER_MINUTE", 0),
	}

	cfg.Extraction = ExtractionConfig{
		Backend:      strings.ToLower(optDefault("EXTRACTION_BACKEND", BackendSelector)),
		Headless:     optBool("EXTRACT_HEADLESS", false),
		UserAgent:    optDefault("EXTRACT_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"),
		FetchTimeout: optDuration("EXTRACT_FETCH_TIMEOUT", 20*time.Second),
		MaxBodyBytes: optInt("EXTRACT_MAX_BODY_BYTES", 5<<20),
		CacheTTL:     optDuration("EXTRACT_CACHE_TTL", 6*time.Hour),

		MaxConcurrency:    int64(optInt("EXTRACT_MAX_CONCURRENCY", 8)),
		RatePerSecond:     optFloat("EXTRACT_RATE_PER_SECOND", 5),
		RequestsPerMinute: optInt("EXTRACT_REQUESTS_PER_MINUTE", 0),
	}

	cfg.Referral = ReferralConfig{
		SearchDomain:              optDefault("REFERRAL_SEARCH_DOMAIN", "linkedin.com"),
		ProfilePathSegment:        optDefault("REFERRAL_PROFILE_PATH_SEGMENT", "linkedin.com/in/"),
		URLDenylist:               splitList(optDefault("REFERRAL_URL_DENYLIST", "example,fake,test")),
		RequireCompanyInRelevance: optBool("REFERRAL_REQUIRE_COMPANY_IN_RELEVANCE", false),
		AttemptTimeout:            optDuration("REFERRAL_ATTEMPT_TIMEOUT", 90*time.Second),
		RequestTimeout:            optDuration("REFERRAL_REQUEST_TIMEOUT", 180*time.Second),
	}

	switch cfg.LLM.Provider {
	case ProviderOpenAI:
		if cfg.LLM.OpenAIAPIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
	case ProviderGemini:
		if cfg.LLM.GeminiAPIKey == "" {
			missing = append(missing, "GEMINI_API_KEY")
		}
	default:
		invalid = append(invalid, "LLM_PROVIDER")
	}

	switch cfg.Extraction.Backend {
	case BackendSelector, BackendGenerative:
	default:
		invalid = append(invalid, "EXTRACTION_BACKEND")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
