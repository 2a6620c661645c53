package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	dbpkg "github.com/yungbote/coursegen-backend/internal/data/db"
	"github.com/yungbote/coursegen-backend/internal/platform/envutil"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/platform/retry"
)

// Config is resolved in layers: defaults, then the optional YAML file named
// by COURSEGEN_CONFIG, then environment variables.
type Config struct {
	HTTPAddr string `yaml:"http_addr"`
	LogMode  string `yaml:"log_mode"`

	DBDriver    string `yaml:"db_driver"`
	DatabaseURL string `yaml:"database_url"`
	SQLitePath  string `yaml:"sqlite_path"`

	ArtifactStore  string `yaml:"artifact_store"`
	ArtifactRoot   string `yaml:"artifact_root"`
	GCSBucket      string `yaml:"gcs_bucket"`
	GCSPrefix      string `yaml:"gcs_prefix"`
	GCSCredentials string `yaml:"gcs_credentials"`

	LLMProvider    string  `yaml:"llm_provider"`
	LLMModel       string  `yaml:"llm_model"`
	LLMBaseURL     string  `yaml:"llm_base_url"`
	OpenAIAPIKey   string  `yaml:"-"`
	LLMTemperature float64 `yaml:"llm_temperature"`
	LLMTimeout     int     `yaml:"llm_timeout_seconds"`

	RetryBase        float64 `yaml:"retry_base_seconds"`
	RetryMax         float64 `yaml:"retry_max_seconds"`
	RetryMaxElapsed  float64 `yaml:"retry_max_elapsed_seconds"`
	RetryMaxAttempts int     `yaml:"retry_max_attempts"`

	StagePacingMS     int  `yaml:"stage_pacing_ms"`
	FanOutLimit       int  `yaml:"fanout_limit"`
	StrictValidation  bool `yaml:"strict_validation"`
	StructuredOutline bool `yaml:"structured_outline"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"-"`
	RedisPattern  string `yaml:"redis_pattern"`

	JWTSecret   string   `yaml:"-"`
	JWTIssuer   string   `yaml:"jwt_issuer"`
	CORSOrigins []string `yaml:"cors_allowed_origins"`

	ServiceName    string  `yaml:"service_name"`
	Environment    string  `yaml:"environment"`
	OTelEnabled    bool    `yaml:"otel_enabled"`
	OTelEndpoint   string  `yaml:"otel_endpoint"`
	OTelHeaders    string  `yaml:"otel_headers"`
	OTelInsecure   bool    `yaml:"otel_insecure"`
	OTelSampler    float64 `yaml:"otel_sampler_ratio"`
	MetricsEnabled bool    `yaml:"metrics_enabled"`
}

const (
	LLMProviderFake    = "fake"
	ArtifactStoreLocal = "local"
	ArtifactStoreGCS   = "gcs"
)

func DefaultConfig() Config {
	return Config{
		HTTPAddr:         ":8080",
		LogMode:          "development",
		DBDriver:         dbpkg.DriverSQLite,
		SQLitePath:       "responses/coursegen.db",
		ArtifactStore:    ArtifactStoreLocal,
		ArtifactRoot:     "responses",
		LLMProvider:      "ollama",
		LLMModel:         "gemma3",
		LLMTemperature:   0.5,
		LLMTimeout:       300,
		RetryBase:        4,
		RetryMax:         30,
		RetryMaxElapsed:  60,
		RetryMaxAttempts: 3,
		StagePacingMS:    3000,
		FanOutLimit:      4,
		ServiceName:      "coursegen-backend",
		Environment:      "development",
		OTelSampler:      1,
		MetricsEnabled:   true,
	}
}

// LoadConfig reads .env (when present), the YAML file and the environment.
func LoadConfig(log *logger.Logger) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("failed to read .env", "error", err)
	}
	cfg := DefaultConfig()
	if path := envutil.String("COURSEGEN_CONFIG", ""); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
		log.Info("Loaded config file", "path", path)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.HTTPAddr = envutil.String("HTTP_ADDR", c.HTTPAddr)
	c.LogMode = envutil.String("LOG_MODE", c.LogMode)

	c.DBDriver = envutil.String("DB_DRIVER", c.DBDriver)
	c.DatabaseURL = envutil.String("DATABASE_URL", c.DatabaseURL)
	if c.DatabaseURL == "" && envutil.String("POSTGRES_HOST", "") != "" {
		c.DatabaseURL = dbpkg.PostgresDSN(
			envutil.String("POSTGRES_HOST", ""),
			envutil.String("POSTGRES_PORT", "5432"),
			envutil.String("POSTGRES_USER", "postgres"),
			envutil.String("POSTGRES_PASSWORD", ""),
			envutil.String("POSTGRES_NAME", "coursegen"),
		)
	}
	c.SQLitePath = envutil.String("SQLITE_PATH", c.SQLitePath)

	c.ArtifactStore = envutil.String("ARTIFACT_STORE", c.ArtifactStore)
	c.ArtifactRoot = envutil.String("ARTIFACT_ROOT", c.ArtifactRoot)
	c.GCSBucket = envutil.String("GCS_BUCKET", c.GCSBucket)
	c.GCSPrefix = envutil.String("GCS_PREFIX", c.GCSPrefix)
	c.GCSCredentials = envutil.String("GOOGLE_APPLICATION_CREDENTIALS", c.GCSCredentials)

	c.LLMProvider = strings.ToLower(envutil.String("LLM_PROVIDER", c.LLMProvider))
	c.LLMModel = envutil.String("LLM_MODEL", c.LLMModel)
	c.LLMBaseURL = envutil.String("LLM_BASE_URL", c.LLMBaseURL)
	c.OpenAIAPIKey = envutil.String("OPENAI_API_KEY", c.OpenAIAPIKey)
	c.LLMTemperature = envutil.Float("LLM_TEMPERATURE", c.LLMTemperature)
	c.LLMTimeout = envutil.Int("LLM_TIMEOUT_SECONDS", c.LLMTimeout)

	c.RetryBase = envutil.Float("RETRY_BASE_SECONDS", c.RetryBase)
	c.RetryMax = envutil.Float("RETRY_MAX_SECONDS", c.RetryMax)
	c.RetryMaxElapsed = envutil.Float("RETRY_MAX_ELAPSED_SECONDS", c.RetryMaxElapsed)
	c.RetryMaxAttempts = envutil.Int("RETRY_MAX_ATTEMPTS", c.RetryMaxAttempts)

	c.StagePacingMS = envutil.Int("STAGE_PACING_MS", c.StagePacingMS)
	c.FanOutLimit = envutil.Int("FANOUT_LIMIT", c.FanOutLimit)
	c.StrictValidation = envutil.Bool("STRICT_VALIDATION", c.StrictValidation)
	c.StructuredOutline = envutil.Bool("STRUCTURED_OUTLINE", c.StructuredOutline)

	c.RedisAddr = envutil.String("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = envutil.String("REDIS_PASSWORD", c.RedisPassword)
	c.RedisPattern = envutil.String("REDIS_CHANNEL", c.RedisPattern)

	c.JWTSecret = envutil.String("JWT_SECRET", c.JWTSecret)
	c.JWTIssuer = envutil.String("JWT_ISSUER", c.JWTIssuer)
	if origins := envutil.List("CORS_ALLOWED_ORIGINS"); len(origins) > 0 {
		c.CORSOrigins = origins
	}

	c.ServiceName = envutil.String("OTEL_SERVICE_NAME", c.ServiceName)
	c.Environment = envutil.String("APP_ENV", c.Environment)
	c.OTelEnabled = envutil.Bool("OTEL_ENABLED", c.OTelEnabled)
	c.OTelEndpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", c.OTelEndpoint)
	c.OTelHeaders = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", c.OTelHeaders)
	c.OTelInsecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", c.OTelInsecure)
	c.OTelSampler = envutil.Float("OTEL_SAMPLER_RATIO", c.OTelSampler)
	c.MetricsEnabled = envutil.Bool("METRICS_ENABLED", c.MetricsEnabled)
}

func (c Config) Validate() error {
	var problems []string
	switch c.DBDriver {
	case dbpkg.DriverSQLite:
	case dbpkg.DriverPostgres:
		if c.DatabaseURL == "" {
			problems = append(problems, "postgres requires DATABASE_URL or POSTGRES_HOST")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown DB_DRIVER %q", c.DBDriver))
	}
	switch c.ArtifactStore {
	case ArtifactStoreLocal:
	case ArtifactStoreGCS:
		if c.GCSBucket == "" {
			problems = append(problems, "gcs artifact store requires GCS_BUCKET")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown ARTIFACT_STORE %q", c.ArtifactStore))
	}
	switch c.LLMProvider {
	case "openai", "ollama", LLMProviderFake:
	default:
		problems = append(problems, fmt.Sprintf("unknown LLM_PROVIDER %q", c.LLMProvider))
	}
	if c.FanOutLimit < 0 {
		problems = append(problems, "FANOUT_LIMIT must be >= 0")
	}
	if err := c.RetryPolicy().Validate(); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func seconds(f float64) time.Duration { return time.Duration(f * float64(time.Second)) }

func (c Config) RetryPolicy() retry.Policy {
	p := retry.DefaultPolicy()
	p.Base = seconds(c.RetryBase)
	p.Max = seconds(c.RetryMax)
	p.MaxElapsed = seconds(c.RetryMaxElapsed)
	p.MaxAttempts = c.RetryMaxAttempts
	return p
}

func (c Config) StagePacing() time.Duration {
	return time.Duration(c.StagePacingMS) * time.Millisecond
}
