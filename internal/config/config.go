package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	Port      string `yaml:"port"`
	Env       string `yaml:"env"`
	LogLevel  string `yaml:"log_level"`
	DBPath    string `yaml:"db_path"`
	JWTSecret string `yaml:"jwt_secret"`

	Dataset   DatasetConfig   `yaml:"dataset"`
	Cluster   ClusterConfig   `yaml:"cluster"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	OTEL      OTELConfig      `yaml:"otel"`
}

// DatasetConfig locates the persisted dataset and the rendered plot
type DatasetConfig struct {
	Path     string `yaml:"path"`
	PlotPath string `yaml:"plot_path"`
}

// ClusterConfig holds clustering pipeline parameters
type ClusterConfig struct {
	K       int   `yaml:"k"`
	Seed    int64 `yaml:"seed"`
	NInit   int   `yaml:"n_init"`
	MaxIter int   `yaml:"max_iter"`
}

// GeminiConfig holds text-generation collaborator settings
type GeminiConfig struct {
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	Endpoint    string        `yaml:"endpoint"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxAttempts int           `yaml:"max_attempts"`
}

// RedisConfig holds suggestion cache settings. An empty Addr selects the in-memory cache.
type RedisConfig struct {
	Addr          string        `yaml:"addr"`
	Password      string        `yaml:"password"`
	DB            int           `yaml:"db"`
	SuggestionTTL time.Duration `yaml:"suggestion_ttl"`
}

// RateLimitConfig limits requests per client IP
type RateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// OTELConfig holds OpenTelemetry tracing settings
type OTELConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
}

// DefaultJWTSecret is the development signing key. Production refuses to start with it.
const DefaultJWTSecret = "your-secret-key-change-in-production"

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Port:      ":8080",
		Env:       "development",
		LogLevel:  "info",
		DBPath:    "./data/carbon.db",
		JWTSecret: DefaultJWTSecret,
		Dataset: DatasetConfig{
			Path:     "./data/user_data.csv",
			PlotPath: "./static/cluster_plot.png",
		},
		Cluster: ClusterConfig{
			K:       3,
			Seed:    42,
			NInit:   10,
			MaxIter: 300,
		},
		Gemini: GeminiConfig{
			Model:       "gemini-1.5-flash-latest",
			Endpoint:    "https://generativelanguage.googleapis.com/v1beta/models",
			Timeout:     30 * time.Second,
			MaxAttempts: 2,
		},
		Redis: RedisConfig{
			SuggestionTTL: 24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Requests: 60,
			Window:   time.Minute,
		},
		OTEL: OTELConfig{
			ServiceName: "carbon-footprint-backend",
		},
	}
}

// Load 加载配置: defaults overridden by environment variables
func Load() *Config {
	cfg := Default()
	applyEnv(cfg)
	return cfg
}

// LoadFile loads defaults, then the YAML file at path (if any), then environment overrides
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads variables from .env files into the process environment.
// Missing files are ignored; variables already set are not overwritten.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		_ = godotenv.Load(f)
	}
}

// Validate rejects settings the pipeline cannot run with
func (c *Config) Validate() error {
	if c.Cluster.K < 1 {
		return fmt.Errorf("cluster.k must be positive, got %d", c.Cluster.K)
	}
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset.path is required")
	}
	if c.Dataset.PlotPath == "" {
		return fmt.Errorf("dataset.plot_path is required")
	}
	if c.Env == "production" && (c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret) {
		return fmt.Errorf("JWT_SECRET must be set to a non-default value in production")
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Env = getEnv("ENV", cfg.Env)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)

	cfg.Dataset.Path = getEnv("DATASET_PATH", cfg.Dataset.Path)
	cfg.Dataset.PlotPath = getEnv("PLOT_PATH", cfg.Dataset.PlotPath)

	cfg.Cluster.K = getEnvAsInt("CLUSTER_K", cfg.Cluster.K)
	cfg.Cluster.Seed = int64(getEnvAsInt("CLUSTER_SEED", int(cfg.Cluster.Seed)))
	cfg.Cluster.NInit = getEnvAsInt("CLUSTER_N_INIT", cfg.Cluster.NInit)
	cfg.Cluster.MaxIter = getEnvAsInt("CLUSTER_MAX_ITER", cfg.Cluster.MaxIter)

	cfg.Gemini.APIKey = getEnv("GEMINI_API_KEY", cfg.Gemini.APIKey)
	cfg.Gemini.Model = getEnv("GEMINI_MODEL", cfg.Gemini.Model)
	cfg.Gemini.Endpoint = getEnv("GEMINI_ENDPOINT", cfg.Gemini.Endpoint)
	cfg.Gemini.Timeout = getEnvAsDuration("GEMINI_TIMEOUT", cfg.Gemini.Timeout)
	cfg.Gemini.MaxAttempts = getEnvAsInt("GEMINI_MAX_ATTEMPTS", cfg.Gemini.MaxAttempts)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.SuggestionTTL = getEnvAsDuration("SUGGESTION_CACHE_TTL", cfg.Redis.SuggestionTTL)

	cfg.RateLimit.Requests = getEnvAsInt("RATE_LIMIT", cfg.RateLimit.Requests)
	cfg.RateLimit.Window = getEnvAsDuration("RATE_WINDOW", cfg.RateLimit.Window)

	cfg.OTEL.Enabled = getEnvAsBool("OTEL_ENABLED", cfg.OTEL.Enabled)
	cfg.OTEL.Endpoint = getEnv("OTEL_ENDPOINT", cfg.OTEL.Endpoint)
	cfg.OTEL.ServiceName = getEnv("OTEL_SERVICE_NAME", cfg.OTEL.ServiceName)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
