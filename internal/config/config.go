package config

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/Abdurahmanit/GroupProject/directory-service/internal/platform/logger"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type HTTPServerConfig struct {
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// BackendConfig points at the external REST API.
type BackendConfig struct {
	BaseURL        string        `yaml:"base_url" env:"BACKEND_BASE_URL" env-default:"http://localhost:8000/api"`
	Token          string        `yaml:"token" env:"BACKEND_TOKEN"`
	UserHeader     string        `yaml:"user_header" env:"BACKEND_USER_HEADER" env-default:"X-User-ID"`
	Timeout        time.Duration `yaml:"timeout" env:"BACKEND_TIMEOUT" env-default:"10s"`
	BusinessPath   string        `yaml:"business_path" env:"BACKEND_BUSINESS_PATH" env-default:"businesses/"`
	JobPath        string        `yaml:"job_path" env:"BACKEND_JOB_PATH" env-default:"jobs/"`
	CategoriesPath string        `yaml:"categories_path" env:"BACKEND_CATEGORIES_PATH" env-default:"categories/"`
}

type StoreConfig struct {
	// DisableFallback turns failed fetches into OutcomeFailed instead of
	// substituting the built-in sample collection.
	DisableFallback     bool `yaml:"disable_fallback" env:"STORE_DISABLE_FALLBACK"`
	DiscardStaleFetches bool `yaml:"discard_stale_fetches" env:"STORE_DISCARD_STALE_FETCHES" env-default:"false"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type SessionConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"JWT_SECRET" env-default:"your-secret-key"`
	TTL       time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"168h"`
}

type CategoryCacheConfig struct {
	TTL time.Duration `yaml:"ttl" env:"CATEGORY_CACHE_TTL" env-default:"12h"`
}

// NATSConfig leaves event publishing off when URL is empty.
type NATSConfig struct {
	URL           string `yaml:"url" env:"NATS_URL"`
	SubjectPrefix string `yaml:"subject_prefix" env:"NATS_SUBJECT_PREFIX" env-default:"directory"`
}

type MetricsConfig struct {
	Port string `yaml:"port" env:"PROMETHEUS_METRICS_PORT" env-default:"9095"`
}

type TracingConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

type Config struct {
	ServiceName   string              `yaml:"service_name" env:"SERVICE_NAME" env-default:"directory-service"`
	Env           string              `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer    HTTPServerConfig    `yaml:"http_server"`
	Backend       BackendConfig       `yaml:"backend"`
	Store         StoreConfig         `yaml:"store"`
	Redis         RedisConfig         `yaml:"redis"`
	Session       SessionConfig       `yaml:"session"`
	CategoryCache CategoryCacheConfig `yaml:"category_cache"`
	NATS          NATSConfig          `yaml:"nats"`
	Metrics       MetricsConfig       `yaml:"metrics"`
	Tracing       TracingConfig       `yaml:"tracing"`
	Logger        logger.LoggerConfig `yaml:"logger"`
}

// LoadConfig reads path if it exists and falls back to the environment.
// An empty path means environment only.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			log.Printf("Warning: config file not found at %s, loading from environment variables only.", path)
			if errEnv := cleanenv.ReadEnv(&cfg); errEnv != nil {
				return nil, errEnv
			}
			return &cfg, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH_DIRECTORY_SERVICE")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	if cfg.Session.JWTSecret == "your-secret-key" {
		log.Println("Warning: JWT_SECRET is set to its default insecure value.")
	}
	return cfg
}
