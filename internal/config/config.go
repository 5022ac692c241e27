package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration for the planner service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Platform PlatformConfig `yaml:"platform"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Planner  PlannerConfig  `yaml:"planner"`
	SeedPath string         `yaml:"seedPath"`
}

type HTTPConfig struct {
	Port              string          `yaml:"port"`
	ReadHeaderTimeout time.Duration   `yaml:"readHeaderTimeout"`
	ReadTimeout       time.Duration   `yaml:"readTimeout"`
	WriteTimeout      time.Duration   `yaml:"writeTimeout"`
	IdleTimeout       time.Duration   `yaml:"idleTimeout"`
	RateLimit         RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the per-client token bucket middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// RedisConfig enables the device snapshot cache when URL is set.
type RedisConfig struct {
	URL       string        `yaml:"url"`
	DeviceTTL time.Duration `yaml:"deviceTtl"`
	KeyPrefix string        `yaml:"keyPrefix"`
}

// PlatformConfig points at the upstream device API. Empty BaseURL disables it.
type PlatformConfig struct {
	BaseURL string        `yaml:"baseUrl"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// KafkaConfig enables plan event publishing when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// PlannerConfig holds the defaults applied to requests that omit them.
type PlannerConfig struct {
	WeightDistance    float64 `yaml:"weightDistance"`
	WeightCriticality float64 `yaml:"weightCriticality"`
	WeightAirQloud    float64 `yaml:"weightAirQloud"`
	BufferKm          float64 `yaml:"bufferKm"`
	MaxStops          int     `yaml:"maxStops"`
}

// Load reads configuration from an optional YAML file and environment variables.
// Environment variables win over file values.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := Get("CONFIG_PATH", ""); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: invalid config: %w", err)
	}

	return cfg, nil
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Port:              "8080",
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             20,
			},
		},
		Redis: RedisConfig{
			DeviceTTL: 5 * time.Minute,
			KeyPrefix: "maintenance",
		},
		Platform: PlatformConfig{
			Timeout: 10 * time.Second,
		},
		Kafka: KafkaConfig{
			Topic: "maintenance.plans",
		},
		Planner: PlannerConfig{
			WeightDistance:    0.4,
			WeightCriticality: 0.4,
			WeightAirQloud:    0.2,
			BufferKm:          10,
		},
		SeedPath: "data/seeds/devices.json",
	}
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("load config: parse %q: %w", path, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.HTTP.Port = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("REDIS_DEVICE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Redis.DeviceTTL = parsed
		}
	}
	if v := os.Getenv("PLATFORM_API_URL"); v != "" {
		cfg.Platform.BaseURL = v
	}
	if v := os.Getenv("PLATFORM_API_TOKEN"); v != "" {
		cfg.Platform.Token = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	if v := os.Getenv("KAFKA_PLAN_TOPIC"); v != "" {
		cfg.Kafka.Topic = v
	}
	if v := os.Getenv("PLANNER_WEIGHT_DISTANCE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Planner.WeightDistance = parsed
		}
	}
	if v := os.Getenv("PLANNER_WEIGHT_CRITICALITY"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Planner.WeightCriticality = parsed
		}
	}
	if v := os.Getenv("PLANNER_WEIGHT_AIRQLOUD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Planner.WeightAirQloud = parsed
		}
	}
	if v := os.Getenv("PLANNER_BUFFER_KM"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Planner.BufferKm = parsed
		}
	}
	if v := os.Getenv("PLANNER_MAX_STOPS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Planner.MaxStops = parsed
		}
	}
	if v := os.Getenv("SEED_PATH"); v != "" {
		cfg.SeedPath = v
	}
}

// Validate checks invariants the server relies on at startup.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.HTTP.Port) == "" {
		return errors.New("http port is required")
	}
	if c.HTTP.RateLimit.Enabled && c.HTTP.RateLimit.RequestsPerMinute <= 0 {
		return errors.New("rate limit requestsPerMinute must be positive when enabled")
	}
	if c.Planner.BufferKm < 0 {
		return errors.New("planner bufferKm must be >= 0")
	}
	if c.Planner.MaxStops < 0 {
		return errors.New("planner maxStops must be >= 0")
	}
	if len(c.Kafka.Brokers) > 0 && strings.TrimSpace(c.Kafka.Topic) == "" {
		return errors.New("kafka topic is required when brokers are set")
	}
	return nil
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
