package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/TushantKaura1/ai-micro-motivation/pkg/config"
)

const DefaultUserID = "default_user_123"

type LLMConfig struct {
	Provider       string  `yaml:"provider"` // openai | ollama | anthropic | gemini | none
	Model          string  `yaml:"model"`
	APIKey         string  `yaml:"api_key"`
	BaseURL        string  `yaml:"base_url"`
	MaxTokens      int     `yaml:"max_tokens"`
	Temperature    float32 `yaml:"temperature"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type AuthConfig struct {
	SingleUser    bool   `yaml:"single_user"`
	DefaultUserID string `yaml:"default_user_id"`
}

type LimitsConfig struct {
	// generator calls per user per minute; 0 disables the limit
	NarrativePerMinute int `yaml:"narrative_per_minute"`
	DigestCacheMinutes int `yaml:"digest_cache_minutes"`
}

type Config struct {
	Server config.ServerConfig `yaml:"server"`
	Store  config.StoreConfig  `yaml:"store"`
	DB     config.DBConfig     `yaml:"db"`
	Redis  config.RedisConfig  `yaml:"redis"`
	MQ     config.MQConfig     `yaml:"mq"`
	JWT    config.JWTConfig    `yaml:"jwt"`
	LLM    LLMConfig           `yaml:"llm"`
	Auth   AuthConfig          `yaml:"auth"`
	Limits LimitsConfig        `yaml:"limits"`
	Otel   config.OtelConfig   `yaml:"otel"`
}

// Default returns the configuration used when config.yaml sets nothing
func Default() *Config {
	return &Config{
		Server: config.ServerConfig{Port: ":5000", Mode: "release"},
		Store:  config.StoreConfig{Driver: "sqlite", SQLitePath: "data/motivation.db"},
		DB:     config.DBConfig{Host: "localhost", Port: 5432, User: "postgres", Name: "motivation", SSLMode: "disable"},
		JWT:    config.JWTConfig{TTLHours: 720},
		LLM: LLMConfig{
			Provider:       "openai",
			Model:          "gpt-3.5-turbo",
			MaxTokens:      150,
			Temperature:    0.7,
			TimeoutSeconds: 15,
		},
		Auth:   AuthConfig{DefaultUserID: DefaultUserID},
		Limits: LimitsConfig{NarrativePerMinute: 20, DigestCacheMinutes: 10},
		Otel:   config.OtelConfig{ServiceName: "ai-micro-motivation"},
	}
}

// Load reads .env, then path, then environment overrides
func Load(path string) (*Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := config.LoadYAML(path, cfg); err != nil {
		return nil, err
	}

	config.OverrideServerFromEnv(&cfg.Server)
	config.OverrideStoreFromEnv(&cfg.Store)
	config.OverrideDBFromEnv(&cfg.DB)
	config.OverrideRedisFromEnv(&cfg.Redis)
	config.OverrideMQFromEnv(&cfg.MQ)
	config.OverrideJWTFromEnv(&cfg.JWT)
	config.OverrideOtelFromEnv(&cfg.Otel)
	overrideLLMFromEnv(&cfg.LLM)
	overrideAuthFromEnv(&cfg.Auth)
	cfg.Limits.NarrativePerMinute = config.GetEnvInt("NARRATIVE_PER_MINUTE", cfg.Limits.NarrativePerMinute)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is required (jwt.secret or JWT_SECRET)")
	}
	switch c.Store.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported store driver: %q", c.Store.Driver)
	}
	if c.Auth.SingleUser && c.Auth.DefaultUserID == "" {
		c.Auth.DefaultUserID = DefaultUserID
	}
	return nil
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.TTLHours) * time.Hour
}

func overrideLLMFromEnv(cfg *LLMConfig) {
	cfg.Provider = config.GetEnv("LLM_PROVIDER", cfg.Provider)
	cfg.Model = config.GetEnv("LLM_MODEL", config.GetEnv("AI_MODEL", cfg.Model))
	cfg.BaseURL = config.GetEnv("LLM_BASE_URL", cfg.BaseURL)
	if key := os.Getenv("LLM_API_KEY"); key != "" {
		cfg.APIKey = key
	} else if key := os.Getenv("OPENAI_API_KEY"); key != "" && cfg.APIKey == "" {
		cfg.APIKey = key
	}
	cfg.MaxTokens = config.GetEnvInt("MAX_TOKENS", cfg.MaxTokens)
	cfg.TimeoutSeconds = config.GetEnvInt("LLM_TIMEOUT_SECONDS", cfg.TimeoutSeconds)
}

func overrideAuthFromEnv(cfg *AuthConfig) {
	cfg.SingleUser = config.GetEnvBool("SINGLE_USER", cfg.SingleUser)
	cfg.DefaultUserID = config.GetEnv("DEFAULT_USER_ID", cfg.DefaultUserID)
}
