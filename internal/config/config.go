// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"` // optional; enables role lookup by user id
}

type RedisConfig struct {
	URL         string        `yaml:"url"` // optional; enables /route rate limiting
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db"`
	RouteLimit  int           `yaml:"route_limit"`  // requests per window per caller
	RouteWindow time.Duration `yaml:"route_window"` // fixed window size
}

type AIConfig struct {
	OpenAIKey        string        `yaml:"openai_key"`
	AnthropicKey     string        `yaml:"anthropic_key"`
	AnthropicBaseURL string        `yaml:"anthropic_base_url"`
	GoogleKey        string        `yaml:"google_key"`
	GeminiBaseURL    string        `yaml:"gemini_base_url"`
	OpenAIModel      string        `yaml:"openai_model"`
	AnthropicModel   string        `yaml:"anthropic_model"`
	GeminiModel      string        `yaml:"gemini_model"`
	MaxOutputTokens  int           `yaml:"max_output_tokens"`
	RequestTimeout   time.Duration `yaml:"request_timeout"` // per provider call
	FallbackOrder    []string      `yaml:"fallback_order"`  // fixed, category-independent
}

type TrainingConfig struct {
	ProviderTimeout time.Duration `yaml:"provider_timeout"` // per provider inside the training phase
	PhaseDelay      time.Duration `yaml:"phase_delay"`      // pacing between pipeline steps
}

type SecurityConfig struct {
	JWTSecret         string   `yaml:"jwt_secret"`         // optional; enables role claims on /route
	RedactionPatterns []string `yaml:"redaction_patterns"` // admin-role response redaction, ordered
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	AI       AIConfig       `yaml:"ai"`
	Training TrainingConfig `yaml:"training"`
	Security SecurityConfig `yaml:"security"`

	Runtime RuntimeConfig `yaml:"-"`
}

// DefaultRedactionPatterns is the documented admin-role redaction set:
// user-id references, email addresses, phone numbers, postal addresses.
// Regex redaction of free-form model output is a best-effort heuristic
// safety net, not a guarantee; the set is configuration, not code.
var DefaultRedactionPatterns = []string{
	`(?i)user id \d+`,
	`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`,
	`(?i)phone:\s*\S+`,
	`\+?\d[\d\s().-]{7,}\d`,
	`(?i)address:[^\n]+`,
}

// LoadConfig reads the YAML file (missing file is fine: defaults apply),
// then overlays provider credentials from the environment. Credentials
// are never required at startup; an absent key surfaces later as
// ProviderUnavailable on the affected adapter, not as a crash.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	if b, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// env overrides for provider credentials
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.AI.OpenAIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.AI.AnthropicKey = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		cfg.AI.GoogleKey = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}

	// defaults
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.AI.OpenAIModel == "" {
		cfg.AI.OpenAIModel = "gpt-4o"
	}
	if cfg.AI.AnthropicModel == "" {
		cfg.AI.AnthropicModel = "claude-3-5-sonnet-20241022"
	}
	if cfg.AI.GeminiModel == "" {
		cfg.AI.GeminiModel = "gemini-1.5-pro"
	}
	if cfg.AI.AnthropicBaseURL == "" {
		cfg.AI.AnthropicBaseURL = "https://api.anthropic.com"
	}
	if cfg.AI.MaxOutputTokens <= 0 {
		cfg.AI.MaxOutputTokens = 1000
	}
	if cfg.AI.RequestTimeout <= 0 {
		cfg.AI.RequestTimeout = 20 * time.Second
	}
	if len(cfg.AI.FallbackOrder) == 0 {
		cfg.AI.FallbackOrder = []string{"openai", "anthropic", "google"}
	}
	if cfg.Training.ProviderTimeout <= 0 {
		cfg.Training.ProviderTimeout = 15 * time.Second
	}
	if cfg.Training.PhaseDelay < 0 {
		cfg.Training.PhaseDelay = 0
	} else if cfg.Training.PhaseDelay == 0 {
		cfg.Training.PhaseDelay = 500 * time.Millisecond
	}
	if cfg.Redis.RouteLimit <= 0 {
		cfg.Redis.RouteLimit = 30
	}
	if cfg.Redis.RouteWindow <= 0 {
		cfg.Redis.RouteWindow = time.Minute
	}
	if len(cfg.Security.RedactionPatterns) == 0 {
		cfg.Security.RedactionPatterns = DefaultRedactionPatterns
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
