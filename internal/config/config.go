package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 3340
	defaultEnv        = "development"
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int         `yaml:"port"`
	DSN            string      `yaml:"dsn"` // MySQL DSN
	RedisURL       string      `yaml:"redis_url"`
	Env            string      `yaml:"env"` // "development" | "production"
	AllowedOrigins []string    `yaml:"allowed_origins"`
	JWTSecret      string      `yaml:"jwt_secret"`
	AI             AIConfig    `yaml:"ai"`
	Mux            MuxConfig   `yaml:"mux"`
	Tutor          TutorConfig `yaml:"tutor"`
}

// AIConfig selects and configures the text-generation provider.
type AIConfig struct {
	Type     string `yaml:"type"` // "openai" | "anthropic" | "openai-compatible"
	APIKey   string `yaml:"api_key"`
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
}

// MuxConfig holds Mux Video API credentials for transcript access.
type MuxConfig struct {
	TokenID     string `yaml:"token_id"`
	TokenSecret string `yaml:"token_secret"`
}

// TutorConfig bounds the cost of the AI tutor pipeline.
type TutorConfig struct {
	AskLimit            int    `yaml:"ask_limit"`             // questions per user per window
	AskWindowSeconds    int    `yaml:"ask_window_seconds"`    // fixed-window duration
	HistoryWindow       int    `yaml:"history_window"`        // prior turns sent per request
	MaxSourceChars      int    `yaml:"max_source_chars"`      // transcript cap before hashing/summarizing
	MaxDescriptionChars int    `yaml:"max_description_chars"` // description fallback cap
	SummaryMaxTokens    int    `yaml:"summary_max_tokens"`
	AnswerMaxTokens     int    `yaml:"answer_max_tokens"`
	PreferredLanguage   string `yaml:"preferred_language"`
}

// AskWindow returns the ask rate-limit window as a duration.
func (t TutorConfig) AskWindow() time.Duration {
	return time.Duration(t.AskWindowSeconds) * time.Second
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env != "production" }

// Load reads the YAML config file, applies environment overrides,
// then fills defaults. A missing file is not an error: env-only setups
// (containers) are supported.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// fall through to env + defaults
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if cfg.DSN == "" {
		return nil, fmt.Errorf("database dsn is required (config `dsn` or env DATABASE_DSN)")
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.DSN = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("AI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && cfg.AI.APIKey == "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("MUX_TOKEN_ID"); v != "" {
		cfg.Mux.TokenID = v
	}
	if v := os.Getenv("MUX_TOKEN_SECRET"); v != "" {
		cfg.Mux.TokenSecret = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		cfg.AllowedOrigins = origins
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = "redis://localhost:6379/0"
	}
	if cfg.AI.Type == "" {
		cfg.AI.Type = "openai"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gpt-4o-mini"
	}

	t := &cfg.Tutor
	if t.AskLimit == 0 {
		t.AskLimit = 20
	}
	if t.AskWindowSeconds == 0 {
		t.AskWindowSeconds = 60
	}
	if t.HistoryWindow == 0 {
		t.HistoryWindow = 14
	}
	if t.MaxSourceChars == 0 {
		t.MaxSourceChars = 20000
	}
	if t.MaxDescriptionChars == 0 {
		t.MaxDescriptionChars = 4000
	}
	if t.SummaryMaxTokens == 0 {
		t.SummaryMaxTokens = 280
	}
	if t.AnswerMaxTokens == 0 {
		t.AnswerMaxTokens = 350
	}
	if t.PreferredLanguage == "" {
		t.PreferredLanguage = "en"
	}
}
