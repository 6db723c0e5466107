// Package config provides application configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v9"
)

const (
	ProviderLocal  = "local"
	ProviderOpenAI = "openai"
)

type Config struct {
	Port   string `env:"PORT" envDefault:"8100"`
	DBPath string `env:"DB_PATH" envDefault:"assistant.db"`

	// ChatProvider selects the response strategy for the process: "local"
	// for the offline keyword matcher, "openai" for an OpenAI-compatible
	// endpoint (including DeepSeek via ChatBaseURL).
	ChatProvider string `env:"CHAT_PROVIDER" envDefault:"local"`
	ChatAPIKey   string `env:"CHAT_API_KEY"`
	ChatBaseURL  string `env:"CHAT_BASE_URL"`
	ChatModel    string `env:"CHAT_MODEL" envDefault:"gpt-4o"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}

	if cfg.ChatProvider != ProviderLocal && cfg.ChatProvider != ProviderOpenAI {
		return nil, fmt.Errorf("unknown CHAT_PROVIDER %q", cfg.ChatProvider)
	}

	return cfg, nil
}
