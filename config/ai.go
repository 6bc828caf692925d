package config

import (
	"strings"
	"time"

	"github.com/habiliai/recallhub/errors"
)

type AIConfig struct {
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	XAIAPIKey       string `env:"XAI_API_KEY"`

	// CompatAPIKey and CompatBaseURL register an extra OpenAI compatible
	// provider named "compat" (OpenRouter, SiliconFlow, a local server...)
	CompatAPIKey  string `env:"OPENAI_COMPAT_API_KEY"`
	CompatBaseURL string `env:"OPENAI_COMPAT_BASE_URL"`

	// GenerationModel is "<provider>/<model>" and is used by the content
	// classifier and the query intent analyzer
	GenerationModel string `env:"GENERATION_MODEL" envDefault:"openai/gpt-4o-mini"`

	// EmbeddingModel is "<provider>/<model>"
	EmbeddingModel string `env:"EMBEDDING_MODEL" envDefault:"openai/text-embedding-3-small"`

	// ModelTimeout bounds every single generation or embedding call
	ModelTimeout time.Duration `env:"MODEL_TIMEOUT" envDefault:"30s"`
}

func (c *AIConfig) Validate() error {
	if !strings.Contains(c.GenerationModel, "/") {
		return errors.Wrapf(errors.ErrInvalidConfig, "generation model must be <provider>/<model>, got %q", c.GenerationModel)
	}
	if !strings.Contains(c.EmbeddingModel, "/") {
		return errors.Wrapf(errors.ErrInvalidConfig, "embedding model must be <provider>/<model>, got %q", c.EmbeddingModel)
	}
	if c.ModelTimeout <= 0 {
		return errors.Wrapf(errors.ErrInvalidConfig, "model timeout must be positive")
	}
	return nil
}

// HasProvider reports whether at least one model provider has credentials.
func (c *AIConfig) HasProvider() bool {
	return c.OpenAIAPIKey != "" || c.AnthropicAPIKey != "" || c.XAIAPIKey != "" || c.CompatAPIKey != ""
}
