package providers

import "fmt"

// Config selects and parameterizes a provider adapter. Configuration is
// always passed in explicitly; library code never reads or mutates process
// environment.
type Config struct {
	// Name selects the adapter: "anthropic" or "openai".
	Name string `yaml:"name"`

	// APIKey authenticates against the vendor. Local OpenAI-compatible
	// endpoints accept any non-empty value.
	APIKey string `yaml:"api_key"`

	// Model is the default model identifier.
	Model string `yaml:"model"`

	// BaseURL overrides the vendor endpoint; this is how local
	// OpenAI-compatible servers (Ollama and friends) are reached.
	BaseURL string `yaml:"base_url,omitempty"`

	// MaxTokens caps generation length.
	MaxTokens int `yaml:"max_tokens"`

	// Temperature is the default sampling temperature.
	Temperature float64 `yaml:"temperature"`

	// EmbeddingModel names the embedding model for similarity retrieval.
	EmbeddingModel string `yaml:"embedding_model,omitempty"`
}

// DefaultConfig returns sensible defaults for the given adapter name.
func DefaultConfig(name string) Config {
	cfg := Config{
		Name:           name,
		MaxTokens:      8192,
		Temperature:    0.7,
		EmbeddingModel: "text-embedding-3-small",
	}
	switch name {
	case ProviderNameAnthropic:
		cfg.Model = "claude-sonnet-4-5-20250901"
	case ProviderNameOpenAI:
		cfg.Model = "gpt-5.2-codex"
	}
	return cfg
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("provider name is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("api_key is required")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	return nil
}

const (
	ProviderNameAnthropic = "anthropic"
	ProviderNameOpenAI    = "openai"
)

// New constructs the adapter selected by the configuration.
func New(cfg Config) (Provider, error) {
	switch cfg.Name {
	case ProviderNameAnthropic:
		return NewAnthropicProvider(cfg)
	case ProviderNameOpenAI:
		return NewOpenAIProvider(cfg)
	}
	return nil, fmt.Errorf("unknown provider %q", cfg.Name)
}
