// Package config loads the application configuration: provider credentials,
// per-workflow model overrides, and orchestration knobs. Configuration is a
// YAML file layered over defaults; environment variables fill credentials so
// keys stay out of files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	qerrors "github.com/hyper-light/quill/core/errors"
	"github.com/hyper-light/quill/core/providers"
)

// DefaultFileName is the config file looked up in the working directory and
// under the user config dir when no explicit path is given.
const DefaultFileName = "quill.yaml"

// Models holds per-workflow model overrides. Empty entries fall back to the
// provider's configured model.
type Models struct {
	Draft  string `yaml:"draft"`
	Review string `yaml:"review"`
	Figure string `yaml:"figure"`
}

// Workflow holds the orchestration knobs.
type Workflow struct {
	// MaxReviewIterations caps the critique/refine loop.
	MaxReviewIterations int `yaml:"max_review_iterations"`

	// ToolRetries bounds retries on recognized tool routing failures.
	ToolRetries int `yaml:"tool_retries"`

	// SearchLimit caps literature results fetched per topic.
	SearchLimit int `yaml:"search_limit"`

	// RetractionIndexPath points at the retraction notice dataset directory.
	RetractionIndexPath string `yaml:"retraction_index_path"`
}

// Config is the full application configuration.
type Config struct {
	Provider providers.Config `yaml:"provider"`
	Models   Models           `yaml:"models"`
	Workflow Workflow         `yaml:"workflow"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Provider: providers.DefaultConfig(providers.ProviderNameAnthropic),
		Workflow: Workflow{
			MaxReviewIterations: 3,
			ToolRetries:         3,
			SearchLimit:         3,
		},
	}
}

// Load reads the configuration at path, layered over defaults. An empty path
// searches the working directory, then the user config dir; a missing file
// is not an error and yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	resolved, explicit := resolvePath(path)
	if resolved == "" {
		cfg.applyEnv()
		return cfg, cfg.Validate()
	}

	raw, err := os.ReadFile(resolved)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			cfg.applyEnv()
			return cfg, cfg.Validate()
		}
		return nil, qerrors.Wrap(qerrors.CategoryConfig, "load", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return nil, qerrors.Wrap(
			qerrors.CategoryConfig,
			"load",
			fmt.Errorf("parse %s: %w", resolved, err),
		)
	}

	cfg.overlay(&fileCfg)
	cfg.applyEnv()

	return cfg, cfg.Validate()
}

// overlay layers the file's explicit settings over the defaults. Switching
// the provider name resets the provider block to that vendor's defaults
// before the file's own overrides apply.
func (c *Config) overlay(file *Config) {
	if file.Provider.Name != "" && file.Provider.Name != c.Provider.Name {
		c.Provider = providers.DefaultConfig(file.Provider.Name)
	}

	if file.Provider.APIKey != "" {
		c.Provider.APIKey = file.Provider.APIKey
	}
	if file.Provider.Model != "" {
		c.Provider.Model = file.Provider.Model
	}
	if file.Provider.BaseURL != "" {
		c.Provider.BaseURL = file.Provider.BaseURL
	}
	if file.Provider.MaxTokens != 0 {
		c.Provider.MaxTokens = file.Provider.MaxTokens
	}
	if file.Provider.Temperature != 0 {
		c.Provider.Temperature = file.Provider.Temperature
	}
	if file.Provider.EmbeddingModel != "" {
		c.Provider.EmbeddingModel = file.Provider.EmbeddingModel
	}

	if file.Models.Draft != "" {
		c.Models.Draft = file.Models.Draft
	}
	if file.Models.Review != "" {
		c.Models.Review = file.Models.Review
	}
	if file.Models.Figure != "" {
		c.Models.Figure = file.Models.Figure
	}

	if file.Workflow.MaxReviewIterations != 0 {
		c.Workflow.MaxReviewIterations = file.Workflow.MaxReviewIterations
	}
	if file.Workflow.ToolRetries != 0 {
		c.Workflow.ToolRetries = file.Workflow.ToolRetries
	}
	if file.Workflow.SearchLimit != 0 {
		c.Workflow.SearchLimit = file.Workflow.SearchLimit
	}
	if file.Workflow.RetractionIndexPath != "" {
		c.Workflow.RetractionIndexPath = file.Workflow.RetractionIndexPath
	}
}

// resolvePath finds the config file to read. The second return reports
// whether the caller named it explicitly.
func resolvePath(path string) (string, bool) {
	if path != "" {
		return path, true
	}

	if _, err := os.Stat(DefaultFileName); err == nil {
		return DefaultFileName, false
	}

	if dir, err := os.UserConfigDir(); err == nil {
		candidate := filepath.Join(dir, "quill", DefaultFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, false
		}
	}

	return "", false
}

// applyEnv fills credentials from the environment. A key already set in the
// file wins.
func (c *Config) applyEnv() {
	if c.Provider.APIKey != "" {
		return
	}

	switch c.Provider.Name {
	case providers.ProviderNameAnthropic:
		c.Provider.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case providers.ProviderNameOpenAI:
		c.Provider.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}

// Validate rejects configurations the orchestrator cannot run with.
func (c *Config) Validate() error {
	if err := c.Provider.Validate(); err != nil {
		return qerrors.Wrap(qerrors.CategoryConfig, "validate", err)
	}

	if c.Workflow.MaxReviewIterations < 1 {
		return qerrors.New(
			qerrors.CategoryConfig,
			"validate",
			"max_review_iterations must be at least 1",
		)
	}

	return nil
}

// ModelFor returns the model for a workflow, falling back to the provider
// default.
func (c *Config) ModelFor(workflow string) string {
	var override string
	switch workflow {
	case "draft":
		override = c.Models.Draft
	case "review":
		override = c.Models.Review
	case "figure":
		override = c.Models.Figure
	}

	if override != "" {
		return override
	}

	return c.Provider.Model
}
