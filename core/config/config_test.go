package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyper-light/quill/core/config"
	qerrors "github.com/hyper-light/quill/core/errors"
	"github.com/hyper-light/quill/core/providers"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "quill.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoad_LayersFileOverDefaults(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	path := writeConfig(t, `
provider:
  name: openai
  api_key: test-key
  base_url: http://localhost:11434/v1
models:
  review: strict-review-model
workflow:
  max_review_iterations: 5
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, providers.ProviderNameOpenAI, cfg.Provider.Name)
	assert.Equal(t, "http://localhost:11434/v1", cfg.Provider.BaseURL)
	assert.Equal(t, 5, cfg.Workflow.MaxReviewIterations)

	// Unset knobs keep their defaults.
	defaults := config.Default()
	assert.Equal(t, defaults.Workflow.ToolRetries, cfg.Workflow.ToolRetries)
	assert.Equal(t, defaults.Workflow.SearchLimit, cfg.Workflow.SearchLimit)
	assert.NotEmpty(t, cfg.Provider.Model)
	assert.NotEmpty(t, cfg.Provider.EmbeddingModel)
}

func TestLoad_EnvFillsMissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "from-env")

	path := writeConfig(t, `
provider:
  name: openai
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Provider.APIKey)
}

func TestLoad_MalformedYAMLIsConfigError(t *testing.T) {
	path := writeConfig(t, "provider: [not: a: mapping")

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Equal(t, qerrors.CategoryConfig, qerrors.CategoryOf(err))
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestModelFor_FallsBackToProviderModel(t *testing.T) {
	cfg := config.Default()
	cfg.Provider.Model = "base-model"
	cfg.Models.Review = "review-model"

	assert.Equal(t, "review-model", cfg.ModelFor("review"))
	assert.Equal(t, "base-model", cfg.ModelFor("draft"))
	assert.Equal(t, "base-model", cfg.ModelFor("unknown"))
}
