package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"asset_dir": "data/assets", "gemini_model": "gemini-1.5-pro", "port": 9090}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "data/assets", cfg.AssetDir)
	assert.Equal(t, "gemini-1.5-pro", cfg.GeminiModel)
	assert.Equal(t, 9090, cfg.Port)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{pas du json"), 0o644))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/cvforge")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("PORT", "8181")

	cfg := &Config{}
	cfg.FromEnv()
	assert.Equal(t, "postgres://localhost/cvforge", cfg.DatabaseURL)
	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, 8181, cfg.Port)
}

func TestFromEnvDoesNotOverrideExisting(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")

	cfg := &Config{APIKey: "explicit-key"}
	cfg.FromEnv()
	assert.Equal(t, "explicit-key", cfg.APIKey)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, (&Config{Port: 8080}).Validate())
	assert.NoError(t, (&Config{}).Validate())
	assert.Error(t, (&Config{Port: 70000}).Validate())
	assert.Error(t, (&Config{Port: -1}).Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{Port: 9090}
	merged := cfg.MergeWithDefaults(Config{
		AssetDir:    "data/assets",
		OutputDir:   "data/generated",
		GeminiModel: "gemini-1.5-flash",
		Port:        8080,
	})

	assert.Equal(t, 9090, merged.Port)
	assert.Equal(t, "data/assets", merged.AssetDir)
	assert.Equal(t, "data/generated", merged.OutputDir)
	assert.Equal(t, "gemini-1.5-flash", merged.GeminiModel)

	// The source config is untouched.
	assert.Empty(t, cfg.AssetDir)
}
