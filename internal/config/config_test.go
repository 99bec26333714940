package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"query": "best payment gateway for fintech startup",
		"api_key": "test-key",
		"search_engine_id": "cx-123",
		"max_parallel": 4,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "best payment gateway for fintech startup", cfg.Query)
	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, "cx-123", cfg.SearchEngineID)
	assert.Equal(t, 4, cfg.MaxParallel)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	cfg := &Config{MaxParallel: 3}
	assert.NoError(t, cfg.Validate())

	cfg = &Config{MaxParallel: -1}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_parallel")
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{
		Query:  "evaluate CDN providers",
		APIKey: "from-config",
	}

	defaults := Config{
		Query:        "ignored",
		APIKey:       "ignored",
		SearchAPIKey: "default-search-key",
		MaxParallel:  3,
		ListenAddr:   ":8080",
	}

	merged := cfg.MergeWithDefaults(defaults)

	// Set values win
	assert.Equal(t, "evaluate CDN providers", merged.Query)
	assert.Equal(t, "from-config", merged.APIKey)

	// Empty values fall back to defaults
	assert.Equal(t, "default-search-key", merged.SearchAPIKey)
	assert.Equal(t, 3, merged.MaxParallel)
	assert.Equal(t, ":8080", merged.ListenAddr)
}
