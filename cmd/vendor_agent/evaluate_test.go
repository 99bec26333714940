package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateCommand_MissingQuery(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "evaluate")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "a query is required")
}

func TestEvaluateCommand_MissingAPIKey(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "evaluate",
		"best payment gateway for an Indian fintech startup")
	cmd.Env = withoutEnv("GEMINI_API_KEY")

	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "GEMINI_API_KEY environment variable or --api-key flag is required")
}

func TestEvaluateCommand_MissingSearchCredentials(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "evaluate",
		"best payment gateway for an Indian fintech startup",
		"--api-key", "dummy-key")
	cmd.Env = withoutEnv("SEARCH_API_KEY", "SEARCH_ENGINE_ID")

	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "SEARCH_API_KEY environment variable or --search-api-key flag is required")
}

func TestEvaluateCommand_ConfigFileQuery(t *testing.T) {
	binaryPath := getBinaryPath(t)

	// A config file supplies the query; the run still fails on missing
	// credentials, proving the config loaded.
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")
	require.NoError(t, os.WriteFile(configPath,
		[]byte(`{"query": "best error tracking tool for a Django monolith"}`), 0o644))

	cmd := exec.Command(binaryPath, "evaluate", "--config", configPath)
	cmd.Env = withoutEnv("GEMINI_API_KEY")

	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.NotContains(t, string(output), "a query is required")
	assert.Contains(t, string(output), "GEMINI_API_KEY")
}

func TestEvaluateCommand_InvalidConfigPath(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "evaluate", "--config", "does-not-exist.json")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "failed to load config")
}
