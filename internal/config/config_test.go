package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Valid(t *testing.T) {
	path := writeConfig(t, `{"api_key": "key", "port": 9090, "verbose": true}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	require.Error(t, err)
}

func TestLoadConfig_BadJSON(t *testing.T) {
	path := writeConfig(t, `{"api_key": `)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestValidate_PortRange(t *testing.T) {
	cfg := &Config{Port: 70000}
	require.Error(t, cfg.Validate())

	cfg.Port = 8080
	assert.NoError(t, cfg.Validate())
}

func TestValidate_SearchKeyRequiresEngineID(t *testing.T) {
	cfg := &Config{SearchAPIKey: "key"}
	require.Error(t, cfg.Validate())

	cfg.SearchEngineID = "cx"
	assert.NoError(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{APIKey: "from-file"}
	merged := cfg.MergeWithDefaults(Config{
		APIKey:      "from-env",
		DatabaseURL: "postgres://localhost/opt",
		Port:        9000,
	})

	assert.Equal(t, "from-file", merged.APIKey, "file value wins")
	assert.Equal(t, "postgres://localhost/opt", merged.DatabaseURL)
	assert.Equal(t, 9000, merged.Port)
}

func TestMergeWithDefaults_PortFallback(t *testing.T) {
	merged := (&Config{}).MergeWithDefaults(Config{})
	assert.Equal(t, 8080, merged.Port)
}
