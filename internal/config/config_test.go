package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/mapchat/internal/config"
	"github.com/tigerroll/mapchat/internal/support/exception"
)

const testYAML = `
mapchat:
  logging:
    level: DEBUG
  database:
    path: /var/lib/mapchat/history.db
  llm:
    provider: ollama
    model: llama3.1
  chat:
    max_result_rows: 50
`

func TestNewConfig_Defaults(t *testing.T) {
	cfg := config.NewConfig()

	assert.Equal(t, "INFO", cfg.MapChat.Logging.Level)
	assert.Equal(t, "sqlite", cfg.MapChat.Database["type"])
	assert.Equal(t, ":8080", cfg.MapChat.HTTP.Address)
	assert.Equal(t, config.ProviderGemini, cfg.MapChat.LLM.Provider)
	assert.Equal(t, config.DefaultGeminiModel, cfg.MapChat.LLM.ModelName())
	assert.Equal(t, 6, cfg.MapChat.Chat.HistoryTurns)
	assert.False(t, cfg.MapChat.Chat.AllowUnsafeSQL)
	assert.Equal(t, "https://maps.googleapis.com/maps/api/place", cfg.MapChat.Places.BaseURL)
}

func TestLoadConfig_YAMLMergesOverDefaults(t *testing.T) {
	cfg, err := config.LoadConfig("", config.EmbeddedConfig(testYAML))
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", cfg.MapChat.Logging.Level)
	assert.Equal(t, "llama3.1", cfg.MapChat.LLM.Model)
	assert.Equal(t, 50, cfg.MapChat.Chat.MaxResultRows)
	// untouched keys keep their defaults
	assert.Equal(t, 6, cfg.MapChat.Chat.HistoryTurns)
	assert.Equal(t, "sqlite", cfg.MapChat.Database["type"])
	assert.Equal(t, "/var/lib/mapchat/history.db", cfg.MapChat.Database["path"])
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("LLM_API_KEY", "llm-secret")
	t.Setenv("GOOGLEMAPS_KEY", "maps-secret")
	t.Setenv("MAPCHAT_HTTP_ADDRESS", "127.0.0.1:9999")
	t.Setenv("MAPCHAT_CHAT_ALLOW_UNSAFE_SQL", "true")
	t.Setenv("MAPCHAT_DATABASE_PATH", "/tmp/override.db")

	cfg, err := config.LoadConfig("", config.EmbeddedConfig(testYAML))
	require.NoError(t, err)

	assert.Equal(t, "llm-secret", cfg.MapChat.LLM.APIKey)
	assert.Equal(t, "maps-secret", cfg.MapChat.Places.APIKey)
	assert.Equal(t, "127.0.0.1:9999", cfg.MapChat.HTTP.Address)
	assert.True(t, cfg.MapChat.Chat.AllowUnsafeSQL)
	assert.Equal(t, "/tmp/override.db", cfg.MapChat.Database["path"])
}

func TestLoadConfig_PlacesKeyPrefersExplicitName(t *testing.T) {
	t.Setenv("PLACES_API_KEY", "places-secret")
	t.Setenv("GOOGLEMAPS_KEY", "legacy-secret")

	cfg, err := config.LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "places-secret", cfg.MapChat.Places.APIKey)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("MAPCHAT_LLM_MODEL=gemini-test\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("MAPCHAT_LLM_MODEL") })

	cfg, err := config.LoadConfig(envFile, nil)
	require.NoError(t, err)
	assert.Equal(t, "gemini-test", cfg.MapChat.LLM.Model)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	_, err := config.LoadConfig("", config.EmbeddedConfig("mapchat: [unclosed"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, exception.ErrConfig))

	t.Setenv("MAPCHAT_CHAT_HISTORY_TURNS", "many")
	_, err = config.LoadConfig("", nil)
	require.Error(t, err)
	assert.Equal(t, exception.KindConfig, exception.KindOf(err))
}

func TestLLMConfig_Validate(t *testing.T) {
	assert.Error(t, config.LLMConfig{Provider: "gemini", Model: "m"}.Validate())
	assert.NoError(t, config.LLMConfig{Provider: "gemini", Model: "m", APIKey: "k"}.Validate())
	assert.NoError(t, config.LLMConfig{Provider: "ollama", Model: "llama3.1"}.Validate())
	assert.Error(t, config.LLMConfig{Provider: "openai", Model: "m", APIKey: "k"}.Validate())
	assert.NoError(t, config.LLMConfig{Provider: "ollama"}.Validate())
}

func TestLLMConfig_ModelName(t *testing.T) {
	assert.Equal(t, config.DefaultGeminiModel, config.LLMConfig{Provider: "gemini"}.ModelName())
	assert.Equal(t, config.DefaultOllamaModel, config.LLMConfig{Provider: "Ollama"}.ModelName())
	assert.Equal(t, "mistral", config.LLMConfig{Provider: "ollama", Model: "mistral"}.ModelName())
}

func TestPlacesAndExportConfig_Validate(t *testing.T) {
	assert.Error(t, config.PlacesConfig{BaseURL: "http://x"}.Validate())
	assert.NoError(t, config.PlacesConfig{APIKey: "k", BaseURL: "http://x"}.Validate())

	assert.NoError(t, config.ExportConfig{Type: "local", BaseDir: "out"}.Validate())
	assert.Error(t, config.ExportConfig{Type: "gcs"}.Validate())
	assert.Error(t, config.ExportConfig{Type: "s3", Bucket: "b"}.Validate())
}
