package config

import (
	"strings"

	"github.com/tigerroll/mapchat/internal/support/exception"
)

const (
	// ProviderGemini selects the hosted Gemini API.
	ProviderGemini = "gemini"
	// ProviderOllama selects a local Ollama server.
	ProviderOllama = "ollama"

	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultOllamaModel = "llama3.1"
)

// ModelName returns the configured model, or the default for the provider.
func (c LLMConfig) ModelName() string {
	if c.Model != "" {
		return c.Model
	}
	if strings.ToLower(c.Provider) == ProviderOllama {
		return DefaultOllamaModel
	}
	return DefaultGeminiModel
}

// Validate checks the LLM settings. The hosted provider needs a credential.
func (c LLMConfig) Validate() error {
	switch strings.ToLower(c.Provider) {
	case ProviderGemini:
		if c.APIKey == "" {
			return exception.New(exception.KindConfig, moduleName, "LLM_API_KEY is required for the gemini provider", nil)
		}
	case ProviderOllama:
	default:
		return exception.Newf(exception.KindConfig, moduleName, "unknown llm provider %q", c.Provider)
	}
	return nil
}

// Validate checks the Places settings.
func (c PlacesConfig) Validate() error {
	if c.APIKey == "" {
		return exception.New(exception.KindConfig, moduleName, "PLACES_API_KEY is required to enrich places", nil)
	}
	if c.BaseURL == "" {
		return exception.New(exception.KindConfig, moduleName, "places base_url must not be empty", nil)
	}
	return nil
}

// Validate checks the export sink settings.
func (c ExportConfig) Validate() error {
	switch c.Type {
	case "local":
		if c.BaseDir == "" {
			return exception.New(exception.KindConfig, moduleName, "export base_dir must not be empty", nil)
		}
	case "gcs":
		if c.Bucket == "" {
			return exception.New(exception.KindConfig, moduleName, "export bucket is required for gcs", nil)
		}
	default:
		return exception.Newf(exception.KindConfig, moduleName, "unknown export type %q", c.Type)
	}
	return nil
}
