// Package config loads mapchat's configuration from defaults, the embedded
// application.yaml, an optional .env file and the process environment.
package config

// EmbeddedConfig holds the raw bytes of resources/application.yaml, supplied by main.
type EmbeddedConfig []byte

// Config is the root configuration object. It is built once at startup and
// passed explicitly to every component that needs a setting or a credential.
type Config struct {
	MapChat MapChatConfig `yaml:"mapchat"`
}

// MapChatConfig groups all application settings.
type MapChatConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	// Database is decoded by the database adapter (see database.DecodeConfig),
	// so adapters can evolve their options without touching this package.
	Database map[string]interface{} `yaml:"database"`
	HTTP     HTTPConfig             `yaml:"http"`
	LLM      LLMConfig              `yaml:"llm"`
	Places   PlacesConfig           `yaml:"places"`
	Chat     ChatConfig             `yaml:"chat"`
	Tracing  TracingConfig          `yaml:"tracing"`
	Export   ExportConfig           `yaml:"export"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is one of DEBUG, INFO, WARN, ERROR, FATAL.
	Level string `yaml:"level"`
}

// HTTPConfig configures the web server.
type HTTPConfig struct {
	Address             string `yaml:"address"`
	MaxUploadMB         int    `yaml:"max_upload_mb"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
}

// LLMConfig selects and configures the completion backend.
type LLMConfig struct {
	// Provider is "gemini" (hosted, needs APIKey) or "ollama" (local).
	Provider       string  `yaml:"provider"`
	APIKey         string  `yaml:"api_key" env:"LLM_API_KEY"`
	// Model is left empty to use the provider's default (see ModelName).
	Model          string  `yaml:"model"`
	BaseURL        string  `yaml:"base_url"`
	Temperature    float64 `yaml:"temperature"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// PlacesConfig configures the Google Places Details client.
type PlacesConfig struct {
	APIKey         string `yaml:"api_key" env:"PLACES_API_KEY,GOOGLEMAPS_KEY"`
	BaseURL        string `yaml:"base_url"`
	Language       string `yaml:"language"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ChatConfig tunes the chat agent.
type ChatConfig struct {
	// HistoryTurns is how many previous turns are included in the SQL prompt.
	HistoryTurns int `yaml:"history_turns"`
	// MaxResultRows caps the rows handed to the narration prompt.
	MaxResultRows int `yaml:"max_result_rows"`
	// AllowUnsafeSQL disables the read-only statement guard.
	AllowUnsafeSQL bool `yaml:"allow_unsafe_sql"`
}

// TracingConfig configures the OpenTelemetry trace exporter.
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`
	// Protocol is the OTLP transport, "http" or "grpc".
	Protocol    string `yaml:"protocol"`
	Endpoint    string `yaml:"endpoint"`
	Insecure    bool   `yaml:"insecure"`
	ServiceName string `yaml:"service_name"`
}

// ExportConfig configures where Parquet exports are written.
type ExportConfig struct {
	// Type is "local" or "gcs".
	Type            string `yaml:"type"`
	BaseDir         string `yaml:"base_dir"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	CredentialsFile string `yaml:"credentials_file"`
	// Compression is the Parquet codec: SNAPPY, GZIP or NONE.
	Compression string `yaml:"compression"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		MapChat: MapChatConfig{
			Logging: LoggingConfig{Level: "INFO"},
			Database: map[string]interface{}{
				"type": "sqlite",
				"path": "mapchat.db",
			},
			HTTP: HTTPConfig{
				Address:             ":8080",
				MaxUploadMB:         256,
				ReadTimeoutSeconds:  60,
				WriteTimeoutSeconds: 300,
			},
			LLM: LLMConfig{
				Provider:       "gemini",
				Temperature:    0.1,
				TimeoutSeconds: 120,
			},
			Places: PlacesConfig{
				BaseURL:        "https://maps.googleapis.com/maps/api/place",
				TimeoutSeconds: 10,
			},
			Chat: ChatConfig{
				HistoryTurns:  6,
				MaxResultRows: 200,
			},
			Tracing: TracingConfig{
				Protocol:    "http",
				ServiceName: "mapchat",
			},
			Export: ExportConfig{
				Type:        "local",
				BaseDir:     "exports",
				Compression: "SNAPPY",
			},
		},
	}
}
