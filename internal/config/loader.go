package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"gopkg.in/yaml.v3"

	"github.com/tigerroll/mapchat/internal/support/exception"
	"github.com/tigerroll/mapchat/internal/support/logger"
)

const moduleName = "config"

// ConfigParams defines the dependencies for NewConfigProvider.
type ConfigParams struct {
	fx.In
	EmbeddedConfig EmbeddedConfig
	EnvFilePath    string `name:"envFilePath" optional:"true"`
}

// LoadConfig builds the configuration in four layers, each overriding the previous:
// defaults, embedded YAML, the .env file and the process environment.
// Variables already present in the environment win over the .env file.
func LoadConfig(envFilePath string, embeddedConfig EmbeddedConfig) (*Config, error) {
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			logger.Debugf(".env file (%s) not loaded: %v", envFilePath, err)
		}
	}

	cfg := NewConfig()

	// yaml.v3 only assigns keys present in the document, so decoding into the
	// defaults merges the two.
	if len(embeddedConfig) > 0 {
		if err := yaml.Unmarshal(embeddedConfig, cfg); err != nil {
			return nil, exception.New(exception.KindConfig, moduleName, "failed to unmarshal embedded config", err)
		}
	}

	if err := loadStructFromEnv(reflect.ValueOf(cfg).Elem(), ""); err != nil {
		return nil, exception.New(exception.KindConfig, moduleName, "failed to load config from environment variables", err)
	}
	return cfg, nil
}

// NewConfigProvider is an Fx provider that loads *Config and applies the log level.
func NewConfigProvider(params ConfigParams) (*Config, error) {
	cfg, err := LoadConfig(params.EnvFilePath, params.EmbeddedConfig)
	if err != nil {
		return nil, err
	}
	logger.SetLogLevel(cfg.MapChat.Logging.Level)
	logger.Debugf("Log level set to: %s", cfg.MapChat.Logging.Level)
	return cfg, nil
}

// loadStructFromEnv walks val and overrides fields from environment variables.
// The variable name is the upper-cased yaml tag path joined by "_"
// (MAPCHAT_HTTP_ADDRESS). An `env` tag lists explicit names instead, the
// first one set wins.
func loadStructFromEnv(val reflect.Value, prefix string) error {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)
		yamlTag := strings.Split(fieldType.Tag.Get("yaml"), ",")[0]
		if yamlTag == "" || yamlTag == "-" {
			continue
		}
		envVarName := strings.ToUpper(prefix + yamlTag)

		switch {
		case field.Kind() == reflect.Struct:
			if err := loadStructFromEnv(field, envVarName+"_"); err != nil {
				return err
			}
			continue
		case field.Kind() == reflect.Map && field.Type().Key().Kind() == reflect.String && field.Type().Elem().Kind() == reflect.Interface:
			loadMapFromEnv(field, envVarName+"_")
			continue
		}

		names := []string{envVarName}
		if explicit := fieldType.Tag.Get("env"); explicit != "" {
			names = append(strings.Split(explicit, ","), envVarName)
		}
		for _, name := range names {
			envValue, exists := os.LookupEnv(strings.TrimSpace(name))
			if !exists {
				continue
			}
			if err := setField(field, envValue); err != nil {
				return fmt.Errorf("failed to set field '%s' from env var '%s': %w", fieldType.Name, name, err)
			}
			break
		}
	}
	return nil
}

// loadMapFromEnv copies PREFIX_KEY=value variables into a free-form section.
// Keys are lower-cased; values stay strings and are converted by whoever
// decodes the section.
func loadMapFromEnv(mapField reflect.Value, prefix string) {
	if mapField.IsNil() {
		mapField.Set(reflect.MakeMap(mapField.Type()))
	}
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, prefix) {
			continue
		}
		parts := strings.SplitN(strings.TrimPrefix(env, prefix), "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			continue
		}
		mapField.SetMapIndex(reflect.ValueOf(strings.ToLower(parts[0])), reflect.ValueOf(parts[1]))
	}
}

// setField converts value to the field's kind and assigns it.
func setField(field reflect.Value, value string) error {
	if !field.CanSet() {
		return nil
	}
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(intValue)
	case reflect.Float64, reflect.Float32:
		floatValue, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(floatValue)
	case reflect.Bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(boolValue)
	}
	return nil
}
