package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/mapchat/internal/adapter/database"
)

func TestDecodeConfig(t *testing.T) {
	cfg, err := database.DecodeConfig(map[string]interface{}{
		"path":            "history.db",
		"busy_timeout_ms": "250", // env overrides arrive as strings
		"pool": map[string]interface{}{
			"max_open_conns": 4,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Type)
	assert.Equal(t, "history.db", cfg.Path)
	assert.Equal(t, 250, cfg.BusyTimeoutMS)
	assert.Equal(t, 4, cfg.Pool.MaxOpenConns)
	assert.Equal(t, 1, cfg.Pool.MaxIdleConns)
	assert.Equal(t, database.DefaultMigrationsTable, cfg.MigrationsTable)
}

func TestDecodeConfig_Errors(t *testing.T) {
	_, err := database.DecodeConfig(map[string]interface{}{"type": "sqlite"})
	assert.Error(t, err)

	_, err = database.DecodeConfig(map[string]interface{}{"path": "x.db", "busy_timeout_ms": "soon"})
	assert.Error(t, err)
}
