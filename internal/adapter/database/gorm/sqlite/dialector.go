// Package sqlite registers the SQLite dialector with the GORM adapter.
// Import it for side effects.
package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tigerroll/mapchat/internal/adapter/database"
	gormadapter "github.com/tigerroll/mapchat/internal/adapter/database/gorm"
)

// DBType is the database type handled by this package.
const DBType = "sqlite"

func init() {
	gormadapter.RegisterDialector(DBType, func(cfg database.Config) (gorm.Dialector, error) {
		if cfg.Path == "" {
			return nil, errors.New("SQLite database path cannot be empty")
		}
		return sqlite.Open(ConnectionString(cfg)), nil
	})
}

// ConnectionString builds the go-sqlite3 DSN for cfg. Foreign keys are
// always enabled since the schema relies on them for referential integrity.
func ConnectionString(cfg database.Config) string {
	params := []string{"_foreign_keys=on"}
	if cfg.BusyTimeoutMS > 0 {
		params = append(params, fmt.Sprintf("_busy_timeout=%d", cfg.BusyTimeoutMS))
	}
	sep := "?"
	if strings.Contains(cfg.Path, "?") {
		sep = "&"
	}
	return cfg.Path + sep + strings.Join(params, "&")
}
