package migration_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/mapchat/internal/adapter/database/dbtest"
	"github.com/tigerroll/mapchat/internal/adapter/database/migration"
)

var locationTables = []string{
	"visit", "raw_place", "places",
	"address_components", "opening_hours", "opening_periods", "special_days",
	"secondary_opening_hours", "secondary_opening_periods", "photos", "reviews",
}

func TestMigrator_UpIsIdempotent(t *testing.T) {
	p := dbtest.NewProvider(t)
	db, err := p.DB()
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	m := migration.NewMigrator(sqlDB, p.Config())
	require.NoError(t, m.Up(context.Background()))

	version, dirty, ok, err := m.Version()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, dirty)
	assert.Equal(t, uint(2), version)
}

func TestMigrator_TeardownThenInitLeavesEmptyTables(t *testing.T) {
	p := dbtest.NewProvider(t)
	db, err := p.DB()
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	require.NoError(t, db.Exec(`INSERT INTO places (place_id, name) VALUES ('p1', 'Home')`).Error)
	require.NoError(t, db.Exec(`INSERT INTO visit (start_time, end_time, place_id) VALUES (1, 2, 'p1')`).Error)
	require.NoError(t, db.Exec(`INSERT INTO photos (place_id, height, width) VALUES ('p1', 10, 20)`).Error)

	m := migration.NewMigrator(sqlDB, p.Config())
	require.NoError(t, m.Down(context.Background()))

	var exists int64
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'places'`).Scan(&exists).Error)
	assert.Zero(t, exists)

	require.NoError(t, m.Up(context.Background()))

	for _, table := range append(locationTables, "chat") {
		var n int64
		require.NoError(t, db.Table(table).Count(&n).Error, table)
		assert.Zero(t, n, table)
	}
}

func TestMigrator_SemanticTypeCheckConstraint(t *testing.T) {
	db := dbtest.NewDB(t)

	for _, st := range []string{"UNKNOWN", "HOME", "WORK", "INFERRED_HOME", "INFERRED_WORK", "SEARCHED_ADDRESS"} {
		assert.NoError(t, db.Exec(`INSERT INTO visit (start_time, end_time, place_id, semantic_type) VALUES (1, 2, 'p', ?)`, st).Error, st)
	}
	for _, st := range []string{"ALIASED_LOCATION", "home", ""} {
		err := db.Exec(`INSERT INTO visit (start_time, end_time, place_id, semantic_type) VALUES (1, 2, 'p', ?)`, st).Error
		assert.ErrorContains(t, err, "CHECK constraint failed", st)
	}

	var st string
	require.NoError(t, db.Exec(`INSERT INTO visit (start_time, end_time, place_id) VALUES (5, 6, 'p')`).Error)
	require.NoError(t, db.Raw(`SELECT semantic_type FROM visit WHERE start_time = 5`).Scan(&st).Error)
	assert.Equal(t, "UNKNOWN", st)
}

func TestMigrator_ForeignKeysEnforced(t *testing.T) {
	db := dbtest.NewDB(t)

	err := db.Exec(`INSERT INTO reviews (place_id, author_name) VALUES ('missing', 'someone')`).Error
	assert.ErrorContains(t, err, "FOREIGN KEY constraint failed")

	err = db.Exec(`INSERT INTO opening_periods (opening_hours_id, open_day) VALUES (42, 1)`).Error
	assert.ErrorContains(t, err, "FOREIGN KEY constraint failed")
}
