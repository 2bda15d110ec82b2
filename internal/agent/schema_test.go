package agent_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/mapchat/internal/adapter/database/dbtest"
	"github.com/tigerroll/mapchat/internal/agent"
)

func TestDescribeSchema_IsStable(t *testing.T) {
	assert.Equal(t, agent.DescribeSchema(), agent.DescribeSchema())

	schema := agent.DescribeSchema()
	assert.Contains(t, schema, "CREATE TABLE visit (")
	assert.Contains(t, schema, "semantic_type TEXT -- one of UNKNOWN, HOME, WORK")
	assert.Contains(t, schema, "CREATE TABLE secondary_opening_periods (")
	assert.NotContains(t, schema, "CREATE TABLE chat")
}

// Every described column must exist so generated queries can run.
func TestDescribeSchema_MatchesMigrations(t *testing.T) {
	db := dbtest.NewDB(t)
	for _, table := range agent.Tables {
		rows, err := db.WithContext(context.Background()).Raw("SELECT name FROM pragma_table_info(?)", table.Name).Rows()
		require.NoError(t, err)
		var actual []string
		for rows.Next() {
			var name string
			require.NoError(t, rows.Scan(&name))
			actual = append(actual, name)
		}
		require.NoError(t, rows.Close())

		var described []string
		for _, c := range table.Columns {
			described = append(described, c.Name)
		}
		assert.Equal(t, actual, described, table.Name)
	}
}

func TestFormatResult_Empty(t *testing.T) {
	assert.True(t, strings.HasPrefix(agent.FormatResult(nil), "(no rows)"))
}
