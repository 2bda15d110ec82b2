package gorm

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Upsert inserts model and resolves primary or unique key conflicts on
// conflictColumns. With no updateColumns the conflicting row is left as is
// (DO NOTHING), otherwise the listed columns are overwritten (DO UPDATE).
// Associations are not written.
func Upsert(ctx context.Context, db *gorm.DB, model interface{}, conflictColumns []string, updateColumns []string) (int64, error) {
	columns := make([]clause.Column, 0, len(conflictColumns))
	for _, col := range conflictColumns {
		columns = append(columns, clause.Column{Name: col})
	}

	onConflict := clause.OnConflict{Columns: columns}
	if len(updateColumns) > 0 {
		onConflict.DoUpdates = clause.AssignmentColumns(updateColumns)
	} else {
		onConflict.DoNothing = true
	}

	result := db.WithContext(ctx).Omit(clause.Associations).Clauses(onConflict).Create(model)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ResultSet is the tabular result of an arbitrary query.
type ResultSet struct {
	Columns []string
	Rows    [][]interface{}
	// Truncated is set when the query returned more rows than requested.
	Truncated bool
}

// QueryRows runs a raw SQL query and collects up to maxRows rows
// (maxRows <= 0 means no limit). TEXT and BLOB values are returned as strings.
func QueryRows(ctx context.Context, db *gorm.DB, query string, maxRows int) (*ResultSet, error) {
	rows, err := db.WithContext(ctx).Raw(query).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	rs := &ResultSet{Columns: columns, Rows: [][]interface{}{}}
	for rows.Next() {
		if maxRows > 0 && len(rs.Rows) == maxRows {
			rs.Truncated = true
			break
		}
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		rs.Rows = append(rs.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rs, nil
}
