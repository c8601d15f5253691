// Package postgres provides a PostgreSQL-backed reference-data lookup over
// the reference_data table.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // postgres driver

	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/refdata"
)

// Store is a PostgreSQL-backed reference-data lookup.
type Store struct {
	db *sql.DB
}

// New wraps an existing database handle.
func New(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle is required")
	}
	return &Store{db: db}, nil
}

// Retrieve loads the records for kind/key. Table kinds pass the shared table
// key and get every row for the kind. An empty result set is "no reference
// data found", not an error.
func (s *Store) Retrieve(ctx context.Context, kind refdata.Kind, key string) ([]refdata.Record, error) {
	query := `
		SELECT code, description, effective_from, effective_to
		FROM reference_data
		WHERE kind = $1 AND ($2 = $3 OR code = $2)
		ORDER BY code
	`
	rows, err := s.db.QueryContext(ctx, query, string(kind), key, refdata.TableKey)
	if err != nil {
		return nil, fmt.Errorf("query %s reference data: %w", kind, err)
	}
	defer rows.Close()

	var records []refdata.Record
	for rows.Next() {
		var (
			r    refdata.Record
			from sql.NullTime
			to   sql.NullTime
		)
		if err := rows.Scan(&r.Code, &r.Description, &from, &to); err != nil {
			return nil, fmt.Errorf("scan %s reference data: %w", kind, err)
		}
		r.EffectiveFrom = nullableTime(from)
		r.EffectiveTo = nullableTime(to)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s reference data: %w", kind, err)
	}
	return records, nil
}

func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	value := t.Time
	return &value
}
