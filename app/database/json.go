package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// toJSON encodes v for a nullable TEXT column. Nil pointers and empty
// slices are stored as NULL.
func toJSON[T any](v T, empty bool) (sql.NullString, error) {
	if empty {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode %T: %w", v, err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func fromJSON[T any](column sql.NullString, dst *T) error {
	if !column.Valid || column.String == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(column.String), dst); err != nil {
		return fmt.Errorf("failed to decode %T: %w", dst, err)
	}
	return nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}
