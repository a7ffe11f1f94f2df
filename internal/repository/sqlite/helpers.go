package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"assetcatalog/internal/domain"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// ============================================================================
// Time Helpers
// ============================================================================

// Timestamps are stored as UTC unix nanoseconds so ORDER BY on the column
// matches time order.

func toNanos(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

// ============================================================================
// JSON Marshaling Helpers
// ============================================================================

// unmarshalJSONField safely unmarshals JSON from nullable string into target
func unmarshalJSONField(ns sql.NullString, target interface{}) error {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(ns.String), target)
}

// marshalToNull marshals a string list to nullable JSON.
// Returns empty NullString for nil or empty lists.
func marshalToNull(v []string) (sql.NullString, error) {
	if len(v) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// ============================================================================
// Schema Evolution Guide
// ============================================================================
//
// To add a new column to the entities table:
// 1. Add field to entityRow struct (below)
// 2. Update scanArgs() - APPEND to end to match column order
// 3. Update entityColumns constant - APPEND to end
// 4. Update toDomain() and entityArgs()
// 5. Add the column to migrate() in sqlite.go
// 6. Update relevant tests
//
// CRITICAL: Column order must match between:
// - entityColumns constant
// - scanArgs() return slice
// - entityArgs() return slice

// ============================================================================
// Entity Row Scanner
// ============================================================================

// entityColumns is the SELECT column list for entity queries
const entityColumns = `id, name, price, colors, description, asset_paths, created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// entityRow holds all columns from an entity query for scanning
type entityRow struct {
	ID             string
	Name           string
	Price          float64
	ColorsJSON     sql.NullString
	Description    sql.NullString
	AssetPathsJSON sql.NullString
	CreatedAt      int64
	UpdatedAt      int64
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match entityColumns order exactly
func (r *entityRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,             // 1
		&r.Name,           // 2
		&r.Price,          // 3
		&r.ColorsJSON,     // 4
		&r.Description,    // 5
		&r.AssetPathsJSON, // 6
		&r.CreatedAt,      // 7
		&r.UpdatedAt,      // 8
	}
}

// toDomain converts the scanned row to a domain.Entity
func (r *entityRow) toDomain() (*domain.Entity, error) {
	e := &domain.Entity{
		ID:          r.ID,
		Name:        r.Name,
		Price:       r.Price,
		Description: nullToString(r.Description),
		AssetPaths:  []string{},
		CreatedAt:   fromNanos(r.CreatedAt),
		UpdatedAt:   fromNanos(r.UpdatedAt),
	}

	if err := unmarshalJSONField(r.ColorsJSON, &e.Colors); err != nil {
		return nil, fmt.Errorf("unmarshal colors: %w", err)
	}
	if err := unmarshalJSONField(r.AssetPathsJSON, &e.AssetPaths); err != nil {
		return nil, fmt.Errorf("unmarshal asset paths: %w", err)
	}

	return e, nil
}

// scanEntity reads one entity from a row
func scanEntity(s rowScanner) (*domain.Entity, error) {
	var r entityRow
	if err := s.Scan(r.scanArgs()...); err != nil {
		return nil, err
	}
	return r.toDomain()
}

// entityArgs returns the column values for e, in entityColumns order
func entityArgs(e *domain.Entity) ([]interface{}, error) {
	colors, err := marshalToNull(e.Colors)
	if err != nil {
		return nil, fmt.Errorf("marshal colors: %w", err)
	}
	paths, err := marshalToNull(e.AssetPaths)
	if err != nil {
		return nil, fmt.Errorf("marshal asset paths: %w", err)
	}

	return []interface{}{
		e.ID,
		e.Name,
		e.Price,
		colors,
		stringToNull(e.Description),
		paths,
		toNanos(e.CreatedAt),
		toNanos(e.UpdatedAt),
	}, nil
}
