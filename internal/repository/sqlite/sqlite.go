package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"path/filepath"
	"strings"
	"time"

	"assetcatalog/internal/domain"
	"assetcatalog/internal/repository"

	_ "modernc.org/sqlite"
)

// Repository implements repository.EntityRepository using SQLite
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

var _ repository.EntityRepository = (*Repository)(nil)

// New opens (creating if needed) the database at dbPath and migrates it
func New(dbPath string) (*Repository, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("database path is required")
	}

	dsn := filepath.Clean(dbPath) +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_txlock=immediate"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo := &Repository{db: db, now: time.Now}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entities (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL CHECK (name <> ''),
		price REAL NOT NULL CHECK (price >= 0),
		colors JSON,
		description TEXT,
		asset_paths JSON,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entities_price ON entities(price);
	CREATE INDEX IF NOT EXISTS idx_entities_name ON entities(name);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Close releases the database handle
func (r *Repository) Close() error {
	return r.db.Close()
}

// Create inserts a new entity
func (r *Repository) Create(ctx context.Context, draft domain.EntityDraft) (*domain.Entity, error) {
	const op = "create entity"

	e := domain.NewEntity(domain.NewID(), draft, r.now().UTC())
	args, err := entityArgs(e)
	if err != nil {
		return nil, domain.NewStorageError(op, "", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO entities (`+entityColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		args...,
	)
	if err != nil {
		return nil, domain.NewStorageError(op, "", fmt.Errorf("failed to insert entity: %w", err))
	}

	return e, nil
}

// FindByID loads one entity
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Entity, error) {
	const op = "find entity"

	if !domain.ValidID(id) {
		return nil, domain.NewNotFoundError(op, id)
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT `+entityColumns+` FROM entities WHERE id = ?`, id)
	e, err := scanEntity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError(op, id)
	}
	if err != nil {
		return nil, domain.NewStorageError(op, id, fmt.Errorf("failed to load entity: %w", err))
	}
	return e, nil
}

// FindAll streams entities matching q. The query runs when the sequence is
// first ranged over and its rows are released when iteration stops.
func (r *Repository) FindAll(ctx context.Context, q domain.Query) iter.Seq2[*domain.Entity, error] {
	const op = "list entities"

	return repository.Once(func(yield func(*domain.Entity, error) bool) {
		if err := q.Validate(); err != nil {
			yield(nil, err)
			return
		}

		where, args := buildWhere(q)
		rows, err := r.db.QueryContext(ctx,
			`SELECT `+entityColumns+` FROM entities`+where+buildOrder(q), args...)
		if err != nil {
			yield(nil, domain.NewStorageError(op, "", fmt.Errorf("failed to query entities: %w", err)))
			return
		}
		defer rows.Close()

		for rows.Next() {
			e, err := scanEntity(rows)
			if err != nil {
				yield(nil, domain.NewStorageError(op, "", fmt.Errorf("failed to scan entity: %w", err)))
				return
			}
			if !yield(e, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, domain.NewStorageError(op, "", fmt.Errorf("error iterating entities: %w", err)))
		}
	})
}

// Update merges patch into the stored entity inside a transaction
func (r *Repository) Update(ctx context.Context, id string, patch domain.EntityPatch) (*domain.Entity, error) {
	const op = "update entity"

	if !domain.ValidID(id) {
		return nil, domain.NewNotFoundError(op, id)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, domain.NewStorageError(op, id, fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	e, err := scanEntity(tx.QueryRowContext(ctx,
		`SELECT `+entityColumns+` FROM entities WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError(op, id)
	}
	if err != nil {
		return nil, domain.NewStorageError(op, id, fmt.Errorf("failed to load entity: %w", err))
	}

	patch.Apply(e)
	e.Touch(r.now().UTC())

	args, err := entityArgs(e)
	if err != nil {
		return nil, domain.NewStorageError(op, id, err)
	}

	// args minus id and created_at, then the key
	_, err = tx.ExecContext(ctx, `
		UPDATE entities
		SET name = ?, price = ?, colors = ?, description = ?, asset_paths = ?, updated_at = ?
		WHERE id = ?
	`, args[1], args[2], args[3], args[4], args[5], args[7], id)
	if err != nil {
		return nil, domain.NewStorageError(op, id, fmt.Errorf("failed to update entity: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return nil, domain.NewStorageError(op, id, fmt.Errorf("failed to commit: %w", err))
	}
	return e, nil
}

// Delete removes the entity and returns the deleted row
func (r *Repository) Delete(ctx context.Context, id string) (*domain.Entity, error) {
	const op = "delete entity"

	if !domain.ValidID(id) {
		return nil, domain.NewNotFoundError(op, id)
	}

	row := r.db.QueryRowContext(ctx,
		`DELETE FROM entities WHERE id = ? RETURNING `+entityColumns, id)
	e, err := scanEntity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError(op, id)
	}
	if err != nil {
		return nil, domain.NewStorageError(op, id, fmt.Errorf("failed to delete entity: %w", err))
	}
	return e, nil
}
