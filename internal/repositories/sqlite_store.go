package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/smarterz/internal/shared"
)

// SQLiteStore keeps the completed set in the completed_items table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an already migrated database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// OpenSQLiteStore opens the database described by cfg and applies pending migrations.
func OpenSQLiteStore(cfg shared.DatabaseConfig) (*SQLiteStore, error) {
	db, err := shared.NewDatabase(cfg.Path)
	if err != nil {
		return nil, err
	}
	shared.ConfigureDatabase(db, cfg)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return NewSQLiteStore(db), nil
}

func (s *SQLiteStore) Completed() ([]string, error) {
	rows, err := s.db.Query("SELECT item_id FROM completed_items ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query completed items: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan completed item: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const insertCompleted = `INSERT OR IGNORE INTO completed_items (item_id, position)
	VALUES (?, (SELECT COALESCE(MAX(position), 0) + 1 FROM completed_items))`

func (s *SQLiteStore) MarkDone(id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	if _, err := s.db.Exec(insertCompleted, id); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStoreWrite, err)
	}
	return nil
}

func (s *SQLiteStore) MarkUndone(id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	if _, err := s.db.Exec("DELETE FROM completed_items WHERE item_id = ?", id); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStoreWrite, err)
	}
	return nil
}

func (s *SQLiteStore) Toggle(id string) (bool, error) {
	if err := requireID(id); err != nil {
		return false, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM completed_items WHERE item_id = ?", id)
	if err != nil {
		return false, fmt.Errorf("%w: %v", shared.ErrStoreWrite, err)
	}

	done := false
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := tx.Exec(insertCompleted, id); err != nil {
			return false, fmt.Errorf("%w: %v", shared.ErrStoreWrite, err)
		}
		done = true
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit toggle: %w", err)
	}
	return done, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
