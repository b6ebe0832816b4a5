// package repositories provides persistence layer implementations for the completed-item set.
package repositories

import (
	"fmt"

	"github.com/desertthunder/smarterz/internal/shared"
)

// ProgressStore reads and mutates the set of completed item IDs.
type ProgressStore interface {
	Completed() ([]string, error)   // Completed returns every completed ID in insertion order, never nil
	MarkDone(id string) error       // MarkDone adds id when absent
	MarkUndone(id string) error     // MarkUndone removes id; absent IDs are a no-op
	Toggle(id string) (bool, error) // Toggle flips membership and reports whether id is now done
	Close() error                   // Close releases any underlying resources
}

var (
	_ ProgressStore = (*FileStore)(nil)
	_ ProgressStore = (*SQLiteStore)(nil)
	_ ProgressStore = (*MemoryStore)(nil)
)

// Store drivers accepted by [NewProgressStore].
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// NewProgressStore opens the store selected by cfg.Store.Driver, defaulting to the JSON document.
func NewProgressStore(cfg *shared.Config) (ProgressStore, error) {
	switch cfg.Store.Driver {
	case "", DriverJSON:
		store := NewFileStore(cfg.Store.Path)
		if err := store.Init(); err != nil {
			return nil, err
		}
		return store, nil
	case DriverSQLite:
		return OpenSQLiteStore(cfg.Database)
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownStore, cfg.Store.Driver)
	}
}

func requireID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: item ID", shared.ErrMissingArgument)
	}
	return nil
}
