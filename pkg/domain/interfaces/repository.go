package interfaces

import (
	"context"
	"time"

	"github.com/harvest-lab/demeter/pkg/domain/model"
	"github.com/harvest-lab/demeter/pkg/domain/types"
)

// Repository defines the interface for data persistence
type Repository interface {
	User() UserRepository
	Catalog() CatalogRepository
	Log() LogRepository
	Pending() PendingRepository
	Close() error
}

// UserRepository persists users keyed by sender address
type UserRepository interface {
	// GetOrCreate returns the user for the address, creating one with the
	// default daily target on first contact.
	GetOrCreate(ctx context.Context, address string) (*model.User, error)
	// UpdateTarget sets the user's daily calorie target
	UpdateTarget(ctx context.Context, address string, target int) error
}

// CatalogRepository persists food catalog entries with unique normalized names
type CatalogRepository interface {
	// Search returns all entries whose name contains the fragment
	// (case-insensitive), ordered by normalized name ascending.
	Search(ctx context.Context, fragment string) ([]*model.FoodItem, error)
	// Get returns the entry with the given ID, or ErrNotFound
	Get(ctx context.Context, id types.FoodID) (*model.FoodItem, error)
	// Create inserts a new entry. Returns ErrAlreadyExists on a name
	// collision; the caller recovers by re-reading the winning entry.
	Create(ctx context.Context, item *model.FoodItem) error
}

// LogRepository persists immutable, append-only log entries
type LogRepository interface {
	Append(ctx context.Context, entry *model.LogEntry) error
	// SumDay returns the total kcal logged by the user on the UTC calendar
	// date of day.
	SumDay(ctx context.Context, userID types.UserID, day time.Time) (float64, error)
	// ListDay returns the user's entries for the UTC calendar date of day,
	// most recent first.
	ListDay(ctx context.Context, userID types.UserID, day time.Time) ([]*model.LogEntry, error)
}

// PendingRepository persists unconfirmed suggestions, one per sender address
type PendingRepository interface {
	Put(ctx context.Context, suggestion *model.PendingSuggestion) error
	// Get returns the suggestion for the address, or ErrNotFound
	Get(ctx context.Context, address string) (*model.PendingSuggestion, error)
	Delete(ctx context.Context, address string) error
}
