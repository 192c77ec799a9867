package model

import (
	"time"

	"github.com/harvest-lab/demeter/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// LogEntry is an immutable record of one logged food. FoodName is
// denormalized so that daily reports render without a catalog join.
type LogEntry struct {
	ID       types.LogEntryID
	UserID   types.UserID
	FoodID   types.FoodID
	FoodName string
	Quantity float64
	Kcal     float64
	LoggedAt time.Time
}

// NewLogEntry creates a log entry with a fresh ID and UTC timestamp
func NewLogEntry(userID types.UserID, foodID types.FoodID, foodName string, quantity, kcal float64, loggedAt time.Time) *LogEntry {
	return &LogEntry{
		ID:       types.NewLogEntryID(),
		UserID:   userID,
		FoodID:   foodID,
		FoodName: foodName,
		Quantity: quantity,
		Kcal:     kcal,
		LoggedAt: loggedAt.UTC(),
	}
}

// Validate checks if the log entry is valid
func (l *LogEntry) Validate() error {
	if err := l.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid log entry")
	}
	if err := l.UserID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid log entry")
	}
	if err := l.FoodID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid log entry")
	}
	if l.Quantity < 0 {
		return goerr.New("quantity must be non-negative", goerr.V("quantity", l.Quantity))
	}
	if l.LoggedAt.IsZero() {
		return goerr.New("logged-at timestamp is required")
	}
	return nil
}
