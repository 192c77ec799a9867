package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// UserID is a UUID-based identifier for a user
type UserID string

// NewUserID generates a new UUID v4 UserID
func NewUserID() UserID {
	return UserID(uuid.New().String())
}

func (x UserID) String() string {
	return string(x)
}

// Validate checks if the user ID is valid
func (x UserID) Validate() error {
	if x == "" {
		return goerr.New("user ID is empty")
	}
	return nil
}

// LogEntryID is a UUID-based identifier for a log entry
type LogEntryID string

// NewLogEntryID generates a new UUID v4 LogEntryID
func NewLogEntryID() LogEntryID {
	return LogEntryID(uuid.New().String())
}

func (x LogEntryID) String() string {
	return string(x)
}

// Validate checks if the log entry ID is valid
func (x LogEntryID) Validate() error {
	if x == "" {
		return goerr.New("log entry ID is empty")
	}
	return nil
}

// FoodID identifies a catalog entry. It is the normalized (lower-cased,
// trimmed) food name; name uniqueness is enforced through it.
type FoodID string

func (x FoodID) String() string {
	return string(x)
}

// Validate checks if the food ID is valid
func (x FoodID) Validate() error {
	if x == "" {
		return goerr.New("food ID is empty")
	}
	return nil
}
