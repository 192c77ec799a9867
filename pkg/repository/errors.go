// Package repository holds the sentinel errors shared by all Repository
// backends, so callers can match outcomes without knowing which backend is
// configured. The backend implementations live in the sub-packages.
package repository

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = goerr.New("record not found")
	// ErrAlreadyExists is returned on a uniqueness violation. Callers
	// recover by re-reading the winning record.
	ErrAlreadyExists = goerr.New("record already exists")
)
