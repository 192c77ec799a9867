package memory

import (
	"github.com/harvest-lab/demeter/pkg/domain/interfaces"
	"github.com/harvest-lab/demeter/pkg/repository"
)

// Sentinel errors, shared across backends
var (
	ErrNotFound      = repository.ErrNotFound
	ErrAlreadyExists = repository.ErrAlreadyExists
)

// Memory is an in-memory Repository implementation for development and tests
type Memory struct {
	user    *userRepository
	catalog *catalogRepository
	log     *logRepository
	pending *pendingRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		user:    newUserRepository(),
		catalog: newCatalogRepository(),
		log:     newLogRepository(),
		pending: newPendingRepository(),
	}
}

func (m *Memory) User() interfaces.UserRepository {
	return m.user
}

func (m *Memory) Catalog() interfaces.CatalogRepository {
	return m.catalog
}

func (m *Memory) Log() interfaces.LogRepository {
	return m.log
}

func (m *Memory) Pending() interfaces.PendingRepository {
	return m.pending
}

func (m *Memory) Close() error {
	return nil
}
