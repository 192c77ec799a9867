package memory

import (
	"context"
	"sync"

	"github.com/harvest-lab/demeter/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type pendingRepository struct {
	mu          sync.Mutex
	suggestions map[string]*model.PendingSuggestion
}

func newPendingRepository() *pendingRepository {
	return &pendingRepository{
		suggestions: make(map[string]*model.PendingSuggestion),
	}
}

func (r *pendingRepository) Put(ctx context.Context, suggestion *model.PendingSuggestion) error {
	if err := suggestion.Validate(); err != nil {
		return goerr.Wrap(err, "invalid pending suggestion")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *suggestion
	r.suggestions[suggestion.Address] = &copied
	return nil
}

func (r *pendingRepository) Get(ctx context.Context, address string) (*model.PendingSuggestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	suggestion, ok := r.suggestions[address]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "no pending suggestion", goerr.V("address", address))
	}

	copied := *suggestion
	return &copied, nil
}

func (r *pendingRepository) Delete(ctx context.Context, address string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.suggestions, address)
	return nil
}
