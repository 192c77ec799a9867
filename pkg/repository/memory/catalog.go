package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/harvest-lab/demeter/pkg/domain/model"
	"github.com/harvest-lab/demeter/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type catalogRepository struct {
	mu    sync.Mutex
	items map[types.FoodID]*model.FoodItem
}

func newCatalogRepository() *catalogRepository {
	return &catalogRepository{
		items: make(map[types.FoodID]*model.FoodItem),
	}
}

func (r *catalogRepository) Search(ctx context.Context, fragment string) ([]*model.FoodItem, error) {
	needle := strings.ToLower(strings.TrimSpace(fragment))

	r.mu.Lock()
	defer r.mu.Unlock()

	var matches []*model.FoodItem
	for _, item := range r.items {
		if strings.Contains(strings.ToLower(item.Name), needle) {
			copied := *item
			matches = append(matches, &copied)
		}
	}

	// Deterministic first-match policy: normalized name ascending
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].ID < matches[j].ID
	})

	return matches, nil
}

func (r *catalogRepository) Get(ctx context.Context, id types.FoodID) (*model.FoodItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "catalog entry not found", goerr.V("id", id))
	}

	copied := *item
	return &copied, nil
}

func (r *catalogRepository) Create(ctx context.Context, item *model.FoodItem) error {
	if err := item.Validate(); err != nil {
		return goerr.Wrap(err, "invalid catalog entry")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; ok {
		return goerr.Wrap(ErrAlreadyExists, "catalog entry already exists", goerr.V("id", item.ID))
	}

	copied := *item
	r.items[item.ID] = &copied
	return nil
}
