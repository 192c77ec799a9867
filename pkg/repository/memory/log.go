package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/harvest-lab/demeter/pkg/domain/model"
	"github.com/harvest-lab/demeter/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type logRepository struct {
	mu      sync.Mutex
	entries []*model.LogEntry
}

func newLogRepository() *logRepository {
	return &logRepository{}
}

func (r *logRepository) Append(ctx context.Context, entry *model.LogEntry) error {
	if err := entry.Validate(); err != nil {
		return goerr.Wrap(err, "invalid log entry")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *entry
	r.entries = append(r.entries, &copied)
	return nil
}

func (r *logRepository) SumDay(ctx context.Context, userID types.UserID, day time.Time) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total float64
	for _, entry := range r.entries {
		if entry.UserID == userID && sameUTCDate(entry.LoggedAt, day) {
			total += entry.Kcal
		}
	}
	return total, nil
}

func (r *logRepository) ListDay(ctx context.Context, userID types.UserID, day time.Time) ([]*model.LogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var entries []*model.LogEntry
	for _, entry := range r.entries {
		if entry.UserID == userID && sameUTCDate(entry.LoggedAt, day) {
			copied := *entry
			entries = append(entries, &copied)
		}
	}

	// Most recent first
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LoggedAt.After(entries[j].LoggedAt)
	})

	return entries, nil
}

func sameUTCDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
