package model

import (
	"time"

	"github.com/harvest-lab/demeter/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// PendingTTL is how long an unconfirmed image suggestion stays valid
const PendingTTL = 10 * time.Minute

// PendingSuggestion is a food suggestion waiting for the sender to confirm
// with "yes". It is keyed by sender address; one suggestion per sender, the
// latest one wins.
type PendingSuggestion struct {
	Address   string
	FoodID    types.FoodID
	FoodName  string
	Quantity  float64
	Kcal      float64
	ExpiresAt time.Time
}

// NewPendingSuggestion creates a suggestion expiring PendingTTL from now
func NewPendingSuggestion(address string, food *FoodItem, quantity, kcal float64, now time.Time) *PendingSuggestion {
	return &PendingSuggestion{
		Address:   address,
		FoodID:    food.ID,
		FoodName:  food.Name,
		Quantity:  quantity,
		Kcal:      kcal,
		ExpiresAt: now.UTC().Add(PendingTTL),
	}
}

// Validate checks if the suggestion is valid
func (p *PendingSuggestion) Validate() error {
	if p.Address == "" {
		return goerr.New("pending suggestion address is required")
	}
	if err := p.FoodID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid pending suggestion")
	}
	return nil
}

// Expired reports whether the suggestion has passed its expiry
func (p *PendingSuggestion) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
