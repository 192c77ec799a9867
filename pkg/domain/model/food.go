package model

import (
	"strings"
	"time"

	"github.com/harvest-lab/demeter/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// FoodItem is a catalog entry: a named food with a unit of measure and a
// per-unit calorie value. Entries come from the seed catalog or are learned
// from the nutrition service.
type FoodItem struct {
	ID          types.FoodID
	Name        string
	Unit        types.Unit
	KcalPerUnit float64
	CreatedAt   time.Time
}

// NormalizeFoodName lower-cases and trims a food name. The normalized name
// is the catalog identity.
func NormalizeFoodName(name string) types.FoodID {
	return types.FoodID(strings.ToLower(strings.TrimSpace(name)))
}

// NewFoodItem creates a catalog entry keyed by the normalized name
func NewFoodItem(name string, unit types.Unit, kcalPerUnit float64) *FoodItem {
	return &FoodItem{
		ID:          NormalizeFoodName(name),
		Name:        strings.TrimSpace(name),
		Unit:        unit,
		KcalPerUnit: kcalPerUnit,
		CreatedAt:   time.Now().UTC(),
	}
}

// Validate checks if the catalog entry is valid
func (f *FoodItem) Validate() error {
	if err := f.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid food item")
	}
	if f.Name == "" {
		return goerr.New("food name is required")
	}
	if f.KcalPerUnit < 0 {
		return goerr.New("kcal per unit must be non-negative",
			goerr.V("name", f.Name), goerr.V("kcalPerUnit", f.KcalPerUnit))
	}
	return nil
}

// Kcal computes the calories for the given quantity. This is the single
// source of truth for unit scaling: per-100-mass units scale by
// quantity/100, everything else scales linearly.
func (f *FoodItem) Kcal(quantity float64) float64 {
	if f.Unit.Per100Mass() {
		return f.KcalPerUnit * quantity / 100.0
	}
	return f.KcalPerUnit * quantity
}
