package model

import "github.com/harvest-lab/demeter/pkg/domain/types"

// ResolutionStatus is the terminal state of the resolution pipeline
type ResolutionStatus string

const (
	// ResolutionResolved means the food was identified and may be logged
	ResolutionResolved ResolutionStatus = "RESOLVED"
	// ResolutionAmbiguous means a candidate was found but the sender must
	// confirm before anything is logged
	ResolutionAmbiguous ResolutionStatus = "AMBIGUOUS"
	// ResolutionUnresolved means no source produced usable data
	ResolutionUnresolved ResolutionStatus = "UNRESOLVED"
)

// Resolution is the outcome of interpreting one inbound message: either a
// loggable food+quantity+calorie triple, a candidate waiting for
// confirmation, or the reason resolution failed. It is transient and never
// persisted directly.
type Resolution struct {
	Status   ResolutionStatus
	FoodID   types.FoodID
	FoodName string
	Quantity float64
	Kcal     float64
	Reason   string
}

// NewResolved creates a resolved outcome eligible for immediate logging
func NewResolved(food *FoodItem, quantity, kcal float64) *Resolution {
	return &Resolution{
		Status:   ResolutionResolved,
		FoodID:   food.ID,
		FoodName: food.Name,
		Quantity: quantity,
		Kcal:     kcal,
	}
}

// NewAmbiguous creates an outcome that requires explicit confirmation
func NewAmbiguous(food *FoodItem, quantity, kcal float64) *Resolution {
	return &Resolution{
		Status:   ResolutionAmbiguous,
		FoodID:   food.ID,
		FoodName: food.Name,
		Quantity: quantity,
		Kcal:     kcal,
	}
}

// NewUnresolved creates a failed outcome with a user-facing reason
func NewUnresolved(reason string) *Resolution {
	return &Resolution{
		Status: ResolutionUnresolved,
		Reason: reason,
	}
}
