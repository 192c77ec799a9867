package types

import "strings"

// Unit is the unit of measure of a catalog entry. It determines how the
// per-unit calorie value scales with quantity.
type Unit string

const (
	// UnitPiece counts discrete items (1 apple, 2 eggs)
	UnitPiece Unit = "piece"
	// UnitPer100g holds calories per 100 grams
	UnitPer100g Unit = "100g"
	// UnitServing is used for entries learned from the nutrition service
	UnitServing Unit = "serving"
)

func (u Unit) String() string {
	return string(u)
}

// IsValid checks if the unit is a known unit
func (u Unit) IsValid() bool {
	switch u {
	case UnitPiece, UnitPer100g, UnitServing:
		return true
	default:
		return false
	}
}

// Per100Mass reports whether the unit is mass-normalized per 100g, in which
// case the calorie value scales as kcalPerUnit * quantity / 100.
// Substring matching keeps compatibility with seed data written as
// "100g", "per 100g" and the like.
func (u Unit) Per100Mass() bool {
	return strings.Contains(string(u), "100g")
}
