package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/harvest-lab/demeter/pkg/domain/model"
	"github.com/harvest-lab/demeter/pkg/domain/types"
)

func TestNormalizeFoodName(t *testing.T) {
	gt.Value(t, model.NormalizeFoodName("  Brown Rice ")).Equal(types.FoodID("brown rice"))
	gt.Value(t, model.NormalizeFoodName("APPLE")).Equal(types.FoodID("apple"))
}

func TestFoodItemKcal(t *testing.T) {
	t.Run("per-piece scales linearly", func(t *testing.T) {
		apple := model.NewFoodItem("apple", types.UnitPiece, 95)
		gt.Value(t, apple.Kcal(2)).Equal(190.0)
		gt.Value(t, apple.Kcal(0.5)).Equal(47.5)
		gt.Value(t, apple.Kcal(0)).Equal(0.0)
	})

	t.Run("per-100g scales by grams", func(t *testing.T) {
		oats := model.NewFoodItem("oats", types.UnitPer100g, 389)
		gt.Value(t, oats.Kcal(100)).Equal(389.0)
		gt.Value(t, oats.Kcal(50)).Equal(194.5)
	})

	t.Run("per-serving scales linearly", func(t *testing.T) {
		salmon := model.NewFoodItem("grilled salmon", types.UnitServing, 206)
		gt.Value(t, salmon.Kcal(2)).Equal(412.0)
	})
}

func TestFoodItemValidate(t *testing.T) {
	gt.NoError(t, model.NewFoodItem("apple", types.UnitPiece, 95).Validate())

	gt.Value(t, model.NewFoodItem("  ", types.UnitPiece, 95).Validate()).NotNil()
	gt.Value(t, model.NewFoodItem("apple", types.UnitPiece, -1).Validate()).NotNil()
}

func TestPendingSuggestionExpiry(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	food := model.NewFoodItem("banana", types.UnitPiece, 105)
	suggestion := model.NewPendingSuggestion("U123", food, 1, 105, now)

	gt.Bool(t, suggestion.Expired(now)).False()
	gt.Bool(t, suggestion.Expired(now.Add(model.PendingTTL))).False()
	gt.Bool(t, suggestion.Expired(now.Add(model.PendingTTL+time.Second))).True()
}
