package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/harvest-lab/demeter/pkg/domain/model"
	"github.com/harvest-lab/demeter/pkg/domain/types"
	"github.com/harvest-lab/demeter/pkg/repository"
	"github.com/harvest-lab/demeter/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// resolveText drives the fallback chain for a text command: external
// nutrition lookup first, local catalog second. Each step runs only if the
// prior one signaled unavailability.
func (uc *UseCases) resolveText(ctx context.Context, foodName string, quantity float64) (*model.Resolution, error) {
	if res := uc.lookupNutrition(ctx, foodName, quantity); res != nil {
		return res, nil
	}

	return uc.lookupCatalog(ctx, foodName, quantity)
}

// lookupNutrition queries the external nutrition service. It returns nil
// when the step is unavailable: service not configured, transport failure,
// or no data for the phrase. Failures are logged, never surfaced.
func (uc *UseCases) lookupNutrition(ctx context.Context, foodName string, quantity float64) *model.Resolution {
	if uc.nutrition == nil {
		return nil
	}

	phrase := fmt.Sprintf("%g %s", quantity, foodName)
	result, err := uc.nutrition.Lookup(ctx, phrase)
	if err != nil {
		logging.From(ctx).Warn("nutrition lookup unavailable, falling back to catalog",
			"phrase", phrase, "error", err.Error())
		return nil
	}
	if result == nil {
		return nil
	}

	food := uc.learnFood(ctx, result.FoodName, quantity, result.TotalKcal)
	return model.NewResolved(food, quantity, result.TotalKcal)
}

// learnFood makes sure a food resolved by the nutrition service exists in
// the catalog, deriving a per-serving calorie value so future lookups
// short-circuit the external call. A concurrent creation race is recovered
// by re-reading the winning entry. Learning failures never fail the
// resolution; the transient entry is returned instead.
func (uc *UseCases) learnFood(ctx context.Context, name string, quantity, totalKcal float64) *model.FoodItem {
	kcalPerUnit := totalKcal
	if quantity > 0 {
		kcalPerUnit = totalKcal / quantity
	}
	item := model.NewFoodItem(name, types.UnitServing, kcalPerUnit)

	err := uc.repo.Catalog().Create(ctx, item)
	if err == nil {
		logging.From(ctx).Info("learned new catalog entry",
			"name", item.Name, "kcalPerUnit", item.KcalPerUnit)
		return item
	}

	if errors.Is(err, repository.ErrAlreadyExists) {
		existing, getErr := uc.repo.Catalog().Get(ctx, item.ID)
		if getErr == nil {
			return existing
		}
		logging.From(ctx).Warn("failed to re-read catalog entry after create race",
			"id", item.ID, "error", getErr.Error())
		return item
	}

	logging.From(ctx).Warn("failed to learn catalog entry",
		"id", item.ID, "error", err.Error())
	return item
}

// lookupCatalog resolves against the local catalog by substring match. The
// first match in normalized-name order is authoritative.
func (uc *UseCases) lookupCatalog(ctx context.Context, foodName string, quantity float64) (*model.Resolution, error) {
	matches, err := uc.repo.Catalog().Search(ctx, foodName)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search catalog", goerr.V("foodName", foodName))
	}

	if len(matches) == 0 {
		return model.NewUnresolved(replyNoLocalData(foodName)), nil
	}

	food := matches[0]
	return model.NewResolved(food, quantity, food.Kcal(quantity)), nil
}

// resolveImage resolves a food photo: the highest-confidence label from the
// vision service becomes the food-name hypothesis with quantity defaulted
// to one serving. The outcome is never auto-logged; a successful resolution
// is downgraded to ambiguous and must be confirmed by the sender.
func (uc *UseCases) resolveImage(ctx context.Context, image []byte) (*model.Resolution, error) {
	if uc.vision == nil {
		return model.NewUnresolved(replyAskFoodName), nil
	}

	labels, err := uc.vision.DetectLabels(ctx, image)
	if err != nil {
		logging.From(ctx).Warn("image labeling unavailable", "error", err.Error())
		return model.NewUnresolved(replyAskFoodName), nil
	}
	if len(labels) == 0 {
		return model.NewUnresolved(replyAskFoodName), nil
	}

	// No food-vs-non-food filtering: the top label is the hypothesis
	label := labels[0].Description

	res, err := uc.resolveText(ctx, label, 1.0)
	if err != nil {
		return nil, err
	}
	if res.Status != model.ResolutionResolved {
		return model.NewUnresolved(replyLabelNoData(label)), nil
	}

	food := &model.FoodItem{ID: res.FoodID, Name: res.FoodName}
	return model.NewAmbiguous(food, res.Quantity, res.Kcal), nil
}
