package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/harvest-lab/demeter/pkg/domain/model"
	"github.com/harvest-lab/demeter/pkg/repository"
	"github.com/m-mizutani/goerr/v2"
)

// HandleMessage interprets one inbound message and returns exactly one
// reply. Storage failures are returned as errors; the transport layer logs
// them and sends a generic apology. Everything else terminates in a
// user-facing reply.
func (uc *UseCases) HandleMessage(ctx context.Context, msg *model.Message) (string, error) {
	if msg == nil {
		return "", goerr.New("message is nil")
	}
	if msg.Sender == "" {
		return "", goerr.New("message sender is required")
	}

	user, err := uc.repo.User().GetOrCreate(ctx, msg.Sender)
	if err != nil {
		return "", goerr.Wrap(err, "failed to get or create user", goerr.V("sender", msg.Sender))
	}

	tokens := tokenize(msg.Text)

	// A caption that is itself an add command wins over image labeling
	if msg.HasImage() && !isAddCommand(tokens) {
		return uc.handleImage(ctx, msg)
	}

	if len(tokens) == 0 {
		return replyHelp, nil
	}

	switch tokens[0] {
	case "add", "log":
		return uc.handleAdd(ctx, user, tokens[1:])
	case "today", "total":
		return uc.reportToday(ctx, user)
	case "settarget", "target":
		return uc.setTarget(ctx, user, tokens[1:])
	case "yes", "ok":
		return uc.confirmPending(ctx, user)
	case "no", "cancel":
		return uc.discardPending(ctx, user)
	default:
		return replyHelp, nil
	}
}

func isAddCommand(tokens []string) bool {
	return len(tokens) > 0 && (tokens[0] == "add" || tokens[0] == "log")
}

// handleAdd resolves and logs a text command. The quantity is the trailing
// token; the two-token form ("add apple") defaults it to 1.
func (uc *UseCases) handleAdd(ctx context.Context, user *model.User, args []string) (string, error) {
	if len(args) == 0 {
		return replyAddUsage, nil
	}

	quantity := 1.0
	foodName := args[0]
	if len(args) > 1 {
		q, err := ParseQuantity(args[len(args)-1])
		if err != nil {
			return replyBadQuantity, nil
		}
		quantity = q
		foodName = strings.Join(args[:len(args)-1], " ")
	}

	res, err := uc.resolveText(ctx, foodName, quantity)
	if err != nil {
		return "", err
	}

	switch res.Status {
	case model.ResolutionResolved:
		return uc.logResolved(ctx, user, res)
	default:
		return res.Reason, nil
	}
}

// handleImage resolves a food photo into a pending suggestion that the
// sender must confirm before it is logged.
func (uc *UseCases) handleImage(ctx context.Context, msg *model.Message) (string, error) {
	res, err := uc.resolveImage(ctx, msg.Image)
	if err != nil {
		return "", err
	}

	if res.Status != model.ResolutionAmbiguous {
		return res.Reason, nil
	}

	food := &model.FoodItem{ID: res.FoodID, Name: res.FoodName}
	suggestion := model.NewPendingSuggestion(msg.Sender, food, res.Quantity, res.Kcal, uc.now())
	if err := uc.repo.Pending().Put(ctx, suggestion); err != nil {
		return "", goerr.Wrap(err, "failed to store pending suggestion", goerr.V("sender", msg.Sender))
	}

	return replySuggestion(res.FoodName, res.Kcal), nil
}

// confirmPending logs the sender's pending suggestion, if one exists and
// has not expired.
func (uc *UseCases) confirmPending(ctx context.Context, user *model.User) (string, error) {
	suggestion, err := uc.repo.Pending().Get(ctx, user.Address)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return replyNothingPending, nil
		}
		return "", goerr.Wrap(err, "failed to get pending suggestion", goerr.V("address", user.Address))
	}

	if err := uc.repo.Pending().Delete(ctx, user.Address); err != nil {
		return "", goerr.Wrap(err, "failed to delete pending suggestion", goerr.V("address", user.Address))
	}

	if suggestion.Expired(uc.now()) {
		return replyExpired, nil
	}

	res := &model.Resolution{
		Status:   model.ResolutionResolved,
		FoodID:   suggestion.FoodID,
		FoodName: suggestion.FoodName,
		Quantity: suggestion.Quantity,
		Kcal:     suggestion.Kcal,
	}
	return uc.logResolved(ctx, user, res)
}

// discardPending drops the sender's pending suggestion, if any
func (uc *UseCases) discardPending(ctx context.Context, user *model.User) (string, error) {
	if _, err := uc.repo.Pending().Get(ctx, user.Address); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return replyNothingPending, nil
		}
		return "", goerr.Wrap(err, "failed to get pending suggestion", goerr.V("address", user.Address))
	}

	if err := uc.repo.Pending().Delete(ctx, user.Address); err != nil {
		return "", goerr.Wrap(err, "failed to delete pending suggestion", goerr.V("address", user.Address))
	}

	return replyDiscarded, nil
}
