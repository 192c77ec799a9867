package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/harvest-lab/demeter/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// logResolved writes one log entry for a resolved outcome and reports the
// updated daily total against the user's target.
func (uc *UseCases) logResolved(ctx context.Context, user *model.User, res *model.Resolution) (string, error) {
	now := uc.now()
	entry := model.NewLogEntry(user.ID, res.FoodID, res.FoodName, res.Quantity, res.Kcal, now)

	if err := uc.repo.Log().Append(ctx, entry); err != nil {
		return "", goerr.Wrap(err, "failed to append log entry", goerr.V("userID", user.ID))
	}

	total, err := uc.repo.Log().SumDay(ctx, user.ID, now)
	if err != nil {
		return "", goerr.Wrap(err, "failed to sum today's calories", goerr.V("userID", user.ID))
	}

	return replyLogged(res.Quantity, res.FoodName, res.Kcal, total, user.DailyTarget), nil
}

// reportToday renders today's entries, most recent first, with the
// cumulative total against the target.
func (uc *UseCases) reportToday(ctx context.Context, user *model.User) (string, error) {
	now := uc.now()

	total, err := uc.repo.Log().SumDay(ctx, user.ID, now)
	if err != nil {
		return "", goerr.Wrap(err, "failed to sum today's calories", goerr.V("userID", user.ID))
	}

	entries, err := uc.repo.Log().ListDay(ctx, user.ID, now)
	if err != nil {
		return "", goerr.Wrap(err, "failed to list today's log entries", goerr.V("userID", user.ID))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Today: %d/%d kcal\n", int(total), user.DailyTarget)
	if len(entries) == 0 {
		b.WriteString("No logs today.")
		return b.String(), nil
	}

	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, fmt.Sprintf("%g x %s = %d kcal", entry.Quantity, entry.FoodName, int(entry.Kcal)))
	}
	b.WriteString(strings.Join(lines, "\n"))

	return b.String(), nil
}

// setTarget validates and updates the user's daily calorie target. Invalid
// input gets a usage hint and no persistence side effect.
func (uc *UseCases) setTarget(ctx context.Context, user *model.User, args []string) (string, error) {
	if len(args) == 0 {
		return replyTargetUsage, nil
	}

	// Digits only: no sign, no decimal point
	for _, r := range args[0] {
		if r < '0' || r > '9' {
			return replyTargetUsage, nil
		}
	}
	target, err := strconv.Atoi(args[0])
	if err != nil {
		return replyTargetUsage, nil
	}

	if err := uc.repo.User().UpdateTarget(ctx, user.Address, target); err != nil {
		return "", goerr.Wrap(err, "failed to update daily target", goerr.V("address", user.Address))
	}

	return fmt.Sprintf("Daily target set to %d kcal.", target), nil
}
