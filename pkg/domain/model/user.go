package model

import (
	"time"

	"github.com/harvest-lab/demeter/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultDailyTarget is the daily calorie target assigned on first contact
const DefaultDailyTarget = 2000

// User represents a messaging-platform user identified by sender address.
// Users are created on first contact and never deleted.
type User struct {
	ID          types.UserID
	Address     string
	DailyTarget int
	CreatedAt   time.Time
}

// NewUser creates a user with the default daily target
func NewUser(address string) *User {
	return &User{
		ID:          types.NewUserID(),
		Address:     address,
		DailyTarget: DefaultDailyTarget,
		CreatedAt:   time.Now().UTC(),
	}
}

// Validate checks if the user is valid
func (u *User) Validate() error {
	if err := u.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid user")
	}
	if u.Address == "" {
		return goerr.New("user address is required")
	}
	if u.DailyTarget < 0 {
		return goerr.New("daily target must be non-negative", goerr.V("target", u.DailyTarget))
	}
	return nil
}
