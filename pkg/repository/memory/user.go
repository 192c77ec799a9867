package memory

import (
	"context"
	"sync"

	"github.com/harvest-lab/demeter/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type userRepository struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newUserRepository() *userRepository {
	return &userRepository{
		users: make(map[string]*model.User),
	}
}

func (r *userRepository) GetOrCreate(ctx context.Context, address string) (*model.User, error) {
	if address == "" {
		return nil, goerr.New("address is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.users[address]; ok {
		copied := *user
		return &copied, nil
	}

	user := model.NewUser(address)
	if err := user.Validate(); err != nil {
		return nil, goerr.Wrap(err, "failed to create user", goerr.V("address", address))
	}
	r.users[address] = user

	copied := *user
	return &copied, nil
}

func (r *userRepository) UpdateTarget(ctx context.Context, address string, target int) error {
	if target < 0 {
		return goerr.New("target must be non-negative", goerr.V("target", target))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[address]
	if !ok {
		return goerr.Wrap(ErrNotFound, "user not found", goerr.V("address", address))
	}
	user.DailyTarget = target
	return nil
}
