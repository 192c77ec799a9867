package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/harvest-lab/demeter/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type userRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func (r *userRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + usersCollection)
}

func (r *userRepository) GetOrCreate(ctx context.Context, address string) (*model.User, error) {
	if address == "" {
		return nil, goerr.New("address is required")
	}

	docRef := r.collection().Doc(address)

	doc, err := docRef.Get(ctx)
	if err == nil {
		var user model.User
		if err := doc.DataTo(&user); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal user", goerr.V("address", address))
		}
		return &user, nil
	}
	if status.Code(err) != codes.NotFound {
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("address", address))
	}

	user := model.NewUser(address)
	if err := user.Validate(); err != nil {
		return nil, goerr.Wrap(err, "failed to create user", goerr.V("address", address))
	}

	if _, err := docRef.Create(ctx, user); err != nil {
		// Lost a first-contact race: the winning writer's row is authoritative
		if status.Code(err) == codes.AlreadyExists {
			doc, err := docRef.Get(ctx)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to re-read user after create race", goerr.V("address", address))
			}
			var existing model.User
			if err := doc.DataTo(&existing); err != nil {
				return nil, goerr.Wrap(err, "failed to unmarshal user", goerr.V("address", address))
			}
			return &existing, nil
		}
		return nil, goerr.Wrap(err, "failed to create user", goerr.V("address", address))
	}

	return user, nil
}

func (r *userRepository) UpdateTarget(ctx context.Context, address string, target int) error {
	if target < 0 {
		return goerr.New("target must be non-negative", goerr.V("target", target))
	}

	docRef := r.collection().Doc(address)
	_, err := docRef.Update(ctx, []firestore.Update{
		{Path: "DailyTarget", Value: target},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "user not found", goerr.V("address", address))
		}
		return goerr.Wrap(err, "failed to update daily target", goerr.V("address", address))
	}

	return nil
}
