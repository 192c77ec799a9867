package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/harvest-lab/demeter/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type pendingRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func (r *pendingRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + pendingCollection)
}

// Put stores the suggestion keyed by sender address; the latest one wins
func (r *pendingRepository) Put(ctx context.Context, suggestion *model.PendingSuggestion) error {
	if err := suggestion.Validate(); err != nil {
		return goerr.Wrap(err, "invalid pending suggestion")
	}

	docRef := r.collection().Doc(suggestion.Address)
	if _, err := docRef.Set(ctx, suggestion); err != nil {
		return goerr.Wrap(err, "failed to put pending suggestion", goerr.V("address", suggestion.Address))
	}

	return nil
}

func (r *pendingRepository) Get(ctx context.Context, address string) (*model.PendingSuggestion, error) {
	doc, err := r.collection().Doc(address).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "no pending suggestion", goerr.V("address", address))
		}
		return nil, goerr.Wrap(err, "failed to get pending suggestion", goerr.V("address", address))
	}

	var suggestion model.PendingSuggestion
	if err := doc.DataTo(&suggestion); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal pending suggestion", goerr.V("address", address))
	}

	return &suggestion, nil
}

func (r *pendingRepository) Delete(ctx context.Context, address string) error {
	if _, err := r.collection().Doc(address).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete pending suggestion", goerr.V("address", address))
	}
	return nil
}
