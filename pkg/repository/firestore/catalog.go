package firestore

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/harvest-lab/demeter/pkg/domain/model"
	"github.com/harvest-lab/demeter/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type catalogRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func (r *catalogRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + foodsCollection)
}

// Search scans the catalog and filters by substring in Go. Firestore has no
// substring query; the catalog is small (seed set plus learned foods) so a
// full scan is acceptable. Document ID order gives the deterministic
// normalized-name ascending ordering.
func (r *catalogRepository) Search(ctx context.Context, fragment string) ([]*model.FoodItem, error) {
	needle := strings.ToLower(strings.TrimSpace(fragment))

	iter := r.collection().OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var matches []*model.FoodItem
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate catalog", goerr.V("fragment", fragment))
		}

		var item model.FoodItem
		if err := doc.DataTo(&item); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal catalog entry", goerr.V("doc", doc.Ref.ID))
		}
		if strings.Contains(strings.ToLower(item.Name), needle) {
			matches = append(matches, &item)
		}
	}

	return matches, nil
}

func (r *catalogRepository) Get(ctx context.Context, id types.FoodID) (*model.FoodItem, error) {
	if err := id.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid food ID")
	}

	doc, err := r.collection().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "catalog entry not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get catalog entry", goerr.V("id", id))
	}

	var item model.FoodItem
	if err := doc.DataTo(&item); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal catalog entry", goerr.V("id", id))
	}

	return &item, nil
}

// Create inserts a catalog entry with the normalized name as document ID.
// Firestore's Create precondition enforces name uniqueness, so a concurrent
// duplicate surfaces as ErrAlreadyExists and the caller re-reads the winner.
func (r *catalogRepository) Create(ctx context.Context, item *model.FoodItem) error {
	if err := item.Validate(); err != nil {
		return goerr.Wrap(err, "invalid catalog entry")
	}

	docRef := r.collection().Doc(item.ID.String())
	if _, err := docRef.Create(ctx, item); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return goerr.Wrap(ErrAlreadyExists, "catalog entry already exists", goerr.V("id", item.ID))
		}
		return goerr.Wrap(err, "failed to create catalog entry", goerr.V("id", item.ID))
	}

	return nil
}
