package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/harvest-lab/demeter/pkg/domain/interfaces"
	"github.com/harvest-lab/demeter/pkg/repository"
	"github.com/m-mizutani/goerr/v2"
)

// Sentinel errors, shared across backends
var (
	ErrNotFound      = repository.ErrNotFound
	ErrAlreadyExists = repository.ErrAlreadyExists
)

const (
	usersCollection   = "users"
	foodsCollection   = "foods"
	logsCollection    = "logs"
	pendingCollection = "pending"
)

// Firestore is a Repository implementation backed by Google Cloud Firestore
type Firestore struct {
	client  *firestore.Client
	user    *userRepository
	catalog *catalogRepository
	log     *logRepository
	pending *pendingRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix prefixes all collection names, used to isolate test runs
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.user.collectionPrefix = prefix
		f.catalog.collectionPrefix = prefix
		f.log.collectionPrefix = prefix
		f.pending.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:  client,
		user:    &userRepository{client: client},
		catalog: &catalogRepository{client: client},
		log:     &logRepository{client: client},
		pending: &pendingRepository{client: client},
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) User() interfaces.UserRepository {
	return f.user
}

func (f *Firestore) Catalog() interfaces.CatalogRepository {
	return f.catalog
}

func (f *Firestore) Log() interfaces.LogRepository {
	return f.log
}

func (f *Firestore) Pending() interfaces.PendingRepository {
	return f.pending
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
