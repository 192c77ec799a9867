package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/harvest-lab/demeter/pkg/domain/model"
	"github.com/harvest-lab/demeter/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

type logRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func (r *logRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + logsCollection)
}

func (r *logRepository) Append(ctx context.Context, entry *model.LogEntry) error {
	if err := entry.Validate(); err != nil {
		return goerr.Wrap(err, "invalid log entry")
	}

	docRef := r.collection().Doc(entry.ID.String())
	if _, err := docRef.Create(ctx, entry); err != nil {
		return goerr.Wrap(err, "failed to append log entry", goerr.V("id", entry.ID))
	}

	return nil
}

// dayRange returns the UTC calendar-day boundaries of day
func dayRange(day time.Time) (time.Time, time.Time) {
	d := day.UTC()
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

func (r *logRepository) query(userID types.UserID, day time.Time) firestore.Query {
	start, end := dayRange(day)
	return r.collection().
		Where("UserID", "==", userID.String()).
		Where("LoggedAt", ">=", start).
		Where("LoggedAt", "<", end)
}

func (r *logRepository) SumDay(ctx context.Context, userID types.UserID, day time.Time) (float64, error) {
	iter := r.query(userID, day).Documents(ctx)
	defer iter.Stop()

	var total float64
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, goerr.Wrap(err, "failed to iterate log entries", goerr.V("userID", userID))
		}

		var entry model.LogEntry
		if err := doc.DataTo(&entry); err != nil {
			return 0, goerr.Wrap(err, "failed to unmarshal log entry", goerr.V("doc", doc.Ref.ID))
		}
		total += entry.Kcal
	}

	return total, nil
}

func (r *logRepository) ListDay(ctx context.Context, userID types.UserID, day time.Time) ([]*model.LogEntry, error) {
	iter := r.query(userID, day).OrderBy("LoggedAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var entries []*model.LogEntry
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate log entries", goerr.V("userID", userID))
		}

		var entry model.LogEntry
		if err := doc.DataTo(&entry); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal log entry", goerr.V("doc", doc.Ref.ID))
		}
		entries = append(entries, &entry)
	}

	return entries, nil
}
