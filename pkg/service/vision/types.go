package vision

import "context"

// Label is a descriptive label returned by the vision service
type Label struct {
	Description string
	Score       float64
}

// Service returns descriptive labels for an image, ranked by confidence
// descending. An empty slice means the service recognized nothing; callers
// treat that like any other unavailability and degrade.
type Service interface {
	DetectLabels(ctx context.Context, image []byte) ([]Label, error)
}
