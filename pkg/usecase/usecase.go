package usecase

import (
	"time"

	"github.com/harvest-lab/demeter/pkg/domain/interfaces"
	"github.com/harvest-lab/demeter/pkg/service/nutrition"
	"github.com/harvest-lab/demeter/pkg/service/vision"
)

// UseCases holds the message-handling pipeline and its collaborators.
// External services are injected at construction; a nil service means the
// corresponding resolution step is unavailable and the fallback chain skips
// it (no ambient configuration is read at call time).
type UseCases struct {
	repo      interfaces.Repository
	nutrition nutrition.Service
	vision    vision.Service
	now       func() time.Time
}

type Option func(*UseCases)

// WithNutrition enables the external nutrition resolution step
func WithNutrition(svc nutrition.Service) Option {
	return func(uc *UseCases) {
		uc.nutrition = svc
	}
}

// WithVision enables the image labeling resolution step
func WithVision(svc vision.Service) Option {
	return func(uc *UseCases) {
		uc.vision = svc
	}
}

// WithClock overrides the time source, used for testing
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
