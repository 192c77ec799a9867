package config

import (
	"log/slog"
	"time"

	"github.com/harvest-lab/demeter/pkg/service/nutrition"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Nutrition holds CLI flags for the external nutrition service
type Nutrition struct {
	appID   string
	appKey  string
	timeout time.Duration
}

// Flags returns CLI flags for nutrition service configuration
func (x *Nutrition) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "nutrition-app-id",
			Usage:       "Nutritionix application ID",
			Category:    "Nutrition",
			Sources:     cli.EnvVars("DEMETER_NUTRITION_APP_ID"),
			Destination: &x.appID,
		},
		&cli.StringFlag{
			Name:        "nutrition-app-key",
			Usage:       "Nutritionix application key",
			Category:    "Nutrition",
			Sources:     cli.EnvVars("DEMETER_NUTRITION_APP_KEY"),
			Destination: &x.appKey,
		},
		&cli.DurationFlag{
			Name:        "nutrition-timeout",
			Usage:       "Timeout budget for nutrition API requests",
			Category:    "Nutrition",
			Value:       15 * time.Second,
			Sources:     cli.EnvVars("DEMETER_NUTRITION_TIMEOUT"),
			Destination: &x.timeout,
		},
	}
}

func (x Nutrition) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("app-id.len", len(x.appID)),
		slog.Int("app-key.len", len(x.appKey)),
		slog.Duration("timeout", x.timeout),
	)
}

// IsConfigured checks if nutrition service credentials are set
func (x *Nutrition) IsConfigured() bool {
	return x.appID != "" && x.appKey != ""
}

// Configure creates the nutrition service from the configured flags.
// Returns nil if credentials are not set; the resolution chain then skips
// the external lookup and falls through to the local catalog.
func (x *Nutrition) Configure() (nutrition.Service, error) {
	if !x.IsConfigured() {
		return nil, nil
	}

	svc, err := nutrition.New(x.appID, x.appKey, nutrition.WithTimeout(x.timeout))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create nutrition service")
	}

	return svc, nil
}
