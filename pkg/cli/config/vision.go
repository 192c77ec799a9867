package config

import (
	"context"
	"log/slog"

	"github.com/harvest-lab/demeter/pkg/service/vision"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Vision holds CLI flags for the image labeling service
type Vision struct {
	enabled         bool
	credentialsFile string
}

// Flags returns CLI flags for vision service configuration
func (x *Vision) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "vision-enabled",
			Usage:       "Enable food photo labeling via Cloud Vision",
			Category:    "Vision",
			Sources:     cli.EnvVars("DEMETER_VISION_ENABLED"),
			Destination: &x.enabled,
		},
		&cli.StringFlag{
			Name:        "vision-credentials-file",
			Usage:       "Service account credentials file for Cloud Vision (default: application default credentials)",
			Category:    "Vision",
			Sources:     cli.EnvVars("DEMETER_VISION_CREDENTIALS_FILE"),
			Destination: &x.credentialsFile,
		},
	}
}

func (x Vision) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("enabled", x.enabled),
		slog.String("credentials_file", x.credentialsFile),
	)
}

// IsEnabled reports whether photo labeling is turned on
func (x *Vision) IsEnabled() bool {
	return x.enabled
}

// Configure creates the vision service from the configured flags. Returns
// nil if the feature is disabled; photo messages then get a reply asking
// the sender to name the food.
func (x *Vision) Configure(ctx context.Context) (vision.Service, error) {
	if !x.enabled {
		return nil, nil
	}

	svc, err := vision.New(ctx, x.credentialsFile)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create vision service")
	}

	return svc, nil
}
