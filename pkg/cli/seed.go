package cli

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/harvest-lab/demeter/pkg/cli/config"
	"github.com/harvest-lab/demeter/pkg/domain/interfaces"
	"github.com/harvest-lab/demeter/pkg/repository"
	"github.com/harvest-lab/demeter/pkg/utils/logging"
)

func cmdSeed() *cli.Command {
	var repoCfg config.Repository
	var catalogCfg config.Catalog

	flags := []cli.Flag{}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, catalogCfg.Flags()...)

	return &cli.Command{
		Name:  "seed",
		Usage: "Import the seed catalog into the repository and exit",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			seed, err := catalogCfg.Load()
			if err != nil {
				return goerr.Wrap(err, "failed to load seed catalog")
			}

			if err := seedCatalog(ctx, repo, seed); err != nil {
				return goerr.Wrap(err, "failed to seed catalog")
			}

			return nil
		},
	}
}

// seedCatalog inserts the seed entries, skipping foods that already exist so
// repeated runs and server restarts never clobber learned data.
func seedCatalog(ctx context.Context, repo interfaces.Repository, seed *config.SeedCatalog) error {
	logger := logging.From(ctx)

	var created, skipped int
	for _, item := range seed.Items() {
		if err := repo.Catalog().Create(ctx, item); err != nil {
			if errors.Is(err, repository.ErrAlreadyExists) {
				skipped++
				continue
			}
			return goerr.Wrap(err, "failed to create seed food", goerr.V("name", item.Name))
		}
		created++
	}

	logger.Info("Seed catalog loaded", "created", created, "skipped", skipped)
	return nil
}
