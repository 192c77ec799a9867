package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/harvest-lab/demeter/pkg/cli/config"
	httpctrl "github.com/harvest-lab/demeter/pkg/controller/http"
	"github.com/harvest-lab/demeter/pkg/usecase"
	"github.com/harvest-lab/demeter/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var repoCfg config.Repository
	var slackCfg config.Slack
	var nutritionCfg config.Nutrition
	var visionCfg config.Vision
	var catalogCfg config.Catalog

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("DEMETER_ADDR"),
			Destination: &addr,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, nutritionCfg.Flags()...)
	flags = append(flags, visionCfg.Flags()...)
	flags = append(flags, catalogCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
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

			// Seed the catalog so a fresh deployment can resolve common
			// foods without the external service
			seed, err := catalogCfg.Load()
			if err != nil {
				return goerr.Wrap(err, "failed to load seed catalog")
			}
			if err := seedCatalog(ctx, repo, seed); err != nil {
				return goerr.Wrap(err, "failed to seed catalog")
			}

			slackSvc, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure slack service")
			}

			ucOpts := []usecase.Option{}

			nutritionSvc, err := nutritionCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure nutrition service")
			}
			if nutritionSvc != nil {
				ucOpts = append(ucOpts, usecase.WithNutrition(nutritionSvc))
				logging.Default().Info("Nutrition service enabled", "config", nutritionCfg)
			} else {
				logging.Default().Info("Nutrition API not configured, resolution uses local catalog only")
			}

			visionSvc, err := visionCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure vision service")
			}
			if visionSvc != nil {
				ucOpts = append(ucOpts, usecase.WithVision(visionSvc))
				logging.Default().Info("Vision service enabled", "config", visionCfg)
			} else {
				logging.Default().Info("Vision service disabled, photo messages will ask for the food name")
			}

			uc := usecase.New(repo, ucOpts...)

			webhook := httpctrl.NewSlackWebhookHandler(uc, slackSvc)
			handler := httpctrl.New(
				httpctrl.WithSlackWebhook(webhook, slackCfg.SigningSecret()),
			)

			server := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
