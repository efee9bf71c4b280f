package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/secmon-lab/hra/pkg/cli/config"
	httpctrl "github.com/secmon-lab/hra/pkg/controller/http"
	"github.com/secmon-lab/hra/pkg/service/metrics"
	"github.com/secmon-lab/hra/pkg/service/worker"
	"github.com/secmon-lab/hra/pkg/usecase"
	"github.com/secmon-lab/hra/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 10 * time.Second

func cmdServe() *cli.Command {
	var addr string
	var auditInterval time.Duration
	var auditOnWrite bool
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var storageCfg config.Storage
	var authCfg config.Auth

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("HRA_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "audit-interval",
			Usage:       "Interval of the risk consistency audit (0 disables it)",
			Value:       time.Hour,
			Sources:     cli.EnvVars("HRA_AUDIT_INTERVAL"),
			Destination: &auditInterval,
		},
		&cli.BoolFlag{
			Name:        "audit-on-write",
			Usage:       "Rescan stored records after every HRA write to keep the drift gauge current",
			Sources:     cli.EnvVars("HRA_AUDIT_ON_WRITE"),
			Destination: &auditOnWrite,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, authCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			riskCfg, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load risk level configuration")
			}

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			photoStorage, closeStorage, err := storageCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize photo storage")
			}
			defer closeStorage()

			authUC, err := authCfg.Configure(repo)
			if err != nil {
				return goerr.Wrap(err, "failed to configure authentication")
			}

			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			m := metrics.New(registry)

			ucOpts := []usecase.Option{
				usecase.WithRiskConfig(riskCfg),
				usecase.WithMetrics(m),
				usecase.WithAuth(authUC),
			}
			// a nil interface must not be wrapped into a typed one
			if photoStorage != nil {
				ucOpts = append(ucOpts, usecase.WithPhotoStorage(photoStorage))
			}
			uc := usecase.New(repo, ucOpts...)

			var auditWorker *worker.RiskAuditWorker
			if auditInterval > 0 {
				auditWorker = worker.NewRiskAuditWorker(uc.Audit, auditInterval)
				if err := auditWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start risk audit worker")
				}
			}

			httpHandler := httpctrl.New(uc,
				httpctrl.WithMetrics(m, registry),
				httpctrl.WithAuditOnWrite(auditOnWrite),
			)
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server",
					"addr", addr,
					"repository", repoCfg,
					"storage", storageCfg,
					"auth", authCfg,
				)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				if auditWorker != nil {
					auditWorker.Stop()
				}
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				if auditWorker != nil {
					auditWorker.Stop()
				}

				// Create shutdown context with timeout
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()

				// Attempt graceful shutdown
				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
