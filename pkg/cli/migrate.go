package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/cli/config"
	"github.com/secmon-lab/hra/pkg/repository/firestore"
	"github.com/secmon-lab/hra/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var repoCfg config.Repository
	var dryRun bool

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Preview changes without applying",
			Destination: &dryRun,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Create Firestore indexes or PostgreSQL tables",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			switch repoCfg.Backend() {
			case config.BackendFirestore:
				return migrateFirestore(ctx, &repoCfg, dryRun)
			case config.BackendPostgres:
				return migratePostgres(ctx, &repoCfg, dryRun)
			default:
				return goerr.New("migration is not available for this backend", goerr.V("backend", repoCfg.Backend()))
			}
		},
	}
}

func migrateFirestore(ctx context.Context, repoCfg *config.Repository, dryRun bool) error {
	logger := logging.Default()

	if repoCfg.ProjectID() == "" {
		return goerr.New("firestore-project-id is required")
	}

	logger.Info("Migrate configuration",
		"projectID", repoCfg.ProjectID(),
		"databaseID", repoCfg.DatabaseID(),
		"dryRun", dryRun)

	indexConfig := getIndexConfig(repoCfg.CollectionPrefix())
	if err := indexConfig.Validate(); err != nil {
		return goerr.Wrap(err, "invalid index configuration")
	}

	client, err := fireconf.New(ctx, repoCfg.ProjectID(), repoCfg.DatabaseID(), indexConfig, fireconf.WithLogger(logger))
	if err != nil {
		return goerr.Wrap(err, "failed to create fireconf client")
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close fireconf client", "error", err.Error())
		}
	}()

	if dryRun {
		logger.Info("Dry run mode - previewing changes")
		current, err := client.Import(ctx, collectionNames(indexConfig)...)
		if err != nil {
			return goerr.Wrap(err, "failed to import current indexes")
		}
		diff, err := client.DiffConfigs(current)
		if err != nil {
			return goerr.Wrap(err, "failed to compare index configuration")
		}
		logMigrationPlan(logger, diff)
		return nil
	}

	logger.Info("Applying migrations")
	if err := client.Migrate(ctx); err != nil {
		return goerr.Wrap(err, "failed to apply migrations")
	}
	logger.Info("Migrations applied successfully")
	return nil
}

func collectionNames(cfg *fireconf.Config) []string {
	names := make([]string, 0, len(cfg.Collections))
	for _, col := range cfg.Collections {
		names = append(names, col.Name)
	}
	return names
}

func logMigrationPlan(logger *slog.Logger, diff *fireconf.DiffResult) {
	if len(diff.Collections) == 0 {
		logger.Info("No changes required")
		return
	}

	for _, col := range diff.Collections {
		logger.Info("Migration step",
			"collection", col.Name,
			"action", string(col.Action),
			"indexesToAdd", len(col.IndexesToAdd),
			"indexesToDelete", len(col.IndexesToDelete),
			"ttlAction", string(col.TTLAction))
	}
}

func migratePostgres(ctx context.Context, repoCfg *config.Repository, dryRun bool) error {
	if dryRun {
		logging.Default().Info("Dry run mode - schema statements are idempotent, nothing to preview")
		return nil
	}

	repo, err := repoCfg.ConfigurePostgres(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logging.Default().Error("failed to close repository", "error", err.Error())
		}
	}()

	if err := repo.Migrate(ctx); err != nil {
		return goerr.Wrap(err, "failed to apply schema")
	}
	logging.Default().Info("PostgreSQL schema applied successfully")
	return nil
}

// getIndexConfig returns the Firestore index configuration
func getIndexConfig(prefix string) *fireconf.Config {
	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: firestore.CollectionName(prefix, firestore.CollectionSurveyAnswers),
				Indexes: []fireconf.Index{
					// ListByUser: user_id ASC, created_at ASC
					{
						Fields: []fireconf.IndexField{
							{Path: "user_id", Order: fireconf.OrderAscending},
							{Path: "created_at", Order: fireconf.OrderAscending},
						},
					},
				},
			},
		},
	}
}
