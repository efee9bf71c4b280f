package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/cli/config"
	"github.com/secmon-lab/hra/pkg/usecase"
	"github.com/secmon-lab/hra/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdRecompute() *cli.Command {
	var repoCfg config.Repository
	var apply bool

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "apply",
			Usage:       "Rewrite drifted records through the evaluator (default: report only)",
			Destination: &apply,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "recompute",
		Usage: "Compare stored risk codes and tiers with the risk matrix",
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

			audit := usecase.NewAuditUseCase(repo, nil)
			report, err := audit.Scan(ctx)
			if err != nil {
				return err
			}

			w := output(c)
			for _, d := range report.Drifts {
				fmt.Fprintf(w, "HRA %d (%s control): stored %s/%s score %d, expected %s/%s score %d\n",
					d.HRAID, d.Control,
					d.Stored.Code, d.Stored.Tier, d.Stored.Score,
					paint(d.Expected.Tier, string(d.Expected.Code)), d.Expected.Tier, d.Expected.Score)
			}
			ids := report.DriftedIDs()
			fmt.Fprintf(w, "scanned %d records, %d drifted\n", report.Scanned, len(ids))

			if !apply || len(ids) == 0 {
				return nil
			}

			repaired, err := audit.Repair(ctx, report)
			if err != nil {
				return goerr.Wrap(err, "failed to repair drifted records", goerr.V("repaired", repaired))
			}
			fmt.Fprintf(w, "repaired %d records\n", len(repaired))
			logging.Default().Info("Recomputed drifted HRA records", "ids", repaired)
			return nil
		},
	}
}
