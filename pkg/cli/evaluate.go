package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/cli/config"
	"github.com/secmon-lab/hra/pkg/domain/types"
	"github.com/secmon-lab/hra/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdEvaluate() *cli.Command {
	var appCfg config.AppConfig

	return &cli.Command{
		Name:      "evaluate",
		Aliases:   []string{"e"},
		Usage:     "Evaluate a likelihood/severity pair through the risk matrix",
		ArgsUsage: "<likelihood> <severity>",
		Flags:     appCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 2 {
				return goerr.New("likelihood and severity are required", goerr.V("args", c.Args().Slice()))
			}

			likelihood, err := types.ParseLikelihood(c.Args().Get(0))
			if err != nil {
				return err
			}
			severity, err := types.ParseSeverity(c.Args().Get(1))
			if err != nil {
				return err
			}

			riskCfg, err := appCfg.Configure()
			if err != nil {
				return err
			}
			matrix := usecase.NewMatrixUseCase(riskCfg, nil)

			eval, err := matrix.Evaluate(likelihood, severity)
			if err != nil {
				return err
			}

			w := output(c)
			label := color.New(color.Bold).Sprint
			fmt.Fprintf(w, "%s %d (%s)\n", label("Likelihood:"), eval.Likelihood, riskCfg.LikelihoodName(eval.Likelihood))
			fmt.Fprintf(w, "%s %d (%s)\n", label("Severity:  "), eval.Severity, riskCfg.SeverityName(eval.Severity))
			fmt.Fprintf(w, "%s %d\n", label("Score:     "), eval.Score)
			fmt.Fprintf(w, "%s %s\n", label("Risk code: "), paint(eval.Tier, string(eval.Code)))
			fmt.Fprintf(w, "%s %s\n", label("Risk tier: "), paint(eval.Tier, string(eval.Tier)))
			return nil
		},
	}
}
