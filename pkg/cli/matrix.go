package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/secmon-lab/hra/pkg/cli/config"
	"github.com/secmon-lab/hra/pkg/usecase"
	"github.com/urfave/cli/v3"
)

const matrixCellWidth = 6

func cmdMatrix() *cli.Command {
	var appCfg config.AppConfig

	return &cli.Command{
		Name:   "matrix",
		Usage:  "Print the 5x5 risk matrix",
		Flags:  appCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			riskCfg, err := appCfg.Configure()
			if err != nil {
				return err
			}
			view := usecase.NewMatrixUseCase(riskCfg, nil).Matrix()

			labelWidth := 0
			for _, l := range view.Likelihood {
				labelWidth = max(labelWidth, len(l.Name)+4)
			}

			w := output(c)
			fmt.Fprintf(w, "%-*s", labelWidth, "L \\ S")
			for _, s := range view.Severity {
				fmt.Fprintf(w, "%-*d", matrixCellWidth, s.Score)
			}
			fmt.Fprintln(w)

			// highest likelihood on top, as the matrix is usually drawn
			for i := len(view.Rows) - 1; i >= 0; i-- {
				row := view.Rows[i]
				fmt.Fprintf(w, "%-*s", labelWidth, fmt.Sprintf("%d %s", row[0].Likelihood, riskCfg.LikelihoodName(row[0].Likelihood)))
				for _, cell := range row {
					text := string(cell.Code) + strings.Repeat(" ", matrixCellWidth-len(cell.Code))
					fmt.Fprint(w, paint(cell.Tier, text))
				}
				fmt.Fprintln(w)
			}

			fmt.Fprintln(w)
			for _, s := range view.Severity {
				fmt.Fprintf(w, "S%d %s\n", s.Score, s.Name)
			}
			return nil
		},
	}
}
