package cli

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/secmon-lab/hra/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

var tierColors = map[types.RiskTier]*color.Color{
	types.RiskTierLow:     color.New(color.FgGreen),
	types.RiskTierMedium:  color.New(color.FgYellow),
	types.RiskTierHigh:    color.New(color.FgHiRed),
	types.RiskTierExtreme: color.New(color.FgWhite, color.BgRed, color.Bold),
}

// paint colors s by risk tier; unknown tiers are printed plain
func paint(tier types.RiskTier, s string) string {
	c, ok := tierColors[tier]
	if !ok {
		return s
	}
	return c.Sprint(s)
}

func output(c *cli.Command) io.Writer {
	if w := c.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
