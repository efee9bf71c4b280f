package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/hra/pkg/cli/config"
	"github.com/secmon-lab/hra/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// parseFlags runs a bare command so the flag destinations are populated
func parseFlags(t *testing.T, flags []cli.Flag, args ...string) {
	t.Helper()
	cmd := &cli.Command{
		Name:  "test",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			return nil
		},
	}
	gt.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...))).Required()
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

const fullLikelihood = `
[[likelihood]]
score = 5
name = "Almost certain"
description = "Expected in most circumstances"

[[likelihood]]
score = 1
name = "Rare"

[[likelihood]]
score = 2
name = "Unlikely"

[[likelihood]]
score = 3
name = "Possible"

[[likelihood]]
score = 4
name = "Likely"
`

func TestLoadAppConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "likelihood only",
			content: fullLikelihood,
		},
		{
			name:    "empty file keeps defaults",
			content: "",
		},
		{
			name: "score out of range",
			content: `
[[severity]]
score = 6
name = "Catastrophic"
`,
			wantErr: config.ErrScoreOutOfRange,
		},
		{
			name: "missing name",
			content: `
[[severity]]
score = 1
`,
			wantErr: config.ErrMissingName,
		},
		{
			name: "duplicate score",
			content: `
[[severity]]
score = 1
name = "Negligible"

[[severity]]
score = 1
name = "Minor"
`,
			wantErr: config.ErrDuplicateScore,
		},
		{
			name: "incomplete axis",
			content: `
[[severity]]
score = 1
name = "Negligible"
`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "broken toml",
			content: `[[severity`,
			wantErr: config.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.LoadAppConfiguration(writeConfig(t, tt.content))
			if tt.wantErr != nil {
				gt.Error(t, err).Is(tt.wantErr)
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, cfg).NotNil()
		})
	}
}

func TestAppConfig_Configure(t *testing.T) {
	t.Run("labels are sorted by score", func(t *testing.T) {
		var appCfg config.AppConfig
		parseFlags(t, appCfg.Flags(), "--config", writeConfig(t, fullLikelihood))

		riskCfg, err := appCfg.Configure()
		gt.NoError(t, err).Required()
		gt.Array(t, riskCfg.Likelihood).Length(5).Required()
		gt.Value(t, riskCfg.Likelihood[0].Name).Equal("Rare")
		gt.Value(t, riskCfg.LikelihoodName(types.Likelihood(5))).Equal("Almost certain")
		gt.Array(t, riskCfg.Severity).Length(5)
	})

	t.Run("missing file falls back to defaults", func(t *testing.T) {
		var appCfg config.AppConfig
		parseFlags(t, appCfg.Flags(), "--config", filepath.Join(t.TempDir(), "absent.toml"))

		riskCfg, err := appCfg.Configure()
		gt.NoError(t, err).Required()
		gt.Array(t, riskCfg.Likelihood).Length(5)
	})

	t.Run("no flag", func(t *testing.T) {
		var appCfg config.AppConfig
		parseFlags(t, appCfg.Flags())

		riskCfg, err := appCfg.Configure()
		gt.NoError(t, err).Required()
		gt.Array(t, riskCfg.Severity).Length(5)
	})
}
