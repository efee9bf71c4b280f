package config

import (
	"errors"
	"io/fs"
	"os"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	domainConfig "github.com/secmon-lab/hra/pkg/domain/model/config"
	"github.com/secmon-lab/hra/pkg/domain/types"
	"github.com/secmon-lab/hra/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// AppConfig holds the display labels of the rating levels. The matrix itself is fixed.
type AppConfig struct {
	path string

	Likelihood []Level `toml:"likelihood"`
	Severity   []Level `toml:"severity"`
}

// Level represents one rating level of the likelihood or severity axis
type Level struct {
	Score       int    `toml:"score"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

// Validate checks if the Level is valid
func (l *Level) Validate() error {
	if l.Score < types.MinLevel || l.Score > types.MaxLevel {
		return goerr.Wrap(ErrScoreOutOfRange, "invalid level", goerr.V(ScoreKey, l.Score))
	}
	if l.Name == "" {
		return goerr.Wrap(ErrMissingName, "level name is required", goerr.V(ScoreKey, l.Score))
	}
	return nil
}

func (a *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to the TOML file with likelihood/severity level labels",
			Sources:     cli.EnvVars("HRA_CONFIG"),
			Destination: &a.path,
		},
	}
}

// Configure loads the level labels. Without --config, or when the file does not exist, the built-in
// labels are used.
func (a *AppConfig) Configure() (*domainConfig.RiskConfig, error) {
	if a.path == "" {
		return domainConfig.DefaultRiskConfig(), nil
	}

	cfg, err := LoadAppConfiguration(a.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.Default().Warn("config file not found, using built-in level labels", ConfigPathKey, a.path)
			return domainConfig.DefaultRiskConfig(), nil
		}
		return nil, err
	}
	return cfg.ToDomainRiskConfig(), nil
}

func validateAxis(axis string, levels []Level) error {
	if len(levels) == 0 {
		return nil
	}

	seen := make(map[int]bool)
	for _, l := range levels {
		if err := l.Validate(); err != nil {
			return goerr.Wrap(err, "invalid level", goerr.V(AxisKey, axis))
		}
		if seen[l.Score] {
			return goerr.Wrap(ErrDuplicateScore, "duplicate level score", goerr.V(AxisKey, axis), goerr.V(ScoreKey, l.Score))
		}
		seen[l.Score] = true
	}

	if len(seen) != types.MaxLevel {
		return goerr.Wrap(ErrInvalidConfig, "every score from 1 to 5 must be labelled",
			goerr.V(AxisKey, axis), goerr.V("count", len(seen)))
	}
	return nil
}

// Validate checks if the AppConfig is valid. An omitted axis keeps the built-in labels.
func (a *AppConfig) Validate() error {
	if err := validateAxis("likelihood", a.Likelihood); err != nil {
		return err
	}
	if err := validateAxis("severity", a.Severity); err != nil {
		return err
	}
	return nil
}

// LoadAppConfiguration loads the level labels from a TOML file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var config AppConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, err.Error(), goerr.V(ConfigPathKey, path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &config, nil
}

// ToDomainRiskConfig converts AppConfig to domain RiskConfig, ordered by score
func (a *AppConfig) ToDomainRiskConfig() *domainConfig.RiskConfig {
	cfg := domainConfig.DefaultRiskConfig()

	if len(a.Likelihood) > 0 {
		cfg.Likelihood = make([]domainConfig.LikelihoodLevel, 0, len(a.Likelihood))
		for _, l := range a.Likelihood {
			cfg.Likelihood = append(cfg.Likelihood, domainConfig.LikelihoodLevel{
				Score:       types.Likelihood(l.Score),
				Name:        l.Name,
				Description: l.Description,
			})
		}
		sort.Slice(cfg.Likelihood, func(i, j int) bool {
			return cfg.Likelihood[i].Score < cfg.Likelihood[j].Score
		})
	}

	if len(a.Severity) > 0 {
		cfg.Severity = make([]domainConfig.SeverityLevel, 0, len(a.Severity))
		for _, s := range a.Severity {
			cfg.Severity = append(cfg.Severity, domainConfig.SeverityLevel{
				Score:       types.Severity(s.Score),
				Name:        s.Name,
				Description: s.Description,
			})
		}
		sort.Slice(cfg.Severity, func(i, j int) bool {
			return cfg.Severity[i].Score < cfg.Severity[j].Score
		})
	}

	return cfg
}
