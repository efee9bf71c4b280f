package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrInvalidConfig   = goerr.New("invalid configuration")
	ErrDuplicateScore  = goerr.New("duplicate level score")
	ErrScoreOutOfRange = goerr.New("level score must be between 1 and 5")
	ErrMissingName     = goerr.New("name is required")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	ScoreKey      = "score"
	AxisKey       = "axis"
)
