package types

import (
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Bounds of the ordinal scale shared by likelihood and severity.
const (
	MinLevel = 1
	MaxLevel = 5
)

// ErrLevelOutOfRange is returned when an ordinal rating lies outside [MinLevel, MaxLevel].
var ErrLevelOutOfRange = goerr.New("level out of range")

// ErrLevelNotNumeric is returned when a rating cannot be parsed as an integer.
var ErrLevelNotNumeric = goerr.New("level is not an integer")

func validateLevel(name string, v int) error {
	if v == 0 {
		return goerr.Wrap(ErrLevelOutOfRange, name+" is missing", goerr.V(name, v))
	}
	if v < MinLevel || v > MaxLevel {
		return goerr.Wrap(ErrLevelOutOfRange, name+" must be between 1 and 5", goerr.V(name, v))
	}
	return nil
}

func parseLevel(name, s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, goerr.Wrap(ErrLevelOutOfRange, name+" is missing")
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, goerr.Wrap(ErrLevelNotNumeric, "failed to parse "+name, goerr.V(name, s))
	}
	if err := validateLevel(name, v); err != nil {
		return 0, err
	}
	return v, nil
}
