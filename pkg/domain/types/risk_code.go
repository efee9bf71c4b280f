package types

import "fmt"

// RiskCode is the qualitative risk band read from the risk matrix
type RiskCode string

const (
	RiskCodeC  RiskCode = "C"
	RiskCodeB  RiskCode = "B"
	RiskCodeA  RiskCode = "A"
	RiskCodeAA RiskCode = "AA"
)

// AllRiskCodes returns all valid risk codes from the lowest band to the highest
func AllRiskCodes() []RiskCode {
	return []RiskCode{
		RiskCodeC,
		RiskCodeB,
		RiskCodeA,
		RiskCodeAA,
	}
}

// IsValid checks if the risk code is valid
func (c RiskCode) IsValid() bool {
	return c.Rank() > 0
}

// Rank orders the bands so that C < B < A < AA. Unknown codes rank 0.
func (c RiskCode) Rank() int {
	switch c {
	case RiskCodeC:
		return 1
	case RiskCodeB:
		return 2
	case RiskCodeA:
		return 3
	case RiskCodeAA:
		return 4
	default:
		return 0
	}
}

// Tier returns the human-readable label of the code. Unknown codes yield an empty tier.
func (c RiskCode) Tier() RiskTier {
	switch c {
	case RiskCodeC:
		return RiskTierLow
	case RiskCodeB:
		return RiskTierMedium
	case RiskCodeA:
		return RiskTierHigh
	case RiskCodeAA:
		return RiskTierExtreme
	default:
		return ""
	}
}

// String returns the string representation of the risk code
func (c RiskCode) String() string {
	return string(c)
}

// ParseRiskCode parses a string into a RiskCode
func ParseRiskCode(s string) (RiskCode, error) {
	code := RiskCode(s)
	if !code.IsValid() {
		return "", fmt.Errorf("invalid risk code: %s", s)
	}
	return code, nil
}
