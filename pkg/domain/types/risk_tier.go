package types

import "fmt"

// RiskTier is the human-readable name of a RiskCode
type RiskTier string

const (
	RiskTierLow     RiskTier = "Low"
	RiskTierMedium  RiskTier = "Medium"
	RiskTierHigh    RiskTier = "High"
	RiskTierExtreme RiskTier = "Extreme"
)

// AllRiskTiers returns all valid tiers from the lowest to the highest
func AllRiskTiers() []RiskTier {
	return []RiskTier{
		RiskTierLow,
		RiskTierMedium,
		RiskTierHigh,
		RiskTierExtreme,
	}
}

// IsValid checks if the risk tier is valid
func (t RiskTier) IsValid() bool {
	switch t {
	case RiskTierLow,
		RiskTierMedium,
		RiskTierHigh,
		RiskTierExtreme:
		return true
	default:
		return false
	}
}

// String returns the string representation of the risk tier
func (t RiskTier) String() string {
	return string(t)
}

// ParseRiskTier parses a string into a RiskTier
func ParseRiskTier(s string) (RiskTier, error) {
	tier := RiskTier(s)
	if !tier.IsValid() {
		return "", fmt.Errorf("invalid risk tier: %s", s)
	}
	return tier, nil
}
