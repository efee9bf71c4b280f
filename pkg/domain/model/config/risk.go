package config

import "github.com/secmon-lab/hra/pkg/domain/types"

// LikelihoodLevel describes one likelihood rating for display
type LikelihoodLevel struct {
	Score       types.Likelihood
	Name        string
	Description string
}

// SeverityLevel describes one severity rating for display
type SeverityLevel struct {
	Score       types.Severity
	Name        string
	Description string
}

// RiskConfig holds the labels shown next to the ordinal ratings. It never changes the matrix.
type RiskConfig struct {
	Likelihood []LikelihoodLevel
	Severity   []SeverityLevel
}

// DefaultRiskConfig returns the labels used when no configuration file is given
func DefaultRiskConfig() *RiskConfig {
	return &RiskConfig{
		Likelihood: []LikelihoodLevel{
			{Score: types.LikelihoodRare, Name: "Rare", Description: "May occur only in exceptional circumstances"},
			{Score: types.LikelihoodUnlikely, Name: "Unlikely", Description: "Could occur at some time"},
			{Score: types.LikelihoodPossible, Name: "Possible", Description: "Might occur occasionally"},
			{Score: types.LikelihoodLikely, Name: "Likely", Description: "Will probably occur in most circumstances"},
			{Score: types.LikelihoodAlmostCertain, Name: "Almost Certain", Description: "Expected to occur frequently"},
		},
		Severity: []SeverityLevel{
			{Score: types.SeverityNegligible, Name: "Negligible", Description: "No injury or first aid only"},
			{Score: types.SeverityMinor, Name: "Minor", Description: "Medical treatment, no lost time"},
			{Score: types.SeverityModerate, Name: "Moderate", Description: "Lost time injury or reversible illness"},
			{Score: types.SeverityMajor, Name: "Major", Description: "Permanent disability or irreversible illness"},
			{Score: types.SeverityCatastrophic, Name: "Catastrophic", Description: "Fatality or multiple permanent disabilities"},
		},
	}
}

// LikelihoodName returns the configured name of a likelihood, or "" when unknown
func (c *RiskConfig) LikelihoodName(l types.Likelihood) string {
	for _, level := range c.Likelihood {
		if level.Score == l {
			return level.Name
		}
	}
	return ""
}

// SeverityName returns the configured name of a severity, or "" when unknown
func (c *RiskConfig) SeverityName(s types.Severity) string {
	for _, level := range c.Severity {
		if level.Score == s {
			return level.Name
		}
	}
	return ""
}
