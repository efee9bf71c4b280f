package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/types"
)

// ErrInvalidInput is returned by Evaluate when likelihood or severity is missing or outside [1,5].
var ErrInvalidInput = goerr.New("invalid risk input")

// riskMatrix is indexed [likelihood-1][severity-1].
var riskMatrix = [types.MaxLevel][types.MaxLevel]types.RiskCode{
	{types.RiskCodeC, types.RiskCodeC, types.RiskCodeC, types.RiskCodeC, types.RiskCodeB},
	{types.RiskCodeC, types.RiskCodeC, types.RiskCodeC, types.RiskCodeB, types.RiskCodeB},
	{types.RiskCodeC, types.RiskCodeB, types.RiskCodeA, types.RiskCodeA, types.RiskCodeAA},
	{types.RiskCodeB, types.RiskCodeA, types.RiskCodeA, types.RiskCodeAA, types.RiskCodeAA},
	{types.RiskCodeB, types.RiskCodeA, types.RiskCodeA, types.RiskCodeAA, types.RiskCodeAA},
}

// RiskEvaluation is the risk derived from one likelihood/severity pair.
// Score, Code and Tier are zero until the pair has been evaluated successfully.
type RiskEvaluation struct {
	Likelihood types.Likelihood
	Severity   types.Severity

	// Score is likelihood × severity. It is derived independently of Code and the two are not reconciled.
	Score int
	Code  types.RiskCode
	Tier  types.RiskTier
}

// Evaluate looks up the risk code and tier of a likelihood/severity pair.
func Evaluate(likelihood types.Likelihood, severity types.Severity) (RiskEvaluation, error) {
	if err := likelihood.Validate(); err != nil {
		return RiskEvaluation{}, goerr.Wrap(ErrInvalidInput, err.Error(),
			goerr.V(LikelihoodKey, int(likelihood)), goerr.V(SeverityKey, int(severity)))
	}
	if err := severity.Validate(); err != nil {
		return RiskEvaluation{}, goerr.Wrap(ErrInvalidInput, err.Error(),
			goerr.V(LikelihoodKey, int(likelihood)), goerr.V(SeverityKey, int(severity)))
	}

	code := riskMatrix[likelihood-1][severity-1]
	return RiskEvaluation{
		Likelihood: likelihood,
		Severity:   severity,
		Score:      int(likelihood) * int(severity),
		Code:       code,
		Tier:       code.Tier(),
	}, nil
}

// RiskMatrix returns a copy of the lookup table, rows by likelihood and columns by severity.
func RiskMatrix() [types.MaxLevel][types.MaxLevel]types.RiskCode {
	return riskMatrix
}

// IsEvaluated reports whether the derived fields are populated
func (e RiskEvaluation) IsEvaluated() bool {
	return e.Code != ""
}

// Consistent reports whether the derived fields equal what Evaluate yields for the stored pair.
// A blank evaluation with an invalid pair is consistent.
func (e RiskEvaluation) Consistent() bool {
	expected, err := Evaluate(e.Likelihood, e.Severity)
	if err != nil {
		return !e.IsEvaluated()
	}
	return e == expected
}

// reevaluate replaces the pair and recomputes the derived fields. On invalid input the pair is kept
// and the derived fields are blanked.
func (e *RiskEvaluation) reevaluate(likelihood types.Likelihood, severity types.Severity) error {
	evaluated, err := Evaluate(likelihood, severity)
	if err != nil {
		*e = RiskEvaluation{Likelihood: likelihood, Severity: severity}
		return err
	}
	*e = evaluated
	return nil
}
