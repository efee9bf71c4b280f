package usecase

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/model"
	"github.com/secmon-lab/hra/pkg/domain/model/config"
	"github.com/secmon-lab/hra/pkg/domain/types"
	"github.com/secmon-lab/hra/pkg/service/metrics"
)

// MatrixCell is one cell of the rendered risk matrix
type MatrixCell struct {
	Likelihood types.Likelihood
	Severity   types.Severity
	Score      int
	Code       types.RiskCode
	Tier       types.RiskTier
}

// MatrixView is the 5x5 matrix with the configured level labels. Rows are likelihood, columns
// are severity, both ascending.
type MatrixView struct {
	Likelihood []config.LikelihoodLevel
	Severity   []config.SeverityLevel
	Rows       [][]MatrixCell
}

type MatrixUseCase struct {
	riskConfig *config.RiskConfig
	metrics    *metrics.Metrics
}

func NewMatrixUseCase(cfg *config.RiskConfig, m *metrics.Metrics) *MatrixUseCase {
	if cfg == nil {
		cfg = config.DefaultRiskConfig()
	}
	return &MatrixUseCase{
		riskConfig: cfg,
		metrics:    m,
	}
}

func (uc *MatrixUseCase) RiskConfig() *config.RiskConfig {
	return uc.riskConfig
}

// Matrix renders the full grid through the evaluator
func (uc *MatrixUseCase) Matrix() *MatrixView {
	view := &MatrixView{
		Likelihood: uc.riskConfig.Likelihood,
		Severity:   uc.riskConfig.Severity,
	}

	for _, l := range types.AllLikelihoods() {
		row := make([]MatrixCell, 0, types.MaxLevel)
		for _, s := range types.AllSeverities() {
			// every pair of the grid is in range
			eval, _ := model.Evaluate(l, s)
			row = append(row, MatrixCell{
				Likelihood: l,
				Severity:   s,
				Score:      eval.Score,
				Code:       eval.Code,
				Tier:       eval.Tier,
			})
		}
		view.Rows = append(view.Rows, row)
	}

	return view
}

// Evaluate evaluates a single pair and records the outcome
func (uc *MatrixUseCase) Evaluate(likelihood types.Likelihood, severity types.Severity) (model.RiskEvaluation, error) {
	eval, err := model.Evaluate(likelihood, severity)
	uc.record(eval)
	return eval, err
}

// EvaluateText parses both ratings as base-10 integers before evaluating. A rating that does not
// parse is invalid input and is counted like any other rejected pair.
func (uc *MatrixUseCase) EvaluateText(likelihood, severity string) (model.RiskEvaluation, error) {
	l, err := types.ParseLikelihood(likelihood)
	if err != nil {
		uc.record(model.RiskEvaluation{})
		return model.RiskEvaluation{}, goerr.Wrap(model.ErrInvalidInput, err.Error(),
			goerr.V(model.LikelihoodKey, likelihood), goerr.V(model.SeverityKey, severity))
	}
	s, err := types.ParseSeverity(severity)
	if err != nil {
		uc.record(model.RiskEvaluation{})
		return model.RiskEvaluation{}, goerr.Wrap(model.ErrInvalidInput, err.Error(),
			goerr.V(model.LikelihoodKey, likelihood), goerr.V(model.SeverityKey, severity))
	}
	return uc.Evaluate(l, s)
}

// record counts an evaluation; a blank one is counted as invalid input
func (uc *MatrixUseCase) record(eval model.RiskEvaluation) {
	uc.metrics.RecordEvaluation(eval.Code)
}
