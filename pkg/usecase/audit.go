package usecase

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/interfaces"
	"github.com/secmon-lab/hra/pkg/domain/model"
	"github.com/secmon-lab/hra/pkg/service/metrics"
	"golang.org/x/sync/errgroup"
)

const repairConcurrency = 8

// Drift is a stored evaluation that disagrees with the matrix
type Drift struct {
	HRAID    model.HRAID
	Control  string
	Stored   model.RiskEvaluation
	Expected model.RiskEvaluation
}

// AuditReport is the result of scanning the stored HRA records
type AuditReport struct {
	Scanned int
	Drifts  []Drift
}

// DriftedIDs returns the IDs of drifted records without duplicates
func (r *AuditReport) DriftedIDs() []model.HRAID {
	seen := make(map[model.HRAID]struct{})
	var ids []model.HRAID
	for _, d := range r.Drifts {
		if _, ok := seen[d.HRAID]; ok {
			continue
		}
		seen[d.HRAID] = struct{}{}
		ids = append(ids, d.HRAID)
	}
	return ids
}

type AuditUseCase struct {
	repo    interfaces.Repository
	metrics *metrics.Metrics
}

func NewAuditUseCase(repo interfaces.Repository, m *metrics.Metrics) *AuditUseCase {
	return &AuditUseCase{
		repo:    repo,
		metrics: m,
	}
}

// Scan compares every stored evaluation with what the evaluator yields for its stored pair
func (uc *AuditUseCase) Scan(ctx context.Context) (*AuditReport, error) {
	records, err := uc.repo.HRA().List(ctx, interfaces.HRAFilter{})
	if err != nil {
		uc.metrics.RecordAudit(0, err)
		return nil, goerr.Wrap(err, "failed to list hra")
	}

	report := &AuditReport{Scanned: len(records)}
	for _, h := range records {
		for _, c := range []struct {
			name string
			eval model.RiskEvaluation
		}{
			{"without", h.WithoutControl},
			{"with", h.WithControl},
		} {
			if c.eval.Consistent() {
				continue
			}
			// invalid stored pairs yield a blank expectation
			expected, _ := model.Evaluate(c.eval.Likelihood, c.eval.Severity)
			report.Drifts = append(report.Drifts, Drift{
				HRAID:    h.ID,
				Control:  c.name,
				Stored:   c.eval,
				Expected: expected,
			})
		}
	}

	uc.metrics.RecordAudit(len(report.DriftedIDs()), nil)
	return report, nil
}

// Repair rewrites the derived fields of the drifted records through the evaluator.
// It returns the IDs that were rewritten.
func (uc *AuditUseCase) Repair(ctx context.Context, report *AuditReport) ([]model.HRAID, error) {
	var (
		mu       sync.Mutex
		repaired []model.HRAID
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(repairConcurrency)
	for _, id := range report.DriftedIDs() {
		eg.Go(func() error {
			h, err := uc.repo.HRA().Get(ctx, id)
			if err != nil {
				return goerr.Wrap(err, "failed to get hra", goerr.V(HRAIDKey, id))
			}

			// EditHRA recomputes both evaluations from the stored pairs
			d := model.EditHRA(h)
			fixed := h.Clone()
			fixed.WithoutControl = d.WithoutControl()
			fixed.WithControl = d.WithControl()

			if _, err := uc.repo.HRA().Update(ctx, fixed); err != nil {
				return goerr.Wrap(err, "failed to update hra", goerr.V(HRAIDKey, id))
			}

			mu.Lock()
			repaired = append(repaired, id)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return repaired, err
	}

	model.SortHRAIDs(repaired)
	return repaired, nil
}
