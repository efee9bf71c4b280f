package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/interfaces"
	"github.com/secmon-lab/hra/pkg/domain/model"
	"github.com/secmon-lab/hra/pkg/service/metrics"
)

type SurveyUseCase struct {
	repo    interfaces.Repository
	loader  *ReferenceLoader
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewSurveyUseCase(repo interfaces.Repository, loader *ReferenceLoader, m *metrics.Metrics, now func() time.Time) *SurveyUseCase {
	if now == nil {
		now = time.Now
	}
	return &SurveyUseCase{
		repo:    repo,
		loader:  loader,
		metrics: m,
		now:     now,
	}
}

// Submit records which HRA activity the caller works on today. A user answers at most once per
// UTC day.
func (uc *SurveyUseCase) Submit(ctx context.Context, hraID model.HRAID) ([]*model.JobSurveyAnswer, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	submitted, err := uc.HasSubmittedToday(ctx)
	if err != nil {
		return nil, err
	}
	if submitted {
		return nil, goerr.Wrap(ErrSurveyAlreadySubmitted, "survey already submitted", goerr.V(UserIDKey, user.ID))
	}

	h, err := uc.repo.HRA().Get(ctx, hraID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrHRANotFound, "hra not found", goerr.V(HRAIDKey, hraID))
		}
		return nil, goerr.Wrap(err, "failed to get hra", goerr.V(HRAIDKey, hraID))
	}

	refs, err := uc.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	answers := model.BuildSurveyAnswers(user.ID, h, refs, uc.now().UTC())
	if err := uc.repo.Survey().SaveMany(ctx, answers); err != nil {
		return nil, goerr.Wrap(err, "failed to save survey answers", goerr.V(UserIDKey, user.ID))
	}
	uc.metrics.RecordSurveySubmission()

	return answers, nil
}

func (uc *SurveyUseCase) HasSubmittedToday(ctx context.Context) (bool, error) {
	answers, err := uc.Answers(ctx, uc.now())
	if err != nil {
		return false, err
	}
	return len(answers) > 0, nil
}

// Answers returns the caller's answers of the UTC day containing day
func (uc *SurveyUseCase) Answers(ctx context.Context, day time.Time) ([]*model.JobSurveyAnswer, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	from, to := model.DayRange(day)
	answers, err := uc.repo.Survey().ListByUser(ctx, user.ID, from, to)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list survey answers", goerr.V(UserIDKey, user.ID))
	}
	return answers, nil
}

// PersonalHRA returns the HRA records the caller chose in the survey of the given day
func (uc *SurveyUseCase) PersonalHRA(ctx context.Context, day time.Time) ([]*model.HRA, error) {
	answers, err := uc.Answers(ctx, day)
	if err != nil {
		return nil, err
	}

	seen := make(map[model.HRAID]struct{})
	var ids []model.HRAID
	for _, a := range answers {
		if _, ok := seen[a.HRAID]; ok {
			continue
		}
		seen[a.HRAID] = struct{}{}
		ids = append(ids, a.HRAID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	records, err := uc.repo.HRA().List(ctx, interfaces.HRAFilter{IDs: ids})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list hra")
	}
	return records, nil
}

// Today returns the current survey day
func (uc *SurveyUseCase) Today() time.Time {
	return uc.now().UTC()
}
