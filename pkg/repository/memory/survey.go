package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/secmon-lab/hra/pkg/domain/model"
	"github.com/secmon-lab/hra/pkg/domain/types"
)

type surveyRepository struct {
	mu      sync.RWMutex
	answers []*model.JobSurveyAnswer
}

func newSurveyRepository() *surveyRepository {
	return &surveyRepository{}
}

func (r *surveyRepository) SaveMany(ctx context.Context, answers []*model.JobSurveyAnswer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range answers {
		copied := *a
		r.answers = append(r.answers, &copied)
	}
	return nil
}

func (r *surveyRepository) ListByUser(ctx context.Context, userID types.UserID, from, to time.Time) ([]*model.JobSurveyAnswer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.JobSurveyAnswer
	for _, a := range r.answers {
		if a.UserID != userID {
			continue
		}
		if a.CreatedAt.Before(from) || !a.CreatedAt.Before(to) {
			continue
		}
		copied := *a
		result = append(result, &copied)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}
