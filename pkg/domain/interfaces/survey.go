package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/hra/pkg/domain/model"
	"github.com/secmon-lab/hra/pkg/domain/types"
)

type SurveyRepository interface {
	// SaveMany stores all answers of one survey submission
	SaveMany(ctx context.Context, answers []*model.JobSurveyAnswer) error

	// ListByUser returns the answers of a user created in [from, to)
	ListByUser(ctx context.Context, userID types.UserID, from, to time.Time) ([]*model.JobSurveyAnswer, error)
}
