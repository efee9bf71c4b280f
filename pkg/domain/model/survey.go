package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/hra/pkg/domain/types"
)

// JobSurveyAnswerID identifies a single survey answer
type JobSurveyAnswerID string

// NewJobSurveyAnswerID generates a new random answer ID
func NewJobSurveyAnswerID() JobSurveyAnswerID {
	return JobSurveyAnswerID(uuid.New().String())
}

// Questions of the daily job survey, in the order they are asked
const (
	SurveyQuestionProcess     = "What Process are you working on today?"
	SurveyQuestionSubProcess  = "What Sub Process are you working on today?"
	SurveyQuestionActivity    = "What Activity are you working on today?"
	SurveyQuestionSubActivity = "Which Sub Activity are you working on today?"
)

// JobSurveyAnswer records which HRA activity a worker performs on a given day
type JobSurveyAnswer struct {
	ID        JobSurveyAnswerID
	UserID    types.UserID
	HRAID     HRAID
	Question  string
	Answer    string
	CreatedAt time.Time
}

// BuildSurveyAnswers produces the answers of one survey for the chosen HRA. The sub-activity
// question is only answered when the HRA has one.
func BuildSurveyAnswers(userID types.UserID, hra *HRA, refs *ReferenceSet, now time.Time) []*JobSurveyAnswer {
	steps := []struct {
		question string
		kind     types.ReferenceKind
		id       ReferenceID
	}{
		{SurveyQuestionProcess, types.ReferenceKindProcess, hra.ProcessID},
		{SurveyQuestionSubProcess, types.ReferenceKindSubProcess, hra.SubProcessID},
		{SurveyQuestionActivity, types.ReferenceKindActivity, hra.ActivityID},
		{SurveyQuestionSubActivity, types.ReferenceKindSubActivity, hra.SubActivityID},
	}

	var answers []*JobSurveyAnswer
	for _, step := range steps {
		if step.id == 0 {
			continue
		}
		answer := ""
		if ref, ok := refs.Lookup(step.kind, step.id); ok {
			answer = ref.Label()
		}
		answers = append(answers, &JobSurveyAnswer{
			ID:        NewJobSurveyAnswerID(),
			UserID:    userID,
			HRAID:     hra.ID,
			Question:  step.question,
			Answer:    answer,
			CreatedAt: now,
		})
	}
	return answers
}

// DayRange returns the UTC [start, end) bounds of the day containing t
func DayRange(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}
