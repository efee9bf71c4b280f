package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/hra/pkg/domain/model"
	"github.com/secmon-lab/hra/pkg/usecase"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time {
	return c.now
}

func TestSurveyUseCase_Submit(t *testing.T) {
	c := &clock{now: time.Date(2024, 3, 4, 23, 30, 0, 0, time.UTC)}
	uc, _ := newUseCases(usecase.WithClock(c.Now))
	f := seedReferences(t, uc)

	h, err := uc.HRA.Create(adminCtx(), f.input([2]int{3, 3}, [2]int{2, 2}))
	gt.NoError(t, err).Required()

	ctx := employeeCtx()

	submitted, err := uc.Survey.HasSubmittedToday(ctx)
	gt.NoError(t, err).Required()
	gt.Bool(t, submitted).False()

	answers, err := uc.Survey.Submit(ctx, h.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, answers).Length(4).Required()
	gt.Value(t, answers[0].Question).Equal(model.SurveyQuestionProcess)
	gt.Value(t, answers[0].Answer).Equal("P01 - Mining")
	gt.Value(t, answers[3].Question).Equal(model.SurveyQuestionSubActivity)
	gt.Value(t, answers[3].Answer).Equal("SA01 - Loading explosives")
	for _, a := range answers {
		gt.Value(t, a.UserID).Equal(employeeID)
		gt.Value(t, a.HRAID).Equal(h.ID)
	}

	t.Run("second submission on the same day", func(t *testing.T) {
		_, err := uc.Survey.Submit(ctx, h.ID)
		gt.Error(t, err).Is(usecase.ErrSurveyAlreadySubmitted)
	})

	t.Run("other users are independent", func(t *testing.T) {
		submitted, err := uc.Survey.HasSubmittedToday(adminCtx())
		gt.NoError(t, err).Required()
		gt.Bool(t, submitted).False()
	})

	t.Run("next UTC day", func(t *testing.T) {
		c.now = c.now.Add(time.Hour)
		submitted, err := uc.Survey.HasSubmittedToday(ctx)
		gt.NoError(t, err).Required()
		gt.Bool(t, submitted).False()

		_, err = uc.Survey.Submit(ctx, h.ID)
		gt.NoError(t, err).Required()
	})
}

func TestSurveyUseCase_SubmitErrors(t *testing.T) {
	uc, _ := newUseCases()
	seedReferences(t, uc)

	_, err := uc.Survey.Submit(employeeCtx(), 999)
	gt.Error(t, err).Is(usecase.ErrHRANotFound)

	_, err = uc.Survey.Submit(context.Background(), 1)
	gt.Error(t, err).Is(usecase.ErrUnauthenticated)
}

func TestSurveyUseCase_PersonalHRA(t *testing.T) {
	day := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	uc, _ := newUseCases(usecase.WithClock(func() time.Time { return day }))
	f := seedReferences(t, uc)

	first, err := uc.HRA.Create(adminCtx(), f.input([2]int{3, 3}, [2]int{2, 2}))
	gt.NoError(t, err).Required()
	_, err = uc.HRA.Create(adminCtx(), f.input([2]int{4, 4}, [2]int{2, 2}))
	gt.NoError(t, err).Required()

	ctx := employeeCtx()

	records, err := uc.Survey.PersonalHRA(ctx, day)
	gt.NoError(t, err).Required()
	gt.Array(t, records).Length(0)

	_, err = uc.Survey.Submit(ctx, first.ID)
	gt.NoError(t, err).Required()

	records, err = uc.Survey.PersonalHRA(ctx, day)
	gt.NoError(t, err).Required()
	gt.Array(t, records).Length(1).Required()
	gt.Value(t, records[0].ID).Equal(first.ID)

	records, err = uc.Survey.PersonalHRA(ctx, day.AddDate(0, 0, -1))
	gt.NoError(t, err).Required()
	gt.Array(t, records).Length(0)

	gt.Value(t, uc.Survey.Today()).Equal(day)
}
