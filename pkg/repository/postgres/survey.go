package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/model"
	"github.com/secmon-lab/hra/pkg/domain/types"
)

type surveyRepository struct {
	pool *pgxpool.Pool
}

func (r *surveyRepository) SaveMany(ctx context.Context, answers []*model.JobSurveyAnswer) error {
	if len(answers) == 0 {
		return nil
	}

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for _, a := range answers {
			_, err := tx.Exec(ctx,
				`INSERT INTO job_survey_answers (id, user_id, hra_id, question, answer, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				string(a.ID), string(a.UserID), int64(a.HRAID), a.Question, a.Answer, a.CreatedAt)
			if err != nil {
				return goerr.Wrap(err, "failed to insert survey answer", goerr.V("answer_id", a.ID))
			}
		}
		return nil
	})
	if err != nil {
		return goerr.Wrap(err, "failed to save survey answers", goerr.V("count", len(answers)))
	}
	return nil
}

func (r *surveyRepository) ListByUser(ctx context.Context, userID types.UserID, from, to time.Time) ([]*model.JobSurveyAnswer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, hra_id, question, answer, created_at
		FROM job_survey_answers
		WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at`,
		string(userID), from, to)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list survey answers", goerr.V("user_id", userID))
	}
	defer rows.Close()

	var answers []*model.JobSurveyAnswer
	for rows.Next() {
		var (
			a          model.JobSurveyAnswer
			id, userID string
			hraID      int64
		)
		if err := rows.Scan(&id, &userID, &hraID, &a.Question, &a.Answer, &a.CreatedAt); err != nil {
			return nil, goerr.Wrap(err, "failed to scan survey answer")
		}
		a.ID = model.JobSurveyAnswerID(id)
		a.UserID = types.UserID(userID)
		a.HRAID = model.HRAID(hraID)
		a.CreatedAt = a.CreatedAt.UTC()
		answers = append(answers, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate survey answers")
	}

	return answers, nil
}
