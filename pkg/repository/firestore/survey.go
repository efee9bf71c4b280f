package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/model"
	"github.com/secmon-lab/hra/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type surveyAnswerDocument struct {
	ID        string    `firestore:"id"`
	UserID    string    `firestore:"user_id"`
	HRAID     int64     `firestore:"hra_id"`
	Question  string    `firestore:"question"`
	Answer    string    `firestore:"answer"`
	CreatedAt time.Time `firestore:"created_at"`
}

type surveyRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newSurveyRepository(client *firestore.Client) *surveyRepository {
	return &surveyRepository{
		client: client,
	}
}

func (r *surveyRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(prefixed(r.collectionPrefix, CollectionSurveyAnswers))
}

// SaveMany writes one submission in a single transaction so a survey is never half stored
func (r *surveyRepository) SaveMany(ctx context.Context, answers []*model.JobSurveyAnswer) error {
	if len(answers) == 0 {
		return nil
	}

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, a := range answers {
			doc := &surveyAnswerDocument{
				ID:        string(a.ID),
				UserID:    string(a.UserID),
				HRAID:     int64(a.HRAID),
				Question:  a.Question,
				Answer:    a.Answer,
				CreatedAt: a.CreatedAt,
			}
			if err := tx.Set(r.collection().Doc(string(a.ID)), doc); err != nil {
				return goerr.Wrap(err, "failed to set survey answer", goerr.V("answer_id", a.ID))
			}
		}
		return nil
	})
	if err != nil {
		return goerr.Wrap(err, "failed to save survey answers", goerr.V("count", len(answers)))
	}

	return nil
}

// ListByUser requires the (user_id, created_at) composite index created by the migrate command
func (r *surveyRepository) ListByUser(ctx context.Context, userID types.UserID, from, to time.Time) ([]*model.JobSurveyAnswer, error) {
	iter := r.collection().
		Where("user_id", "==", string(userID)).
		Where("created_at", ">=", from).
		Where("created_at", "<", to).
		OrderBy("created_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var answers []*model.JobSurveyAnswer
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate survey answers", goerr.V("user_id", userID))
		}

		var d surveyAnswerDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal survey answer", goerr.V("doc_id", doc.Ref.ID))
		}
		answers = append(answers, &model.JobSurveyAnswer{
			ID:        model.JobSurveyAnswerID(d.ID),
			UserID:    types.UserID(d.UserID),
			HRAID:     model.HRAID(d.HRAID),
			Question:  d.Question,
			Answer:    d.Answer,
			CreatedAt: d.CreatedAt,
		})
	}

	return answers, nil
}
