package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/interfaces"
)

// ErrNotFound is returned when the requested document does not exist
var ErrNotFound = goerr.Wrap(interfaces.ErrNotFound, "firestore")

type Firestore struct {
	client    *firestore.Client
	hra       *hraRepository
	reference *referenceRepository
	survey    *surveyRepository
	account   *accountRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix prefixes every collection name, mainly to isolate test runs
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.hra.collectionPrefix = prefix
		f.reference.collectionPrefix = prefix
		f.survey.collectionPrefix = prefix
		f.account.collectionPrefix = prefix
	}
}

// New connects to Firestore. An empty databaseID selects the default database.
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID == "" {
		client, err = firestore.NewClient(ctx, projectID)
	} else {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:    client,
		hra:       newHRARepository(client),
		reference: newReferenceRepository(client),
		survey:    newSurveyRepository(client),
		account:   newAccountRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) HRA() interfaces.HRARepository {
	return f.hra
}

func (f *Firestore) Reference() interfaces.ReferenceRepository {
	return f.reference
}

func (f *Firestore) Survey() interfaces.SurveyRepository {
	return f.survey
}

func (f *Firestore) Account() interfaces.AccountRepository {
	return f.account
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// CollectionSurveyAnswers is the collection of job survey answers, which needs a composite index
const CollectionSurveyAnswers = "job_survey_answers"

// CollectionName returns the collection name with the configured prefix applied
func CollectionName(prefix, name string) string {
	return prefixed(prefix, name)
}

func prefixed(prefix, name string) string {
	if prefix != "" {
		return prefix + "_" + name
	}
	return name
}

// now is truncated to the microsecond precision Firestore stores
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
