package memory

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/interfaces"
)

// ErrNotFound is returned when the requested record does not exist
var ErrNotFound = goerr.Wrap(interfaces.ErrNotFound, "memory")

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	hra       *hraRepository
	reference *referenceRepository
	survey    *surveyRepository
	account   *accountRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		hra:       newHRARepository(),
		reference: newReferenceRepository(),
		survey:    newSurveyRepository(),
		account:   newAccountRepository(),
	}
}

func (m *Memory) HRA() interfaces.HRARepository {
	return m.hra
}

func (m *Memory) Reference() interfaces.ReferenceRepository {
	return m.reference
}

func (m *Memory) Survey() interfaces.SurveyRepository {
	return m.survey
}

func (m *Memory) Account() interfaces.AccountRepository {
	return m.account
}

func (m *Memory) Close() error {
	return nil
}
