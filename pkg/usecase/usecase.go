package usecase

import (
	"time"

	"github.com/secmon-lab/hra/pkg/domain/interfaces"
	"github.com/secmon-lab/hra/pkg/domain/model/config"
	"github.com/secmon-lab/hra/pkg/service/metrics"
)

type UseCases struct {
	repo       interfaces.Repository
	riskConfig *config.RiskConfig
	metrics    *metrics.Metrics
	storage    interfaces.PhotoStorage
	now        func() time.Time

	Matrix    *MatrixUseCase
	Reference *ReferenceUseCase
	HRA       *HRAUseCase
	Survey    *SurveyUseCase
	Account   *AccountUseCase
	Audit     *AuditUseCase
	Auth      Authenticator
}

type Option func(*UseCases)

func WithRiskConfig(cfg *config.RiskConfig) Option {
	return func(uc *UseCases) {
		uc.riskConfig = cfg
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(uc *UseCases) {
		uc.metrics = m
	}
}

func WithPhotoStorage(storage interfaces.PhotoStorage) Option {
	return func(uc *UseCases) {
		uc.storage = storage
	}
}

func WithAuth(auth Authenticator) Option {
	return func(uc *UseCases) {
		uc.Auth = auth
	}
}

// WithClock replaces time.Now, used to pin the survey day in tests
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:       repo,
		riskConfig: config.DefaultRiskConfig(),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.Auth == nil {
		uc.Auth = NewNoAuthnUseCase()
	}

	loader := NewReferenceLoader(repo)
	uc.Matrix = NewMatrixUseCase(uc.riskConfig, uc.metrics)
	uc.Reference = NewReferenceUseCase(repo, uc.storage)
	uc.HRA = NewHRAUseCase(repo, loader, uc.Matrix, uc.storage)
	uc.Survey = NewSurveyUseCase(repo, loader, uc.metrics, uc.now)
	uc.Account = NewAccountUseCase(repo, uc.storage)
	uc.Audit = NewAuditUseCase(repo, uc.metrics)

	return uc
}
