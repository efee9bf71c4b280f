package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	HRA() HRARepository
	Reference() ReferenceRepository
	Survey() SurveyRepository
	Account() AccountRepository

	Close() error
}
