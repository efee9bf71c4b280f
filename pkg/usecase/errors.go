package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrHRANotFound       = errors.New("hra not found")
	ErrReferenceNotFound = errors.New("reference not found")
	ErrAccountNotFound   = errors.New("account not found")

	// Conflict errors
	ErrSurveyAlreadySubmitted = errors.New("survey already submitted today")
	ErrDuplicateReference     = errors.New("duplicate reference")
	ErrReferenceInUse         = errors.New("reference is in use")
	ErrAccountExists          = errors.New("account already exists")

	// Validation errors
	ErrInvalidReference = errors.New("invalid reference")
	ErrInvalidAccount   = errors.New("invalid account")
	ErrUnsupportedPhoto = errors.New("unsupported photo type")
	ErrPhotoTooLarge    = errors.New("photo is too large")
	ErrStorageDisabled  = errors.New("photo storage is not configured")

	// Access control errors
	ErrUnauthenticated = errors.New("authentication required")
	ErrAccessDenied    = errors.New("access denied")
)

// Context keys for error values
const (
	HRAIDKey     = "hra_id"
	AccountIDKey = "account_id"
	UserIDKey    = "user_id"
)
