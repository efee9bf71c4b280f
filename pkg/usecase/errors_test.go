package usecase_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/hra/pkg/usecase"
)

func TestErrors_ErrorsAreDistinct(t *testing.T) {
	sentinels := []error{
		usecase.ErrHRANotFound,
		usecase.ErrReferenceNotFound,
		usecase.ErrAccountNotFound,
		usecase.ErrSurveyAlreadySubmitted,
		usecase.ErrDuplicateReference,
		usecase.ErrReferenceInUse,
		usecase.ErrAccountExists,
		usecase.ErrInvalidReference,
		usecase.ErrInvalidAccount,
		usecase.ErrUnsupportedPhoto,
		usecase.ErrPhotoTooLarge,
		usecase.ErrStorageDisabled,
		usecase.ErrUnauthenticated,
		usecase.ErrAccessDenied,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				gt.Bool(t, errors.Is(a, b)).False()
			}
		}
	}
}
