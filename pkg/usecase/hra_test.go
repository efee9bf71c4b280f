package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/hra/pkg/domain/interfaces"
	"github.com/secmon-lab/hra/pkg/domain/model"
	"github.com/secmon-lab/hra/pkg/domain/types"
	"github.com/secmon-lab/hra/pkg/service/storage"
	"github.com/secmon-lab/hra/pkg/usecase"
)

func TestHRAUseCase_Create(t *testing.T) {
	uc, _ := newUseCases()
	f := seedReferences(t, uc)
	ctx := adminCtx()

	t.Run("derives both evaluations", func(t *testing.T) {
		h, err := uc.HRA.Create(ctx, f.input([2]int{4, 5}, [2]int{2, 3}))
		gt.NoError(t, err).Required()

		gt.Value(t, h.WithoutControl.Code).Equal(types.RiskCodeAA)
		gt.Value(t, h.WithoutControl.Tier).Equal(types.RiskTierExtreme)
		gt.Value(t, h.WithoutControl.Score).Equal(20)
		gt.Value(t, h.WithControl.Code).Equal(types.RiskCodeC)
		gt.Value(t, h.WithControl.Tier).Equal(types.RiskTierLow)
		gt.Value(t, h.WithControl.Score).Equal(6)
		gt.Value(t, h.CreatedBy).Equal(adminID)
		gt.Bool(t, h.Consistent()).True()
	})

	t.Run("client photo urls are ignored", func(t *testing.T) {
		input := f.input([2]int{1, 1}, [2]int{1, 1})
		input.HazardPhotoURL = "https://example.com/x.jpg"
		h, err := uc.HRA.Create(ctx, input)
		gt.NoError(t, err).Required()
		gt.Value(t, h.HazardPhotoURL).Equal("")
	})

	t.Run("invalid pair is rejected", func(t *testing.T) {
		_, err := uc.HRA.Create(ctx, f.input([2]int{0, 3}, [2]int{2, 6}))
		gt.Error(t, err).Is(model.ErrInvalidInput)
		gt.String(t, err.Error()).Contains("without control")
		gt.String(t, err.Error()).Contains("with control")
	})

	t.Run("unknown reference", func(t *testing.T) {
		input := f.input([2]int{3, 3}, [2]int{1, 1})
		input.HealthRiskID = 999
		_, err := uc.HRA.Create(ctx, input)
		gt.Error(t, err).Is(usecase.ErrInvalidReference)
	})

	t.Run("activity of another sub-process", func(t *testing.T) {
		other, err := uc.Reference.Create(ctx, &model.Reference{Kind: types.ReferenceKindSubProcess, Code: "SP05", Name: "Hauling", ParentID: f.Process.ID})
		gt.NoError(t, err).Required()
		input := f.input([2]int{3, 3}, [2]int{1, 1})
		input.SubProcessID = other.ID
		_, err = uc.HRA.Create(ctx, input)
		gt.Error(t, err).Is(usecase.ErrInvalidReference)
	})

	t.Run("employee cannot create", func(t *testing.T) {
		_, err := uc.HRA.Create(employeeCtx(), f.input([2]int{3, 3}, [2]int{1, 1}))
		gt.Error(t, err).Is(usecase.ErrAccessDenied)
	})

	t.Run("anonymous caller", func(t *testing.T) {
		_, err := uc.HRA.Create(context.Background(), f.input([2]int{3, 3}, [2]int{1, 1}))
		gt.Error(t, err).Is(usecase.ErrUnauthenticated)
	})
}

func TestHRAUseCase_Update(t *testing.T) {
	store := storage.NewMemory()
	uc, _ := newUseCases(usecase.WithPhotoStorage(store))
	f := seedReferences(t, uc)
	ctx := adminCtx()

	h, err := uc.HRA.Create(ctx, f.input([2]int{5, 5}, [2]int{3, 3}))
	gt.NoError(t, err).Required()

	h, err = uc.HRA.UploadPhoto(ctx, h.ID, usecase.PhotoKindHazard, usecase.Photo{
		ContentType: "image/jpeg", Body: strings.NewReader("\xff\xd8\xff"),
	})
	gt.NoError(t, err).Required()
	gt.String(t, h.HazardPhotoURL).Contains("hra/hazard/")

	updated, err := uc.HRA.Update(ctx, h.ID, f.input([2]int{2, 1}, [2]int{1, 1}))
	gt.NoError(t, err).Required()
	gt.Value(t, updated.WithoutControl.Code).Equal(types.RiskCodeC)
	gt.Value(t, updated.WithoutControl.Score).Equal(2)
	gt.Value(t, updated.HazardPhotoURL).Equal(h.HazardPhotoURL)
	gt.Value(t, updated.CreatedBy).Equal(adminID)

	t.Run("invalid update keeps stored record", func(t *testing.T) {
		_, err := uc.HRA.Update(ctx, h.ID, f.input([2]int{9, 1}, [2]int{1, 1}))
		gt.Error(t, err).Is(model.ErrInvalidInput)

		got, err := uc.HRA.Get(ctx, h.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.WithoutControl).Equal(updated.WithoutControl)
	})

	t.Run("missing record", func(t *testing.T) {
		_, err := uc.HRA.Update(ctx, 999, f.input([2]int{1, 1}, [2]int{1, 1}))
		gt.Error(t, err).Is(usecase.ErrHRANotFound)
	})
}

func TestHRAUseCase_ListAndGroups(t *testing.T) {
	uc, _ := newUseCases()
	f := seedReferences(t, uc)
	ctx := adminCtx()

	second, err := uc.Reference.Create(ctx, &model.Reference{Kind: types.ReferenceKindActivity, Code: "A02", Name: "Firing", ParentID: f.SubProcess.ID})
	gt.NoError(t, err).Required()

	for _, activity := range []model.ReferenceID{f.Activity.ID, second.ID, f.Activity.ID} {
		input := f.input([2]int{3, 4}, [2]int{2, 2})
		input.ActivityID = activity
		if activity != f.Activity.ID {
			input.SubActivityID = 0
		}
		_, err := uc.HRA.Create(ctx, input)
		gt.NoError(t, err).Required()
	}

	all, err := uc.HRA.List(employeeCtx(), interfaces.HRAFilter{})
	gt.NoError(t, err).Required()
	gt.Array(t, all).Length(3)

	filtered, err := uc.HRA.List(ctx, interfaces.HRAFilter{ActivityID: second.ID})
	gt.NoError(t, err).Required()
	gt.Array(t, filtered).Length(1)

	groups, err := uc.HRA.Groups(ctx, interfaces.HRAFilter{ProcessID: f.Process.ID})
	gt.NoError(t, err).Required()
	gt.Array(t, groups).Length(1).Required()
	gt.Value(t, groups[0].Key).Equal(f.SubProcess.ID)
	gt.Value(t, groups[0].Parent).Equal(f.Process.ID)
	gt.Array(t, groups[0].HRAIDs).Length(3)

	activities, err := uc.HRA.ActivityGroups(ctx, f.SubProcess.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, activities).Length(2).Required()
	gt.Value(t, activities[0].Key.ActivityID).Equal(f.Activity.ID)
	gt.Array(t, activities[0].Records).Length(2)
}

func TestHRAUseCase_Delete(t *testing.T) {
	uc, _ := newUseCases()
	f := seedReferences(t, uc)
	ctx := adminCtx()

	h, err := uc.HRA.Create(ctx, f.input([2]int{1, 2}, [2]int{1, 1}))
	gt.NoError(t, err).Required()

	gt.Error(t, uc.HRA.Delete(employeeCtx(), h.ID)).Is(usecase.ErrAccessDenied)
	gt.NoError(t, uc.HRA.Delete(ctx, h.ID)).Required()
	gt.Error(t, uc.HRA.Delete(ctx, h.ID)).Is(usecase.ErrHRANotFound)

	_, err = uc.HRA.Get(ctx, h.ID)
	gt.Error(t, err).Is(usecase.ErrHRANotFound)
}

func TestHRAUseCase_UploadPhoto(t *testing.T) {
	store := storage.NewMemory()
	uc, _ := newUseCases(usecase.WithPhotoStorage(store))
	f := seedReferences(t, uc)
	ctx := adminCtx()

	h, err := uc.HRA.Create(ctx, f.input([2]int{1, 2}, [2]int{1, 1}))
	gt.NoError(t, err).Required()

	t.Run("risk photo", func(t *testing.T) {
		got, err := uc.HRA.UploadPhoto(ctx, h.ID, usecase.PhotoKindRisk, usecase.Photo{
			ContentType: "image/png; charset=binary", Body: strings.NewReader("\x89PNG"),
		})
		gt.NoError(t, err).Required()
		gt.String(t, got.RiskPhotoURL).Contains("hra/risk/")
		gt.String(t, got.RiskPhotoURL).Contains(".png")
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := uc.HRA.UploadPhoto(ctx, h.ID, usecase.PhotoKindRisk, usecase.Photo{
			ContentType: "application/pdf", Body: strings.NewReader("%PDF"),
		})
		gt.Error(t, err).Is(usecase.ErrUnsupportedPhoto)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := uc.HRA.UploadPhoto(ctx, h.ID, usecase.PhotoKind("selfie"), usecase.Photo{
			ContentType: "image/png", Body: strings.NewReader("\x89PNG"),
		})
		gt.Error(t, err).Is(usecase.ErrUnsupportedPhoto)
	})

	t.Run("too large", func(t *testing.T) {
		body := strings.NewReader(strings.Repeat("x", usecase.MaxPhotoSize+1))
		_, err := uc.HRA.UploadPhoto(ctx, h.ID, usecase.PhotoKindHazard, usecase.Photo{
			ContentType: "image/jpeg", Body: body,
		})
		gt.Error(t, err).Is(usecase.ErrPhotoTooLarge)
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := uc.HRA.UploadPhoto(ctx, h.ID, usecase.PhotoKindHazard, usecase.Photo{
			ContentType: "image/jpeg", Body: strings.NewReader(""),
		})
		gt.Error(t, err).Is(usecase.ErrUnsupportedPhoto)
	})

	gt.Array(t, store.Objects()).Length(1)
}
