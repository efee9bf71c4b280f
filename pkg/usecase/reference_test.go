package usecase_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/hra/pkg/domain/model"
	"github.com/secmon-lab/hra/pkg/domain/types"
	"github.com/secmon-lab/hra/pkg/service/storage"
	"github.com/secmon-lab/hra/pkg/usecase"
)

func TestReferenceUseCase_Create(t *testing.T) {
	uc, _ := newUseCases()
	f := seedReferences(t, uc)
	ctx := adminCtx()

	t.Run("duplicate code is rejected", func(t *testing.T) {
		_, err := uc.Reference.Create(ctx, &model.Reference{Kind: types.ReferenceKindProcess, Code: "P01", Name: "Mining"})
		gt.Error(t, err).Is(usecase.ErrDuplicateReference)
	})

	t.Run("missing code on coded kind", func(t *testing.T) {
		_, err := uc.Reference.Create(ctx, &model.Reference{Kind: types.ReferenceKindProcess, Name: "Hauling"})
		gt.Error(t, err).Is(usecase.ErrInvalidReference)
	})

	t.Run("parent must exist", func(t *testing.T) {
		_, err := uc.Reference.Create(ctx, &model.Reference{
			Kind: types.ReferenceKindSubProcess, Code: "SP09", Name: "Drilling", ParentID: 999,
		})
		gt.Error(t, err).Is(usecase.ErrInvalidReference)
	})

	t.Run("parent is optional", func(t *testing.T) {
		ref, err := uc.Reference.Create(ctx, &model.Reference{
			Kind: types.ReferenceKindSubProcess, Code: "SP02", Name: "Crushing",
		})
		gt.NoError(t, err).Required()
		gt.Value(t, ref.ParentID).Equal(model.ReferenceID(0))
	})

	t.Run("employee cannot create", func(t *testing.T) {
		_, err := uc.Reference.Create(employeeCtx(), &model.Reference{Kind: types.ReferenceKindHealthHazard, Name: "Dust"})
		gt.Error(t, err).Is(usecase.ErrAccessDenied)
	})

	list, err := uc.Reference.List(ctx, types.ReferenceKindSubProcess)
	gt.NoError(t, err).Required()
	gt.Array(t, list).Length(2)
	gt.Value(t, list[0].ID).Equal(f.SubProcess.ID)
}

func TestReferenceUseCase_Update(t *testing.T) {
	uc, _ := newUseCases()
	f := seedReferences(t, uc)
	ctx := adminCtx()

	updated, err := uc.Reference.Update(ctx, &model.Reference{
		ID: f.Process.ID, Kind: types.ReferenceKindProcess, Code: "P01", Name: "Open pit mining",
	})
	gt.NoError(t, err).Required()
	gt.Value(t, updated.Name).Equal("Open pit mining")

	got, err := uc.Reference.Get(ctx, types.ReferenceKindProcess, f.Process.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.Label()).Equal("P01 - Open pit mining")

	_, err = uc.Reference.Update(ctx, &model.Reference{ID: 999, Kind: types.ReferenceKindProcess, Code: "P9", Name: "x"})
	gt.Error(t, err).Is(usecase.ErrReferenceNotFound)
}

func TestReferenceUseCase_Delete(t *testing.T) {
	uc, _ := newUseCases()
	f := seedReferences(t, uc)
	ctx := adminCtx()

	_, err := uc.HRA.Create(ctx, f.input([2]int{3, 3}, [2]int{2, 2}))
	gt.NoError(t, err).Required()

	t.Run("used by hra", func(t *testing.T) {
		err := uc.Reference.Delete(ctx, types.ReferenceKindHealthHazard, f.Hazard.ID)
		gt.Error(t, err).Is(usecase.ErrReferenceInUse)
	})

	t.Run("has children", func(t *testing.T) {
		parent, err := uc.Reference.Create(ctx, &model.Reference{Kind: types.ReferenceKindProcess, Code: "P02", Name: "Processing"})
		gt.NoError(t, err).Required()
		_, err = uc.Reference.Create(ctx, &model.Reference{
			Kind: types.ReferenceKindSubProcess, Code: "SP03", Name: "Leaching", ParentID: parent.ID,
		})
		gt.NoError(t, err).Required()

		err = uc.Reference.Delete(ctx, types.ReferenceKindProcess, parent.ID)
		gt.Error(t, err).Is(usecase.ErrReferenceInUse)
	})

	t.Run("unused entry", func(t *testing.T) {
		dust, err := uc.Reference.Create(ctx, &model.Reference{Kind: types.ReferenceKindHealthHazard, Name: "Dust"})
		gt.NoError(t, err).Required()
		gt.NoError(t, uc.Reference.Delete(ctx, types.ReferenceKindHealthHazard, dust.ID)).Required()

		_, err = uc.Reference.Get(ctx, types.ReferenceKindHealthHazard, dust.ID)
		gt.Error(t, err).Is(usecase.ErrReferenceNotFound)
	})
}

func TestReferenceUseCase_UploadAnimation(t *testing.T) {
	t.Run("storage disabled", func(t *testing.T) {
		uc, _ := newUseCases()
		f := seedReferences(t, uc)
		_, err := uc.Reference.UploadAnimation(adminCtx(), f.Risk.ID, usecase.Photo{
			ContentType: "image/gif", Body: strings.NewReader("GIF89a"),
		})
		gt.Error(t, err).Is(usecase.ErrStorageDisabled)
	})

	t.Run("stored under animations", func(t *testing.T) {
		store := storage.NewMemory()
		uc, _ := newUseCases(usecase.WithPhotoStorage(store))
		f := seedReferences(t, uc)

		ref, err := uc.Reference.UploadAnimation(adminCtx(), f.Risk.ID, usecase.Photo{
			ContentType: "image/gif", Body: bytes.NewReader([]byte("GIF89a")),
		})
		gt.NoError(t, err).Required()
		gt.String(t, ref.AnimationURL).Contains("animations/")
		gt.String(t, ref.AnimationURL).Contains(".gif")
		gt.Array(t, store.Objects()).Length(1)
	})

	t.Run("only health risks", func(t *testing.T) {
		uc, _ := newUseCases(usecase.WithPhotoStorage(storage.NewMemory()))
		f := seedReferences(t, uc)
		_, err := uc.Reference.UploadAnimation(adminCtx(), f.Hazard.ID, usecase.Photo{
			ContentType: "image/gif", Body: strings.NewReader("GIF89a"),
		})
		gt.Error(t, err).Is(usecase.ErrReferenceNotFound)
	})
}
