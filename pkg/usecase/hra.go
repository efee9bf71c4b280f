package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/interfaces"
	"github.com/secmon-lab/hra/pkg/domain/model"
	"github.com/secmon-lab/hra/pkg/domain/types"
)

// RiskPair is a submitted likelihood/severity rating. Derived fields are never accepted from clients.
type RiskPair struct {
	Likelihood types.Likelihood
	Severity   types.Severity
}

// HRAInput is the submitted HRA form
type HRAInput struct {
	model.HRAContent
	WithoutControl RiskPair
	WithControl    RiskPair
}

// PhotoKind selects which photo of an HRA is uploaded
type PhotoKind string

const (
	PhotoKindHazard PhotoKind = "hazard"
	PhotoKindRisk   PhotoKind = "risk"
)

type HRAUseCase struct {
	repo    interfaces.Repository
	loader  *ReferenceLoader
	matrix  *MatrixUseCase
	storage interfaces.PhotoStorage
}

func NewHRAUseCase(repo interfaces.Repository, loader *ReferenceLoader, matrix *MatrixUseCase, storage interfaces.PhotoStorage) *HRAUseCase {
	return &HRAUseCase{
		repo:    repo,
		loader:  loader,
		matrix:  matrix,
		storage: storage,
	}
}

// draft runs both pairs through the evaluator, then checks the references. Errors of both pairs
// are joined so the form can show them together.
func (uc *HRAUseCase) draft(ctx context.Context, input HRAInput) (*model.HRADraft, error) {
	d := model.NewHRADraft(input.HRAContent)
	_ = d.SetWithoutControl(input.WithoutControl.Likelihood, input.WithoutControl.Severity)
	_ = d.SetWithControl(input.WithControl.Likelihood, input.WithControl.Severity)
	uc.matrix.record(d.WithoutControl())
	uc.matrix.record(d.WithControl())
	if err := d.Err(); err != nil {
		return nil, err
	}

	if err := input.HRAContent.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidReference, err.Error())
	}

	refs, err := uc.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := refs.ValidateContent(&input.HRAContent); err != nil {
		return nil, goerr.Wrap(ErrInvalidReference, err.Error())
	}

	return d, nil
}

// Create evaluates and stores a new HRA
func (uc *HRAUseCase) Create(ctx context.Context, input HRAInput) (*model.HRA, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	user, _ := requireUser(ctx)

	input.HazardPhotoURL = ""
	input.RiskPhotoURL = ""
	d, err := uc.draft(ctx, input)
	if err != nil {
		return nil, err
	}

	h := &model.HRA{CreatedBy: user.ID}
	if err := d.Apply(h); err != nil {
		return nil, err
	}

	created, err := uc.repo.HRA().Create(ctx, h)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create hra")
	}
	return created, nil
}

// Update re-evaluates and replaces an HRA. Photos are kept; they change only through UploadPhoto.
func (uc *HRAUseCase) Update(ctx context.Context, id model.HRAID, input HRAInput) (*model.HRA, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	existing, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	input.HazardPhotoURL = existing.HazardPhotoURL
	input.RiskPhotoURL = existing.RiskPhotoURL
	d, err := uc.draft(ctx, input)
	if err != nil {
		return nil, err
	}

	h := existing.Clone()
	if err := d.Apply(h); err != nil {
		return nil, err
	}

	updated, err := uc.repo.HRA().Update(ctx, h)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update hra", goerr.V(HRAIDKey, id))
	}
	return updated, nil
}

// Get returns the stored record as is. Derived fields are never recomputed on read.
func (uc *HRAUseCase) Get(ctx context.Context, id model.HRAID) (*model.HRA, error) {
	h, err := uc.repo.HRA().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrHRANotFound, "hra not found", goerr.V(HRAIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get hra", goerr.V(HRAIDKey, id))
	}
	return h, nil
}

func (uc *HRAUseCase) List(ctx context.Context, filter interfaces.HRAFilter) ([]*model.HRA, error) {
	records, err := uc.repo.HRA().List(ctx, filter)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list hra")
	}
	return records, nil
}

// Groups returns the listing grouped by sub-process, as shown on the HRA overview screen
func (uc *HRAUseCase) Groups(ctx context.Context, filter interfaces.HRAFilter) ([]*model.HRAGroup, error) {
	records, err := uc.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return model.GroupBySubProcess(records), nil
}

// ActivityGroups returns the records of one sub-process grouped by activity
func (uc *HRAUseCase) ActivityGroups(ctx context.Context, subProcessID model.ReferenceID) ([]*model.ActivityGroup, error) {
	records, err := uc.List(ctx, interfaces.HRAFilter{SubProcessID: subProcessID})
	if err != nil {
		return nil, err
	}
	return model.GroupByActivity(records, subProcessID), nil
}

func (uc *HRAUseCase) Delete(ctx context.Context, id model.HRAID) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}

	if err := uc.repo.HRA().Delete(ctx, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return goerr.Wrap(ErrHRANotFound, "hra not found", goerr.V(HRAIDKey, id))
		}
		return goerr.Wrap(err, "failed to delete hra", goerr.V(HRAIDKey, id))
	}
	return nil
}

// UploadPhoto stores the hazard or risk photo of an HRA and links it to the record
func (uc *HRAUseCase) UploadPhoto(ctx context.Context, id model.HRAID, kind PhotoKind, photo Photo) (*model.HRA, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if kind != PhotoKindHazard && kind != PhotoKindRisk {
		return nil, goerr.Wrap(ErrUnsupportedPhoto, "unknown photo kind", goerr.V("kind", kind))
	}

	h, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := uploadPhoto(ctx, uc.storage, "hra/"+string(kind), photo)
	if err != nil {
		return nil, err
	}

	switch kind {
	case PhotoKindHazard:
		h.HazardPhotoURL = url
	case PhotoKindRisk:
		h.RiskPhotoURL = url
	}

	updated, err := uc.repo.HRA().Update(ctx, h)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update hra", goerr.V(HRAIDKey, id))
	}
	return updated, nil
}
