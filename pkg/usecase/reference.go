package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/interfaces"
	"github.com/secmon-lab/hra/pkg/domain/model"
	"github.com/secmon-lab/hra/pkg/domain/types"
	"golang.org/x/sync/errgroup"
)

type ReferenceUseCase struct {
	repo    interfaces.Repository
	storage interfaces.PhotoStorage
}

func NewReferenceUseCase(repo interfaces.Repository, storage interfaces.PhotoStorage) *ReferenceUseCase {
	return &ReferenceUseCase{
		repo:    repo,
		storage: storage,
	}
}

func (uc *ReferenceUseCase) List(ctx context.Context, kind types.ReferenceKind) ([]*model.Reference, error) {
	if !kind.IsValid() {
		return nil, goerr.Wrap(ErrInvalidReference, "unknown reference kind", goerr.V(model.ReferenceKindKey, kind))
	}
	refs, err := uc.repo.Reference().List(ctx, kind)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list references", goerr.V(model.ReferenceKindKey, kind))
	}
	return refs, nil
}

func (uc *ReferenceUseCase) Get(ctx context.Context, kind types.ReferenceKind, id model.ReferenceID) (*model.Reference, error) {
	ref, err := uc.repo.Reference().Get(ctx, kind, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrReferenceNotFound, "reference not found",
				goerr.V(model.ReferenceKindKey, kind), goerr.V(model.ReferenceIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get reference")
	}
	return ref, nil
}

// Create adds a master-data entry. The parent, when given, must exist with the parent kind.
func (uc *ReferenceUseCase) Create(ctx context.Context, ref *model.Reference) (*model.Reference, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := uc.validate(ctx, ref); err != nil {
		return nil, err
	}

	created, err := uc.repo.Reference().Create(ctx, ref)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create reference", goerr.V(model.ReferenceKindKey, ref.Kind))
	}
	return created, nil
}

// Update changes code, name, parent or animation of an existing entry. The kind cannot change.
func (uc *ReferenceUseCase) Update(ctx context.Context, ref *model.Reference) (*model.Reference, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	existing, err := uc.Get(ctx, ref.Kind, ref.ID)
	if err != nil {
		return nil, err
	}
	if ref.AnimationURL == "" {
		ref.AnimationURL = existing.AnimationURL
	}
	if err := uc.validate(ctx, ref); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Reference().Update(ctx, ref)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update reference",
			goerr.V(model.ReferenceKindKey, ref.Kind), goerr.V(model.ReferenceIDKey, ref.ID))
	}
	return updated, nil
}

// Delete removes an entry that no HRA and no child entry refers to
func (uc *ReferenceUseCase) Delete(ctx context.Context, kind types.ReferenceKind, id model.ReferenceID) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if _, err := uc.Get(ctx, kind, id); err != nil {
		return err
	}

	records, err := uc.repo.HRA().List(ctx, interfaces.HRAFilter{})
	if err != nil {
		return goerr.Wrap(err, "failed to list hra")
	}
	for _, h := range records {
		if h.Uses(kind, id) {
			return goerr.Wrap(ErrReferenceInUse, "reference is used by an HRA",
				goerr.V(model.ReferenceKindKey, kind), goerr.V(model.ReferenceIDKey, id), goerr.V(HRAIDKey, h.ID))
		}
	}

	for _, child := range types.AllReferenceKinds() {
		if child.Parent() != kind {
			continue
		}
		children, err := uc.repo.Reference().List(ctx, child)
		if err != nil {
			return goerr.Wrap(err, "failed to list child references", goerr.V(model.ReferenceKindKey, child))
		}
		for _, c := range children {
			if c.ParentID == id {
				return goerr.Wrap(ErrReferenceInUse, "reference has child entries",
					goerr.V(model.ReferenceKindKey, kind), goerr.V(model.ReferenceIDKey, id), goerr.V("child_id", c.ID))
			}
		}
	}

	if err := uc.repo.Reference().Delete(ctx, kind, id); err != nil {
		return goerr.Wrap(err, "failed to delete reference",
			goerr.V(model.ReferenceKindKey, kind), goerr.V(model.ReferenceIDKey, id))
	}
	return nil
}

// UploadAnimation stores the illustration of a health risk and links it to the entry
func (uc *ReferenceUseCase) UploadAnimation(ctx context.Context, id model.ReferenceID, photo Photo) (*model.Reference, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	ref, err := uc.Get(ctx, types.ReferenceKindHealthRisk, id)
	if err != nil {
		return nil, err
	}

	url, err := uploadPhoto(ctx, uc.storage, "animations", photo)
	if err != nil {
		return nil, err
	}

	ref.AnimationURL = url
	updated, err := uc.repo.Reference().Update(ctx, ref)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update reference", goerr.V(model.ReferenceIDKey, id))
	}
	return updated, nil
}

func (uc *ReferenceUseCase) validate(ctx context.Context, ref *model.Reference) error {
	if err := ref.Validate(); err != nil {
		return goerr.Wrap(ErrInvalidReference, err.Error(), goerr.V(model.ReferenceKindKey, ref.Kind))
	}

	if ref.ParentID != 0 {
		if _, err := uc.repo.Reference().Get(ctx, ref.Kind.Parent(), ref.ParentID); err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return goerr.Wrap(ErrInvalidReference, "parent reference not found",
					goerr.V(model.ReferenceKindKey, ref.Kind.Parent()), goerr.V(model.ReferenceIDKey, ref.ParentID))
			}
			return goerr.Wrap(err, "failed to get parent reference")
		}
	}

	siblings, err := uc.repo.Reference().List(ctx, ref.Kind)
	if err != nil {
		return goerr.Wrap(err, "failed to list references", goerr.V(model.ReferenceKindKey, ref.Kind))
	}
	for _, s := range siblings {
		if s.ID != ref.ID && s.SameKey(ref) {
			return goerr.Wrap(ErrDuplicateReference, "reference already exists",
				goerr.V(model.ReferenceKindKey, ref.Kind), goerr.V("existing_id", s.ID))
		}
	}
	return nil
}

// ReferenceLoader reads every kind of master data into a snapshot. Each call hits the repository.
type ReferenceLoader struct {
	repo interfaces.Repository
}

func NewReferenceLoader(repo interfaces.Repository) *ReferenceLoader {
	return &ReferenceLoader{repo: repo}
}

// Load fetches all kinds concurrently
func (l *ReferenceLoader) Load(ctx context.Context) (*model.ReferenceSet, error) {
	var (
		mu   sync.Mutex
		refs = make(map[types.ReferenceKind][]*model.Reference)
	)

	eg, ctx := errgroup.WithContext(ctx)
	for _, kind := range types.AllReferenceKinds() {
		eg.Go(func() error {
			list, err := l.repo.Reference().List(ctx, kind)
			if err != nil {
				return goerr.Wrap(err, "failed to load references", goerr.V(model.ReferenceKindKey, kind))
			}
			mu.Lock()
			refs[kind] = list
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return model.NewReferenceSet(refs), nil
}

// All returns every kind of master data, as served to the HRA form
func (uc *ReferenceUseCase) All(ctx context.Context) (*model.ReferenceSet, error) {
	return NewReferenceLoader(uc.repo).Load(ctx)
}
