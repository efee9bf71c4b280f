package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/model"
	"github.com/secmon-lab/hra/pkg/domain/types"
)

type referenceKey struct {
	kind types.ReferenceKind
	id   model.ReferenceID
}

type referenceRepository struct {
	mu      sync.RWMutex
	entries map[referenceKey]*model.Reference
	nextID  model.ReferenceID
}

func newReferenceRepository() *referenceRepository {
	return &referenceRepository{
		entries: make(map[referenceKey]*model.Reference),
		nextID:  1,
	}
}

func (r *referenceRepository) Create(ctx context.Context, ref *model.Reference) (*model.Reference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := ref.Clone()
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.entries[referenceKey{kind: created.Kind, id: created.ID}] = created
	return created.Clone(), nil
}

func (r *referenceRepository) Get(ctx context.Context, kind types.ReferenceKind, id model.ReferenceID) (*model.Reference, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ref, exists := r.entries[referenceKey{kind: kind, id: id}]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "reference not found",
			goerr.V(model.ReferenceKindKey, kind), goerr.V(model.ReferenceIDKey, id))
	}
	return ref.Clone(), nil
}

func (r *referenceRepository) List(ctx context.Context, kind types.ReferenceKind) ([]*model.Reference, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var refs []*model.Reference
	for key, ref := range r.entries {
		if key.kind == kind {
			refs = append(refs, ref.Clone())
		}
	}
	sort.Slice(refs, func(i, j int) bool {
		return refs[i].ID < refs[j].ID
	})
	return refs, nil
}

func (r *referenceRepository) Update(ctx context.Context, ref *model.Reference) (*model.Reference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := referenceKey{kind: ref.Kind, id: ref.ID}
	existing, exists := r.entries[key]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "reference not found",
			goerr.V(model.ReferenceKindKey, ref.Kind), goerr.V(model.ReferenceIDKey, ref.ID))
	}

	updated := ref.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	r.entries[key] = updated
	return updated.Clone(), nil
}

func (r *referenceRepository) Delete(ctx context.Context, kind types.ReferenceKind, id model.ReferenceID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := referenceKey{kind: kind, id: id}
	if _, exists := r.entries[key]; !exists {
		return goerr.Wrap(ErrNotFound, "reference not found",
			goerr.V(model.ReferenceKindKey, kind), goerr.V(model.ReferenceIDKey, id))
	}
	delete(r.entries, key)
	return nil
}
