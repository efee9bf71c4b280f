package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/interfaces"
	"github.com/secmon-lab/hra/pkg/domain/model"
)

type hraRepository struct {
	mu      sync.RWMutex
	records map[model.HRAID]*model.HRA
	nextID  model.HRAID
}

func newHRARepository() *hraRepository {
	return &hraRepository{
		records: make(map[model.HRAID]*model.HRA),
		nextID:  1,
	}
}

func (r *hraRepository) Create(ctx context.Context, hra *model.HRA) (*model.HRA, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := hra.Clone()
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.records[created.ID] = created
	return created.Clone(), nil
}

func (r *hraRepository) Get(ctx context.Context, id model.HRAID) (*model.HRA, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hra, exists := r.records[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "hra not found", goerr.V(model.HRAIDKey, id))
	}

	// Return a copy to prevent external modification
	return hra.Clone(), nil
}

func (r *hraRepository) List(ctx context.Context, filter interfaces.HRAFilter) ([]*model.HRA, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*model.HRA, 0, len(r.records))
	for _, hra := range r.records {
		if filter.Match(hra) {
			records = append(records, hra.Clone())
		}
	}
	model.SortHRAByID(records)

	return records, nil
}

func (r *hraRepository) Update(ctx context.Context, hra *model.HRA) (*model.HRA, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.records[hra.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "hra not found", goerr.V(model.HRAIDKey, hra.ID))
	}

	updated := hra.Clone()
	updated.CreatedBy = existing.CreatedBy
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.records[updated.ID] = updated
	return updated.Clone(), nil
}

func (r *hraRepository) Delete(ctx context.Context, id model.HRAID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[id]; !exists {
		return goerr.Wrap(ErrNotFound, "hra not found", goerr.V(model.HRAIDKey, id))
	}

	delete(r.records, id)
	return nil
}
