package interfaces

import (
	"context"

	"github.com/secmon-lab/hra/pkg/domain/model"
)

// HRAFilter narrows HRA listings. Zero fields match everything.
type HRAFilter struct {
	IDs          []model.HRAID
	ProcessID    model.ReferenceID
	SubProcessID model.ReferenceID
	ActivityID   model.ReferenceID
}

// Match reports whether a record passes the filter
func (f HRAFilter) Match(h *model.HRA) bool {
	if f.ProcessID != 0 && h.ProcessID != f.ProcessID {
		return false
	}
	if f.SubProcessID != 0 && h.SubProcessID != f.SubProcessID {
		return false
	}
	if f.ActivityID != 0 && h.ActivityID != f.ActivityID {
		return false
	}
	if len(f.IDs) > 0 {
		for _, id := range f.IDs {
			if id == h.ID {
				return true
			}
		}
		return false
	}
	return true
}

type HRARepository interface {
	// Create creates a new HRA with auto-generated ID
	Create(ctx context.Context, hra *model.HRA) (*model.HRA, error)

	// Get retrieves an HRA by ID
	Get(ctx context.Context, id model.HRAID) (*model.HRA, error)

	// List retrieves HRA records matching the filter, ordered by ID
	List(ctx context.Context, filter HRAFilter) ([]*model.HRA, error)

	// Update replaces an existing HRA, keeping CreatedAt and CreatedBy
	Update(ctx context.Context, hra *model.HRA) (*model.HRA, error)

	// Delete deletes an HRA by ID
	Delete(ctx context.Context, id model.HRAID) error
}
