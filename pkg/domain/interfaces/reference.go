package interfaces

import (
	"context"

	"github.com/secmon-lab/hra/pkg/domain/model"
	"github.com/secmon-lab/hra/pkg/domain/types"
)

type ReferenceRepository interface {
	// Create creates a new entry with auto-generated ID
	Create(ctx context.Context, ref *model.Reference) (*model.Reference, error)

	// Get retrieves an entry of a kind by ID
	Get(ctx context.Context, kind types.ReferenceKind, id model.ReferenceID) (*model.Reference, error)

	// List retrieves all entries of a kind, ordered by ID
	List(ctx context.Context, kind types.ReferenceKind) ([]*model.Reference, error)

	// Update updates an existing entry
	Update(ctx context.Context, ref *model.Reference) (*model.Reference, error)

	// Delete deletes an entry of a kind by ID
	Delete(ctx context.Context, kind types.ReferenceKind, id model.ReferenceID) error
}
