package interfaces

import (
	"context"

	"github.com/secmon-lab/hra/pkg/domain/model"
	"github.com/secmon-lab/hra/pkg/domain/types"
)

type AccountRepository interface {
	// Put creates or replaces an account
	Put(ctx context.Context, account *model.Account) (*model.Account, error)

	// Get retrieves an account by ID
	Get(ctx context.Context, id types.UserID) (*model.Account, error)

	// List retrieves all accounts ordered by name
	List(ctx context.Context) ([]*model.Account, error)

	// Delete deletes an account by ID
	Delete(ctx context.Context, id types.UserID) error
}
