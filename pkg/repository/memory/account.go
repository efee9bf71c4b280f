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

type accountRepository struct {
	mu       sync.RWMutex
	accounts map[types.UserID]*model.Account
}

func newAccountRepository() *accountRepository {
	return &accountRepository{
		accounts: make(map[types.UserID]*model.Account),
	}
}

func (r *accountRepository) Put(ctx context.Context, account *model.Account) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := *account
	if existing, ok := r.accounts[account.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	r.accounts[stored.ID] = &stored

	result := stored
	return &result, nil
}

func (r *accountRepository) Get(ctx context.Context, id types.UserID) (*model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "account not found", goerr.V("id", id))
	}
	result := *account
	return &result, nil
}

func (r *accountRepository) List(ctx context.Context) ([]*model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	accounts := make([]*model.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		copied := *a
		accounts = append(accounts, &copied)
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].Name != accounts[j].Name {
			return accounts[i].Name < accounts[j].Name
		}
		return accounts[i].ID < accounts[j].ID
	})
	return accounts, nil
}

func (r *accountRepository) Delete(ctx context.Context, id types.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[id]; !ok {
		return goerr.Wrap(ErrNotFound, "account not found", goerr.V("id", id))
	}
	delete(r.accounts, id)
	return nil
}
