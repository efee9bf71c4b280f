package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/interfaces"
	"github.com/secmon-lab/hra/pkg/domain/model"
	"github.com/secmon-lab/hra/pkg/domain/types"
)

type AccountUseCase struct {
	repo    interfaces.Repository
	storage interfaces.PhotoStorage
}

func NewAccountUseCase(repo interfaces.Repository, storage interfaces.PhotoStorage) *AccountUseCase {
	return &AccountUseCase{
		repo:    repo,
		storage: storage,
	}
}

func (uc *AccountUseCase) List(ctx context.Context) ([]*model.Account, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	accounts, err := uc.repo.Account().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list accounts")
	}
	return accounts, nil
}

// Get returns an account. Employees may only read their own.
func (uc *AccountUseCase) Get(ctx context.Context, id types.UserID) (*model.Account, error) {
	if err := requireSelfOrAdmin(ctx, id); err != nil {
		return nil, err
	}
	return uc.get(ctx, id)
}

func (uc *AccountUseCase) get(ctx context.Context, id types.UserID) (*model.Account, error) {
	account, err := uc.repo.Account().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrAccountNotFound, "account not found", goerr.V(AccountIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get account", goerr.V(AccountIDKey, id))
	}
	return account, nil
}

// Create registers the profile of a user that already exists in the auth backend
func (uc *AccountUseCase) Create(ctx context.Context, account *model.Account) (*model.Account, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	account.Role = account.Role.Normalize()
	if err := account.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidAccount, err.Error(), goerr.V(AccountIDKey, account.ID))
	}

	if _, err := uc.get(ctx, account.ID); err == nil {
		return nil, goerr.Wrap(ErrAccountExists, "account already exists", goerr.V(AccountIDKey, account.ID))
	} else if !errors.Is(err, ErrAccountNotFound) {
		return nil, err
	}

	account.PhotoURL = ""
	created, err := uc.repo.Account().Put(ctx, account)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create account", goerr.V(AccountIDKey, account.ID))
	}
	return created, nil
}

// Update changes name, email and role. The photo is kept; it changes only through UploadPhoto.
func (uc *AccountUseCase) Update(ctx context.Context, account *model.Account) (*model.Account, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	existing, err := uc.get(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	account.Role = account.Role.Normalize()
	account.PhotoURL = existing.PhotoURL
	if err := account.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidAccount, err.Error(), goerr.V(AccountIDKey, account.ID))
	}

	updated, err := uc.repo.Account().Put(ctx, account)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update account", goerr.V(AccountIDKey, account.ID))
	}
	return updated, nil
}

func (uc *AccountUseCase) Delete(ctx context.Context, id types.UserID) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}

	if err := uc.repo.Account().Delete(ctx, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return goerr.Wrap(ErrAccountNotFound, "account not found", goerr.V(AccountIDKey, id))
		}
		return goerr.Wrap(err, "failed to delete account", goerr.V(AccountIDKey, id))
	}
	return nil
}

// UploadPhoto replaces the profile photo. Employees may only change their own.
func (uc *AccountUseCase) UploadPhoto(ctx context.Context, id types.UserID, photo Photo) (*model.Account, error) {
	if err := requireSelfOrAdmin(ctx, id); err != nil {
		return nil, err
	}

	account, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := uploadPhoto(ctx, uc.storage, "accounts", photo)
	if err != nil {
		return nil, err
	}

	account.PhotoURL = url
	updated, err := uc.repo.Account().Put(ctx, account)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update account", goerr.V(AccountIDKey, id))
	}
	return updated, nil
}

func requireSelfOrAdmin(ctx context.Context, id types.UserID) error {
	user, err := requireUser(ctx)
	if err != nil {
		return err
	}
	if user.IsAdmin() || user.ID == id {
		return nil
	}
	return goerr.Wrap(ErrAccessDenied, "cannot access another account",
		goerr.V(UserIDKey, user.ID), goerr.V(AccountIDKey, id))
}
