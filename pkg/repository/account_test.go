package repository_test

import (
	"context"
	"testing"

	"github.com/secmon-lab/hra/pkg/domain/model"
	"github.com/secmon-lab/hra/pkg/domain/types"
)

func TestAccountRepository(t *testing.T) {
	runAllBackends(t, runAccountRepositoryTest)
}

func runAccountRepositoryTest(t *testing.T, newRepo repoFactory) {
	t.Run("Put creates and replaces account", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		account := &model.Account{
			ID:    "2c9d8b51-7e4f-4a63-b0d2-5f8e1a9c3b44",
			Email: "siti@example.com",
			Name:  "Siti Rahma",
			Role:  types.RoleEmployee,
		}
		created, err := repo.Account().Put(ctx, account)
		if err != nil {
			t.Fatalf("failed to put account: %v", err)
		}
		if created.CreatedAt.IsZero() {
			t.Error("expected non-zero CreatedAt")
		}

		account.Role = types.RoleAdmin
		account.PhotoURL = "https://storage.googleapis.com/hra/accounts/siti.png"
		updated, err := repo.Account().Put(ctx, account)
		if err != nil {
			t.Fatalf("failed to replace account: %v", err)
		}
		if !updated.CreatedAt.Equal(created.CreatedAt) {
			t.Errorf("expected createdAt=%v, got %v", created.CreatedAt, updated.CreatedAt)
		}

		got, err := repo.Account().Get(ctx, account.ID)
		if err != nil {
			t.Fatalf("failed to get account: %v", err)
		}
		if got.Role != types.RoleAdmin || got.PhotoURL != account.PhotoURL || got.Email != account.Email {
			t.Errorf("unexpected account: %+v", got)
		}
	})

	t.Run("List orders by name", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, a := range []*model.Account{
			{ID: "a1b2c3d4-0000-4000-8000-000000000003", Email: "yusuf@example.com", Name: "Yusuf", Role: types.RoleEmployee},
			{ID: "a1b2c3d4-0000-4000-8000-000000000001", Email: "budi@example.com", Name: "Budi", Role: types.RoleAdmin},
			{ID: "a1b2c3d4-0000-4000-8000-000000000002", Email: "maya@example.com", Name: "Maya", Role: types.RoleEmployee},
		} {
			if _, err := repo.Account().Put(ctx, a); err != nil {
				t.Fatalf("failed to put account: %v", err)
			}
		}

		accounts, err := repo.Account().List(ctx)
		if err != nil {
			t.Fatalf("failed to list accounts: %v", err)
		}
		if len(accounts) != 3 {
			t.Fatalf("expected 3 accounts, got %d", len(accounts))
		}
		for i, name := range []string{"Budi", "Maya", "Yusuf"} {
			if accounts[i].Name != name {
				t.Errorf("expected accounts[%d]=%s, got %s", i, name, accounts[i].Name)
			}
		}
	})

	t.Run("Get and Delete return ErrNotFound for unknown account", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		id := types.UserID("ffffffff-ffff-4fff-8fff-ffffffffffff")
		if _, err := repo.Account().Get(ctx, id); !isNotFound(err) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if err := repo.Account().Delete(ctx, id); !isNotFound(err) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
