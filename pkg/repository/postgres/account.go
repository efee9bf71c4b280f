package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/model"
	"github.com/secmon-lab/hra/pkg/domain/types"
)

const accountColumns = `id, email, name, role, photo_url, created_at, updated_at`

type accountRepository struct {
	pool *pgxpool.Pool
}

func scanAccount(row pgx.Row) (*model.Account, error) {
	var (
		a        model.Account
		id, role string
	)
	if err := row.Scan(&id, &a.Email, &a.Name, &role, &a.PhotoURL, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.ID = types.UserID(id)
	a.Role = types.Role(role)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return &a, nil
}

func (r *accountRepository) Put(ctx context.Context, account *model.Account) (*model.Account, error) {
	query := `INSERT INTO accounts (id, email, name, role, photo_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			role = EXCLUDED.role,
			photo_url = EXCLUDED.photo_url,
			updated_at = NOW()
		RETURNING ` + accountColumns

	stored, err := scanAccount(r.pool.QueryRow(ctx, query,
		string(account.ID), account.Email, account.Name, string(account.Role), account.PhotoURL))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to put account", goerr.V("id", account.ID))
	}
	return stored, nil
}

func (r *accountRepository) Get(ctx context.Context, id types.UserID) (*model.Account, error) {
	a, err := scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, string(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, goerr.Wrap(ErrNotFound, "account not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get account", goerr.V("id", id))
	}
	return a, nil
}

func (r *accountRepository) List(ctx context.Context) ([]*model.Account, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY name, id`)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list accounts")
	}
	defer rows.Close()

	var accounts []*model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan account")
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate accounts")
	}
	return accounts, nil
}

func (r *accountRepository) Delete(ctx context.Context, id types.UserID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, string(id))
	if err != nil {
		return goerr.Wrap(err, "failed to delete account", goerr.V("id", id))
	}
	if tag.RowsAffected() == 0 {
		return goerr.Wrap(ErrNotFound, "account not found", goerr.V("id", id))
	}
	return nil
}
