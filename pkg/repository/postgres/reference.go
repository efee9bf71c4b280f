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

const referenceColumns = `id, kind, code, name, parent_id, animation_url, created_at, updated_at`

type referenceRepository struct {
	pool *pgxpool.Pool
}

func scanReference(row pgx.Row) (*model.Reference, error) {
	var (
		ref          model.Reference
		id, parentID int64
		kind         string
	)
	if err := row.Scan(&id, &kind, &ref.Code, &ref.Name, &parentID, &ref.AnimationURL, &ref.CreatedAt, &ref.UpdatedAt); err != nil {
		return nil, err
	}
	ref.ID = model.ReferenceID(id)
	ref.Kind = types.ReferenceKind(kind)
	ref.ParentID = model.ReferenceID(parentID)
	ref.CreatedAt = ref.CreatedAt.UTC()
	ref.UpdatedAt = ref.UpdatedAt.UTC()
	return &ref, nil
}

func (r *referenceRepository) Create(ctx context.Context, ref *model.Reference) (*model.Reference, error) {
	query := `INSERT INTO hra_references (kind, code, name, parent_id, animation_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + referenceColumns

	created, err := scanReference(r.pool.QueryRow(ctx, query,
		string(ref.Kind), ref.Code, ref.Name, int64(ref.ParentID), ref.AnimationURL))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create reference", goerr.V(model.ReferenceKindKey, ref.Kind))
	}
	return created, nil
}

func (r *referenceRepository) Get(ctx context.Context, kind types.ReferenceKind, id model.ReferenceID) (*model.Reference, error) {
	query := `SELECT ` + referenceColumns + ` FROM hra_references WHERE kind = $1 AND id = $2`

	ref, err := scanReference(r.pool.QueryRow(ctx, query, string(kind), int64(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, goerr.Wrap(ErrNotFound, "reference not found",
				goerr.V(model.ReferenceKindKey, kind), goerr.V(model.ReferenceIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get reference",
			goerr.V(model.ReferenceKindKey, kind), goerr.V(model.ReferenceIDKey, id))
	}
	return ref, nil
}

func (r *referenceRepository) List(ctx context.Context, kind types.ReferenceKind) ([]*model.Reference, error) {
	query := `SELECT ` + referenceColumns + ` FROM hra_references WHERE kind = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, string(kind))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list references", goerr.V(model.ReferenceKindKey, kind))
	}
	defer rows.Close()

	var refs []*model.Reference
	for rows.Next() {
		ref, err := scanReference(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan reference", goerr.V(model.ReferenceKindKey, kind))
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate references", goerr.V(model.ReferenceKindKey, kind))
	}

	return refs, nil
}

func (r *referenceRepository) Update(ctx context.Context, ref *model.Reference) (*model.Reference, error) {
	query := `UPDATE hra_references
		SET code = $1, name = $2, parent_id = $3, animation_url = $4, updated_at = NOW()
		WHERE kind = $5 AND id = $6
		RETURNING ` + referenceColumns

	updated, err := scanReference(r.pool.QueryRow(ctx, query,
		ref.Code, ref.Name, int64(ref.ParentID), ref.AnimationURL, string(ref.Kind), int64(ref.ID)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, goerr.Wrap(ErrNotFound, "reference not found",
				goerr.V(model.ReferenceKindKey, ref.Kind), goerr.V(model.ReferenceIDKey, ref.ID))
		}
		return nil, goerr.Wrap(err, "failed to update reference",
			goerr.V(model.ReferenceKindKey, ref.Kind), goerr.V(model.ReferenceIDKey, ref.ID))
	}
	return updated, nil
}

func (r *referenceRepository) Delete(ctx context.Context, kind types.ReferenceKind, id model.ReferenceID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM hra_references WHERE kind = $1 AND id = $2`, string(kind), int64(id))
	if err != nil {
		return goerr.Wrap(err, "failed to delete reference",
			goerr.V(model.ReferenceKindKey, kind), goerr.V(model.ReferenceIDKey, id))
	}
	if tag.RowsAffected() == 0 {
		return goerr.Wrap(ErrNotFound, "reference not found",
			goerr.V(model.ReferenceKindKey, kind), goerr.V(model.ReferenceIDKey, id))
	}
	return nil
}
