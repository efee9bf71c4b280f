package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/interfaces"
	"github.com/secmon-lab/hra/pkg/domain/model"
	"github.com/secmon-lab/hra/pkg/domain/types"
)

const hraColumns = `id, process_id, sub_process_id, activity_id, sub_activity_id,
	health_hazard_id, health_risk_id, operation_management_id, control_hierarchy_ids,
	preventive_control, detective_control, mitigative_control, hazard_photo_url, risk_photo_url,
	likelihood_without_control, severity_without_control, risk_without_control,
	risk_code_without_control, risk_tier_without_control,
	likelihood_with_control, severity_with_control, risk_with_control,
	risk_code_with_control, risk_tier_with_control,
	created_by, created_at, updated_at`

type hraRepository struct {
	pool *pgxpool.Pool
}

func controlIDs(ids []model.ReferenceID) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

// contentArgs returns the values of every column except id and timestamps, in hraColumns order
func contentArgs(h *model.HRA) []any {
	return []any{
		int64(h.ProcessID), int64(h.SubProcessID), int64(h.ActivityID), int64(h.SubActivityID),
		int64(h.HealthHazardID), int64(h.HealthRiskID), int64(h.OperationManagementID), controlIDs(h.ControlHierarchyIDs),
		h.PreventiveControl, h.DetectiveControl, h.MitigativeControl, h.HazardPhotoURL, h.RiskPhotoURL,
		int(h.WithoutControl.Likelihood), int(h.WithoutControl.Severity), h.WithoutControl.Score,
		string(h.WithoutControl.Code), string(h.WithoutControl.Tier),
		int(h.WithControl.Likelihood), int(h.WithControl.Severity), h.WithControl.Score,
		string(h.WithControl.Code), string(h.WithControl.Tier),
	}
}

func scanHRA(row pgx.Row) (*model.HRA, error) {
	var (
		h                                            model.HRA
		id, process, subProcess, activity, subAct    int64
		hazard, risk, operation                      int64
		controls                                     []int64
		lWithout, sWithout, lWith, sWith             int
		codeWithout, tierWithout, codeWith, tierWith string
		createdBy                                    string
	)

	err := row.Scan(
		&id, &process, &subProcess, &activity, &subAct,
		&hazard, &risk, &operation, &controls,
		&h.PreventiveControl, &h.DetectiveControl, &h.MitigativeControl, &h.HazardPhotoURL, &h.RiskPhotoURL,
		&lWithout, &sWithout, &h.WithoutControl.Score, &codeWithout, &tierWithout,
		&lWith, &sWith, &h.WithControl.Score, &codeWith, &tierWith,
		&createdBy, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	h.ID = model.HRAID(id)
	h.ProcessID = model.ReferenceID(process)
	h.SubProcessID = model.ReferenceID(subProcess)
	h.ActivityID = model.ReferenceID(activity)
	h.SubActivityID = model.ReferenceID(subAct)
	h.HealthHazardID = model.ReferenceID(hazard)
	h.HealthRiskID = model.ReferenceID(risk)
	h.OperationManagementID = model.ReferenceID(operation)
	h.ControlHierarchyIDs = make([]model.ReferenceID, len(controls))
	for i, c := range controls {
		h.ControlHierarchyIDs[i] = model.ReferenceID(c)
	}
	h.WithoutControl.Likelihood = types.Likelihood(lWithout)
	h.WithoutControl.Severity = types.Severity(sWithout)
	h.WithoutControl.Code = types.RiskCode(codeWithout)
	h.WithoutControl.Tier = types.RiskTier(tierWithout)
	h.WithControl.Likelihood = types.Likelihood(lWith)
	h.WithControl.Severity = types.Severity(sWith)
	h.WithControl.Code = types.RiskCode(codeWith)
	h.WithControl.Tier = types.RiskTier(tierWith)
	h.CreatedBy = types.UserID(createdBy)
	h.CreatedAt = h.CreatedAt.UTC()
	h.UpdatedAt = h.UpdatedAt.UTC()

	return &h, nil
}

func (r *hraRepository) Create(ctx context.Context, hra *model.HRA) (*model.HRA, error) {
	query := `INSERT INTO hra_records (
		process_id, sub_process_id, activity_id, sub_activity_id,
		health_hazard_id, health_risk_id, operation_management_id, control_hierarchy_ids,
		preventive_control, detective_control, mitigative_control, hazard_photo_url, risk_photo_url,
		likelihood_without_control, severity_without_control, risk_without_control,
		risk_code_without_control, risk_tier_without_control,
		likelihood_with_control, severity_with_control, risk_with_control,
		risk_code_with_control, risk_tier_with_control,
		created_by
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	RETURNING ` + hraColumns

	args := append(contentArgs(hra), string(hra.CreatedBy))
	created, err := scanHRA(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create hra")
	}
	return created, nil
}

func (r *hraRepository) Get(ctx context.Context, id model.HRAID) (*model.HRA, error) {
	query := `SELECT ` + hraColumns + ` FROM hra_records WHERE id = $1`

	h, err := scanHRA(r.pool.QueryRow(ctx, query, int64(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, goerr.Wrap(ErrNotFound, "hra not found", goerr.V(model.HRAIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get hra", goerr.V(model.HRAIDKey, id))
	}
	return h, nil
}

func (r *hraRepository) List(ctx context.Context, filter interfaces.HRAFilter) ([]*model.HRA, error) {
	var (
		conds []string
		args  []any
	)
	add := func(column string, value any, op string) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(op, column, len(args)))
	}
	if filter.ProcessID != 0 {
		add("process_id", int64(filter.ProcessID), "%s = $%d")
	}
	if filter.SubProcessID != 0 {
		add("sub_process_id", int64(filter.SubProcessID), "%s = $%d")
	}
	if filter.ActivityID != 0 {
		add("activity_id", int64(filter.ActivityID), "%s = $%d")
	}
	if len(filter.IDs) > 0 {
		ids := make([]int64, len(filter.IDs))
		for i, id := range filter.IDs {
			ids[i] = int64(id)
		}
		add("id", ids, "%s = ANY($%d)")
	}

	query := `SELECT ` + hraColumns + ` FROM hra_records`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list hra")
	}
	defer rows.Close()

	var records []*model.HRA
	for rows.Next() {
		h, err := scanHRA(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan hra")
		}
		records = append(records, h)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate hra")
	}

	return records, nil
}

func (r *hraRepository) Update(ctx context.Context, hra *model.HRA) (*model.HRA, error) {
	query := `UPDATE hra_records SET
		process_id = $1, sub_process_id = $2, activity_id = $3, sub_activity_id = $4,
		health_hazard_id = $5, health_risk_id = $6, operation_management_id = $7, control_hierarchy_ids = $8,
		preventive_control = $9, detective_control = $10, mitigative_control = $11,
		hazard_photo_url = $12, risk_photo_url = $13,
		likelihood_without_control = $14, severity_without_control = $15, risk_without_control = $16,
		risk_code_without_control = $17, risk_tier_without_control = $18,
		likelihood_with_control = $19, severity_with_control = $20, risk_with_control = $21,
		risk_code_with_control = $22, risk_tier_with_control = $23,
		updated_at = NOW()
	WHERE id = $24
	RETURNING ` + hraColumns

	args := append(contentArgs(hra), int64(hra.ID))
	updated, err := scanHRA(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, goerr.Wrap(ErrNotFound, "hra not found", goerr.V(model.HRAIDKey, hra.ID))
		}
		return nil, goerr.Wrap(err, "failed to update hra", goerr.V(model.HRAIDKey, hra.ID))
	}
	return updated, nil
}

func (r *hraRepository) Delete(ctx context.Context, id model.HRAID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM hra_records WHERE id = $1`, int64(id))
	if err != nil {
		return goerr.Wrap(err, "failed to delete hra", goerr.V(model.HRAIDKey, id))
	}
	if tag.RowsAffected() == 0 {
		return goerr.Wrap(ErrNotFound, "hra not found", goerr.V(model.HRAIDKey, id))
	}
	return nil
}
