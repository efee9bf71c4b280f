package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/interfaces"
	"github.com/secmon-lab/hra/pkg/domain/model"
	"github.com/secmon-lab/hra/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// hraDocument keeps both evaluations as flat fields, one column per derived value
type hraDocument struct {
	ID                    int64   `firestore:"id"`
	ProcessID             int64   `firestore:"process_id"`
	SubProcessID          int64   `firestore:"sub_process_id"`
	ActivityID            int64   `firestore:"activity_id"`
	SubActivityID         int64   `firestore:"sub_activity_id"`
	HealthHazardID        int64   `firestore:"health_hazard_id"`
	HealthRiskID          int64   `firestore:"health_risk_id"`
	OperationManagementID int64   `firestore:"operation_management_id"`
	ControlHierarchyIDs   []int64 `firestore:"control_hierarchy_ids"`

	PreventiveControl string `firestore:"preventive_control"`
	DetectiveControl  string `firestore:"detective_control"`
	MitigativeControl string `firestore:"mitigative_control"`
	HazardPhotoURL    string `firestore:"hazard_photo_url"`
	RiskPhotoURL      string `firestore:"risk_photo_url"`

	LikelihoodWithoutControl int    `firestore:"likelihood_without_control"`
	SeverityWithoutControl   int    `firestore:"severity_without_control"`
	RiskWithoutControl       int    `firestore:"risk_without_control"`
	RiskCodeWithoutControl   string `firestore:"risk_code_without_control"`
	RiskTierWithoutControl   string `firestore:"risk_tier_without_control"`

	LikelihoodWithControl int    `firestore:"likelihood_with_control"`
	SeverityWithControl   int    `firestore:"severity_with_control"`
	RiskWithControl       int    `firestore:"risk_with_control"`
	RiskCodeWithControl   string `firestore:"risk_code_with_control"`
	RiskTierWithControl   string `firestore:"risk_tier_with_control"`

	CreatedBy string    `firestore:"created_by"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func toHRADocument(h *model.HRA) *hraDocument {
	controls := make([]int64, len(h.ControlHierarchyIDs))
	for i, id := range h.ControlHierarchyIDs {
		controls[i] = int64(id)
	}
	return &hraDocument{
		ID:                       int64(h.ID),
		ProcessID:                int64(h.ProcessID),
		SubProcessID:             int64(h.SubProcessID),
		ActivityID:               int64(h.ActivityID),
		SubActivityID:            int64(h.SubActivityID),
		HealthHazardID:           int64(h.HealthHazardID),
		HealthRiskID:             int64(h.HealthRiskID),
		OperationManagementID:    int64(h.OperationManagementID),
		ControlHierarchyIDs:      controls,
		PreventiveControl:        h.PreventiveControl,
		DetectiveControl:         h.DetectiveControl,
		MitigativeControl:        h.MitigativeControl,
		HazardPhotoURL:           h.HazardPhotoURL,
		RiskPhotoURL:             h.RiskPhotoURL,
		LikelihoodWithoutControl: int(h.WithoutControl.Likelihood),
		SeverityWithoutControl:   int(h.WithoutControl.Severity),
		RiskWithoutControl:       h.WithoutControl.Score,
		RiskCodeWithoutControl:   string(h.WithoutControl.Code),
		RiskTierWithoutControl:   string(h.WithoutControl.Tier),
		LikelihoodWithControl:    int(h.WithControl.Likelihood),
		SeverityWithControl:      int(h.WithControl.Severity),
		RiskWithControl:          h.WithControl.Score,
		RiskCodeWithControl:      string(h.WithControl.Code),
		RiskTierWithControl:      string(h.WithControl.Tier),
		CreatedBy:                string(h.CreatedBy),
		CreatedAt:                h.CreatedAt,
		UpdatedAt:                h.UpdatedAt,
	}
}

func (d *hraDocument) toModel() *model.HRA {
	controls := make([]model.ReferenceID, len(d.ControlHierarchyIDs))
	for i, id := range d.ControlHierarchyIDs {
		controls[i] = model.ReferenceID(id)
	}
	return &model.HRA{
		ID: model.HRAID(d.ID),
		HRAContent: model.HRAContent{
			ProcessID:             model.ReferenceID(d.ProcessID),
			SubProcessID:          model.ReferenceID(d.SubProcessID),
			ActivityID:            model.ReferenceID(d.ActivityID),
			SubActivityID:         model.ReferenceID(d.SubActivityID),
			HealthHazardID:        model.ReferenceID(d.HealthHazardID),
			HealthRiskID:          model.ReferenceID(d.HealthRiskID),
			OperationManagementID: model.ReferenceID(d.OperationManagementID),
			ControlHierarchyIDs:   controls,
			PreventiveControl:     d.PreventiveControl,
			DetectiveControl:      d.DetectiveControl,
			MitigativeControl:     d.MitigativeControl,
			HazardPhotoURL:        d.HazardPhotoURL,
			RiskPhotoURL:          d.RiskPhotoURL,
		},
		WithoutControl: model.RiskEvaluation{
			Likelihood: types.Likelihood(d.LikelihoodWithoutControl),
			Severity:   types.Severity(d.SeverityWithoutControl),
			Score:      d.RiskWithoutControl,
			Code:       types.RiskCode(d.RiskCodeWithoutControl),
			Tier:       types.RiskTier(d.RiskTierWithoutControl),
		},
		WithControl: model.RiskEvaluation{
			Likelihood: types.Likelihood(d.LikelihoodWithControl),
			Severity:   types.Severity(d.SeverityWithControl),
			Score:      d.RiskWithControl,
			Code:       types.RiskCode(d.RiskCodeWithControl),
			Tier:       types.RiskTier(d.RiskTierWithControl),
		},
		CreatedBy: types.UserID(d.CreatedBy),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type hraRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newHRARepository(client *firestore.Client) *hraRepository {
	return &hraRepository{
		client: client,
	}
}

func (r *hraRepository) hraCollection() string {
	return prefixed(r.collectionPrefix, "hra")
}

func (r *hraRepository) counterCollection() string {
	return prefixed(r.collectionPrefix, "counters")
}

func (r *hraRepository) docRef(id model.HRAID) *firestore.DocumentRef {
	return r.client.Collection(r.hraCollection()).Doc(fmt.Sprintf("%d", id))
}

func (r *hraRepository) Create(ctx context.Context, hra *model.HRA) (*model.HRA, error) {
	id, err := nextID(ctx, r.client, r.counterCollection(), "hra_counter")
	if err != nil {
		return nil, err
	}

	ts := now()
	created := hra.Clone()
	created.ID = model.HRAID(id)
	created.CreatedAt = ts
	created.UpdatedAt = ts

	if _, err := r.docRef(created.ID).Set(ctx, toHRADocument(created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create hra", goerr.V(model.HRAIDKey, id))
	}

	return created, nil
}

func (r *hraRepository) get(ctx context.Context, id model.HRAID) (*hraDocument, error) {
	doc, err := r.docRef(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "hra not found", goerr.V(model.HRAIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get hra", goerr.V(model.HRAIDKey, id))
	}

	var d hraDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal hra", goerr.V(model.HRAIDKey, id))
	}
	return &d, nil
}

func (r *hraRepository) Get(ctx context.Context, id model.HRAID) (*model.HRA, error) {
	d, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return d.toModel(), nil
}

func (r *hraRepository) List(ctx context.Context, filter interfaces.HRAFilter) ([]*model.HRA, error) {
	query := r.client.Collection(r.hraCollection()).Query
	if filter.ProcessID != 0 {
		query = query.Where("process_id", "==", int64(filter.ProcessID))
	}
	if filter.SubProcessID != 0 {
		query = query.Where("sub_process_id", "==", int64(filter.SubProcessID))
	}
	if filter.ActivityID != 0 {
		query = query.Where("activity_id", "==", int64(filter.ActivityID))
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var records []*model.HRA
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate hra")
		}

		var d hraDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal hra", goerr.V("doc_id", doc.Ref.ID))
		}
		h := d.toModel()
		if filter.Match(h) {
			records = append(records, h)
		}
	}
	model.SortHRAByID(records)

	return records, nil
}

func (r *hraRepository) Update(ctx context.Context, hra *model.HRA) (*model.HRA, error) {
	existing, err := r.get(ctx, hra.ID)
	if err != nil {
		return nil, err
	}

	updated := hra.Clone()
	updated.CreatedBy = types.UserID(existing.CreatedBy)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = now()

	if _, err := r.docRef(hra.ID).Set(ctx, toHRADocument(updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update hra", goerr.V(model.HRAIDKey, hra.ID))
	}

	return updated, nil
}

func (r *hraRepository) Delete(ctx context.Context, id model.HRAID) error {
	if _, err := r.get(ctx, id); err != nil {
		return err
	}

	if _, err := r.docRef(id).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete hra", goerr.V(model.HRAIDKey, id))
	}

	return nil
}
