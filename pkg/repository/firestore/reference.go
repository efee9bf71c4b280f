package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/model"
	"github.com/secmon-lab/hra/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type referenceDocument struct {
	ID           int64     `firestore:"id"`
	Kind         string    `firestore:"kind"`
	Code         string    `firestore:"code"`
	Name         string    `firestore:"name"`
	ParentID     int64     `firestore:"parent_id"`
	AnimationURL string    `firestore:"animation_url"`
	CreatedAt    time.Time `firestore:"created_at"`
	UpdatedAt    time.Time `firestore:"updated_at"`
}

func toReferenceDocument(ref *model.Reference) *referenceDocument {
	return &referenceDocument{
		ID:           int64(ref.ID),
		Kind:         string(ref.Kind),
		Code:         ref.Code,
		Name:         ref.Name,
		ParentID:     int64(ref.ParentID),
		AnimationURL: ref.AnimationURL,
		CreatedAt:    ref.CreatedAt,
		UpdatedAt:    ref.UpdatedAt,
	}
}

func (d *referenceDocument) toModel() *model.Reference {
	return &model.Reference{
		ID:           model.ReferenceID(d.ID),
		Kind:         types.ReferenceKind(d.Kind),
		Code:         d.Code,
		Name:         d.Name,
		ParentID:     model.ReferenceID(d.ParentID),
		AnimationURL: d.AnimationURL,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// referenceRepository keeps each kind in its own collection with its own ID counter
type referenceRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newReferenceRepository(client *firestore.Client) *referenceRepository {
	return &referenceRepository{
		client: client,
	}
}

func (r *referenceRepository) kindCollection(kind types.ReferenceKind) string {
	return prefixed(r.collectionPrefix, "ref_"+string(kind))
}

func (r *referenceRepository) counterCollection() string {
	return prefixed(r.collectionPrefix, "counters")
}

func (r *referenceRepository) docRef(kind types.ReferenceKind, id model.ReferenceID) *firestore.DocumentRef {
	return r.client.Collection(r.kindCollection(kind)).Doc(fmt.Sprintf("%d", id))
}

func (r *referenceRepository) Create(ctx context.Context, ref *model.Reference) (*model.Reference, error) {
	id, err := nextID(ctx, r.client, r.counterCollection(), "ref_"+string(ref.Kind)+"_counter")
	if err != nil {
		return nil, err
	}

	ts := now()
	created := ref.Clone()
	created.ID = model.ReferenceID(id)
	created.CreatedAt = ts
	created.UpdatedAt = ts

	if _, err := r.docRef(created.Kind, created.ID).Set(ctx, toReferenceDocument(created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create reference",
			goerr.V(model.ReferenceKindKey, created.Kind), goerr.V(model.ReferenceIDKey, id))
	}

	return created, nil
}

func (r *referenceRepository) Get(ctx context.Context, kind types.ReferenceKind, id model.ReferenceID) (*model.Reference, error) {
	doc, err := r.docRef(kind, id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "reference not found",
				goerr.V(model.ReferenceKindKey, kind), goerr.V(model.ReferenceIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get reference",
			goerr.V(model.ReferenceKindKey, kind), goerr.V(model.ReferenceIDKey, id))
	}

	var d referenceDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal reference",
			goerr.V(model.ReferenceKindKey, kind), goerr.V(model.ReferenceIDKey, id))
	}
	return d.toModel(), nil
}

func (r *referenceRepository) List(ctx context.Context, kind types.ReferenceKind) ([]*model.Reference, error) {
	iter := r.client.Collection(r.kindCollection(kind)).OrderBy("id", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var refs []*model.Reference
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate references", goerr.V(model.ReferenceKindKey, kind))
		}

		var d referenceDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal reference", goerr.V("doc_id", doc.Ref.ID))
		}
		refs = append(refs, d.toModel())
	}

	return refs, nil
}

func (r *referenceRepository) Update(ctx context.Context, ref *model.Reference) (*model.Reference, error) {
	existing, err := r.Get(ctx, ref.Kind, ref.ID)
	if err != nil {
		return nil, err
	}

	updated := ref.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = now()

	if _, err := r.docRef(ref.Kind, ref.ID).Set(ctx, toReferenceDocument(updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update reference",
			goerr.V(model.ReferenceKindKey, ref.Kind), goerr.V(model.ReferenceIDKey, ref.ID))
	}

	return updated, nil
}

func (r *referenceRepository) Delete(ctx context.Context, kind types.ReferenceKind, id model.ReferenceID) error {
	if _, err := r.Get(ctx, kind, id); err != nil {
		return err
	}

	if _, err := r.docRef(kind, id).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete reference",
			goerr.V(model.ReferenceKindKey, kind), goerr.V(model.ReferenceIDKey, id))
	}

	return nil
}
