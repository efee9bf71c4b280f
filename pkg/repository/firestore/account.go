package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/model"
	"github.com/secmon-lab/hra/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type accountDocument struct {
	ID        string    `firestore:"id"`
	Email     string    `firestore:"email"`
	Name      string    `firestore:"name"`
	Role      string    `firestore:"role"`
	PhotoURL  string    `firestore:"photo_url"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func (d *accountDocument) toModel() *model.Account {
	return &model.Account{
		ID:        types.UserID(d.ID),
		Email:     d.Email,
		Name:      d.Name,
		Role:      types.Role(d.Role),
		PhotoURL:  d.PhotoURL,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type accountRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newAccountRepository(client *firestore.Client) *accountRepository {
	return &accountRepository{
		client: client,
	}
}

func (r *accountRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(prefixed(r.collectionPrefix, "accounts"))
}

func (r *accountRepository) Put(ctx context.Context, account *model.Account) (*model.Account, error) {
	docRef := r.collection().Doc(string(account.ID))
	ts := now()
	stored := *account
	stored.CreatedAt = ts
	stored.UpdatedAt = ts

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil && status.Code(err) != codes.NotFound {
			return goerr.Wrap(err, "failed to get account")
		}
		if err == nil {
			var existing accountDocument
			if err := doc.DataTo(&existing); err != nil {
				return goerr.Wrap(err, "failed to unmarshal account")
			}
			stored.CreatedAt = existing.CreatedAt
		}

		return tx.Set(docRef, &accountDocument{
			ID:        string(stored.ID),
			Email:     stored.Email,
			Name:      stored.Name,
			Role:      string(stored.Role),
			PhotoURL:  stored.PhotoURL,
			CreatedAt: stored.CreatedAt,
			UpdatedAt: stored.UpdatedAt,
		})
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to put account", goerr.V("id", account.ID))
	}

	return &stored, nil
}

func (r *accountRepository) Get(ctx context.Context, id types.UserID) (*model.Account, error) {
	doc, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "account not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get account", goerr.V("id", id))
	}

	var d accountDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal account", goerr.V("id", id))
	}
	return d.toModel(), nil
}

func (r *accountRepository) List(ctx context.Context) ([]*model.Account, error) {
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	var accounts []*model.Account
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate accounts")
		}

		var d accountDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal account", goerr.V("doc_id", doc.Ref.ID))
		}
		accounts = append(accounts, d.toModel())
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
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}

	if _, err := r.collection().Doc(string(id)).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete account", goerr.V("id", id))
	}

	return nil
}
