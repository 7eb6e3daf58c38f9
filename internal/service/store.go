package service

import (
	"context"

	"github.com/offerhub/offerhub-go/internal/model"
)

// UserStore is the user record store. Implemented by repository.UserRepository.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetIdentityByToken(ctx context.Context, token string) (*model.Identity, error)
}

// OfferStore is the catalog record store. Implemented by repository.OfferRepository.
type OfferStore interface {
	Create(ctx context.Context, offer *model.Offer) error
	GetByID(ctx context.Context, id string) (*model.Offer, error)
	Search(ctx context.Context, q model.OfferQuery) (*model.OfferList, error)
	Update(ctx context.Context, offer *model.Offer) error
	Delete(ctx context.Context, id string) error
}

// ObjectStore is a blob store with folder semantics. A folder can only be
// deleted once every object under it has been removed.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (*model.AssetDescriptor, error)
	CreateFolder(ctx context.Context, folder string) error
	List(ctx context.Context, folder string) ([]string, error)
	Delete(ctx context.Context, keys []string) error
	DeleteFolder(ctx context.Context, folder string) error
}

// Charger submits a card charge to a payment provider and returns its status.
type Charger interface {
	Charge(ctx context.Context, amountCents int64, currency, description, source string) (string, error)
}
