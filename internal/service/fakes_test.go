package service

import (
	"context"
	"sync"

	"github.com/offerhub/offerhub-go/internal/model"
	"github.com/offerhub/offerhub-go/internal/repository"
	"github.com/offerhub/offerhub-go/internal/storage"
)

var jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00fake-jpeg-body")

func jpegUpload() []model.Upload {
	return []model.Upload{{Filename: "photo.jpg", ContentType: "image/jpeg", Data: jpegBytes}}
}

type fakeUserStore struct {
	mu        sync.Mutex
	byEmail   map[string]*model.User
	createErr error
	creates   int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]*model.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.creates++
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[user.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	u := *user
	f.byEmail[user.Email] = &u
	return nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetIdentityByToken(_ context.Context, token string) (*model.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.byEmail {
		if u.Token == token {
			return &model.Identity{ID: u.ID, Username: u.Account.Username}, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type fakeOfferStore struct {
	offers    map[string]model.Offer
	createErr error
	updateErr error
	updates   int
}

func newFakeOfferStore() *fakeOfferStore {
	return &fakeOfferStore{offers: map[string]model.Offer{}}
}

func (f *fakeOfferStore) Create(_ context.Context, offer *model.Offer) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.offers[offer.ID] = cloneOffer(*offer)
	return nil
}

func (f *fakeOfferStore) GetByID(_ context.Context, id string) (*model.Offer, error) {
	o, ok := f.offers[id]
	if !ok {
		return nil, repository.ErrOfferNotFound
	}
	cp := cloneOffer(o)
	return &cp, nil
}

func (f *fakeOfferStore) Search(_ context.Context, q model.OfferQuery) (*model.OfferList, error) {
	return &model.OfferList{Offers: []model.Offer{}}, nil
}

func (f *fakeOfferStore) Update(_ context.Context, offer *model.Offer) error {
	f.updates++
	if f.updateErr != nil {
		return f.updateErr
	}
	f.offers[offer.ID] = cloneOffer(*offer)
	return nil
}

func (f *fakeOfferStore) Delete(_ context.Context, id string) error {
	if _, ok := f.offers[id]; !ok {
		return repository.ErrOfferNotFound
	}
	delete(f.offers, id)
	return nil
}

func cloneOffer(o model.Offer) model.Offer {
	o.Details = append([]model.Detail(nil), o.Details...)
	return o
}

// searchRecorder captures the query passed to the store.
type searchRecorder struct {
	*fakeOfferStore
	got model.OfferQuery
}

func (s *searchRecorder) Search(_ context.Context, q model.OfferQuery) (*model.OfferList, error) {
	s.got = q
	return &model.OfferList{Offers: []model.Offer{}}, nil
}

// flakyStore wraps a MemoryStore and fails selected calls.
type flakyStore struct {
	*storage.MemoryStore
	putErr          error
	listErr         error
	deleteErr       error
	deleteFolderErr error
	folders         []string
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: storage.NewMemoryStore("https://cdn.test")}
}

func (f *flakyStore) Put(ctx context.Context, key, contentType string, data []byte) (*model.AssetDescriptor, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	return f.MemoryStore.Put(ctx, key, contentType, data)
}

func (f *flakyStore) CreateFolder(ctx context.Context, folder string) error {
	f.folders = append(f.folders, folder)
	return f.MemoryStore.CreateFolder(ctx, folder)
}

// leftoverFolders returns the created folders whose marker is still stored.
func (f *flakyStore) leftoverFolders() []string {
	var left []string
	for _, folder := range f.folders {
		if f.HasFolder(folder) {
			left = append(left, folder)
		}
	}
	return left
}

func (f *flakyStore) List(ctx context.Context, folder string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.MemoryStore.List(ctx, folder)
}

func (f *flakyStore) Delete(ctx context.Context, keys []string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.MemoryStore.Delete(ctx, keys)
}

func (f *flakyStore) DeleteFolder(ctx context.Context, folder string) error {
	if f.deleteFolderErr != nil {
		return f.deleteFolderErr
	}
	return f.MemoryStore.DeleteFolder(ctx, folder)
}

type fakeCharger struct {
	amount      int64
	currency    string
	description string
	source      string
	err         error
}

func (f *fakeCharger) Charge(_ context.Context, amountCents int64, currency, description, source string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.amount, f.currency, f.description, f.source = amountCents, currency, description, source
	return "succeeded", nil
}
