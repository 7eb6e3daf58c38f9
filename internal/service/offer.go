package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/offerhub/offerhub-go/internal/model"
	"github.com/offerhub/offerhub-go/internal/repository"
)

// maxPrice is the largest value the product_price column holds.
const maxPrice = 9_999_999_999.99

// OfferService orchestrates the catalog and the assets of each offer.
type OfferService struct {
	offers           OfferStore
	assets           *AssetService
	maxLimit         int
	enforceOwnership bool
}

// NewOfferService creates a new OfferService. maxLimit caps the page size of
// searches; enforceOwnership restricts update and delete to the offer's owner.
func NewOfferService(offers OfferStore, assets *AssetService, maxLimit int, enforceOwnership bool) *OfferService {
	if maxLimit <= 0 {
		maxLimit = 100
	}
	return &OfferService{
		offers:           offers,
		assets:           assets,
		maxLimit:         maxLimit,
		enforceOwnership: enforceOwnership,
	}
}

// Search returns one page of matching offers and the size of the filtered set.
func (s *OfferService) Search(ctx context.Context, q model.OfferQuery) (*model.OfferList, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > s.maxLimit {
		q.Limit = s.maxLimit
	}
	if q.Sort != model.SortPriceAsc && q.Sort != model.SortPriceDesc {
		q.Sort = ""
	}
	// Pages past the last representable offset are empty anyway.
	if q.Page > math.MaxInt/q.Limit {
		q.Page = math.MaxInt / q.Limit
	}

	return s.offers.Search(ctx, q)
}

// GetByID returns a single offer with its owner's contact projection.
func (s *OfferService) GetByID(ctx context.Context, id string) (*model.Offer, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidOfferID
	}

	offer, err := s.offers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	return offer, nil
}

// Publish creates an offer owned by the caller. The preview image is stored
// before the record, and removed again if the record cannot be saved.
func (s *OfferService) Publish(ctx context.Context, owner *model.Identity, req model.PublishRequest, picture, gallery []model.Upload) (*model.Offer, error) {
	if req.Title == "" || req.Price == "" || len(picture) == 0 {
		return nil, ErrMissingOfferFields
	}

	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}

	location := req.Location
	if location == "" {
		location = req.City
	}

	offer := &model.Offer{
		ID:          uuid.NewString(),
		Name:        req.Title,
		Description: req.Description,
		Price:       price,
		Details: []model.Detail{
			{Key: model.DetailBrand, Value: req.Brand},
			{Key: model.DetailSize, Value: req.Size},
			{Key: model.DetailCondition, Value: req.Condition},
			{Key: model.DetailColor, Value: req.Color},
			{Key: model.DetailLocation, Value: location},
		},
		Pictures: []model.AssetDescriptor{},
		OwnerID:  owner.ID,
		Owner: &model.Owner{
			ID:      owner.ID,
			Account: model.Account{Username: owner.Username},
		},
		CreatedAt: time.Now().UTC(),
	}

	folder := s.assets.OfferFolder(offer.ID)
	offer.Image, err = s.assets.UploadSingle(ctx, picture, folder, previewAssetID)
	if err != nil {
		return nil, err
	}

	if len(gallery) > 0 {
		offer.Pictures, err = s.assets.UploadGallery(ctx, gallery, folder)
		if err != nil {
			s.assets.cleanup(ctx, folder)
			return nil, err
		}
	}

	if err := s.offers.Create(ctx, offer); err != nil {
		s.assets.cleanup(ctx, folder)
		return nil, err
	}

	return offer, nil
}

// Update applies the present fields of req to an offer and optionally replaces
// its preview image. Field edits are saved before the image is uploaded and
// are kept when the upload fails.
func (s *OfferService) Update(ctx context.Context, caller *model.Identity, id string, req model.UpdateRequest, picture []model.Upload) error {
	offer, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(caller, offer); err != nil {
		return err
	}

	if req.Title != "" {
		offer.Name = req.Title
	}
	if req.Description != "" {
		offer.Description = req.Description
	}
	if req.Price != "" {
		if offer.Price, err = parsePrice(req.Price); err != nil {
			return err
		}
	}

	location := req.Location
	if location == "" {
		location = req.City
	}

	edits := map[string]string{
		model.DetailBrand:     req.Brand,
		model.DetailSize:      req.Size,
		model.DetailCondition: req.Condition,
		model.DetailColor:     req.Color,
		model.DetailLocation:  location,
	}
	for i, detail := range offer.Details {
		if value := edits[detail.Key]; value != "" {
			offer.Details[i].Value = value
		}
	}

	if err := s.offers.Update(ctx, offer); err != nil {
		return err
	}

	if len(picture) == 0 {
		return nil
	}

	image, err := s.assets.Replace(ctx, picture, s.assets.OfferFolder(offer.ID), previewAssetID)
	if err != nil {
		return err
	}
	offer.Image = image
	return s.offers.Update(ctx, offer)
}

// Delete purges an offer's assets and then its record. The record is kept
// when the purge fails.
func (s *OfferService) Delete(ctx context.Context, caller *model.Identity, id string) error {
	offer, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(caller, offer); err != nil {
		return err
	}

	if err := s.assets.PurgePrefix(ctx, s.assets.OfferFolder(offer.ID)); err != nil {
		return err
	}

	if err := s.offers.Delete(ctx, offer.ID); err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return ErrOfferNotFound
		}
		return err
	}
	return nil
}

func (s *OfferService) authorize(caller *model.Identity, offer *model.Offer) error {
	if !s.enforceOwnership {
		return nil
	}
	if caller == nil || offer.OwnerID != caller.ID {
		return ErrNotOwner
	}
	return nil
}

// parsePrice reads a price in euros, rounded to cents. The bound matches the
// DECIMAL(12, 2) column.
func parsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, ErrInvalidPrice
	}
	price = math.Round(price*100) / 100
	if price < 0 || price > maxPrice {
		return 0, ErrInvalidPrice
	}
	return price, nil
}
