package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/offerhub/offerhub-go/internal/model"
)

const (
	previewAssetID = "preview"
	avatarAssetID  = "avatar"
)

// AssetService owns every interaction with the object store so that stored
// images and catalog records never diverge.
type AssetService struct {
	store    ObjectStore
	root     string
	maxBytes int64
}

// NewAssetService creates a new AssetService storing objects under root.
// A maxBytes of zero disables the size check.
func NewAssetService(store ObjectStore, root string, maxBytes int64) *AssetService {
	return &AssetService{
		store:    store,
		root:     strings.Trim(root, "/"),
		maxBytes: maxBytes,
	}
}

// OfferFolder returns the path prefix holding every asset of an offer.
func (s *AssetService) OfferFolder(offerID string) string {
	return path.Join(s.root, "offers", offerID)
}

// UserFolder returns the path prefix holding every asset of a user.
func (s *AssetService) UserFolder(userID string) string {
	return path.Join(s.root, "users", userID)
}

// UploadSingle stores exactly one image at folder/assetID.
func (s *AssetService) UploadSingle(ctx context.Context, files []model.Upload, folder, assetID string) (*model.AssetDescriptor, error) {
	file, err := s.single(files)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateFolder(ctx, folder); err != nil {
		return nil, upstream("create asset folder", err)
	}

	desc, err := s.put(ctx, path.Join(folder, assetID), file)
	if err != nil {
		s.cleanup(ctx, folder)
		return nil, err
	}
	return desc, nil
}

// Replace overwrites the image at folder/assetID. The key is stable, so the
// previous bytes are superseded rather than duplicated.
func (s *AssetService) Replace(ctx context.Context, files []model.Upload, folder, assetID string) (*model.AssetDescriptor, error) {
	file, err := s.single(files)
	if err != nil {
		return nil, err
	}
	return s.put(ctx, path.Join(folder, assetID), file)
}

// UploadGallery stores each image under folder with a fresh id.
func (s *AssetService) UploadGallery(ctx context.Context, files []model.Upload, folder string) ([]model.AssetDescriptor, error) {
	for _, file := range files {
		if err := s.validate(file); err != nil {
			return nil, err
		}
	}

	gallery := make([]model.AssetDescriptor, 0, len(files))
	for _, file := range files {
		desc, err := s.put(ctx, path.Join(folder, uuid.NewString()), file)
		if err != nil {
			return nil, err
		}
		gallery = append(gallery, *desc)
	}
	return gallery, nil
}

// PurgePrefix deletes every object under folder and then the folder itself.
// Purging an empty or missing folder succeeds.
func (s *AssetService) PurgePrefix(ctx context.Context, folder string) error {
	keys, err := s.store.List(ctx, folder)
	if err != nil {
		return upstream("list assets", err)
	}
	if len(keys) > 0 {
		if err := s.store.Delete(ctx, keys); err != nil {
			return upstream("delete assets", err)
		}
	}
	if err := s.store.DeleteFolder(ctx, folder); err != nil {
		return upstream("delete asset folder", err)
	}

	slog.Info("assets purged", "folder", folder, "objects", len(keys))
	return nil
}

// cleanup purges folder after a failed create. Failures are logged only.
func (s *AssetService) cleanup(ctx context.Context, folder string) {
	if err := s.PurgePrefix(ctx, folder); err != nil {
		slog.Warn("asset cleanup failed", "folder", folder, "error", err)
	}
}

func (s *AssetService) put(ctx context.Context, key string, file model.Upload) (*model.AssetDescriptor, error) {
	desc, err := s.store.Put(ctx, key, contentType(file), file.Data)
	if err != nil {
		return nil, upstream("upload asset", err)
	}
	return desc, nil
}

func (s *AssetService) single(files []model.Upload) (model.Upload, error) {
	if len(files) != 1 {
		return model.Upload{}, ErrInvalidAsset
	}
	if err := s.validate(files[0]); err != nil {
		return model.Upload{}, err
	}
	return files[0], nil
}

func (s *AssetService) validate(file model.Upload) error {
	if len(file.Data) == 0 || !strings.HasPrefix(contentType(file), "image/") {
		return ErrInvalidAsset
	}
	if s.maxBytes > 0 && int64(len(file.Data)) > s.maxBytes {
		return ErrInvalidAsset
	}
	return nil
}

// contentType returns the declared media type, sniffing the bytes when none was sent.
func contentType(file model.Upload) string {
	if file.ContentType != "" && file.ContentType != "application/octet-stream" {
		return file.ContentType
	}
	return http.DetectContentType(file.Data)
}

func upstream(op string, err error) error {
	slog.Error("object store call failed", "op", op, "error", err)
	return fmt.Errorf("%w: %s: %w", ErrUpstream, op, err)
}
