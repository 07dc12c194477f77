package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/agromarket/backend/internal/application/access"
	"github.com/agromarket/backend/internal/domain/catalog"
	"github.com/agromarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ObjectStorageService issues presigned URLs against an object store
// (S3, MinIO, etc.)
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageService issues presigned upload URLs for farm and product images.
// The returned storage key is what clients then save in the image field.
type ImageService struct {
	storage  ObjectStorageService
	farms    catalog.FarmRepository
	resolver *Resolver
	guard    *access.Guard
	expiry   time.Duration
}

// NewImageService creates a new ImageService
func NewImageService(
	storage ObjectStorageService,
	farms catalog.FarmRepository,
	stores catalog.ProductStores,
	guard *access.Guard,
	expiry time.Duration,
) *ImageService {
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &ImageService{
		storage:  storage,
		farms:    farms,
		resolver: NewResolver(stores),
		guard:    guard,
		expiry:   expiry,
	}
}

// PresignUpload returns an upload URL for the target's image. Only the
// owner of the farm (or staff) may upload.
func (s *ImageService) PresignUpload(ctx context.Context, actor *access.Actor, req ImageUploadRequest) (*ImageUploadResponse, error) {
	ext, ok := imageExtensions[req.ContentType]
	if !ok {
		return nil, shared.NewDomainErrorf("INVALID_CONTENT_TYPE", "Unsupported image type %q", req.ContentType)
	}

	var target any
	if req.Target == "farm" {
		farm, err := s.farms.FindByID(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		target = farm
	} else {
		product, err := s.resolver.Resolve(ctx, req.Target, req.ID)
		if err != nil {
			return nil, err
		}
		target = product
	}
	if err := s.guard.Authorize(ctx, actor, target); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("images/%s/%d/%s%s", req.Target, req.ID, uuid.NewString(), ext)
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, req.ContentType, s.expiry)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}
	return &ImageUploadResponse{UploadURL: url, StorageKey: key, ExpiresAt: expiresAt}, nil
}
