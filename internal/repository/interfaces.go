package repository

import (
	"context"

	"go-image-classifier/pkg/models"
)

// ImageRepository defines the interface for image data access operations
type ImageRepository interface {
	// ListImages returns the images directly inside dir, sorted by full path
	ListImages(ctx context.Context, dir string) ([]string, error)

	// ReadImage loads the image stored under ref
	ReadImage(ctx context.Context, ref string) (*models.ImageRecord, error)
}
