package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "go-image-classifier/internal/errors"
	"go-image-classifier/internal/storage"
	"go-image-classifier/pkg/models"
	"go-image-classifier/pkg/validation"
)

// LocalImageRepository implements ImageRepository on the local filesystem
type LocalImageRepository struct {
	extensions []string
}

// NewLocalImageRepository creates a repository accepting files with the given suffixes.
// Suffixes are compared case-insensitively.
func NewLocalImageRepository(extensions []string) *LocalImageRepository {
	lowered := make([]string, len(extensions))
	for i, ext := range extensions {
		lowered[i] = strings.ToLower(ext)
	}
	return &LocalImageRepository{extensions: lowered}
}

// ListImages returns regular files in dir (not recursive) whose names end in an accepted extension.
func (r *LocalImageRepository) ListImages(ctx context.Context, dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, apperrors.NewFileAccessError("cannot open folder "+dir, err)
	}
	if !info.IsDir() {
		return nil, apperrors.NewValidationError(dir+" is not a folder", ErrNotADirectory)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.NewFileAccessError("cannot list folder "+dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !r.HasImageExtension(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		// Stat follows symlinks; anything that is not a regular file is skipped.
		target, err := os.Stat(path)
		if err != nil || !target.Mode().IsRegular() {
			continue
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// HasImageExtension reports whether name ends in one of the accepted extensions
func (r *LocalImageRepository) HasImageExtension(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range r.extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// ReadImage reads the whole file at path.
func (r *LocalImageRepository) ReadImage(ctx context.Context, path string) (*models.ImageRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError("image not found "+path, fmt.Errorf("%w: %v", ErrImageNotFound, err))
		}
		return nil, apperrors.NewFileAccessError("error opening image "+path, err)
	}
	return &models.ImageRecord{Path: path, Data: data}, nil
}

// HTTPImageRepository implements ImageRepository using HTTP storage
type HTTPImageRepository struct {
	fetcher   storage.ImageFetcher
	validator *validation.URLValidator
}

// NewHTTPImageRepository creates a new HTTP-based image repository
func NewHTTPImageRepository(fetcher storage.ImageFetcher, validator *validation.URLValidator) *HTTPImageRepository {
	return &HTTPImageRepository{
		fetcher:   fetcher,
		validator: validator,
	}
}

// ListImages is not supported for remote images
func (r *HTTPImageRepository) ListImages(ctx context.Context, dir string) ([]string, error) {
	return nil, apperrors.NewValidationError("listing is not supported for remote images", nil)
}

// ReadImage validates and downloads the image at imageURL
func (r *HTTPImageRepository) ReadImage(ctx context.Context, imageURL string) (*models.ImageRecord, error) {
	if err := r.validator.ValidateImageURL(imageURL); err != nil {
		return nil, err
	}
	data, err := r.fetcher.FetchImage(ctx, imageURL)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewTimeoutError("image fetch timeout", err)
		}
		return nil, apperrors.NewNetworkError("failed to fetch image", err)
	}
	return &models.ImageRecord{Path: imageURL, Data: data}, nil
}
