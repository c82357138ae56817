package factory

import (
	"fmt"

	"go-image-classifier/internal/config"
	"go-image-classifier/internal/repository"
	"go-image-classifier/internal/storage"
	"go-image-classifier/pkg/validation"
)

// SourceType represents where images are read from
type SourceType string

const (
	// LocalSource reads images from the local file system
	LocalSource SourceType = "local"
	// HTTPSource downloads images over HTTP
	HTTPSource SourceType = "http"
)

// UploaderType represents where results files are published
type UploaderType string

const (
	// AzureUploader stores results in Azure blob storage
	AzureUploader UploaderType = "azure"
)

// RepositoryFactory creates image repositories
type RepositoryFactory interface {
	CreateRepository(sourceType SourceType) (repository.ImageRepository, error)
}

// UploaderFactory creates result uploaders
type UploaderFactory interface {
	CreateUploader(uploaderType UploaderType) (storage.ResultUploader, error)
}

type repositoryFactory struct {
	extensions   []string
	allowedHosts []string
}

// NewRepositoryFactory creates a repository factory; extensions filter folder listings
// and allowedHosts, when not empty, restricts where HTTP images may come from.
func NewRepositoryFactory(extensions, allowedHosts []string) RepositoryFactory {
	return &repositoryFactory{extensions: extensions, allowedHosts: allowedHosts}
}

// CreateRepository creates a repository based on the specified source type
func (f *repositoryFactory) CreateRepository(sourceType SourceType) (repository.ImageRepository, error) {
	switch sourceType {
	case LocalSource:
		return repository.NewLocalImageRepository(f.extensions), nil
	case HTTPSource:
		validator := validation.NewURLValidatorWithOptions([]string{"http", "https"}, f.allowedHosts)
		return repository.NewHTTPImageRepository(storage.NewHTTPImageFetcher(), validator), nil
	default:
		return nil, fmt.Errorf("unsupported source type: %s", sourceType)
	}
}

type uploaderFactory struct {
	cfg *config.Config
}

// NewUploaderFactory creates an uploader factory reading credentials from cfg
func NewUploaderFactory(cfg *config.Config) UploaderFactory {
	return &uploaderFactory{cfg: cfg}
}

// CreateUploader creates an uploader based on the specified type
func (f *uploaderFactory) CreateUploader(uploaderType UploaderType) (storage.ResultUploader, error) {
	switch uploaderType {
	case AzureUploader:
		if !f.cfg.UploadEnabled() {
			return nil, fmt.Errorf("azure storage account and container must be set")
		}
		blobs, err := storage.NewAzureStorage(f.cfg.AzureAccount, f.cfg.AzureKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create blob storage: %w", err)
		}
		return storage.NewBlobResultUploader(blobs, f.cfg.AzureContainer), nil
	default:
		return nil, fmt.Errorf("unsupported uploader type: %s", uploaderType)
	}
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	RepositoryFactory RepositoryFactory
	UploaderFactory   UploaderFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(cfg *config.Config) *ComponentFactory {
	return &ComponentFactory{
		RepositoryFactory: NewRepositoryFactory(cfg.ImageExtensions, cfg.AllowedImageHosts),
		UploaderFactory:   NewUploaderFactory(cfg),
	}
}
