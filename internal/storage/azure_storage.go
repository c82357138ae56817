package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// ResultUploader publishes a finished results file.
type ResultUploader interface {
	UploadResults(ctx context.Context, blobName, localPath string) (string, error)
}

type BlobStorage interface {
	Upload(ctx context.Context, containerName, blobName string, data []byte) error
}

type azureStorage struct {
	client *azblob.Client
}

func NewAzureStorage(accountName string, accountKey string) (BlobStorage, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid azure credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("create azure client: %w", err)
	}

	return &azureStorage{client: client}, nil
}

func (s *azureStorage) Upload(ctx context.Context, containerName, blobName string, data []byte) error {
	_, err := s.client.UploadBuffer(ctx, containerName, blobName, data, nil)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	return nil
}

// BlobResultUploader copies results files into one blob container
type BlobResultUploader struct {
	blobs     BlobStorage
	container string
}

func NewBlobResultUploader(blobs BlobStorage, container string) *BlobResultUploader {
	return &BlobResultUploader{blobs: blobs, container: container}
}

// UploadResults reads localPath and stores it as blobName, returning "<container>/<blob>".
func (u *BlobResultUploader) UploadResults(ctx context.Context, blobName, localPath string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("read results file: %w", err)
	}
	if err := u.blobs.Upload(ctx, u.container, blobName, data); err != nil {
		return "", err
	}
	return path.Join(u.container, blobName), nil
}

// ResultBlobName places a run's results file under a folder named after the run.
func ResultBlobName(runID, localPath string) string {
	return path.Join(runID, filepath.Base(localPath))
}
