package services

import (
	"context"
	"fmt"
	"io"
	"sync"

	firebaseStorage "firebase.google.com/go/storage"
)

// Uploader stores a profile picture and returns a URL for it. Pictures
// live at profile-pictures/{userId}; re-uploading overwrites.
type Uploader interface {
	UploadProfilePicture(ctx context.Context, userID, contentType string, data io.Reader) (string, error)
}

// StorageUploader writes to the Firebase default bucket and returns the
// public object URL.
type StorageUploader struct {
	storage *firebaseStorage.Client
}

func NewStorageUploader(storage *firebaseStorage.Client) *StorageUploader {
	return &StorageUploader{storage: storage}
}

func (u *StorageUploader) UploadProfilePicture(ctx context.Context, userID, contentType string, data io.Reader) (string, error) {
	bucket, err := u.storage.DefaultBucket()
	if err != nil {
		return "", fmt.Errorf("get default bucket: %w", err)
	}

	attrs, err := bucket.Attrs(ctx)
	if err != nil {
		return "", fmt.Errorf("get bucket attrs: %w", err)
	}

	objectPath := "profile-pictures/" + userID
	writer := bucket.Object(objectPath).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := io.Copy(writer, data); err != nil {
		writer.Close()
		return "", fmt.Errorf("write object: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close object: %w", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", attrs.Name, objectPath), nil
}

// MemoryUploader keeps pictures in a map. Used in demo mode and tests.
type MemoryUploader struct {
	mu       sync.Mutex
	pictures map[string][]byte
}

func NewMemoryUploader() *MemoryUploader {
	return &MemoryUploader{pictures: make(map[string][]byte)}
}

func (u *MemoryUploader) UploadProfilePicture(ctx context.Context, userID, contentType string, data io.Reader) (string, error) {
	body, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}

	u.mu.Lock()
	u.pictures[userID] = body
	u.mu.Unlock()

	return "/profile-pictures/" + userID, nil
}

// Picture returns the stored bytes for a user, for tests.
func (u *MemoryUploader) Picture(userID string) ([]byte, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	body, ok := u.pictures[userID]
	return body, ok
}
