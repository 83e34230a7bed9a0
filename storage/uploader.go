package storage

import (
	"context"
	"io"
)

// UploadResult describes a stored object. Location is the public URL the
// object is served from.
type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader stores user avatars and event images. Keys are generated by
// the services that own the upload ("avatars/<userID>/...",
// "events/<eventID>/...").
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	// Delete removes the object; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}
