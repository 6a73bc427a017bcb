package object

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"
)

// ErrInvalidKey is returned for storage keys that escape the store root.
var ErrInvalidKey = errors.New("invalid storage key")

// Object describes a stored blob.
type Object struct {
	Key         string `json:"key"`
	SizeBytes   int64  `json:"sizeBytes"`
	ContentType string `json:"contentType"`
}

// ObjectStore defines the contract for saving and retrieving binary objects.
// Keys always use forward slashes.
type ObjectStore interface {
	Save(ctx context.Context, namespace string, fileName string, r io.Reader) (Object, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// PresignedUpload lets a browser POST an object straight into the store as a
// multipart form: every entry of Fields first, the file last. The store
// rejects uploads whose type or size break the signed policy.
type PresignedUpload struct {
	URL       string
	Method    string
	Fields    map[string]string
	Key       string
	ExpiresIn time.Duration
}

// UploadPresigner is implemented by stores that accept direct uploads of at
// most maxBytes with exactly contentType.
type UploadPresigner interface {
	PresignUpload(ctx context.Context, namespace, fileName, contentType string, maxBytes int64) (PresignedUpload, error)
}

// CleanKey normalizes a storage key and rejects traversal or absolute keys.
func CleanKey(key string) (string, error) {
	trimmed := strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	if trimmed == "" || strings.HasPrefix(trimmed, "/") {
		return "", ErrInvalidKey
	}
	clean := path.Clean(trimmed)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidKey
	}
	return clean, nil
}
