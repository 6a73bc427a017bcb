package media

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"ritual-backend/internal/shared/storage/object"
	"ritual-backend/internal/shared/telemetry"
)

const (
	maxUploadBytes = 10 << 20
	sniffLen       = 512
)

var (
	ErrNotFound           = errors.New("media not found")
	ErrUnsupportedType    = errors.New("unsupported media type")
	ErrTooLarge           = errors.New("media too large")
	ErrInvalidInput       = errors.New("invalid media request")
	ErrDirectUploadDenied = errors.New("object store does not support direct uploads")
)

var allowedTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// Service stores site images in the configured object store.
type Service struct {
	Store object.ObjectStore
}

func NewService(store object.ObjectStore) *Service {
	return &Service{Store: store}
}

// Upload sniffs r, rejects anything that is not an image, and stores it under
// the uploader's namespace.
func (s *Service) Upload(ctx context.Context, uploaderID, fileName string, size int64, r io.Reader) (object.Object, error) {
	if size > maxUploadBytes {
		return object.Object{}, ErrTooLarge
	}
	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return object.Object{}, fmt.Errorf("read upload: %w", err)
	}
	contentType := http.DetectContentType(head)
	if _, ok := allowedTypes[contentType]; !ok {
		return object.Object{}, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	obj, err := s.Store.Save(ctx, uploaderID, fileName, io.LimitReader(br, maxUploadBytes))
	if err != nil {
		return object.Object{}, fmt.Errorf("save media: %w", err)
	}
	telemetry.Info("media.uploaded", map[string]any{
		"key":          obj.Key,
		"size_bytes":   obj.SizeBytes,
		"content_type": obj.ContentType,
	})
	return obj, nil
}

// Presign validates the declared image and returns a direct upload policy
// when the store supports it. The policy caps the upload at the declared size
// and pins the declared content type.
func (s *Service) Presign(ctx context.Context, uploaderID, fileName, contentType string, size int64) (object.PresignedUpload, error) {
	presigner, ok := s.Store.(object.UploadPresigner)
	if !ok {
		return object.PresignedUpload{}, ErrDirectUploadDenied
	}
	if strings.TrimSpace(fileName) == "" {
		return object.PresignedUpload{}, fmt.Errorf("%w: fileName is required", ErrInvalidInput)
	}
	if size <= 0 {
		return object.PresignedUpload{}, fmt.Errorf("%w: sizeBytes is required", ErrInvalidInput)
	}
	if size > maxUploadBytes {
		return object.PresignedUpload{}, ErrTooLarge
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if _, ok := allowedTypes[contentType]; !ok {
		return object.PresignedUpload{}, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	up, err := presigner.PresignUpload(ctx, uploaderID, fileName, contentType, size)
	if err != nil {
		return object.PresignedUpload{}, fmt.Errorf("presign media: %w", err)
	}
	telemetry.Info("media.presigned", map[string]any{"key": up.Key, "content_type": contentType, "size_bytes": size})
	return up, nil
}

// Open returns a reader over the stored object and its sniffed content type.
func (s *Service) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	clean, err := object.CleanKey(key)
	if err != nil {
		return nil, "", ErrNotFound
	}
	rc, err := s.Store.Open(ctx, clean)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	br := bufio.NewReaderSize(rc, sniffLen)
	head, _ := br.Peek(sniffLen)
	contentType := http.DetectContentType(head)
	if _, ok := allowedTypes[contentType]; !ok {
		// Direct uploads skip sniffing, so only images are ever served.
		rc.Close()
		telemetry.Warn("media.serve_rejected", map[string]any{"key": clean, "content_type": contentType})
		return nil, "", ErrNotFound
	}
	return readCloser{Reader: br, Closer: rc}, contentType, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}
