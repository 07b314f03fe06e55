package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"filedrop/internal/domain"
	"filedrop/internal/storage"
)

// SignedURLExpiry is how long listed download links stay valid.
const SignedURLExpiry = 3600 * time.Second

const suffixLength = 13

var (
	// ErrInvalidRequest marks caller errors whose message is safe to show.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrMissingFile is returned when an upload carries no file.
	ErrMissingFile = fmt.Errorf("%w: no file uploaded", ErrInvalidRequest)
	// ErrMissingKey is returned when a delete names no key.
	ErrMissingKey = fmt.Errorf("%w: key is required", ErrInvalidRequest)
	// ErrStoreFailure wraps any error returned by the object store.
	ErrStoreFailure = errors.New("store failure")
)

// FileService implements the upload, list and delete operations against one bucket.
type FileService interface {
	Upload(ctx context.Context, name string, body io.Reader, size int64, contentType string) (string, error)
	List(ctx context.Context) ([]domain.StoredObject, error)
	Delete(ctx context.Context, key string) error
}

type fileService struct {
	store  storage.Service
	bucket string
	now    func() time.Time
	suffix func() string
}

func NewFileService(store storage.Service, bucket string) FileService {
	return &fileService{
		store:  store,
		bucket: bucket,
		now:    time.Now,
		suffix: randomSuffix,
	}
}

// Upload stores body under a fresh key and returns the object's unsigned URL.
func (s *fileService) Upload(ctx context.Context, name string, body io.Reader, size int64, contentType string) (string, error) {
	if body == nil || strings.TrimSpace(name) == "" {
		return "", ErrMissingFile
	}

	key := s.objectKey(name)
	if err := s.store.Put(ctx, s.bucket, key, body, size, contentType); err != nil {
		return "", fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
	return s.store.ObjectURL(s.bucket, key), nil
}

// List signs every object concurrently. One failed signature fails the whole list.
func (s *fileService) List(ctx context.Context) ([]domain.StoredObject, error) {
	objects, err := s.store.List(ctx, s.bucket)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	files := make([]domain.StoredObject, len(objects))
	g, gctx := errgroup.WithContext(ctx)
	for i := range objects {
		key := objects[i].Key
		g.Go(func() error {
			signed, err := s.store.Sign(gctx, s.bucket, key, SignedURLExpiry)
			if err != nil {
				return err
			}
			files[i] = domain.StoredObject{Key: key, URL: signed}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
	return files, nil
}

func (s *fileService) Delete(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrMissingKey
	}
	if err := s.store.Delete(ctx, s.bucket, key); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
	return nil
}

func (s *fileService) objectKey(name string) string {
	return fmt.Sprintf("%d-%s-%s", s.now().UnixMilli(), s.suffix(), name)
}

// randomSuffix renders a random UUID in base 36 and keeps its low digits.
func randomSuffix() string {
	id := uuid.New()
	text := new(big.Int).SetBytes(id[:]).Text(36)
	if len(text) < suffixLength {
		text = strings.Repeat("0", suffixLength-len(text)) + text
	}
	return text[len(text)-suffixLength:]
}
