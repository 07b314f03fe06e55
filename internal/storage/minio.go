package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioService implements Service with minio-go, for MinIO and other S3-compatible providers.
type MinioService struct {
	client   *minio.Client
	endpoint string
}

// NewMinioService creates a minio client for endpoint, a full URL such as
// "http://localhost:9000". The scheme selects TLS.
func NewMinioService(endpoint, region, accessKey, secretKey string) (*MinioService, error) {
	host, secure, err := splitEndpoint(endpoint)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &MinioService{
		client:   client,
		endpoint: strings.TrimRight(endpoint, "/"),
	}, nil
}

func (s *MinioService) Put(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", key, err)
	}
	return nil
}

func (s *MinioService) List(ctx context.Context, bucket string) ([]ObjectInfo, error) {
	objects := make([]ObjectInfo, 0)
	for obj := range s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects: %w", obj.Err)
		}
		info := ObjectInfo{Key: obj.Key, Size: obj.Size}
		if !obj.LastModified.IsZero() {
			modified := obj.LastModified
			info.LastModified = &modified
		}
		objects = append(objects, info)
	}
	return objects, nil
}

func (s *MinioService) Delete(ctx context.Context, bucket, key string) error {
	if err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %q: %w", key, err)
	}
	return nil
}

func (s *MinioService) Sign(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, bucket, key, expires, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign %q: %w", key, err)
	}
	return u.String(), nil
}

func (s *MinioService) ObjectURL(bucket, key string) string {
	return objectURL(s.endpoint, bucket, key)
}

var _ Service = (*MinioService)(nil)

func splitEndpoint(endpoint string) (string, bool, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("parse storage endpoint: %w", err)
	}
	switch u.Scheme {
	case "http":
		return u.Host, false, nil
	case "https":
		return u.Host, true, nil
	default:
		return "", false, fmt.Errorf("storage endpoint %q must start with http:// or https://", endpoint)
	}
}
