package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ClientMinio is the subset of *minio.Client used here.
type ClientMinio interface {
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type MinioStore struct {
	bucket string
	client ClientMinio
}

// NewMinioStore connects to an S3-compatible endpoint.
func NewMinioStore(endpoint, accessKeyID, secretAccessKey, bucket string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: create minio client: %w", err)
	}

	return NewMinioStoreWithClient(client, bucket), nil
}

func NewMinioStoreWithClient(client ClientMinio, bucket string) *MinioStore {
	return &MinioStore{bucket: bucket, client: client}
}

func (s *MinioStore) Remove(ctx context.Context, path string) error {
	key := objectKey(path)
	if key == "" {
		return fmt.Errorf("storage: empty object path")
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("storage: remove %s/%s: %w", s.bucket, key, err)
	}
	return nil
}

func (s *MinioStore) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	key := objectKey(path)
	if key == "" {
		return "", fmt.Errorf("storage: empty object path")
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("storage: sign %s/%s: %w", s.bucket, key, err)
	}
	return u.String(), nil
}

// objectKey strips a leading slash so "/a.png" and "a.png" name the same object.
func objectKey(path string) string {
	return strings.TrimPrefix(strings.TrimSpace(path), "/")
}
