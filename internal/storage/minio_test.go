package storage

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMinioClient struct {
	mock.Mock
}

func (m *mockMinioClient) PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error) {
	args := m.Called(ctx, bucketName, objectName, expires, reqParams)
	u, _ := args.Get(0).(*url.URL)
	return u, args.Error(1)
}

func (m *mockMinioClient) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	args := m.Called(ctx, bucketName, objectName, opts)
	return args.Error(0)
}

func TestMinioStoreRemove(t *testing.T) {
	client := new(mockMinioClient)
	client.On("RemoveObject", mock.Anything, "profile-images", "u1/avatar.png", minio.RemoveObjectOptions{}).
		Return(nil).Once()

	store := NewMinioStoreWithClient(client, "profile-images")

	require.NoError(t, store.Remove(context.Background(), "/u1/avatar.png"))
	client.AssertExpectations(t)
}

func TestMinioStoreRemoveError(t *testing.T) {
	client := new(mockMinioClient)
	boom := errors.New("access denied")
	client.On("RemoveObject", mock.Anything, "profile-images", "u1/avatar.png", mock.Anything).
		Return(boom)

	store := NewMinioStoreWithClient(client, "profile-images")

	err := store.Remove(context.Background(), "u1/avatar.png")
	assert.ErrorIs(t, err, boom)
}

func TestMinioStoreRemoveEmptyPath(t *testing.T) {
	client := new(mockMinioClient)
	store := NewMinioStoreWithClient(client, "profile-images")

	assert.Error(t, store.Remove(context.Background(), "  "))
	client.AssertNotCalled(t, "RemoveObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMinioStoreSignedURL(t *testing.T) {
	client := new(mockMinioClient)
	signed, err := url.Parse("https://s3.example.com/profile-images/u1/avatar.png?X-Amz-Signature=abc")
	require.NoError(t, err)

	client.On("PresignedGetObject", mock.Anything, "profile-images", "u1/avatar.png", 2*time.Hour, url.Values{}).
		Return(signed, nil)

	store := NewMinioStoreWithClient(client, "profile-images")

	got, err := store.SignedURL(context.Background(), "u1/avatar.png", 2*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, signed.String(), got)
}

func TestDisabledStore(t *testing.T) {
	var s BlobStore = Disabled{}

	assert.ErrorIs(t, s.Remove(context.Background(), "a.png"), ErrNotConfigured)
	_, err := s.SignedURL(context.Background(), "a.png", time.Minute)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
