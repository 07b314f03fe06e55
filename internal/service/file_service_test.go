package service

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"filedrop/internal/domain"
	"filedrop/internal/storage"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Put(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, bucket, key, body, size, contentType)
	return args.Error(0)
}

func (m *mockStore) List(ctx context.Context, bucket string) ([]storage.ObjectInfo, error) {
	args := m.Called(ctx, bucket)
	objects, _ := args.Get(0).([]storage.ObjectInfo)
	return objects, args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, bucket, key string) error {
	args := m.Called(ctx, bucket, key)
	return args.Error(0)
}

func (m *mockStore) Sign(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	args := m.Called(ctx, bucket, key, expires)
	return args.String(0), args.Error(1)
}

func (m *mockStore) ObjectURL(bucket, key string) string {
	return "https://s3.example.com/" + bucket + "/" + key
}

var keyPattern = regexp.MustCompile(`^(\d+)-([0-9a-z]{13})-(.+)$`)

func TestUpload_StoresUnderGeneratedKey(t *testing.T) {
	store := &mockStore{}
	svc := NewFileService(store, "files").(*fileService)
	svc.now = func() time.Time { return time.UnixMilli(1700000000123) }
	svc.suffix = func() string { return "abcdefghij012" }

	body := strings.NewReader("hello")
	store.On("Put", mock.Anything, "files", "1700000000123-abcdefghij012-report.pdf", body, int64(5), "application/pdf").Return(nil)

	url, err := svc.Upload(context.Background(), "report.pdf", body, 5, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://s3.example.com/files/1700000000123-abcdefghij012-report.pdf", url)
	store.AssertExpectations(t)
}

func TestUpload_KeysAreUniqueForSameName(t *testing.T) {
	store := &mockStore{}
	svc := NewFileService(store, "files")

	var keys []string
	store.On("Put", mock.Anything, "files", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { keys = append(keys, args.String(2)) }).
		Return(nil)

	for i := 0; i < 50; i++ {
		_, err := svc.Upload(context.Background(), "same.txt", strings.NewReader("x"), 1, "text/plain")
		require.NoError(t, err)
	}

	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		m := keyPattern.FindStringSubmatch(key)
		require.NotNil(t, m, "key %q has unexpected shape", key)
		assert.Equal(t, "same.txt", m[3])
		_, dup := seen[key]
		assert.False(t, dup, "duplicate key %q", key)
		seen[key] = struct{}{}
	}
}

func TestUpload_MissingFile(t *testing.T) {
	svc := NewFileService(&mockStore{}, "files")

	_, err := svc.Upload(context.Background(), "", strings.NewReader("x"), 1, "")
	assert.ErrorIs(t, err, ErrMissingFile)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.Upload(context.Background(), "a.txt", nil, 0, "")
	assert.ErrorIs(t, err, ErrMissingFile)
}

func TestUpload_StoreFailure(t *testing.T) {
	store := &mockStore{}
	svc := NewFileService(store, "files")
	cause := errors.New("connection refused")
	store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(cause)

	_, err := svc.Upload(context.Background(), "a.txt", strings.NewReader("x"), 1, "")
	assert.ErrorIs(t, err, ErrStoreFailure)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrInvalidRequest)
}

func TestList_EmptyBucket(t *testing.T) {
	store := &mockStore{}
	svc := NewFileService(store, "files")
	store.On("List", mock.Anything, "files").Return([]storage.ObjectInfo{}, nil)

	files, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.Empty(t, files)
}

func TestList_SignsEveryObjectInOrder(t *testing.T) {
	store := &mockStore{}
	svc := NewFileService(store, "files")
	store.On("List", mock.Anything, "files").Return([]storage.ObjectInfo{
		{Key: "c.txt"}, {Key: "a.txt"}, {Key: "b.txt"},
	}, nil)
	for _, key := range []string{"a.txt", "b.txt", "c.txt"} {
		store.On("Sign", mock.Anything, "files", key, SignedURLExpiry).Return("https://signed/"+key, nil)
	}

	files, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.StoredObject{
		{Key: "c.txt", URL: "https://signed/c.txt"},
		{Key: "a.txt", URL: "https://signed/a.txt"},
		{Key: "b.txt", URL: "https://signed/b.txt"},
	}, files)
	store.AssertNumberOfCalls(t, "Sign", 3)
}

func TestList_OneSignFailureFailsList(t *testing.T) {
	store := &mockStore{}
	svc := NewFileService(store, "files")
	store.On("List", mock.Anything, "files").Return([]storage.ObjectInfo{{Key: "a"}, {Key: "b"}}, nil)
	store.On("Sign", mock.Anything, "files", "a", SignedURLExpiry).Return("https://signed/a", nil)
	store.On("Sign", mock.Anything, "files", "b", SignedURLExpiry).Return("", errors.New("signing failed"))

	files, err := svc.List(context.Background())
	assert.ErrorIs(t, err, ErrStoreFailure)
	assert.Nil(t, files)
}

func TestList_ListFailure(t *testing.T) {
	store := &mockStore{}
	svc := NewFileService(store, "files")
	store.On("List", mock.Anything, "files").Return(nil, errors.New("boom"))

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, ErrStoreFailure)
}

func TestDelete(t *testing.T) {
	store := &mockStore{}
	svc := NewFileService(store, "files")
	store.On("Delete", mock.Anything, "files", "never-existed.txt").Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), "never-existed.txt"))
	assert.ErrorIs(t, svc.Delete(context.Background(), "  "), ErrMissingKey)
	store.AssertNumberOfCalls(t, "Delete", 1)
}

func TestDelete_StoreFailure(t *testing.T) {
	store := &mockStore{}
	svc := NewFileService(store, "files")
	store.On("Delete", mock.Anything, "files", "k").Return(errors.New("denied"))

	assert.ErrorIs(t, svc.Delete(context.Background(), "k"), ErrStoreFailure)
}

func TestRandomSuffix(t *testing.T) {
	for i := 0; i < 100; i++ {
		s := randomSuffix()
		assert.Regexp(t, `^[0-9a-z]{13}$`, s)
	}
}
