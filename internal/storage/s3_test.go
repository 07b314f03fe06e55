package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listBody = `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>files</Name>
  <KeyCount>2</KeyCount>
  <MaxKeys>1000</MaxKeys>
  <IsTruncated>false</IsTruncated>
  <Contents><Key>1700000000000-abc-report.pdf</Key><Size>12</Size></Contents>
  <Contents><Key>docs/notes.txt</Key><Size>5</Size></Contents>
</ListBucketResult>`

const emptyListBody = `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>files</Name>
  <KeyCount>0</KeyCount>
  <MaxKeys>1000</MaxKeys>
  <IsTruncated>false</IsTruncated>
</ListBucketResult>`

const accessDeniedBody = `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>AccessDenied</Code><Message>Access Denied</Message><RequestId>1</RequestId></Error>`

func newTestS3Service(t *testing.T, handler http.HandlerFunc) *S3Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := s3.New(s3.Options{
		Region:           "us-east-1",
		BaseEndpoint:     aws.String(srv.URL),
		UsePathStyle:     true,
		Credentials:      credentials.NewStaticCredentialsProvider("test", "secret", ""),
		RetryMaxAttempts: 1,
	})
	return NewS3Service(client, srv.URL+"/")
}

func TestS3Service_List(t *testing.T) {
	svc := newTestS3Service(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/files", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("list-type"))
		w.Header().Set("Content-Type", "application/xml")
		_, _ = io.WriteString(w, listBody)
	})

	objects, err := svc.List(context.Background(), "files")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "1700000000000-abc-report.pdf", objects[0].Key)
	assert.Equal(t, int64(12), objects[0].Size)
	assert.Equal(t, "docs/notes.txt", objects[1].Key)
}

func TestS3Service_ListEmptyBucket(t *testing.T) {
	svc := newTestS3Service(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = io.WriteString(w, emptyListBody)
	})

	objects, err := svc.List(context.Background(), "files")
	require.NoError(t, err)
	assert.NotNil(t, objects)
	assert.Empty(t, objects)
}

func TestS3Service_ListErrorCarriesCode(t *testing.T) {
	svc := newTestS3Service(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, accessDeniedBody)
	})

	_, err := svc.List(context.Background(), "files")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AccessDenied")
}

func TestS3Service_Delete(t *testing.T) {
	var gotPath, gotMethod string
	svc := newTestS3Service(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, svc.Delete(context.Background(), "files", "missing.txt"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/files/missing.txt", gotPath)
}

func TestS3Service_Put(t *testing.T) {
	var gotPath, gotMethod, gotType string
	svc := newTestS3Service(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	})

	body := []byte("hello world")
	err := svc.Put(context.Background(), "files", "k.txt", bytes.NewReader(body), int64(len(body)), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/files/k.txt", gotPath)
	assert.Equal(t, "text/plain", gotType)
}

func TestS3Service_PutRequiresBucket(t *testing.T) {
	svc := newTestS3Service(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL)
	})

	err := svc.Put(context.Background(), "", "k", strings.NewReader("x"), 1, "")
	require.Error(t, err)
}

func TestS3Service_SignUsesExpiry(t *testing.T) {
	svc := newTestS3Service(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("presigning must not call the store: %s", r.URL)
	})

	signed, err := svc.Sign(context.Background(), "files", "a b.txt", time.Hour)
	require.NoError(t, err)

	u, err := url.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.Equal(t, "/files/a b.txt", u.Path)
}

func TestObjectURL(t *testing.T) {
	assert.Equal(t,
		"https://s3.example.com/files/1-abc-my%20report.pdf",
		objectURL("https://s3.example.com", "files", "1-abc-my report.pdf"))
	assert.Equal(t,
		"https://s3.example.com/files/docs/a%23b.txt",
		objectURL("https://s3.example.com", "files", "docs/a#b.txt"))
}

func TestDescribe(t *testing.T) {
	err := describe(&smithy.GenericAPIError{Code: "NoSuchBucket", Message: "gone"})
	assert.Contains(t, err.Error(), "NoSuchBucket")

	plain := io.ErrUnexpectedEOF
	assert.Equal(t, plain, describe(plain))
}

func TestSplitEndpoint(t *testing.T) {
	host, secure, err := splitEndpoint("https://minio.example.com:9000")
	require.NoError(t, err)
	assert.Equal(t, "minio.example.com:9000", host)
	assert.True(t, secure)

	host, secure, err = splitEndpoint("http://localhost:9000/")
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", host)
	assert.False(t, secure)

	_, _, err = splitEndpoint("localhost:9000")
	assert.Error(t, err)
}
