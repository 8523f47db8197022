package s3util_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fpang/s3-thumbnailer/internal/s3util"
	"github.com/fpang/s3-thumbnailer/internal/s3util/s3test"
)

func TestDownloadBytes(t *testing.T) {
	store := s3test.NewStore()
	store.Put("src", "a/b.png", []byte("payload"))

	data, err := s3util.DownloadBytes(context.Background(), store, "src", "a/b.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
}

func TestDownloadBytes_NotFound(t *testing.T) {
	store := s3test.NewStore()

	_, err := s3util.DownloadBytes(context.Background(), store, "src", "missing.png")
	require.Error(t, err)

	var storageErr *s3util.StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, "GetObject", storageErr.Op)
	assert.Equal(t, "src", storageErr.Bucket)
	assert.Equal(t, "missing.png", storageErr.Key)
	assert.True(t, s3util.IsNotFound(err))
	assert.False(t, s3util.IsAccessDenied(err))
}

func TestDownloadBytes_AccessDenied(t *testing.T) {
	store := s3test.NewStore()
	store.Put("locked", "x.jpg", []byte("x"))
	store.DenyRead["locked"] = true

	_, err := s3util.DownloadBytes(context.Background(), store, "locked", "x.jpg")
	require.Error(t, err)
	assert.True(t, s3util.IsAccessDenied(err))
	assert.Equal(t, "AccessDenied", s3util.ErrorCode(err))
}

func TestUploadBytes(t *testing.T) {
	store := s3test.NewStore()

	err := s3util.UploadBytes(context.Background(), store, "dst", "a-thumbnail.jpg", []byte("jpeg"), "image/jpeg")
	require.NoError(t, err)

	obj, ok := store.Get("dst", "a-thumbnail.jpg")
	require.True(t, ok)
	assert.Equal(t, []byte("jpeg"), obj.Data)
	assert.Equal(t, "image/jpeg", obj.ContentType)
	assert.Equal(t, "Project=s3-thumbnailer", obj.Tagging)
}

func TestUploadBytes_Overwrites(t *testing.T) {
	store := s3test.NewStore()
	store.Put("dst", "k.jpg", []byte("old"))

	require.NoError(t, s3util.UploadBytes(context.Background(), store, "dst", "k.jpg", []byte("new"), "image/jpeg"))

	obj, _ := store.Get("dst", "k.jpg")
	assert.Equal(t, []byte("new"), obj.Data)
}

func TestUploadBytes_Denied(t *testing.T) {
	store := s3test.NewStore()
	store.DenyWrite["dst"] = true

	err := s3util.UploadBytes(context.Background(), store, "dst", "k.jpg", []byte("x"), "image/jpeg")
	require.Error(t, err)
	assert.True(t, s3util.IsAccessDenied(err))
	assert.Equal(t, "S3 PutObject s3://dst/k.jpg: api error AccessDenied: Access Denied", err.Error())
}

func TestErrorCode_NonAPIError(t *testing.T) {
	assert.Equal(t, "", s3util.ErrorCode(fmt.Errorf("plain")))
	assert.False(t, s3util.IsNotFound(fmt.Errorf("plain")))
}
