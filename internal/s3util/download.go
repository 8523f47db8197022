// Package s3util provides the S3 reads and writes used by the thumbnail generator.
package s3util

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"
)

// ObjectAPI is the part of *s3.Client the generator needs.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var _ ObjectAPI = (*s3.Client)(nil)

// StorageError is a failed read or write of a single object.
type StorageError struct {
	Op     string // "GetObject" or "PutObject"
	Bucket string
	Key    string
	Err    error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("S3 %s s3://%s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ErrorCode returns the S3 API error code behind err, or "" if err did not
// come from the service.
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// IsNotFound reports whether err means the object or bucket does not exist.
func IsNotFound(err error) bool {
	var nsk *s3types.NoSuchKey
	var nsb *s3types.NoSuchBucket
	if errors.As(err, &nsk) || errors.As(err, &nsb) {
		return true
	}
	switch ErrorCode(err) {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return true
	}
	return false
}

// IsAccessDenied reports whether err is a permissions failure.
func IsAccessDenied(err error) bool {
	switch ErrorCode(err) {
	case "AccessDenied", "Forbidden", "AllAccessDisabled":
		return true
	}
	return false
}

// DownloadBytes reads the whole object into memory.
func DownloadBytes(ctx context.Context, client ObjectAPI, bucket, key string) ([]byte, error) {
	zerolog.Ctx(ctx).Debug().Str("bucket", bucket).Str("key", key).Msg("Downloading from S3")

	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, &StorageError{Op: "GetObject", Bucket: bucket, Key: key, Err: err}
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, &StorageError{Op: "GetObject", Bucket: bucket, Key: key, Err: fmt.Errorf("read body: %w", err)}
	}

	zerolog.Ctx(ctx).Debug().Str("key", key).Int("bytes", len(data)).Msg("Object downloaded")
	return data, nil
}
