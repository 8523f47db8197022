package s3util

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// UploadBytes writes data to bucket/key in a single PutObject call,
// overwriting whatever is there. The body is fully buffered, so the object
// is either written whole or not at all.
func UploadBytes(ctx context.Context, client ObjectAPI, bucket, key string, data []byte, contentType string) error {
	zerolog.Ctx(ctx).Debug().
		Str("bucket", bucket).
		Str("key", key).
		Int("bytes", len(data)).
		Msg("Uploading to S3")

	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &bucket,
		Key:           &key,
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   &contentType,
		Tagging:       ProjectTagging(),
	})
	if err != nil {
		return &StorageError{Op: "PutObject", Bucket: bucket, Key: key, Err: err}
	}
	return nil
}
