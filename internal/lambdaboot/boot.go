// Package lambdaboot provides the cold-start bootstrap shared by the Lambda
// and the local CLI: AWS config, the S3 client, and the startup log line.
package lambdaboot

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/fpang/s3-thumbnailer/internal/config"
	"github.com/fpang/s3-thumbnailer/internal/logging"
)

// AWSOptions overrides the default credential chain settings. The zero
// value uses the environment the process runs in.
type AWSOptions struct {
	Region string
	// Endpoint points S3 at a local emulator (e.g. http://localhost:4566).
	// Path-style addressing is enabled with it.
	Endpoint string
}

// InitAWS loads the default AWS config.
func InitAWS(ctx context.Context, opts AWSOptions) (aws.Config, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load AWS config: %w", err)
	}
	return cfg, nil
}

// NewS3Client creates an S3 client, honouring an endpoint override.
func NewS3Client(cfg aws.Config, opts AWSOptions) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
}

// StartupLog emits the cold-start summary for a thumbnail Lambda.
func StartupLog(logger zerolog.Logger, name string, initStart time.Time, cfg config.Config, region string) {
	logging.NewStartupLogger(name).
		InitDuration(time.Since(initStart)).
		S3Bucket("destination", cfg.DestinationBucket).
		Config("region", region).
		Config("maxDimensions", fmt.Sprintf("%dx%d", cfg.MaxWidth, cfg.MaxHeight)).
		Config("suffix", cfg.Suffix).
		Config("jpegQuality", fmt.Sprintf("%d", cfg.JPEGQuality)).
		Log(logger)
}
