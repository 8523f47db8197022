// Package main provides the Lambda entry point for S3-triggered thumbnail generation.
//
// The function is subscribed to ObjectCreated notifications on the upload
// bucket. For the first record of each notification it downloads the image,
// fits it within 500x500 without upscaling, encodes it as JPEG, and writes it
// to the thumbnail bucket as <stem>-thumbnail<ext>. The notification is
// returned unchanged as the acknowledgment.
//
// Failures are returned to the runtime as-is; retries and dead-lettering are
// left to the Lambda/S3 configuration.
package main

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/rs/zerolog"

	"github.com/fpang/s3-thumbnailer/internal/config"
	"github.com/fpang/s3-thumbnailer/internal/lambdaboot"
	"github.com/fpang/s3-thumbnailer/internal/logging"
	"github.com/fpang/s3-thumbnailer/internal/thumbnail"
)

func main() {
	initStart := time.Now()
	logger := logging.New(zerolog.InfoLevel, nil)
	cfg := config.Default()

	awsCfg, err := lambdaboot.InitAWS(context.Background(), lambdaboot.AWSOptions{})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load AWS config")
	}
	s3Client := lambdaboot.NewS3Client(awsCfg, lambdaboot.AWSOptions{})

	gen, err := thumbnail.New(cfg, s3Client, logger,
		thumbnail.WithFunctionName(lambdacontext.FunctionName))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create thumbnail generator")
	}

	lambdaboot.StartupLog(logger, "thumbnail-lambda", initStart, cfg, awsCfg.Region)
	lambda.Start(gen.Handle)
}
