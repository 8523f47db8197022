// Package thumbnail turns an S3 object-created notification into a resized
// JPEG copy of the object in the thumbnail bucket.
//
// A Generator is built once per process and holds no per-invocation state,
// so concurrent invocations are independent.
package thumbnail

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/fpang/s3-thumbnailer/internal/config"
	"github.com/fpang/s3-thumbnailer/internal/filehandler"
	"github.com/fpang/s3-thumbnailer/internal/metrics"
	"github.com/fpang/s3-thumbnailer/internal/s3util"
)

// Generator downloads, resizes and re-uploads one image per invocation.
type Generator struct {
	cfg          config.Config
	objects      s3util.ObjectAPI
	logger       zerolog.Logger
	metricsOut   io.Writer
	functionName string
	now          func() time.Time
}

// Option customises a Generator.
type Option func(*Generator)

// WithMetricsOutput sends EMF metric lines to w instead of stdout.
func WithMetricsOutput(w io.Writer) Option {
	return func(g *Generator) { g.metricsOut = w }
}

// WithFunctionName sets the FunctionName metrics dimension.
func WithFunctionName(name string) Option {
	return func(g *Generator) { g.functionName = name }
}

// New returns a Generator. cfg is validated here so a bad deployment fails
// at cold start rather than on the first event.
func New(cfg config.Config, objects s3util.ObjectAPI, logger zerolog.Logger, opts ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if objects == nil {
		return nil, fmt.Errorf("object store is required")
	}

	g := &Generator{
		cfg:     cfg,
		objects: objects,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Result describes one generated thumbnail.
type Result struct {
	Source       Object
	Destination  Object
	SourceFormat string

	SourceWidth, SourceHeight int
	Width, Height             int

	SourceBytes    int
	ThumbnailBytes int
}

// Resized reports whether the image was scaled down.
func (r Result) Resized() bool {
	return r.Width != r.SourceWidth || r.Height != r.SourceHeight
}

// Generate writes the thumbnail of src to the destination bucket under the
// derived key. Any failure aborts the run; nothing is written unless the
// whole thumbnail was produced.
func (g *Generator) Generate(ctx context.Context, src Object) (Result, error) {
	start := g.now()
	dst := Object{
		Bucket: g.cfg.DestinationBucket,
		Key:    ThumbnailKey(src.Key, g.cfg.Suffix),
	}

	logger := g.logger.With().
		Str("source", src.String()).
		Str("destination", dst.String()).
		Logger()
	ctx = logger.WithContext(ctx)

	result := Result{Source: src, Destination: dst}
	rec := metrics.New(g.cfg.MetricsNamespace, g.functionName).Output(g.metricsOut)
	defer func() {
		rec.Duration("DurationMs", g.now().Sub(start)).Flush()
	}()

	data, err := s3util.DownloadBytes(ctx, g.objects, src.Bucket, src.Key)
	if err != nil {
		rec.Dimension("Outcome", "download_failed").Count("Failures")
		return result, err
	}
	result.SourceBytes = len(data)
	rec.Metric("SourceBytes", float64(len(data)), metrics.UnitBytes)

	g.logMetadata(logger, data)

	img, format, err := filehandler.Decode(data, g.cfg.AutoOrient)
	if err != nil {
		rec.Dimension("Outcome", "decode_failed").Count("Failures")
		return result, fmt.Errorf("%s: %w", src, err)
	}
	result.SourceFormat = format
	result.SourceWidth, result.SourceHeight = img.Bounds().Dx(), img.Bounds().Dy()

	logger.Info().
		Str("format", format).
		Int("width", result.SourceWidth).
		Int("height", result.SourceHeight).
		Msg("Size before resize")

	thumb := filehandler.Fit(img, g.cfg.MaxWidth, g.cfg.MaxHeight, g.cfg.Filter)
	result.Width, result.Height = thumb.Bounds().Dx(), thumb.Bounds().Dy()

	logger.Info().
		Int("width", result.Width).
		Int("height", result.Height).
		Bool("resized", result.Resized()).
		Msg("Size after resize")

	var buf bytes.Buffer
	if err := filehandler.EncodeJPEG(&buf, thumb, g.cfg.JPEGQuality); err != nil {
		rec.Dimension("Outcome", "encode_failed").Count("Failures")
		return result, fmt.Errorf("%s: %w", src, err)
	}
	result.ThumbnailBytes = buf.Len()

	if err := s3util.UploadBytes(ctx, g.objects, dst.Bucket, dst.Key, buf.Bytes(), filehandler.ThumbnailMIMEType); err != nil {
		rec.Dimension("Outcome", "upload_failed").Count("Failures")
		return result, err
	}

	rec.Dimension("Outcome", "success").
		Metric("ThumbnailBytes", float64(result.ThumbnailBytes), metrics.UnitBytes)
	if result.Resized() {
		rec.Count("Resized")
	}

	logger.Info().
		Int("sourceBytes", result.SourceBytes).
		Int("thumbnailBytes", result.ThumbnailBytes).
		Dur("duration", g.now().Sub(start)).
		Msg("Thumbnail generated and uploaded")

	return result, nil
}

// logMetadata logs EXIF details when present. Missing or unreadable EXIF is normal.
func (g *Generator) logMetadata(logger zerolog.Logger, data []byte) {
	meta, err := filehandler.ExtractImageMetadata(data)
	if err != nil {
		logger.Debug().Err(err).Msg("No EXIF metadata")
		return
	}

	evt := logger.Debug().Bool("hasGPS", meta.HasGPS)
	if camera := meta.Camera(); camera != "" {
		evt = evt.Str("camera", camera)
	}
	if meta.HasDate {
		evt = evt.Time("dateTaken", meta.DateTaken)
	}
	evt.Msg("Source EXIF metadata")
}
