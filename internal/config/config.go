// Package config holds the fixed settings of the thumbnail generator.
//
// The values are constants of the deployment, not a configuration surface:
// nothing here is read from the environment or from a file. They are
// collected into a Config value so the generator receives them at
// construction and tests can substitute their own.
package config

import (
	"fmt"

	"github.com/disintegration/imaging"
)

// Fixed deployment values.
const (
	DefaultDestinationBucket = "thumbnail-image-bucket"
	DefaultMaxWidth          = 500
	DefaultMaxHeight         = 500
	DefaultSuffix            = "-thumbnail"
	DefaultJPEGQuality       = 75
	DefaultMetricsNamespace  = "ThumbnailGenerator"
)

// Config describes where thumbnails go and how they are produced.
type Config struct {
	// DestinationBucket receives every thumbnail, regardless of source bucket.
	DestinationBucket string

	// MaxWidth and MaxHeight bound the thumbnail. Smaller images are never upscaled.
	MaxWidth  int
	MaxHeight int

	// Suffix is inserted between the key stem and its extension.
	Suffix string

	// JPEGQuality is the encoder quality, 1-100.
	JPEGQuality int

	// Filter is the resampling filter used when downscaling.
	Filter imaging.ResampleFilter

	// AutoOrient applies the EXIF orientation tag before resizing.
	AutoOrient bool

	// MetricsNamespace is the CloudWatch namespace for EMF metrics.
	MetricsNamespace string
}

// Default returns the production configuration.
func Default() Config {
	return Config{
		DestinationBucket: DefaultDestinationBucket,
		MaxWidth:          DefaultMaxWidth,
		MaxHeight:         DefaultMaxHeight,
		Suffix:            DefaultSuffix,
		JPEGQuality:       DefaultJPEGQuality,
		Filter:            imaging.Lanczos,
		AutoOrient:        true,
		MetricsNamespace:  DefaultMetricsNamespace,
	}
}

// Validate reports the first setting that would make the generator misbehave.
func (c Config) Validate() error {
	if c.DestinationBucket == "" {
		return fmt.Errorf("destination bucket is required")
	}
	if c.MaxWidth <= 0 || c.MaxHeight <= 0 {
		return fmt.Errorf("bounding box must be positive, got %dx%d", c.MaxWidth, c.MaxHeight)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality must be between 1 and 100, got %d", c.JPEGQuality)
	}
	return nil
}
