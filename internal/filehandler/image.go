package filehandler

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/evanoberholster/imagemeta"
)

// ImageMetadata is the subset of EXIF worth logging for a source image.
type ImageMetadata struct {
	CameraMake  string
	CameraModel string

	// DateTaken falls back from DateTimeOriginal to CreateDate to ModifyDate.
	DateTaken time.Time
	HasDate   bool

	HasGPS bool
}

// ExtractImageMetadata reads EXIF metadata from raw image bytes.
// Only the metadata blocks are parsed, not the pixel data.
func ExtractImageMetadata(data []byte) (*ImageMetadata, error) {
	exifData, err := imagemeta.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode EXIF metadata: %w", err)
	}

	metadata := &ImageMetadata{
		CameraMake:  strings.TrimSpace(exifData.Make),
		CameraModel: strings.TrimSpace(exifData.Model),
		HasGPS:      exifData.GPS.Latitude() != 0 || exifData.GPS.Longitude() != 0,
	}

	switch {
	case !exifData.DateTimeOriginal().IsZero():
		metadata.DateTaken = exifData.DateTimeOriginal()
	case !exifData.CreateDate().IsZero():
		metadata.DateTaken = exifData.CreateDate()
	case !exifData.ModifyDate().IsZero():
		metadata.DateTaken = exifData.ModifyDate()
	}
	metadata.HasDate = !metadata.DateTaken.IsZero()

	return metadata, nil
}

// Camera returns "Make Model", or "" when neither is recorded.
func (m *ImageMetadata) Camera() string {
	return strings.TrimSpace(m.CameraMake + " " + m.CameraModel)
}
