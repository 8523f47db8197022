// Package filehandler decodes, resizes, and re-encodes images for thumbnails.
package filehandler

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/disintegration/imaging"
	// WebP sources; imaging already registers JPEG, PNG, GIF, BMP and TIFF.
	_ "golang.org/x/image/webp"
)

// ThumbnailMIMEType is the content type of every thumbnail produced here.
const ThumbnailMIMEType = "image/jpeg"

var (
	// ErrDecode marks source bytes that are not a decodable image.
	ErrDecode = errors.New("decode image")
	// ErrEncode marks a failure of the output encoder.
	ErrEncode = errors.New("encode thumbnail")
)

// Decode decodes raw image bytes and reports the source format name
// ("jpeg", "png", "gif", "bmp", "tiff", "webp").
// With autoOrient set, the EXIF orientation tag is applied to the pixels.
func Decode(data []byte, autoOrient bool) (image.Image, string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrDecode, err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(autoOrient))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %w", ErrDecode, format, err)
	}
	return img, format, nil
}

// FitDimensions returns the size of width×height scaled to fit within
// maxWidth×maxHeight, preserving aspect ratio. Images that already fit are
// returned unchanged; nothing is ever upscaled.
func FitDimensions(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= maxWidth && height <= maxHeight {
		return width, height
	}

	scale := math.Min(float64(maxWidth)/float64(width), float64(maxHeight)/float64(height))
	newWidth := clamp(int(math.Round(float64(width)*scale)), 1, maxWidth)
	newHeight := clamp(int(math.Round(float64(height)*scale)), 1, maxHeight)
	return newWidth, newHeight
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Fit scales img down so neither side exceeds the bound. An image that
// already fits is returned as is.
func Fit(img image.Image, maxWidth, maxHeight int, filter imaging.ResampleFilter) image.Image {
	bounds := img.Bounds()
	newWidth, newHeight := FitDimensions(bounds.Dx(), bounds.Dy(), maxWidth, maxHeight)
	if newWidth == bounds.Dx() && newHeight == bounds.Dy() {
		return img
	}
	return imaging.Resize(img, newWidth, newHeight, filter)
}

// EncodeJPEG writes img as a JPEG. Transparent areas are composited onto
// white first since JPEG carries no alpha channel.
func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	if err := imaging.Encode(w, flatten(img), imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return nil
}

func flatten(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	bounds := img.Bounds()
	bg := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
