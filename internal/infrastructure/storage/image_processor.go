package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

var (
	ErrImageTooLarge    = errors.New("image exceeds maximum size")
	ErrImageFormat      = errors.New("image must be JPEG or PNG")
	ErrImageUndecodable = errors.New("file is not a valid image")
)

const defaultMaxImageBytes = 5 * 1024 * 1024

// ImageProcessor validates uploads and normalises them to a bounded JPEG
type ImageProcessor struct {
	MaxSize int64 // bytes
	MaxEdge int   // longest side after resize, in px
	Quality int
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{MaxSize: defaultMaxImageBytes, MaxEdge: 512, Quality: 85}
}

// ValidateImage accepts JPEG/PNG up to MaxSize
func (p *ImageProcessor) ValidateImage(data []byte) error {
	if int64(len(data)) > p.MaxSize {
		return fmt.Errorf("%w (%dMB)", ErrImageTooLarge, p.MaxSize/(1024*1024))
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ErrImageUndecodable
	}
	switch format {
	case "jpeg", "png":
		return nil
	default:
		return fmt.Errorf("%w, got %s", ErrImageFormat, format)
	}
}

// Normalize fits the image into MaxEdge x MaxEdge and re-encodes it as JPEG.
// Smaller images keep their dimensions.
func (p *ImageProcessor) Normalize(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	if b := img.Bounds(); b.Dx() > p.MaxEdge || b.Dy() > p.MaxEdge {
		img = imaging.Fit(img, p.MaxEdge, p.MaxEdge, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: p.Quality}); err != nil {
		return nil, fmt.Errorf("cannot encode image: %w", err)
	}
	return buf.Bytes(), nil
}
