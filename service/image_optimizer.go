package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"log"

	"github.com/disintegration/imaging"
)

const (
	// Stored images are downscaled to keep rows small; the compositor
	// caps its canvas at 1200x1600 anyway.
	storedMaxDim  = 1600
	storedQuality = 85
)

// OptimizeImage re-encodes raw image bytes as a bounded JPEG.
// Note: Using JPEG instead of WebP to avoid CGO dependency. Can be changed to WebP later if needed.
func OptimizeImage(imageData []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	log.Printf("📸 Image decoded: format=%s, bounds=%v", format, img.Bounds())

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	var resized image.Image = img
	if width > storedMaxDim || height > storedMaxDim {
		var newWidth, newHeight int
		if width > height {
			newWidth = storedMaxDim
			newHeight = int(float64(height) * float64(storedMaxDim) / float64(width))
		} else {
			newHeight = storedMaxDim
			newWidth = int(float64(width) * float64(storedMaxDim) / float64(height))
		}

		log.Printf("🔄 Resizing image: %dx%d -> %dx%d", width, height, newWidth, newHeight)
		resized = imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: storedQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}

	log.Printf("✓ Image optimized: output_size=%d bytes", buf.Len())
	return buf.Bytes(), nil
}

// EncodeDataURI wraps JPEG bytes as a data URI for storage.
func EncodeDataURI(jpegData []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpegData)
}
