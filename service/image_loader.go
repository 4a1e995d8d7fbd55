package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

// ImageLoader turns a design's image reference into a decoded image.
// Accepts a base64 data URI (the upload format), bare base64, or an
// http(s) URL.
type ImageLoader struct {
	client *http.Client
}

// NewImageLoader creates a new ImageLoader
func NewImageLoader() *ImageLoader {
	return &ImageLoader{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Load decodes the referenced image. Failures wrap ErrImageDecode.
func (l *ImageLoader) Load(ref string) (image.Image, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: empty image reference", ErrImageDecode)
	}

	data, err := l.fetch(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	return img, nil
}

func (l *ImageLoader) fetch(ref string) ([]byte, error) {
	switch {
	case strings.HasPrefix(ref, "data:"):
		// data:image/jpeg;base64,<payload>
		idx := strings.Index(ref, ",")
		if idx < 0 {
			return nil, fmt.Errorf("malformed data URI")
		}
		return base64.StdEncoding.DecodeString(ref[idx+1:])

	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		resp, err := l.client.Get(ref)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("image endpoint returned status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)

	default:
		// Bare base64 payload
		return base64.StdEncoding.DecodeString(ref)
	}
}
