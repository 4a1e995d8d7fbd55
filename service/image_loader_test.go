package service

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNGBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	img.SetNRGBA(3, 3, color.NRGBA{R: 0xff, A: 0xff})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoadDataURI(t *testing.T) {
	loader := NewImageLoader()
	ref := "data:image/png;base64," + base64.StdEncoding.EncodeToString(testPNGBytes(t))

	img, err := loader.Load(ref)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
}

func TestLoadBareBase64(t *testing.T) {
	loader := NewImageLoader()

	img, err := loader.Load(base64.StdEncoding.EncodeToString(testPNGBytes(t)))
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dy())
}

func TestLoadHTTPURL(t *testing.T) {
	data := testPNGBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	defer srv.Close()

	loader := NewImageLoader()
	img, err := loader.Load(srv.URL + "/image.png")
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
}

func TestLoadHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	loader := NewImageLoader()
	_, err := loader.Load(srv.URL + "/missing.png")
	assert.ErrorIs(t, err, ErrImageDecode)
}

func TestLoadRejectsGarbage(t *testing.T) {
	loader := NewImageLoader()

	_, err := loader.Load("")
	assert.ErrorIs(t, err, ErrImageDecode)

	_, err = loader.Load("data:image/png")
	assert.ErrorIs(t, err, ErrImageDecode)

	_, err = loader.Load("!!!not-base64!!!")
	assert.ErrorIs(t, err, ErrImageDecode)
}
