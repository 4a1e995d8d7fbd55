package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textilehub/models"
)

// pngDataURI builds a solid-color test image as a base64 data URI.
func pngDataURI(t *testing.T, w, h int, c color.NRGBA) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func testDesign(t *testing.T, w, h int) *models.Design {
	t.Helper()
	return &models.Design{
		ID:             "d1",
		Name:           "Banarasi Silk",
		Image:          pngDataURI(t, w, h, color.NRGBA{R: 0x88, G: 0x55, B: 0x22, A: 0xff}),
		Fabric:         "Silk",
		RetailPrice:    2500,
		WholesalePrice: 1800,
		Description:    "Handwoven saree with zari border",
	}
}

func TestContentLinesDefaultOrder(t *testing.T) {
	design := testDesign(t, 10, 10)
	lines := ContentLines(design, models.DefaultLabelOptions(), "Sharma Textiles")

	// Defaults include fabric and retail only.
	assert.Equal(t, []string{
		"Fabric: Silk",
		"Retail: ₹2,500",
	}, lines)
}

func TestContentLinesAllToggles(t *testing.T) {
	design := testDesign(t, 10, 10)
	opts := models.LabelOptions{
		IncludeFirmName:    true,
		IncludeFabric:      true,
		IncludeRetail:      true,
		IncludeWholesale:   true,
		IncludeDescription: true,
	}

	lines := ContentLines(design, opts, "Sharma Textiles")
	assert.Equal(t, []string{
		"Sharma Textiles",
		"Fabric: Silk",
		"Retail: ₹2,500",
		"Wholesale: ₹1,800",
		"Handwoven saree with zari border",
	}, lines)
}

func TestContentLinesSkipsEmptyFields(t *testing.T) {
	design := testDesign(t, 10, 10)
	design.Fabric = ""
	design.Description = ""
	opts := models.LabelOptions{
		IncludeFirmName:    true,
		IncludeFabric:      true,
		IncludeDescription: true,
	}

	lines := ContentLines(design, opts, "")
	assert.Empty(t, lines)
}

func TestContentLinesTruncatesDescription(t *testing.T) {
	design := testDesign(t, 10, 10)
	design.Description = strings.Repeat("x", 80)
	opts := models.LabelOptions{IncludeDescription: true}

	lines := ContentLines(design, opts, "")
	require.Len(t, lines, 1)
	assert.Equal(t, strings.Repeat("x", 60)+"...", lines[0])
	assert.Len(t, lines[0], 63)
}

func TestContentLinesTruncatesMultibyteByCharacter(t *testing.T) {
	design := testDesign(t, 10, 10)
	opts := models.LabelOptions{IncludeDescription: true}

	// 30 Devanagari characters are 90 bytes but well under the
	// 60-character budget, so the line passes through untouched.
	design.Description = strings.Repeat("स", 30)
	lines := ContentLines(design, opts, "")
	require.Len(t, lines, 1)
	assert.Equal(t, design.Description, lines[0])

	// Over budget: cut at 60 characters, never mid-rune.
	design.Description = strings.Repeat("स", 80)
	lines = ContentLines(design, opts, "")
	require.Len(t, lines, 1)
	assert.Equal(t, strings.Repeat("स", 60)+"...", lines[0])
	assert.True(t, utf8.ValidString(lines[0]))
}

func TestFilename(t *testing.T) {
	c, err := NewCompositor("TextileHub")
	require.NoError(t, err)

	assert.Equal(t, "TextileHub_Design_1.jpg", c.Filename(1))
	assert.Equal(t, "TextileHub_Design_12.jpg", c.Filename(12))
}

func TestComposeProducesDecodableJPEG(t *testing.T) {
	c, err := NewCompositor("TextileHub")
	require.NoError(t, err)

	design := testDesign(t, 500, 700)
	artifact, err := c.Compose(context.Background(), design, models.DefaultLabelOptions(), "Sharma Textiles")
	require.NoError(t, err)

	assert.Equal(t, "d1", artifact.DesignID)
	require.NotEmpty(t, artifact.Data)

	img, err := jpeg.Decode(bytes.NewReader(artifact.Data))
	require.NoError(t, err)
	assert.Equal(t, 500, img.Bounds().Dx())
	assert.Equal(t, 700, img.Bounds().Dy())
}

func TestComposeCapsCanvasSize(t *testing.T) {
	c, err := NewCompositor("TextileHub")
	require.NoError(t, err)

	design := testDesign(t, 2400, 1600)
	artifact, err := c.Compose(context.Background(), design, models.DefaultLabelOptions(), "")
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(artifact.Data))
	require.NoError(t, err)
	assert.Equal(t, 1200, img.Bounds().Dx())
	assert.Equal(t, 800, img.Bounds().Dy())
}

func TestComposeDarkensBanner(t *testing.T) {
	c, err := NewCompositor("TextileHub")
	require.NoError(t, err)

	// White source image; the banner strip must come out darker than the
	// untouched area above it.
	design := testDesign(t, 300, 500)
	design.Image = pngDataURI(t, 300, 500, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})

	artifact, err := c.Compose(context.Background(), design, models.LabelOptions{}, "")
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(artifact.Data))
	require.NoError(t, err)

	grayAt := func(x, y int) uint32 {
		r, g, b, _ := img.At(x, y).RGBA()
		return (r + g + b) / 3
	}

	topPixel := grayAt(150, 50)
	bannerPixel := grayAt(150, 480)
	assert.Less(t, bannerPixel, topPixel)
}

func TestComposeInvalidImage(t *testing.T) {
	c, err := NewCompositor("TextileHub")
	require.NoError(t, err)

	design := testDesign(t, 10, 10)
	design.Image = "data:image/png;base64,bm90IGFuIGltYWdl"

	_, err = c.Compose(context.Background(), design, models.DefaultLabelOptions(), "")
	assert.ErrorIs(t, err, ErrImageDecode)
}

func TestComposeCancelledContext(t *testing.T) {
	c, err := NewCompositor("TextileHub")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Compose(ctx, testDesign(t, 10, 10), models.DefaultLabelOptions(), "")
	assert.ErrorIs(t, err, context.Canceled)
}
