package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"textilehub/models"
	"textilehub/utils"
)

const (
	jpegQuality   = 92
	maxDescLength = 60
	// Badge is skipped below this canvas width to avoid overlapping the
	// banner text on narrow outputs.
	minBadgeWidth = 400
)

var (
	badgeColor  = color.NRGBA{R: 0x4f, G: 0x46, B: 0xe5, A: 0xff} // indigo
	textColor   = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	shadowColor = color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 0x80}
)

// Compositor renders one design plus label options into a branded JPEG
// artifact: scaled source image, legibility gradient, wrapped banner text,
// and a brand badge.
type Compositor struct {
	loader  *ImageLoader
	layout  *LayoutEngine
	appName string
}

// NewCompositor creates a Compositor branding images with appName
func NewCompositor(appName string) (*Compositor, error) {
	layout, err := NewLayoutEngine()
	if err != nil {
		return nil, err
	}
	return &Compositor{
		loader:  NewImageLoader(),
		layout:  layout,
		appName: appName,
	}, nil
}

// Filename returns the deterministic download name for the 1-based index
func (c *Compositor) Filename(index int) string {
	return fmt.Sprintf("%s_Design_%d.jpg", c.appName, index)
}

// ContentLines assembles the banner text lines in fixed order, skipping
// any line whose source field is empty. Descriptions are truncated to
// maxDescLength characters with an ellipsis marker.
func ContentLines(design *models.Design, opts models.LabelOptions, firmName string) []string {
	var lines []string
	if opts.IncludeFirmName && firmName != "" {
		lines = append(lines, firmName)
	}
	if opts.IncludeFabric && design.Fabric != "" {
		lines = append(lines, "Fabric: "+design.Fabric)
	}
	if opts.IncludeRetail {
		lines = append(lines, "Retail: "+utils.FormatINR(design.RetailPrice))
	}
	if opts.IncludeWholesale {
		lines = append(lines, "Wholesale: "+utils.FormatINR(design.WholesalePrice))
	}
	if opts.IncludeDescription && design.Description != "" {
		desc := design.Description
		// Budget counts characters, not bytes, so multibyte text is
		// never split mid-rune.
		if runes := []rune(desc); len(runes) > maxDescLength {
			desc = string(runes[:maxDescLength]) + "..."
		}
		lines = append(lines, desc)
	}
	return lines
}

// Compose renders the branded image for one design. The context bounds
// the source image fetch when the reference is a URL.
func (c *Compositor) Compose(ctx context.Context, design *models.Design, opts models.LabelOptions, firmName string) (*Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := c.loader.Load(design.Image)
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	width, height := FitWithin(bounds.Dx(), bounds.Dy(), maxCanvasWidth, maxCanvasHeight)

	// Scale source onto the canvas
	canvas := imaging.Resize(src, width, height, imaging.Lanczos)

	lines := ContentLines(design, opts, firmName)
	layout, err := c.layout.Compute(width, height, lines)
	if err != nil {
		return nil, err
	}

	drawBannerGradient(canvas, layout)

	if err := c.drawBannerText(canvas, layout); err != nil {
		return nil, err
	}

	if width > minBadgeWidth {
		if err := c.drawBadge(canvas, layout); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}

	return &Artifact{
		DesignID: design.ID,
		Data:     buf.Bytes(),
	}, nil
}

// drawBannerGradient darkens the banner strip with a vertical gradient
// from 70% to 95% black so the text stays legible on any image.
func drawBannerGradient(canvas *image.NRGBA, l *Layout) {
	top := l.Height - l.BannerHeight
	for y := top; y < l.Height; y++ {
		t := float64(y-top) / float64(l.BannerHeight-1)
		alpha := 0.70 + 0.25*t
		row := image.Rect(0, y, l.Width, y+1)
		overlay := image.NewUniform(color.NRGBA{A: uint8(alpha*255 + 0.5)})
		draw.Draw(canvas, row, overlay, image.Point{}, draw.Over)
	}
}

// drawBannerText renders the wrapped sub-lines left-aligned from the top
// of the banner, each with a small drop shadow.
func (c *Compositor) drawBannerText(canvas *image.NRGBA, l *Layout) error {
	face, err := c.layout.Face(l.FontSize)
	if err != nil {
		return err
	}
	defer face.Close()

	ascent := face.Metrics().Ascent.Ceil()
	y := l.Height - l.BannerHeight + l.Padding

	for _, line := range l.Lines {
		drawString(canvas, face, line, l.Padding, y+2+ascent, shadowColor)
		drawString(canvas, face, line, l.Padding, y+ascent, textColor)
		y += l.LineHeight
	}
	return nil
}

// drawBadge paints the rounded brand tag anchored top-right with the app
// name centered in bold.
func (c *Compositor) drawBadge(canvas *image.NRGBA, l *Layout) error {
	tagW := l.Width * 30 / 100
	if tagW > 200 {
		tagW = 200
	}
	tagH := l.Height * 6 / 100
	tagX := l.Width - tagW - 20
	tagY := 20

	fillRoundedRect(canvas, image.Rect(tagX, tagY, tagX+tagW, tagY+tagH), tagH/4, badgeColor)

	labelSize := l.FontSize * 7 / 10
	face, err := c.layout.Face(labelSize)
	if err != nil {
		return err
	}
	defer face.Close()

	label := strings.ToUpper(c.appName)
	labelWidth := font.MeasureString(face, label).Ceil()
	metrics := face.Metrics()
	x := tagX + (tagW-labelWidth)/2
	y := tagY + (tagH+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawString(canvas, face, label, x, y, textColor)
	return nil
}

func drawString(dst draw.Image, face font.Face, s string, x, y int, col color.NRGBA) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// fillRoundedRect fills r with col, clipping the four corners to radius.
func fillRoundedRect(dst *image.NRGBA, r image.Rectangle, radius int, col color.NRGBA) {
	if radius < 0 {
		radius = 0
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if inRoundedRect(x, y, r, radius) {
				dst.SetNRGBA(x, y, col)
			}
		}
	}
}

func inRoundedRect(x, y int, r image.Rectangle, radius int) bool {
	cx, cy := x, y
	switch {
	case x < r.Min.X+radius && y < r.Min.Y+radius:
		cx, cy = r.Min.X+radius, r.Min.Y+radius
	case x >= r.Max.X-radius && y < r.Min.Y+radius:
		cx, cy = r.Max.X-radius-1, r.Min.Y+radius
	case x < r.Min.X+radius && y >= r.Max.Y-radius:
		cx, cy = r.Min.X+radius, r.Max.Y-radius-1
	case x >= r.Max.X-radius && y >= r.Max.Y-radius:
		cx, cy = r.Max.X-radius-1, r.Max.Y-radius-1
	default:
		return true
	}
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= radius*radius
}
