package service

import (
	"fmt"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

// Output canvas bounding box. Source images larger than this are scaled
// down, preserving aspect ratio, before composition.
const (
	maxCanvasWidth  = 1200
	maxCanvasHeight = 1600
)

// Layout is the banner geometry and wrapped text placement for one canvas.
type Layout struct {
	Width        int
	Height       int
	BannerHeight int // bottom-aligned strip
	Padding      int
	FontSize     int
	LineHeight   int
	Lines        []string // wrapped sub-lines, top-to-bottom draw order
}

// LayoutEngine computes banner geometry and word-wrapped line placement.
// Text widths are measured with the bundled Go Bold face at the computed
// banner font size.
type LayoutEngine struct {
	fnt *opentype.Font
}

// NewLayoutEngine parses the bundled font
func NewLayoutEngine() (*LayoutEngine, error) {
	fnt, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &LayoutEngine{fnt: fnt}, nil
}

// Face builds a font face at the given pixel size
func (e *LayoutEngine) Face(size int) (font.Face, error) {
	face, err := opentype.NewFace(e.fnt, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build font face: %w", err)
	}
	return face, nil
}

// FitWithin scales (w, h) down to fit (maxW, maxH), preserving aspect
// ratio. Images already inside the box are returned unchanged.
func FitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	scaleW := float64(maxW) / float64(w)
	scaleH := float64(maxH) / float64(h)
	scale := scaleW
	if scaleH < scaleW {
		scale = scaleH
	}
	return int(float64(w) * scale), int(float64(h) * scale)
}

// Compute derives banner geometry for the canvas and wraps each logical
// line so no rendered sub-line exceeds width - 2*padding. An empty line
// list yields a banner with no text.
func (e *LayoutEngine) Compute(width, height int, lines []string) (*Layout, error) {
	l := &Layout{
		Width:        width,
		Height:       height,
		BannerHeight: max(height*18/100, 120),
		Padding:      width * 4 / 100,
		FontSize:     max(20, height*35/1000),
	}
	l.LineHeight = l.FontSize * 14 / 10

	face, err := e.Face(l.FontSize)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	maxWidth := width - 2*l.Padding
	measure := func(s string) int {
		return font.MeasureString(face, s).Ceil()
	}

	for _, line := range lines {
		l.Lines = append(l.Lines, wrapWords(line, maxWidth, measure)...)
	}
	return l, nil
}

// wrapWords greedily accumulates words into a running line, committing it
// whenever adding the next word would exceed maxWidth. A single word wider
// than maxWidth still becomes its own sub-line; words are never split.
func wrapWords(line string, maxWidth int, measure func(string) int) []string {
	words := strings.Split(line, " ")
	var out []string
	current := ""

	for _, word := range words {
		test := current
		if test != "" {
			test += " "
		}
		test += word

		if measure(test) > maxWidth && current != "" {
			out = append(out, current)
			current = word
		} else {
			current = test
		}
	}
	if current != "" {
		out = append(out, current)
	}
	return out
}
