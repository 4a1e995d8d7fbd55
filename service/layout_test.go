package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// charMeasure approximates a monospace face: 10 units per rune.
func charMeasure(s string) int {
	return len([]rune(s)) * 10
}

func TestWrapWordsFitsSingleLine(t *testing.T) {
	got := wrapWords("soft cotton", 200, charMeasure)
	assert.Equal(t, []string{"soft cotton"}, got)
}

func TestWrapWordsBreaksAtWidth(t *testing.T) {
	// 12 chars max per line at width 120
	got := wrapWords("pure silk saree with border", 120, charMeasure)
	assert.Equal(t, []string{"pure silk", "saree with", "border"}, got)

	for _, line := range got {
		assert.LessOrEqual(t, charMeasure(line), 120)
	}
}

func TestWrapWordsKeepsOversizedWordWhole(t *testing.T) {
	got := wrapWords("extraordinarily soft", 100, charMeasure)
	// The long word exceeds the width but is never split.
	assert.Equal(t, []string{"extraordinarily", "soft"}, got)
}

func TestWrapWordsEmptyLine(t *testing.T) {
	got := wrapWords("", 100, charMeasure)
	assert.Empty(t, got)
}

func TestWrapWordsPreservesWordOrder(t *testing.T) {
	in := "one two three four five six seven"
	got := wrapWords(in, 80, charMeasure)
	assert.Equal(t, in, strings.Join(got, " "))
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"already inside", 800, 600, 800, 600},
		{"exact fit", 1200, 1600, 1200, 1600},
		{"too wide", 2400, 1600, 1200, 800},
		{"too tall", 1200, 3200, 600, 1600},
		{"both exceeded", 2400, 3200, 1200, 1600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := FitWithin(tt.w, tt.h, maxCanvasWidth, maxCanvasHeight)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestComputeGeometry(t *testing.T) {
	engine, err := NewLayoutEngine()
	require.NoError(t, err)

	l, err := engine.Compute(1000, 1400, []string{"Fabric: Cotton"})
	require.NoError(t, err)

	assert.Equal(t, 252, l.BannerHeight) // 18% of 1400
	assert.Equal(t, 40, l.Padding)       // 4% of 1000
	assert.Equal(t, 49, l.FontSize)      // 3.5% of 1400
	assert.Equal(t, 68, l.LineHeight)    // 1.4x font size
	assert.Equal(t, []string{"Fabric: Cotton"}, l.Lines)
}

func TestComputeMinimums(t *testing.T) {
	engine, err := NewLayoutEngine()
	require.NoError(t, err)

	// A small canvas still gets a readable banner.
	l, err := engine.Compute(300, 400, nil)
	require.NoError(t, err)

	assert.Equal(t, 120, l.BannerHeight) // floor, 18% of 400 would be 72
	assert.Equal(t, 20, l.FontSize)      // floor, 3.5% of 400 would be 14
	assert.Empty(t, l.Lines)
}

func TestComputeWrapsLongLines(t *testing.T) {
	engine, err := NewLayoutEngine()
	require.NoError(t, err)

	long := "a very long descriptive line about handwoven fabric that cannot possibly fit"
	l, err := engine.Compute(500, 700, []string{long})
	require.NoError(t, err)

	assert.Greater(t, len(l.Lines), 1)
	assert.Equal(t, long, strings.Join(l.Lines, " "))
}
