package tone

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrayscale(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    uint8
	}{
		{"black", 0, 0, 0, 0},
		{"white", 255, 255, 255, 255},
		{"mid gray", 128, 128, 128, 128},
		{"weighted", 100, 150, 200, 143},
		{"pure red", 255, 0, 0, 54},
		{"pure green", 0, 255, 0, 182},
		{"pure blue", 0, 0, 255, 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Grayscale(tt.r, tt.g, tt.b))
		})
	}
}

func TestContrast(t *testing.T) {
	assert.Equal(t, 128.0, Contrast(128, 2))
	assert.Equal(t, 255.0, Contrast(200, 2))
	assert.Equal(t, 0.0, Contrast(50, 2))

	assert.Equal(t, 128.0, Contrast(128, 0.5))
	assert.Equal(t, 164.0, Contrast(200, 0.5))
	assert.Equal(t, 89.0, Contrast(50, 0.5))
}

func TestContrastMidGrayFixed(t *testing.T) {
	property := func(k float64) bool {
		return Contrast(128, k) == 128
	}
	require.NoError(t, quick.Check(property, nil))
}

func TestContrastInRange(t *testing.T) {
	property := func(v uint8, k float64) bool {
		c := Contrast(float64(v), k)
		return c >= 0 && c <= 255
	}
	require.NoError(t, quick.Check(property, nil))
}

func TestBrightness(t *testing.T) {
	assert.Equal(t, 177.5, Brightness(100, 0.5))
	assert.Equal(t, 227.5, Brightness(200, 0.5))
	assert.Equal(t, 255.0, Brightness(255, 0.5))
	assert.Equal(t, 50.0, Brightness(100, -0.5))
	assert.Equal(t, 0.0, Brightness(50, -1))
	assert.Equal(t, 42.0, Brightness(42, 0))
}

func TestBrightnessMonotonic(t *testing.T) {
	property := func(v uint8, raw uint16) bool {
		b := float64(raw%1000+1) / 1000 // (0, 1]
		up := Brightness(float64(v), b)
		down := Brightness(float64(v), -b)

		if v == 255 {
			if up != 255 {
				return false
			}
		} else if up <= float64(v) {
			return false
		}
		return down <= float64(v)
	}
	require.NoError(t, quick.Check(property, nil))
}

func TestInvert(t *testing.T) {
	assert.Equal(t, 255.0, Invert(0))
	assert.Equal(t, 0.0, Invert(255))
	assert.Equal(t, 127.0, Invert(128))
}

func TestGlyph(t *testing.T) {
	assert.Equal(t, '$', Glyph(0, Standard))
	assert.Equal(t, ' ', Glyph(255, Standard))
	assert.Equal(t, 'L', Glyph(128, Standard))
	assert.Equal(t, '#', Glyph(64, Standard))

	// out of range tones are clamped before indexing
	assert.Equal(t, '$', Glyph(-40, Standard))
	assert.Equal(t, ' ', Glyph(400, Standard))
}

func TestGlyphSingle(t *testing.T) {
	cs := Charset("@")
	for v := 0; v <= 255; v++ {
		require.Equal(t, '@', Glyph(float64(v), cs), "tone %d", v)
	}
}

func TestSettingsOrder(t *testing.T) {
	// contrast before brightness: 200 -> 255 (clamped) -> 255
	s := Settings{Contrast: 2, Brightness: 0.5, Charset: Standard}
	assert.Equal(t, 255.0, s.Level(200))

	// brightness before invert: 100 -> 177.5 -> 77.5
	s = Settings{Contrast: 1, Brightness: 0.5, Invert: true, Charset: Standard}
	assert.Equal(t, 77.5, s.Level(100))
}

func TestMapperMatchesChain(t *testing.T) {
	settings := []Settings{
		{Contrast: 1, Charset: Standard},
		{Contrast: 1.7, Brightness: -0.3, Charset: Simple},
		{Contrast: 0.4, Brightness: 0.6, Invert: true, Charset: Terminal},
		{Contrast: 3, Charset: Charset("#")},
	}

	for _, s := range settings {
		m := NewMapper(s)
		for v := 0; v <= 255; v++ {
			require.Equal(t, Glyph(s.Level(uint8(v)), s.Charset), m.Gray(uint8(v)))
		}
	}
}

func TestMapperRGB(t *testing.T) {
	property := func(r, g, b uint8) bool {
		s := Settings{Contrast: 1.3, Brightness: 0.1, Charset: Standard}
		return NewMapper(s).Map(r, g, b) == s.Map(r, g, b)
	}
	require.NoError(t, quick.Check(property, nil))
}
