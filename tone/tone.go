// Package tone maps RGB samples to glyphs.
//
// A sample goes through a fixed chain: Grayscale, Contrast, Brightness,
// Invert and finally Glyph. Reordering the chain changes the output.
package tone

import "math"

// Gamma shapes the normalized tone before it indexes the charset. Values
// above 1 spread the lighter half of the range over more glyphs.
const Gamma = 1.5

// Grayscale returns the BT.709 luma of an 8-bit RGB sample, rounded half
// away from zero.
func Grayscale(r, g, b uint8) uint8 {
	return uint8(math.Round(0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)))
}

// Contrast scales v around mid-gray (128) by k and clamps to [0, 255].
func Contrast(v, k float64) float64 {
	return clamp((v-128)*k + 128)
}

// Brightness blends v toward white for b > 0 and toward black for b < 0.
//
// The result is not clamped. For b in [-1, 1] it stays in [0, 255].
func Brightness(v, b float64) float64 {
	switch {
	case b > 0:
		return v + (255-v)*b
	case b < 0:
		return v + v*b
	default:
		return v
	}
}

// Invert flips v within [0, 255].
func Invert(v float64) float64 {
	return 255 - v
}

// Glyph picks the glyph for tone v. 0 selects the first glyph of cs and 255
// the last. cs must not be empty.
func Glyph(v float64, cs Charset) rune {
	n := clamp(v) / 255
	i := int(math.Floor(math.Pow(n, Gamma) * float64(len(cs)-1)))
	if i < 0 {
		i = 0
	} else if i > len(cs)-1 {
		i = len(cs) - 1
	}
	return cs[i]
}

// Settings are the per-conversion knobs of the chain.
type Settings struct {
	Contrast   float64
	Brightness float64
	Invert     bool
	Charset    Charset
}

// Level runs the chain up to (not including) glyph selection.
func (s Settings) Level(gray uint8) float64 {
	v := Contrast(float64(gray), s.Contrast)
	v = Brightness(v, s.Brightness)
	if s.Invert {
		v = Invert(v)
	}
	return v
}

// Map runs the whole chain for one sample.
func (s Settings) Map(r, g, b uint8) rune {
	return Glyph(s.Level(Grayscale(r, g, b)), s.Charset)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
