package acquire

import (
	"fmt"
	"image"
	"image/color"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// Filter selects how the source is resampled to the grid size.
type Filter string

const (
	Nearest  Filter = "nearest"
	Bilinear Filter = "bilinear"
	Bicubic  Filter = "bicubic"
	Lanczos  Filter = "lanczos"
)

var interpolations = map[Filter]resize.InterpolationFunction{
	Nearest:  resize.NearestNeighbor,
	Bilinear: resize.Bilinear,
	Bicubic:  resize.Bicubic,
	Lanczos:  resize.Lanczos3,
}

// ParseFilter validates a filter name. The empty string means Nearest.
func ParseFilter(s string) (Filter, error) {
	if s == "" {
		return Nearest, nil
	}
	f := Filter(s)
	if _, ok := interpolations[f]; !ok {
		return "", fmt.Errorf("unknown filter %q", s)
	}
	return f, nil
}

// Rasterize scales src to w x h and composites it over bg, so the result is
// fully opaque.
//
// dst is reused when it already has the right bounds, otherwise a new
// surface is allocated. A zero side returns an empty surface without
// touching src.
func Rasterize(dst *image.RGBA, src image.Image, w, h int, bg color.Color, f Filter) *image.RGBA {
	rect := image.Rect(0, 0, w, h)
	if dst == nil || dst.Bounds() != rect {
		dst = image.NewRGBA(rect)
	}
	if w == 0 || h == 0 {
		return dst
	}

	interp, ok := interpolations[f]
	if !ok {
		interp = resize.NearestNeighbor
	}

	draw.Draw(dst, rect, image.NewUniform(bg), image.Point{}, draw.Src)

	scaled := resize.Resize(uint(w), uint(h), src, interp)
	draw.Draw(dst, rect, scaled, scaled.Bounds().Min, draw.Over)

	return dst
}
