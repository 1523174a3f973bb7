package hexpic

import (
	"fmt"
	"math"
)

// Plan resolves the grid size for a conversion.
//
// Without preserveAspect the requested size is returned as is and the source
// size is not looked at. Otherwise the side that would distort the source is
// shrunk (rounding down), which can leave a side of 0 for extreme shapes.
func Plan(reqW, reqH, srcW, srcH int, preserveAspect bool) (w, h int, err error) {
	if reqW <= 0 || reqH <= 0 {
		return 0, 0, fmt.Errorf("requested %dx%d: %w", reqW, reqH, ErrInvalidDimensions)
	}
	if !preserveAspect {
		return reqW, reqH, nil
	}
	if srcW <= 0 || srcH <= 0 {
		return 0, 0, fmt.Errorf("source %dx%d: %w", srcW, srcH, ErrInvalidDimensions)
	}

	aspect := float64(srcW) / float64(srcH)
	if float64(reqW)/float64(reqH) > aspect {
		return int(math.Floor(float64(reqH) * aspect)), reqH, nil
	}
	return reqW, int(math.Floor(float64(reqW) / aspect)), nil
}

// sourceSize applies the cell aspect to a source size before planning.
func sourceSize(srcW, srcH int, cellAspect float64) (int, int) {
	if cellAspect == 1 || srcW <= 0 {
		return srcW, srcH
	}
	w := int(math.Round(float64(srcW) * cellAspect))
	if w < 1 {
		w = 1
	}
	return w, srcH
}
