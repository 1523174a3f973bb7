package hexpic

import (
	"fmt"
	"image"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/dialup-inc/hexpic/tone"
)

// minRowsPerWorker keeps tiny grids on the calling goroutine.
const minRowsPerWorker = 16

// PixelBuffer is a row-major RGBA raster, 4 bytes per sample with no row
// padding. Alpha is expected to be flattened already and is ignored.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// BufferFromRGBA views img as a PixelBuffer, copying only when its rows are
// padded or it is a sub-image.
func BufferFromRGBA(img *image.RGBA) PixelBuffer {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if img.Stride == 4*w && b.Min == (image.Point{}) {
		return PixelBuffer{Width: w, Height: h, Pix: img.Pix[:4*w*h]}
	}

	pix := make([]uint8, 0, 4*w*h)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		pix = append(pix, img.Pix[i:i+4*w]...)
	}
	return PixelBuffer{Width: w, Height: h, Pix: pix}
}

// Result is the rendered grid. It is never modified after it is returned.
type Result struct {
	// Text holds one line per row. Every row, including the last, ends in
	// a newline.
	Text string `json:"ascii"`

	// Width and Height are the effective grid size, which may be smaller
	// than requested when the aspect ratio is preserved.
	Width  int `json:"width"`
	Height int `json:"height"`

	Charset tone.Charset `json:"charset"`
}

func (r *Result) String() string {
	return r.Text
}

// Lines splits Text into rows without their line breaks.
func (r *Result) Lines() []string {
	if r.Height == 0 {
		return nil
	}
	return strings.SplitN(strings.TrimSuffix(r.Text, "\n"), "\n", r.Height)
}

// Pipeline turns pixel buffers into glyph grids. The zero value converts on
// the calling goroutine.
type Pipeline struct {
	// Workers caps the number of goroutines rows are spread over. Values
	// below 2 disable the fan-out. Output does not depend on it.
	Workers int
}

// Convert renders buf, the rasterized form of a srcW x srcH source. buf must
// already have the size Plan resolves for opts.
func (p *Pipeline) Convert(buf PixelBuffer, srcW, srcH int, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	srcW, srcH = sourceSize(srcW, srcH, opts.CellAspect)
	w, h, err := Plan(opts.Width, opts.Height, srcW, srcH, opts.PreserveAspectRatio)
	if err != nil {
		return nil, err
	}
	if buf.Width != w || buf.Height != h || len(buf.Pix) != 4*w*h {
		return nil, fmt.Errorf("buffer %dx%d (%d bytes), planned %dx%d: %w",
			buf.Width, buf.Height, len(buf.Pix), w, h, ErrDimensionMismatch)
	}

	mapper := tone.NewMapper(opts.settings())
	rows := make([][]byte, h)

	workers := p.Workers
	if limit := h / minRowsPerWorker; workers > limit {
		workers = limit
	}
	if workers < 2 {
		renderRows(rows, 0, h, buf, mapper)
	} else {
		var g errgroup.Group
		band := (h + workers - 1) / workers
		for start := 0; start < h; start += band {
			start, end := start, start+band
			if end > h {
				end = h
			}
			g.Go(func() error {
				renderRows(rows, start, end, buf, mapper)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	var size int
	for _, row := range rows {
		size += len(row) + 1
	}
	var sb strings.Builder
	sb.Grow(size)
	for _, row := range rows {
		sb.Write(row)
		sb.WriteByte('\n')
	}

	return &Result{
		Text:    sb.String(),
		Width:   w,
		Height:  h,
		Charset: append(tone.Charset(nil), opts.Charset...),
	}, nil
}

// renderRows fills rows[start:end]. Each call owns its slice of rows, so
// bands can run concurrently.
func renderRows(rows [][]byte, start, end int, buf PixelBuffer, m *tone.Mapper) {
	stride := 4 * buf.Width
	for y := start; y < end; y++ {
		line := make([]byte, 0, buf.Width)
		px := buf.Pix[y*stride : (y+1)*stride]
		for i := 0; i < len(px); i += 4 {
			line = utf8.AppendRune(line, m.Map(px[i], px[i+1], px[i+2]))
		}
		rows[y] = line
	}
}

var defaultPipeline Pipeline

// Convert renders buf on the calling goroutine. See Pipeline.Convert.
func Convert(buf PixelBuffer, srcW, srcH int, opts Options) (*Result, error) {
	return defaultPipeline.Convert(buf, srcW, srcH, opts)
}
