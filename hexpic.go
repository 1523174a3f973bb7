// Package hexpic renders raster images as monospace character art.
//
// The core is Convert, a pure function from an RGBA pixel buffer to a grid
// of glyphs. Converter adds image loading and rasterizing on top of it.
package hexpic

import (
	"context"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/dialup-inc/hexpic/acquire"
)

// Converter holds options and a drawing surface that is reused between
// conversions of the same size. It is safe for concurrent use; conversions
// on one Converter run one at a time.
type Converter struct {
	// Filter picks the resampling used while rasterizing.
	Filter acquire.Filter

	// Fetcher loads URLs for FromURL.
	Fetcher *acquire.Fetcher

	// Pipeline renders the rasterized surface.
	Pipeline *Pipeline

	mu      sync.Mutex
	opts    Options
	surface *image.RGBA
}

// New returns a Converter using DefaultOptions with u applied.
func New(u Update) *Converter {
	return &Converter{
		Filter:   acquire.Nearest,
		Fetcher:  &acquire.Fetcher{},
		Pipeline: &Pipeline{},
		opts:     DefaultOptions().Merge(u),
	}
}

// SetOptions overlays u on the current options.
func (c *Converter) SetOptions(u Update) {
	c.mu.Lock()
	c.opts = c.opts.Merge(u)
	c.mu.Unlock()
}

// Options returns the current options.
func (c *Converter) Options() Options {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.opts
}

// FromImage converts an already decoded image.
func (c *Converter) FromImage(img image.Image) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	opts := c.opts
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("source %dx%d: %w", b.Dx(), b.Dy(), ErrInvalidDimensions)
	}
	srcW, srcH := sourceSize(b.Dx(), b.Dy(), opts.CellAspect)
	w, h, err := Plan(opts.Width, opts.Height, srcW, srcH, opts.PreserveAspectRatio)
	if err != nil {
		return nil, err
	}

	c.surface = acquire.Rasterize(c.surface, img, w, h, opts.Background, c.Filter)

	return c.Pipeline.Convert(BufferFromRGBA(c.surface), b.Dx(), b.Dy(), opts)
}

// FromReader decodes an image from r and converts it.
func (c *Converter) FromReader(r io.Reader) (*Result, error) {
	img, _, err := acquire.Decode(r)
	if err != nil {
		return nil, err
	}
	return c.FromImage(img)
}

// FromFile decodes the image at path and converts it.
func (c *Converter) FromFile(path string) (*Result, error) {
	img, err := acquire.Open(path)
	if err != nil {
		return nil, err
	}
	return c.FromImage(img)
}

// FromURL fetches an http, https or data URL and converts the image. The
// download honours ctx; the conversion itself does not block.
func (c *Converter) FromURL(ctx context.Context, url string) (*Result, error) {
	img, err := c.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return c.FromImage(img)
}
