package hexpic

import (
	"fmt"

	"github.com/dialup-inc/hexpic/tone"
)

// Options configure a single conversion. Start from DefaultOptions and apply
// an Update with Merge.
type Options struct {
	// Width and Height bound the character grid.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Charset lists glyphs from darkest-assigned to lightest-assigned.
	Charset tone.Charset `json:"charset"`

	Invert     bool    `json:"invert"`
	Contrast   float64 `json:"contrast"`
	Brightness float64 `json:"brightness"`

	// PreserveAspectRatio shrinks one side of the grid so that it keeps the
	// source's shape.
	PreserveAspectRatio bool `json:"preserveAspectRatio"`

	// Background fills transparent areas of the source.
	Background Color `json:"backgroundColor"`

	// CellAspect is the height-to-width ratio of one character cell. The
	// source is stretched horizontally by this factor before planning, so
	// 2 compensates for a typical terminal font. 1 plans on the raw source.
	CellAspect float64 `json:"cellAspect"`
}

// DefaultOptions returns an 80x40 grid with the standard ramp and neutral
// tone settings.
func DefaultOptions() Options {
	return Options{
		Width:               80,
		Height:              40,
		Charset:             tone.Standard,
		Contrast:            1.0,
		Brightness:          0,
		PreserveAspectRatio: true,
		Background:          Black,
		CellAspect:          1.0,
	}
}

// Validate reports the first problem that would stop a conversion.
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("requested %dx%d: %w", o.Width, o.Height, ErrInvalidDimensions)
	}
	if o.CellAspect <= 0 {
		return fmt.Errorf("cell aspect %v: %w", o.CellAspect, ErrInvalidDimensions)
	}
	if len(o.Charset) == 0 {
		return ErrEmptyCharset
	}
	return nil
}

func (o Options) settings() tone.Settings {
	return tone.Settings{
		Contrast:   o.Contrast,
		Brightness: o.Brightness,
		Invert:     o.Invert,
		Charset:    o.Charset,
	}
}

// Update is a partial Options. Nil fields are left alone by Merge.
type Update struct {
	Width               *int         `json:"width,omitempty" yaml:"width,omitempty"`
	Height              *int         `json:"height,omitempty" yaml:"height,omitempty"`
	Charset             tone.Charset `json:"charset,omitempty" yaml:"charset,omitempty"`
	Invert              *bool        `json:"invert,omitempty" yaml:"invert,omitempty"`
	Contrast            *float64     `json:"contrast,omitempty" yaml:"contrast,omitempty"`
	Brightness          *float64     `json:"brightness,omitempty" yaml:"brightness,omitempty"`
	PreserveAspectRatio *bool        `json:"preserveAspectRatio,omitempty" yaml:"preserve_aspect_ratio,omitempty"`
	Background          *Color       `json:"backgroundColor,omitempty" yaml:"background_color,omitempty"`
	CellAspect          *float64     `json:"cellAspect,omitempty" yaml:"cell_aspect,omitempty"`
}

// Merge returns o with every field set in u overlaid. The charset is
// replaced as a whole.
func (o Options) Merge(u Update) Options {
	if u.Width != nil {
		o.Width = *u.Width
	}
	if u.Height != nil {
		o.Height = *u.Height
	}
	if u.Charset != nil {
		o.Charset = append(tone.Charset(nil), u.Charset...)
	}
	if u.Invert != nil {
		o.Invert = *u.Invert
	}
	if u.Contrast != nil {
		o.Contrast = *u.Contrast
	}
	if u.Brightness != nil {
		o.Brightness = *u.Brightness
	}
	if u.PreserveAspectRatio != nil {
		o.PreserveAspectRatio = *u.PreserveAspectRatio
	}
	if u.Background != nil {
		o.Background = *u.Background
	}
	if u.CellAspect != nil {
		o.CellAspect = *u.CellAspect
	}
	return o
}

// Overlay merges v on top of u, the same way Options.Merge does, and
// returns the combined update.
func (u Update) Overlay(v Update) Update {
	if v.Width != nil {
		u.Width = v.Width
	}
	if v.Height != nil {
		u.Height = v.Height
	}
	if v.Charset != nil {
		u.Charset = v.Charset
	}
	if v.Invert != nil {
		u.Invert = v.Invert
	}
	if v.Contrast != nil {
		u.Contrast = v.Contrast
	}
	if v.Brightness != nil {
		u.Brightness = v.Brightness
	}
	if v.PreserveAspectRatio != nil {
		u.PreserveAspectRatio = v.PreserveAspectRatio
	}
	if v.Background != nil {
		u.Background = v.Background
	}
	if v.CellAspect != nil {
		u.CellAspect = v.CellAspect
	}
	return u
}

// Ptr returns a pointer to v, for filling in Update literals.
func Ptr[T any](v T) *T {
	return &v
}
