package main

import (
	"flag"
	"fmt"

	"github.com/dialup-inc/hexpic"
	"github.com/dialup-inc/hexpic/tone"
)

type flags struct {
	width      int
	height     int
	charset    string
	preset     string
	invert     bool
	contrast   float64
	brightness float64
	preserve   bool
	background string
	cellAspect float64
	filter     string
	workers    int

	fit      bool
	watch    bool
	config   string
	out      string
	logLevel string
}

func newFlagSet(name string, f *flags) *flag.FlagSet {
	def := hexpic.DefaultOptions()

	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.IntVar(&f.width, "width", def.Width, "maximum width in characters")
	fs.IntVar(&f.height, "height", def.Height, "maximum height in characters")
	fs.StringVar(&f.charset, "charset", "", "glyphs from darkest to lightest")
	fs.StringVar(&f.preset, "preset", "", "named charset: blocks, simple, standard or terminal")
	fs.BoolVar(&f.invert, "invert", def.Invert, "swap dark and light")
	fs.Float64Var(&f.contrast, "contrast", def.Contrast, "contrast factor around mid gray")
	fs.Float64Var(&f.brightness, "brightness", def.Brightness, "blend toward white (0 to 1) or black (-1 to 0)")
	fs.BoolVar(&f.preserve, "preserve-aspect", def.PreserveAspectRatio, "keep the image's shape inside width x height")
	fs.StringVar(&f.background, "background", def.Background.String(), "color behind transparent pixels")
	fs.Float64Var(&f.cellAspect, "cell-aspect", def.CellAspect, "character cell height to width ratio")
	fs.StringVar(&f.filter, "filter", "", "resampling filter: nearest, bilinear, bicubic or lanczos")
	fs.IntVar(&f.workers, "workers", 0, "render rows in parallel on this many goroutines")
	fs.BoolVar(&f.fit, "fit", false, "size the picture to the terminal")
	fs.BoolVar(&f.watch, "watch", false, "draw full-screen and follow terminal resizes")
	fs.StringVar(&f.config, "config", "", "YAML config file")
	fs.StringVar(&f.out, "o", "", "write to this file instead of stdout")
	fs.StringVar(&f.logLevel, "log-level", "", "trace, debug, info, warn or error")
	return fs
}

func setFlags(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(fl *flag.Flag) {
		set[fl.Name] = true
	})
	return set
}

// update collects the conversion options given on the command line. Flags
// left at their defaults do not override the config file.
func (f *flags) update(fs *flag.FlagSet) (hexpic.Update, error) {
	var u hexpic.Update
	set := setFlags(fs)

	if set["width"] {
		u.Width = hexpic.Ptr(f.width)
	}
	if set["height"] {
		u.Height = hexpic.Ptr(f.height)
	}
	if set["preset"] {
		cs, err := tone.Preset(f.preset)
		if err != nil {
			return u, fmt.Errorf("-preset: %w", err)
		}
		u.Charset = cs
	}
	if set["charset"] {
		u.Charset = append(tone.Charset{}, []rune(f.charset)...)
	}
	if set["invert"] {
		u.Invert = hexpic.Ptr(f.invert)
	}
	if set["contrast"] {
		u.Contrast = hexpic.Ptr(f.contrast)
	}
	if set["brightness"] {
		u.Brightness = hexpic.Ptr(f.brightness)
	}
	if set["preserve-aspect"] {
		u.PreserveAspectRatio = hexpic.Ptr(f.preserve)
	}
	if set["background"] {
		c, err := hexpic.ParseColor(f.background)
		if err != nil {
			return u, fmt.Errorf("-background: %w", err)
		}
		u.Background = &c
	}
	if set["cell-aspect"] {
		u.CellAspect = hexpic.Ptr(f.cellAspect)
	}
	return u, nil
}
