package ui

import (
	"github.com/dialup-inc/hexpic"
	"github.com/dialup-inc/hexpic/term"
	"github.com/dialup-inc/hexpic/tone"
)

// State is what the watch screen can change while it runs. It starts from
// the command-line options.
type State struct {
	Invert     bool
	Contrast   float64
	Brightness float64

	// Preset indexes tone.PresetNames. -1 keeps the starting charset.
	Preset int

	Help    bool
	Quit    bool
	WinSize term.WinSize
}

// NewState seeds a State from the options the picture was started with.
func NewState(opts hexpic.Options) State {
	return State{
		Invert:     opts.Invert,
		Contrast:   opts.Contrast,
		Brightness: opts.Brightness,
		Preset:     -1,
	}
}

// Update returns the tone settings of s as an options overlay.
func (s State) Update() hexpic.Update {
	u := hexpic.Update{
		Invert:     hexpic.Ptr(s.Invert),
		Contrast:   hexpic.Ptr(s.Contrast),
		Brightness: hexpic.Ptr(s.Brightness),
	}
	if name := s.PresetName(); name != "" {
		u.Charset, _ = tone.Preset(name)
	}
	return u
}

// PresetName is the selected preset, or "" when the starting charset is in
// use.
func (s State) PresetName() string {
	names := tone.PresetNames()
	if s.Preset < 0 || s.Preset >= len(names) {
		return ""
	}
	return names[s.Preset]
}
