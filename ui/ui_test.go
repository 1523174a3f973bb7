package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dialup-inc/hexpic"
	"github.com/dialup-inc/hexpic/term"
	"github.com/dialup-inc/hexpic/tone"
)

func press(s State, keys string) State {
	for _, k := range keys {
		s = StateReducer(s, KeypressEvent(k))
	}
	return s
}

func TestNewState(t *testing.T) {
	opts := hexpic.DefaultOptions()
	opts.Invert = true
	opts.Contrast = 1.5

	s := NewState(opts)
	assert.True(t, s.Invert)
	assert.Equal(t, 1.5, s.Contrast)
	assert.Equal(t, -1, s.Preset)
	assert.Empty(t, s.PresetName())
}

func TestToneKeys(t *testing.T) {
	s := NewState(hexpic.DefaultOptions())

	s = press(s, "i++")
	assert.True(t, s.Invert)
	assert.InDelta(t, 1.2, s.Contrast, 1e-9)

	s = press(s, "]]]")
	assert.InDelta(t, 0.15, s.Brightness, 1e-9)

	s = press(s, "0i")
	assert.False(t, s.Invert)
	assert.Equal(t, 1.0, s.Contrast)
	assert.Equal(t, 0.0, s.Brightness)

	s = press(s, strings.Repeat("-", 20)+strings.Repeat("[", 40))
	assert.Equal(t, 0.0, s.Contrast)
	assert.Equal(t, -1.0, s.Brightness)

	s = press(s, strings.Repeat("]", 60))
	assert.Equal(t, 1.0, s.Brightness)
}

func TestBrightnessStepKeepsMidtones(t *testing.T) {
	base := hexpic.DefaultOptions()

	for _, key := range "[]" {
		s := press(NewState(base), string(key))
		opts := base.Merge(s.Update())
		settings := tone.Settings{
			Contrast:   opts.Contrast,
			Brightness: opts.Brightness,
			Invert:     opts.Invert,
			Charset:    opts.Charset,
		}

		// one step moves mid gray, but not to either end of the ramp
		g := settings.Map(128, 128, 128)
		assert.NotEqual(t, tone.Standard[0], g, string(key))
		assert.NotEqual(t, tone.Standard[len(tone.Standard)-1], g, string(key))
	}
}

func TestCycleCharset(t *testing.T) {
	names := tone.PresetNames()
	s := NewState(hexpic.DefaultOptions())

	for i := 0; i < len(names); i++ {
		s = press(s, "c")
		assert.Equal(t, names[i], s.PresetName())
	}
	s = press(s, "c")
	assert.Equal(t, names[0], s.PresetName())

	cs, err := tone.Preset(names[0])
	assert.NoError(t, err)
	assert.Equal(t, cs, s.Update().Charset)
}

func TestUpdate(t *testing.T) {
	s := NewState(hexpic.DefaultOptions())
	s = press(s, "i+[")

	u := s.Update()
	assert.Nil(t, u.Charset)

	opts := hexpic.DefaultOptions().Merge(u)
	assert.True(t, opts.Invert)
	assert.InDelta(t, 1.1, opts.Contrast, 1e-9)
	assert.InDelta(t, -0.05, opts.Brightness, 1e-9)
	assert.Equal(t, tone.Standard, opts.Charset)
}

func TestHelpAndQuit(t *testing.T) {
	s := NewState(hexpic.DefaultOptions())

	s = press(s, "?")
	assert.True(t, s.Help)
	s = press(s, "\x1b")
	assert.False(t, s.Help)

	assert.False(t, s.Quit)
	assert.True(t, press(s, "q").Quit)
	assert.True(t, press(s, "\x03").Quit)
}

func TestResize(t *testing.T) {
	ws := term.WinSize{Rows: 30, Cols: 100}
	s := StateReducer(State{}, ResizeEvent(ws))
	assert.Equal(t, ws, s.WinSize)

	// keys leave the size alone
	assert.Equal(t, ws, press(s, "ic").WinSize)
}

func TestView(t *testing.T) {
	s := NewState(hexpic.DefaultOptions())

	out := View(s, "@@\n@@\n")
	assert.True(t, strings.HasPrefix(out, "@@\n@@\n"))
	assert.Contains(t, out, "contrast 1.0  brightness +0.00  charset initial  invert off")

	s.Help = true
	out = View(s, "@@\n@@\n")
	assert.NotContains(t, out, "@@")
	assert.Contains(t, out, "next charset")

	s.WinSize = term.WinSize{Rows: 5, Cols: 10}
	lines := strings.Split(View(s, ""), "\n")
	assert.Len(t, lines[len(lines)-1], 10)
}
