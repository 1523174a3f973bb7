package ui

import (
	"github.com/dialup-inc/hexpic/term"
	"github.com/dialup-inc/hexpic/tone"
)

const (
	contrastStep   = 0.1
	brightnessStep = 0.05
	maxBrightness  = 1
)

func StateReducer(s State, event Event) State {
	s = toneReducer(s, event)
	s.Help = helpReducer(s.Help, event)
	s.Quit = quitReducer(s.Quit, event)
	s.WinSize = winSizeReducer(s.WinSize, event)

	return s
}

func toneReducer(s State, event Event) State {
	e, ok := event.(KeypressEvent)
	if !ok {
		return s
	}

	switch rune(e) {
	case 'i':
		s.Invert = !s.Invert
	case '+', '=':
		s.Contrast += contrastStep
	case '-', '_':
		s.Contrast -= contrastStep
		if s.Contrast < 0 {
			s.Contrast = 0
		}
	case ']':
		s.Brightness += brightnessStep
		if s.Brightness > maxBrightness {
			s.Brightness = maxBrightness
		}
	case '[':
		s.Brightness -= brightnessStep
		if s.Brightness < -maxBrightness {
			s.Brightness = -maxBrightness
		}
	case 'c':
		s.Preset = (s.Preset + 1) % len(tone.PresetNames())
	case '0':
		s.Contrast = 1
		s.Brightness = 0
	}
	return s
}

func helpReducer(s bool, event Event) bool {
	switch e := event.(type) {
	case KeypressEvent:
		switch rune(e) {
		case '?', 'h':
			return !s
		case 27: // esc
			return false
		}
	}
	return s
}

func quitReducer(s bool, event Event) bool {
	switch e := event.(type) {
	case KeypressEvent:
		switch rune(e) {
		case 'q', 3: // ctrl-c
			return true
		}
	}
	return s
}

func winSizeReducer(s term.WinSize, event Event) term.WinSize {
	switch e := event.(type) {
	case ResizeEvent:
		return term.WinSize(e)
	default:
		return s
	}
}
