package ui

import (
	"fmt"
	"strings"
)

// StatusRows is how many rows View keeps below the picture.
const StatusRows = 1

var helpLines = []string{
	"i      invert",
	"+ -    contrast",
	"[ ]    brightness",
	"0      reset contrast and brightness",
	"c      next charset",
	"? h    toggle this help",
	"q      quit",
}

// View lays out one screen: the picture, or the help when it is open,
// followed by the status line.
func View(s State, art string) string {
	var b strings.Builder
	if s.Help {
		for _, l := range helpLines {
			b.WriteString(l)
			b.WriteByte('\n')
		}
	} else {
		b.WriteString(art)
	}
	b.WriteString(statusLine(s))
	return b.String()
}

func statusLine(s State) string {
	charset := s.PresetName()
	if charset == "" {
		charset = "initial"
	}
	invert := "off"
	if s.Invert {
		invert = "on"
	}

	line := fmt.Sprintf("contrast %.1f  brightness %+.2f  charset %s  invert %s  ? help  q quit",
		s.Contrast, s.Brightness, charset, invert)
	if s.WinSize.Cols > 0 && len(line) > s.WinSize.Cols {
		line = line[:s.WinSize.Cols]
	}
	return line
}
