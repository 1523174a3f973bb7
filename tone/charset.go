package tone

import (
	"fmt"
	"sort"
)

// A Charset is an ordered run of glyphs, darkest-assigned first.
type Charset []rune

var (
	// Standard is the default 70-glyph ramp.
	Standard = Charset("$@B%8&WM#*oahkbdpqwmZO0QLCJUYXzcvunxrjft/\\|()1{}[]?-_+~<>i!lI;:,\"^`'. ")

	// Simple is a short ramp that reads well at small sizes.
	Simple = Charset("@%#*+=-:. ")

	// Terminal suits light text on a dark terminal: a blank cell is the
	// darkest tone.
	Terminal = Charset(" .,:;i1tfLCG08@")

	// Blocks uses shade characters instead of letters.
	Blocks = Charset("█▓▒░ ")
)

var presets = map[string]Charset{
	"standard": Standard,
	"simple":   Simple,
	"terminal": Terminal,
	"blocks":   Blocks,
}

// Preset returns a copy of the named ramp.
func Preset(name string) (Charset, error) {
	cs, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown charset preset %q", name)
	}
	return append(Charset(nil), cs...), nil
}

// PresetNames lists the names Preset accepts, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c Charset) String() string {
	return string(c)
}

// MarshalText encodes the charset as its glyphs.
func (c Charset) MarshalText() ([]byte, error) {
	return []byte(string(c)), nil
}

// UnmarshalText reads glyphs verbatim. An empty text yields an empty, non-nil
// charset so that it overrides rather than being treated as unset.
func (c *Charset) UnmarshalText(text []byte) error {
	cs := make(Charset, 0, len(text))
	for _, r := range string(text) {
		cs = append(cs, r)
	}
	*c = cs
	return nil
}
