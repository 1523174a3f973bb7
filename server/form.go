package server

import (
	"strconv"

	"github.com/dialup-inc/hexpic"
	"github.com/dialup-inc/hexpic/tone"
)

// formUpdate reads conversion options from multipart form fields. The field
// names match the JSON option names; "preset" picks a named charset and
// loses to an explicit "charset".
func formUpdate(v map[string][]string) (hexpic.Update, error) {
	var u hexpic.Update

	get := func(key string) (string, bool) {
		vals := v[key]
		if len(vals) == 0 {
			return "", false
		}
		return vals[0], true
	}

	ints := map[string]**int{
		"width":  &u.Width,
		"height": &u.Height,
	}
	for key, dst := range ints {
		s, ok := get(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return u, badRequest("%s: %v", key, err)
		}
		*dst = &n
	}

	floats := map[string]**float64{
		"contrast":   &u.Contrast,
		"brightness": &u.Brightness,
		"cellAspect": &u.CellAspect,
	}
	for key, dst := range floats {
		s, ok := get(key)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return u, badRequest("%s: %v", key, err)
		}
		*dst = &f
	}

	bools := map[string]**bool{
		"invert":              &u.Invert,
		"preserveAspectRatio": &u.PreserveAspectRatio,
	}
	for key, dst := range bools {
		s, ok := get(key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return u, badRequest("%s: %v", key, err)
		}
		*dst = &b
	}

	if s, ok := get("preset"); ok {
		cs, err := tone.Preset(s)
		if err != nil {
			return u, badRequest("preset: %v", err)
		}
		u.Charset = cs
	}
	if s, ok := get("charset"); ok {
		// an empty field is an explicit empty charset, not an absent one
		u.Charset = append(tone.Charset{}, []rune(s)...)
	}

	if s, ok := get("backgroundColor"); ok {
		c, err := hexpic.ParseColor(s)
		if err != nil {
			return u, badRequest("backgroundColor: %v", err)
		}
		u.Background = &c
	}

	return u, nil
}
