// Package acquire loads images and rasterizes them onto a fixed-size
// surface.
package acquire

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	// decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrUnknownFormat is returned for data that no registered decoder accepts.
	ErrUnknownFormat = errors.New("unknown image format")
	// ErrMalformed is returned when a decoder recognized the format but
	// failed on the data, typically a truncated file.
	ErrMalformed = errors.New("malformed image")
)

// Decode reads one image from r and reports its format name.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(bufio.NewReader(r))
	if errors.Is(err, image.ErrFormat) {
		return nil, "", ErrUnknownFormat
	}
	if err != nil {
		return nil, "", fmt.Errorf("decode: %w: %w", ErrMalformed, err)
	}
	return img, format, nil
}

// Open decodes the image stored at path.
func Open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}
