package hexpic

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dialup-inc/hexpic/acquire"
	"github.com/dialup-inc/hexpic/tone"
)

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFromImageWhite(t *testing.T) {
	c := New(Update{Width: Ptr(12), Height: Ptr(5), PreserveAspectRatio: Ptr(false)})

	res, err := c.FromImage(solid(300, 200, color.White))
	require.NoError(t, err)
	assert.Equal(t, 12, res.Width)
	assert.Equal(t, 5, res.Height)
	assert.Equal(t, strings.Repeat(strings.Repeat(" ", 12)+"\n", 5), res.Text)
}

func TestFromImageAspect(t *testing.T) {
	c := New(Update{Width: Ptr(40)})

	res, err := c.FromImage(solid(200, 100, color.Black))
	require.NoError(t, err)
	assert.Equal(t, 40, res.Width)
	assert.Equal(t, 20, res.Height)
	assert.Len(t, res.Lines(), 20)
}

func TestFromImageBackground(t *testing.T) {
	transparent := solid(8, 8, color.NRGBA{255, 0, 0, 0})

	c := New(Update{Width: Ptr(8), Height: Ptr(8)})
	res, err := c.FromImage(transparent)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("$$$$$$$$\n", 8), res.Text)

	c.SetOptions(Update{Background: &Color{255, 255, 255, 255}})
	res, err = c.FromImage(transparent)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("        \n", 8), res.Text)
}

func TestFromImageHalfTransparent(t *testing.T) {
	// white at half alpha over black lands on mid gray
	c := New(Update{Width: Ptr(1), Height: Ptr(1), Charset: tone.Charset("0123456789")})
	res, err := c.FromImage(solid(4, 4, color.NRGBA{255, 255, 255, 128}))
	require.NoError(t, err)

	// 128/255 -> 0.3556 after gamma -> index 3
	assert.Equal(t, "3\n", res.Text)
}

func TestFromImageReusesSurface(t *testing.T) {
	c := New(Update{Width: Ptr(10), Height: Ptr(10)})

	_, err := c.FromImage(solid(10, 10, color.White))
	require.NoError(t, err)
	first := c.surface

	_, err = c.FromImage(solid(20, 20, color.Black))
	require.NoError(t, err)
	assert.Same(t, first, c.surface)

	c.SetOptions(Update{Width: Ptr(5)})
	_, err = c.FromImage(solid(20, 20, color.Black))
	require.NoError(t, err)
	assert.NotSame(t, first, c.surface)
}

func TestFromImageErrors(t *testing.T) {
	c := New(Update{Charset: tone.Charset{}})
	_, err := c.FromImage(solid(4, 4, color.White))
	assert.ErrorIs(t, err, ErrEmptyCharset)

	c = New(Update{})
	_, err = c.FromImage(image.NewNRGBA(image.Rect(0, 0, 0, 0)))
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestSetOptions(t *testing.T) {
	c := New(Update{Width: Ptr(30)})
	c.SetOptions(Update{Height: Ptr(10)})

	opts := c.Options()
	assert.Equal(t, 30, opts.Width)
	assert.Equal(t, 10, opts.Height)
	assert.Equal(t, tone.Standard, opts.Charset)
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "white.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, solid(20, 10, color.White)), 0o644))

	c := New(Update{Width: Ptr(10), Height: Ptr(10)})
	res, err := c.FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 10, res.Width)
	assert.Equal(t, 5, res.Height)

	_, err = c.FromFile(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestFromReaderUnknownFormat(t *testing.T) {
	c := New(Update{})
	_, err := c.FromReader(strings.NewReader("definitely not an image"))
	assert.ErrorIs(t, err, acquire.ErrUnknownFormat)
}

func TestFromURL(t *testing.T) {
	data := encodePNG(t, solid(2, 2, color.White))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	defer srv.Close()

	c := New(Update{Width: Ptr(20), Height: Ptr(10)})
	res, err := c.FromURL(context.Background(), srv.URL+"/img.png")
	require.NoError(t, err)
	assert.Equal(t, 10, res.Width)
	assert.Equal(t, 10, res.Height)
	assert.Regexp(t, `^[ \n]+$`, res.Text)
}

func TestFromDataURL(t *testing.T) {
	data := encodePNG(t, solid(10, 10, color.Black))
	u := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)

	c := New(Update{Width: Ptr(10), Height: Ptr(5), Charset: tone.Charset("@# ")})
	res, err := c.FromURL(context.Background(), u)
	require.NoError(t, err)
	assert.Regexp(t, `^[@# \n]+$`, res.Text)
	assert.Equal(t, 5, res.Width)
}

func TestFromURLRejectsScripts(t *testing.T) {
	c := New(Update{})
	_, err := c.FromURL(context.Background(), `javascript:alert("xss")`)
	assert.ErrorIs(t, err, acquire.ErrUnsupportedScheme)
}
