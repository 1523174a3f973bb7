package config

import (
	"os"
	"path/filepath"
	"testing"
	"testing/quick"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dialup-inc/hexpic"
	"github.com/dialup-inc/hexpic/acquire"
	"github.com/dialup-inc/hexpic/tone"
)

const sample = `
server:
  addr: 127.0.0.1:9000
  max_upload_bytes: 1048576
  fetch_timeout: 3s
log:
  level: debug
  pretty: true
convert:
  filter: bilinear
  workers: 4
  defaults:
    width: 120
    charset: "@%#*+=-:. "
    background_color: white
    cell_aspect: 2
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hexpic.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, 3*time.Second, cfg.Server.FetchTimeout)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel())
	assert.True(t, cfg.Log.Pretty)
	assert.Equal(t, acquire.Bilinear, cfg.Filter())
	assert.Equal(t, 4, cfg.Convert.Workers)

	opts := cfg.Options()
	assert.Equal(t, 120, opts.Width)
	assert.Equal(t, 40, opts.Height)
	assert.Equal(t, tone.Simple, opts.Charset)
	assert.Equal(t, hexpic.Color{R: 255, G: 255, B: 255, A: 255}, opts.Background)
	assert.Equal(t, 2.0, opts.CellAspect)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, int64(DefaultMaxUploadBytes), cfg.Server.MaxUploadBytes)
	assert.Equal(t, DefaultFetchTimeout, cfg.Server.FetchTimeout)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel())
	assert.Equal(t, acquire.Nearest, cfg.Filter())
	assert.Equal(t, hexpic.DefaultOptions(), cfg.Options())
}

func TestParseInvalid(t *testing.T) {
	tests := map[string]string{
		"syntax":  "server: [",
		"level":   "log: {level: loud}",
		"filter":  "convert: {filter: sinc}",
		"workers": "convert: {workers: -1}",
		"width":   "convert: {defaults: {width: 0}}",
		"charset": `convert: {defaults: {charset: ""}}`,
		"color":   "convert: {defaults: {background_color: nope}}",
		"upload":  "server: {max_upload_bytes: -5}",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestParseDefaultsErrorKinds(t *testing.T) {
	_, err := Parse([]byte("convert: {defaults: {height: -3}}"))
	assert.ErrorIs(t, err, hexpic.ErrInvalidDimensions)

	_, err = Parse([]byte(`convert: {defaults: {charset: ""}}`))
	assert.ErrorIs(t, err, hexpic.ErrEmptyCharset)
}

func TestApplyDefaultsIdempotence(t *testing.T) {
	property := func(addr string, upload int64, timeout int64, level string) bool {
		c1 := &Config{
			Server: ServerConfig{Addr: addr, MaxUploadBytes: upload, FetchTimeout: time.Duration(timeout)},
			Log:    LogConfig{Level: level},
		}
		c2 := &Config{
			Server: ServerConfig{Addr: addr, MaxUploadBytes: upload, FetchTimeout: time.Duration(timeout)},
			Log:    LogConfig{Level: level},
		}

		c1.applyDefaults()

		c2.applyDefaults()
		c2.applyDefaults()

		return c1.Server == c2.Server && c1.Log == c2.Log && c1.Convert.Filter == c2.Convert.Filter
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

func TestApplyDefaultsFillsEmpty(t *testing.T) {
	property := func(addr string, level string) bool {
		c := &Config{Server: ServerConfig{Addr: addr}, Log: LogConfig{Level: level}}
		c.applyDefaults()

		return c.Server.Addr != "" &&
			c.Server.MaxUploadBytes != 0 &&
			c.Server.FetchTimeout != 0 &&
			c.Log.Level != "" &&
			c.Convert.Filter != ""
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}
