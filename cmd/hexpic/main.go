// Command hexpic prints an image as character art.
//
//	hexpic [flags] <file|url|->
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dialup-inc/hexpic"
	"github.com/dialup-inc/hexpic/acquire"
	"github.com/dialup-inc/hexpic/config"
	"github.com/dialup-inc/hexpic/term"
	"github.com/dialup-inc/hexpic/ui"
)

func main() {
	var f flags
	fs := newFlagSet(os.Args[0], &f)
	fs.Parse(os.Args[1:])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, fs, &f); err != nil {
		log.Fatal().Err(err).Msg("hexpic")
	}
}

func run(ctx context.Context, fs *flag.FlagSet, f *flags) error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected exactly one image")
	}
	src := fs.Arg(0)

	cfg := config.Default()
	if f.config != "" {
		var err error
		if cfg, err = config.Load(f.config); err != nil {
			return err
		}
	}

	level := cfg.LogLevel()
	if f.logLevel != "" {
		lvl, err := zerolog.ParseLevel(f.logLevel)
		if err != nil {
			return fmt.Errorf("-log-level: %w", err)
		}
		level = lvl
	}
	zerolog.SetGlobalLevel(level)

	u, err := f.update(fs)
	if err != nil {
		return err
	}

	set := setFlags(fs)

	filter := cfg.Filter()
	if set["filter"] {
		if filter, err = acquire.ParseFilter(f.filter); err != nil {
			return fmt.Errorf("-filter: %w", err)
		}
	}
	workers := cfg.Convert.Workers
	if set["workers"] {
		workers = f.workers
	}

	c := hexpic.New(cfg.Convert.Defaults.Overlay(u))
	c.Filter = filter
	c.Pipeline = &hexpic.Pipeline{Workers: workers}
	c.Fetcher = &acquire.Fetcher{
		Client:   &http.Client{Timeout: cfg.Server.FetchTimeout},
		MaxBytes: cfg.Server.MaxUploadBytes,
	}

	img, err := load(ctx, c.Fetcher, src)
	if err != nil {
		return err
	}
	b := img.Bounds()
	log.Debug().Str("source", src).Int("width", b.Dx()).Int("height", b.Dy()).Msg("loaded image")

	if f.watch {
		return watch(ctx, c, img, src != "-", set["cell-aspect"])
	}

	if f.fit {
		ws, err := term.GetWinSize()
		if err != nil {
			return err
		}
		cols, rows := ws.Canvas(1)
		fit := hexpic.Update{Width: &cols, Height: &rows}
		if !set["cell-aspect"] {
			fit.CellAspect = hexpic.Ptr(term.CellAspect(ws))
		}
		c.SetOptions(fit)
	}

	res, err := c.FromImage(img)
	if err != nil {
		return err
	}
	log.Debug().Int("width", res.Width).Int("height", res.Height).Msg("converted")

	if f.out != "" {
		return os.WriteFile(f.out, []byte(res.Text), 0o644)
	}
	_, err = os.Stdout.WriteString(res.Text)
	return err
}

// load reads src as a URL, a path, or stdin when it is "-".
func load(ctx context.Context, fetcher *acquire.Fetcher, src string) (image.Image, error) {
	lower := strings.ToLower(src)
	switch {
	case src == "-":
		img, _, err := acquire.Decode(os.Stdin)
		return img, err
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"), strings.HasPrefix(lower, "data:"):
		return fetcher.Fetch(ctx, src)
	default:
		return acquire.Open(src)
	}
}

// watch redraws img full-screen on every resize or keypress until ctx is
// done or the user quits.
func watch(ctx context.Context, c *hexpic.Converter, img image.Image, keys, fixedAspect bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var mu sync.Mutex
	state := ui.NewState(c.Options())

	r := term.NewRenderer(os.Stdout, func(ws term.WinSize) (string, error) {
		mu.Lock()
		state = ui.StateReducer(state, ui.ResizeEvent(ws))
		s := state
		mu.Unlock()

		if s.Help {
			return ui.View(s, ""), nil
		}

		cols, rows := ws.Canvas(ui.StatusRows)
		u := s.Update()
		u.Width, u.Height = &cols, &rows
		if !fixedAspect {
			u.CellAspect = hexpic.Ptr(term.CellAspect(ws))
		}
		c.SetOptions(u)

		res, err := c.FromImage(img)
		if err != nil {
			return "", err
		}
		return ui.View(s, res.Text), nil
	})

	if keys {
		restore, err := term.CaptureStdin(func(k rune) {
			mu.Lock()
			state = ui.StateReducer(state, ui.KeypressEvent(k))
			quit := state.Quit
			mu.Unlock()

			if quit {
				cancel()
				return
			}
			r.RequestFrame()
		})
		if err != nil {
			log.Warn().Err(err).Msg("keyboard input unavailable")
		} else {
			defer restore()
		}
	}

	return r.Run(ctx)
}
