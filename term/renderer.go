package term

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/muesli/termenv"
)

// A DrawFunc renders one frame for the current window size.
type DrawFunc func(ws WinSize) (string, error)

// Renderer keeps a picture on the alternate screen, redrawing it when the
// window is resized or a frame is requested.
type Renderer struct {
	// WinSize reports the window size. It defaults to GetWinSize.
	WinSize func() (WinSize, error)

	// Interval is how often WinSize is polled.
	Interval time.Duration

	requestFrame chan struct{}

	w    io.Writer
	draw DrawFunc
}

func NewRenderer(w io.Writer, draw DrawFunc) *Renderer {
	return &Renderer{
		WinSize:      GetWinSize,
		Interval:     500 * time.Millisecond,
		requestFrame: make(chan struct{}, 1),
		w:            w,
		draw:         draw,
	}
}

// RequestFrame schedules a redraw. It never blocks.
func (r *Renderer) RequestFrame() {
	select {
	case r.requestFrame <- struct{}{}:
	default:
	}
}

// Run draws until ctx is done or a frame fails, then restores the screen.
func (r *Renderer) Run(ctx context.Context) error {
	out := termenv.NewOutput(r.w)
	out.AltScreen()
	out.HideCursor()
	defer func() {
		out.ShowCursor()
		out.ExitAltScreen()
	}()

	ws, err := r.WinSize()
	if err != nil {
		return err
	}
	if err := r.frame(ws); err != nil {
		return err
	}

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			cur, err := r.WinSize()
			if err != nil || cur == ws {
				continue
			}
			ws = cur
		case <-r.requestFrame:
		}

		if err := r.frame(ws); err != nil {
			return err
		}
	}
}

func (r *Renderer) frame(ws WinSize) error {
	text, err := r.draw(ws)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	out := termenv.NewOutput(&buf)
	out.ClearScreen()
	out.MoveCursor(1, 1)
	io.WriteString(out, text)

	_, err = io.Copy(r.w, &buf)
	return err
}
