// Command loadtest keeps a number of websocket conversions running against
// hexpicd and prints live latency and error statistics.
package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog/log"

	"github.com/dialup-inc/hexpic"
)

func main() {
	var (
		wsURL       = flag.String("ws", "ws://localhost:8080/ws", "hexpicd websocket url")
		concurrency = flag.Int64("p", 10, "number of simultaneous tests")
		size        = flag.Int("size", 256, "side of the generated test image in pixels")
		frames      = flag.Int("frames", 5, "conversions per session")
	)
	flag.Parse()

	payload, err := testImage(*size)
	if err != nil {
		log.Fatal().Err(err).Msg("test image")
	}

	ctx := context.Background()

	var resultsMu sync.Mutex
	var results []Result

	var testsActive int64

	run := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()

		// Add some jitter
		delay := rand.Int63n(int64(time.Second))
		time.Sleep(time.Duration(delay))

		res := RunTest(ctx, *wsURL, payload, *frames)

		atomic.AddInt64(&testsActive, -1)

		resultsMu.Lock()
		results = append(results, res)
		resultsMu.Unlock()
	}

	out := termenv.NewOutput(os.Stdout)
	title := func(s string, c termenv.Color) {
		fmt.Fprintln(out, out.String(s).Bold().Foreground(c))
	}
	green := out.Color("#00ff00")
	blue := out.Color("#0000ff")

	summary := func() {
		out.ClearScreen()
		out.MoveCursor(1, 1)

		active := atomic.LoadInt64(&testsActive)

		var durations []float64
		var errs []error

		resultsMu.Lock()
		for _, r := range results {
			durations = append(durations, float64(r.Duration))
			errs = append(errs, r.Err)
		}
		resultsMu.Unlock()

		title("Running Load Test...", green)
		fmt.Println("")

		title("Jobs:", blue)
		fmt.Println("Active    = ", active)
		fmt.Println("Target    = ", *concurrency)
		fmt.Println("Completed = ", len(durations))
		fmt.Println("")

		if len(durations) == 0 {
			return
		}

		title("Duration:", blue)
		fmt.Println("median = ", time.Duration(percentile(durations, 0.5)))
		fmt.Println("95%    = ", time.Duration(percentile(durations, 0.95)))
		fmt.Println("")

		title("Errors:", blue)
		fmt.Printf("rate = %.02f%%\n", errorRate(errs)*100)
		fmt.Println("")

		for _, e := range topErrs(errs) {
			if e.Err == nil {
				continue
			}
			fmt.Printf("%d  | %v\n", e.Count, e.Err)
		}
	}

	for range time.Tick(1 * time.Second) {
		active := atomic.LoadInt64(&testsActive)
		for i := active; i < *concurrency; i++ {
			atomic.AddInt64(&testsActive, 1)
			go run(ctx)
		}

		summary()
	}
}

// testImage renders a gradient so every glyph of the ramp shows up.
func testImage(side int) (string, error) {
	img := image.NewGray(image.Rect(0, 0, side, side))
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x + y) * 255 / (2 * side))})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

type Result struct {
	Duration time.Duration
	Err      error
}

func RunTest(ctx context.Context, wsURL, payload string, frames int) Result {
	start := time.Now()
	err := session(ctx, wsURL, payload, frames)
	duration := time.Since(start)

	return Result{
		Err:      err,
		Duration: duration,
	}
}

type request struct {
	ID      string        `json:"id"`
	Data    string        `json:"data"`
	Options hexpic.Update `json:"options"`
}

type response struct {
	ID     string         `json:"id"`
	Result *hexpic.Result `json:"result"`
	Error  string         `json:"error"`
}

// session opens one websocket and converts the payload frames times,
// changing the width each time like a resizing terminal would.
func session(ctx context.Context, wsURL, payload string, frames int) error {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return err
	}
	defer func() {
		deadline := time.Now().Add(100 * time.Millisecond)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		ws.WriteControl(websocket.CloseMessage, msg, deadline)

		ws.Close()
	}()

	if deadline, ok := ctx.Deadline(); ok {
		ws.SetReadDeadline(deadline)
	}

	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		id := fmt.Sprint(i)
		req := request{
			ID:      id,
			Data:    payload,
			Options: hexpic.Update{Width: hexpic.Ptr(40 + 10*i)},
		}
		if err := ws.WriteJSON(req); err != nil {
			return err
		}

		var resp response
		if err := ws.ReadJSON(&resp); err != nil {
			return err
		}
		switch {
		case resp.Error != "":
			return fmt.Errorf("frame %s: %s", id, resp.Error)
		case resp.ID != id:
			return fmt.Errorf("expected reply %q, got %q", id, resp.ID)
		case resp.Result == nil:
			return fmt.Errorf("frame %s: empty reply", id)
		}
	}
	return nil
}
