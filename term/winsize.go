// Package term sizes output to the controlling terminal and redraws it
// full-screen.
package term

import (
	"os"

	"golang.org/x/sys/unix"
)

// WinSize is the terminal size in cells and, when the terminal reports it,
// in pixels.
type WinSize struct {
	Rows   int
	Cols   int
	Width  int
	Height int
}

// GetWinSize queries the terminal attached to stdout.
func GetWinSize() (WinSize, error) {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return WinSize{}, os.NewSyscallError("GetWinsize", err)
	}
	return WinSize{
		Rows:   int(ws.Row),
		Cols:   int(ws.Col),
		Width:  int(ws.Xpixel),
		Height: int(ws.Ypixel),
	}, nil
}

// CellAspect is the height-to-width ratio of one character cell. Terminals
// that do not report pixel sizes get 2, which fits most fonts.
func CellAspect(w WinSize) float64 {
	if w.Width == 0 || w.Height == 0 || w.Rows == 0 || w.Cols == 0 {
		return 2.0
	}
	return float64(w.Height) * float64(w.Cols) / float64(w.Rows) / float64(w.Width)
}

// Canvas returns the grid available for a picture, keeping reserved rows
// free at the bottom for a prompt.
func (w WinSize) Canvas(reserved int) (cols, rows int) {
	rows = w.Rows - reserved
	if rows < 1 {
		rows = 1
	}
	cols = w.Cols
	if cols < 1 {
		cols = 1
	}
	return cols, rows
}
