package term

import (
	"bufio"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

func makeRaw(fd int) (restore func() error, err error) {
	termios, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return nil, err
	}
	saved := *termios

	// This attempts to replicate the behaviour documented for cfmakeraw in
	// the termios(3) manpage, keeping output processing so that newlines
	// still return the carriage.
	termios.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	termios.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	termios.Cflag &^= unix.CSIZE | unix.PARENB
	termios.Cflag |= unix.CS8
	termios.Cc[unix.VMIN] = 1
	termios.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, termios); err != nil {
		return nil, err
	}

	return func() error {
		return unix.IoctlSetTermios(fd, ioctlWriteTermios, &saved)
	}, nil
}

// CaptureStdin switches stdin to raw mode and calls onRune for every key
// from a background goroutine. The returned func puts the terminal back.
func CaptureStdin(onRune func(rune)) (restore func() error, err error) {
	restore, err = makeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return nil, err
	}

	go readRunes(os.Stdin, onRune)

	return restore, nil
}

func readRunes(r io.Reader, onRune func(rune)) {
	reader := bufio.NewReader(r)
	for {
		c, _, err := reader.ReadRune()
		if err != nil {
			return
		}
		onRune(c)
	}
}
