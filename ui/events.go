package ui

import "github.com/dialup-inc/hexpic/term"

// An Event represents a user action that changes the watch screen.
//
// Events are folded into a State by StateReducer.
type Event interface{}

// KeypressEvent is fired when the user presses a key.
type KeypressEvent rune

// ResizeEvent indicates that the terminal window's size has changed to the specified dimensions
type ResizeEvent term.WinSize
