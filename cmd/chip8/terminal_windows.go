//go:build windows

package main

import (
	"os"
	"sync"

	"golang.org/x/term"
)

// Terminal reads raw keystrokes from stdin.
type Terminal struct {
	Keys chan byte // Keystrokes, closed when input ends.

	stopCh       chan struct{}
	done         chan struct{}
	stopped      sync.Once
	fd           int
	oldTermState *term.State
}

// NewTerminal creates a terminal reader on stdin.
func NewTerminal() *Terminal {
	return &Terminal{
		Keys:   make(chan byte, 16),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start puts stdin in raw mode and begins reading in a goroutine.
// Call Stop() to restore stdin.
func (h *Terminal) Start() (err error) {
	h.fd = int(os.Stdin.Fd())

	h.oldTermState, err = term.MakeRaw(h.fd)
	if err != nil {
		close(h.done)
		return
	}

	go h.pump()

	return
}

// pump forwards keystrokes to Keys until stopped, or until stdin
// reaches end of file or fails.
func (h *Terminal) pump() {
	defer close(h.done)
	defer close(h.Keys)

	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil || n == 0 {
			return
		}

		select {
		case h.Keys <- buf[0]:
		case <-h.stopCh:
			return
		}
	}
}

// Stop terminates the reading goroutine and restores stdin.
func (h *Terminal) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	<-h.done
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}

// Size returns the terminal dimensions in characters.
func (h *Terminal) Size() (width, height int, err error) {
	return term.GetSize(int(os.Stdout.Fd()))
}
