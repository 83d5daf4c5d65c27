// Package terminal provides keyboard input sources for interactive playback.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/cancelreader"
	"golang.org/x/term"
)

// ErrNotTerminal is returned when raw input is requested on a non-terminal.
var ErrNotTerminal = errors.New("terminal: input is not a terminal")

// Session holds a terminal in raw, non-canonical mode. The previous
// settings are restored by Close, which is safe to call more than once.
type Session struct {
	fd     int
	prev   *term.State
	reader cancelreader.CancelReader

	keys chan rune
	done chan struct{}

	mu      sync.Mutex
	readErr error

	closeOnce sync.Once
	closeErr  error
}

// Open switches in to raw mode and starts reading keys in the background.
func Open(in *os.File) (*Session, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}

	prev, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}

	reader, err := cancelreader.NewReader(in)
	if err != nil {
		_ = term.Restore(fd, prev)
		return nil, err
	}

	s := &Session{
		fd:     fd,
		prev:   prev,
		reader: reader,
		keys:   make(chan rune, 16),
		done:   make(chan struct{}),
	}
	go s.readLoop()
	return s, nil
}

func (s *Session) readLoop() {
	defer close(s.keys)

	br := bufio.NewReader(s.reader)
	for {
		r, _, err := br.ReadRune()
		if err != nil {
			if !errors.Is(err, cancelreader.ErrCanceled) {
				s.mu.Lock()
				s.readErr = err
				s.mu.Unlock()
			}
			return
		}
		select {
		case s.keys <- r:
		case <-s.done:
			return
		}
	}
}

// Poll waits up to timeout for one key. ok is false when no key arrived.
func (s *Session) Poll(ctx context.Context, timeout time.Duration) (rune, bool, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r, open := <-s.keys:
		if !open {
			return 0, false, s.err()
		}
		return r, true, nil
	case <-timer.C:
		return 0, false, nil
	case <-ctx.Done():
		return 0, false, ctx.Err()
	}
}

func (s *Session) err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return s.readErr
	}
	return io.EOF
}

// Close stops the reader and restores the terminal settings captured by Open.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.reader.Cancel()
		_ = s.reader.Close()
		s.closeErr = term.Restore(s.fd, s.prev)
	})
	return s.closeErr
}
