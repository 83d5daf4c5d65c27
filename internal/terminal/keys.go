package terminal

import (
	"context"
	"io"
	"sync"
	"time"
)

// Keys is an in-memory key source fed by Send. Renderers that own the
// terminal forward their key events through it.
type Keys struct {
	ch     chan rune
	closed chan struct{}
	once   sync.Once
}

func NewKeys(buffer int) *Keys {
	return &Keys{ch: make(chan rune, buffer), closed: make(chan struct{})}
}

// Send queues r without blocking. It reports false when the buffer is full
// or the source is closed.
func (k *Keys) Send(r rune) bool {
	select {
	case <-k.closed:
		return false
	default:
	}
	select {
	case k.ch <- r:
		return true
	default:
		return false
	}
}

func (k *Keys) Poll(ctx context.Context, timeout time.Duration) (rune, bool, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r := <-k.ch:
		return r, true, nil
	case <-k.closed:
		return 0, false, io.EOF
	case <-timer.C:
		return 0, false, nil
	case <-ctx.Done():
		return 0, false, ctx.Err()
	}
}

func (k *Keys) Close() error {
	k.once.Do(func() { close(k.closed) })
	return nil
}
