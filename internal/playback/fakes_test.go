package playback

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/san-kum/posereplay/internal/mocap"
	"github.com/san-kum/posereplay/internal/robot"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.Advance(d)
	return nil
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// fakeGate pauses on demand; WaitForResume models a pause lasting hold.
type fakeGate struct {
	clock   *fakeClock
	paused  bool
	quit    bool
	hold    time.Duration
	resumes int
}

func (g *fakeGate) IsPaused() bool      { return g.paused }
func (g *fakeGate) QuitRequested() bool { return g.quit }

func (g *fakeGate) WaitForResume(ctx context.Context) error {
	g.clock.Advance(g.hold)
	g.paused = false
	g.resumes++
	return nil
}

// scriptedSource replays keys, then reports EOF or idles until canceled.
type scriptedSource struct {
	mu     sync.Mutex
	keys   []rune
	err    error
	idle   bool
	closed int
}

func (s *scriptedSource) Poll(ctx context.Context, timeout time.Duration) (rune, bool, error) {
	s.mu.Lock()
	if len(s.keys) > 0 {
		r := s.keys[0]
		s.keys = s.keys[1:]
		s.mu.Unlock()
		return r, true, nil
	}
	idle, err := s.idle, s.err
	s.mu.Unlock()

	if !idle {
		if err == nil {
			err = io.EOF
		}
		return 0, false, err
	}

	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-t.C:
		return 0, false, nil
	case <-ctx.Done():
		return 0, false, ctx.Err()
	}
}

func (s *scriptedSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

func (s *scriptedSource) Closed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// stepSource presses space whenever the player is waiting for a step.
type stepSource struct {
	state   *State
	mu      sync.Mutex
	presses int
	closed  int
}

func (s *stepSource) Poll(ctx context.Context, timeout time.Duration) (rune, bool, error) {
	if s.state.Paused() {
		s.mu.Lock()
		s.presses++
		s.mu.Unlock()
		return ' ', true, nil
	}
	t := time.NewTimer(time.Millisecond)
	defer t.Stop()
	select {
	case <-t.C:
		return 0, false, nil
	case <-ctx.Done():
		return 0, false, ctx.Err()
	}
}

func (s *stepSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

type recordingRenderer struct {
	initialized int
	scenes      []*robot.Model
	shown       []mocap.Configuration
	onDisplay   func(n int)
	failAt      int
	initErr     error
}

func (r *recordingRenderer) Initialize(ctx context.Context) error {
	r.initialized++
	return r.initErr
}

func (r *recordingRenderer) LoadScene(m *robot.Model) error {
	r.scenes = append(r.scenes, m)
	return nil
}

func (r *recordingRenderer) Display(q mocap.Configuration) error {
	if r.failAt > 0 && len(r.shown)+1 == r.failAt {
		return io.ErrClosedPipe
	}
	r.shown = append(r.shown, q)
	if r.onDisplay != nil {
		r.onDisplay(len(r.shown))
	}
	return nil
}

// indices reads back the frame index encoded in each frame's first joint.
func (r *recordingRenderer) indices() []int {
	out := make([]int, len(r.shown))
	for i, q := range r.shown {
		out[i] = int(q.Joints()[0])
	}
	return out
}
