package playback

import (
	"sync/atomic"
	"time"
)

// State is shared between the Player, Pacer and Controller for one run.
// The Player writes the frame index and interval. Paused and quit are only
// written through Controller methods.
type State struct {
	frame    atomic.Int64
	paused   atomic.Bool
	quit     atomic.Bool
	interval atomic.Int64
}

func NewState() *State {
	s := &State{}
	s.frame.Store(-1)
	return s
}

// Frame returns the index of the last displayed frame, -1 before the first.
func (s *State) Frame() int {
	return int(s.frame.Load())
}

func (s *State) SetFrame(i int) {
	s.frame.Store(int64(i))
}

func (s *State) Paused() bool {
	return s.paused.Load()
}

func (s *State) SetPaused(b bool) {
	s.paused.Store(b)
}

// TogglePause flips the paused flag and returns the new value.
func (s *State) TogglePause() bool {
	for {
		old := s.paused.Load()
		if s.paused.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

func (s *State) QuitRequested() bool {
	return s.quit.Load()
}

func (s *State) RequestQuit() {
	s.quit.Store(true)
}

// Interval reports the frame interval of the current run for status
// displays. The Pacer keeps its own copy; writing here does not retime it.
func (s *State) Interval() time.Duration {
	return time.Duration(s.interval.Load())
}

func (s *State) SetInterval(d time.Duration) {
	s.interval.Store(int64(d))
}
