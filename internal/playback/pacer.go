package playback

import (
	"context"
	"fmt"
	"iter"
	"math"
	"time"

	"github.com/san-kum/posereplay/internal/mocap"
)

// Gate is what the Pacer consults between frames.
type Gate interface {
	IsPaused() bool
	QuitRequested() bool
	WaitForResume(ctx context.Context) error
}

// Pacer schedules frame indices at a fixed rate. A Pacer is reusable:
// every call to Frames starts a fresh schedule, warm-up included.
type Pacer struct {
	interval time.Duration
	warmup   time.Duration
	gate     Gate
	clock    Clock
	// slice bounds a single sleep so quit and pause are noticed promptly.
	slice time.Duration
}

// Frame rates outside [MinFPS, MaxFPS] have no representable interval.
const (
	MinFPS = 1e-3
	MaxFPS = 1e6
)

// ValidateFPS reports a ConfigError for rates the Pacer cannot schedule.
func ValidateFPS(fps float64) error {
	if math.IsNaN(fps) || math.IsInf(fps, 0) || fps <= 0 {
		return &mocap.ConfigError{Field: "fps", Value: fps, Reason: "must be a positive finite number"}
	}
	if fps < MinFPS || fps > MaxFPS {
		return &mocap.ConfigError{Field: "fps", Value: fps, Reason: fmt.Sprintf("must be between %g and %g", MinFPS, MaxFPS)}
	}
	return nil
}

func NewPacer(fps float64, warmup time.Duration, gate Gate) (*Pacer, error) {
	if err := ValidateFPS(fps); err != nil {
		return nil, err
	}
	if warmup < 0 {
		return nil, &mocap.ConfigError{Field: "warm-up", Value: warmup, Reason: "must not be negative"}
	}
	return &Pacer{
		interval: time.Duration(float64(time.Second) / fps),
		warmup:   warmup,
		gate:     gate,
		clock:    realClock{},
		slice:    PollInterval,
	}, nil
}

func (p *Pacer) Interval() time.Duration { return p.interval }

// Frames yields (index, due) for indices 0..n-1. The first index is due
// after the warm-up, each following one an interval later. Time spent
// paused is not counted: after a resume the next frame is due at once.
// The sequence ends early on quit or context cancellation.
func (p *Pacer) Frames(ctx context.Context, n int) iter.Seq2[int, time.Time] {
	return func(yield func(int, time.Time) bool) {
		due := p.clock.Now().Add(p.warmup)
		for i := 0; i < n; i++ {
			var ok bool
			due, ok = p.waitUntil(ctx, due)
			if !ok || !yield(i, due) {
				return
			}

			// A slow renderer delays the schedule rather than causing a burst.
			due = due.Add(p.interval)
			if now := p.clock.Now(); due.Before(now) {
				due = now
			}
		}
	}
}

func (p *Pacer) waitUntil(ctx context.Context, due time.Time) (time.Time, bool) {
	for {
		if ctx.Err() != nil || p.gate.QuitRequested() {
			return due, false
		}

		if p.gate.IsPaused() {
			if err := p.gate.WaitForResume(ctx); err != nil {
				return due, false
			}
			due = p.clock.Now()
			continue
		}

		d := due.Sub(p.clock.Now())
		if d <= 0 {
			return due, true
		}
		if d > p.slice {
			d = p.slice
		}
		if err := p.clock.Sleep(ctx, d); err != nil {
			return due, false
		}
	}
}
