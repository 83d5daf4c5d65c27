package playback

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/san-kum/posereplay/internal/mocap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tick struct {
	i   int
	due time.Time
}

func collect(p *Pacer, ctx context.Context, n int, each func(i int)) []tick {
	var out []tick
	for i, due := range p.Frames(ctx, n) {
		out = append(out, tick{i, due})
		if each != nil {
			each(i)
		}
	}
	return out
}

func newTestPacer(t *testing.T, fps float64, warmup time.Duration, gate *fakeGate) *Pacer {
	t.Helper()
	p, err := NewPacer(fps, warmup, gate)
	require.NoError(t, err)
	p.clock = gate.clock
	return p
}

func TestNewPacerRejectsBadConfig(t *testing.T) {
	gate := &fakeGate{clock: newFakeClock()}
	tests := []struct {
		name   string
		fps    float64
		warmup time.Duration
	}{
		{"zero fps", 0, 0},
		{"negative fps", -30, 0},
		{"nan fps", math.NaN(), 0},
		{"inf fps", math.Inf(1), 0},
		{"fps too small for an interval", 1e-12, 0},
		{"fps below minimum", MinFPS / 2, 0},
		{"fps above maximum", MaxFPS * 2, 0},
		{"negative warmup", 30, -time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPacer(tt.fps, tt.warmup, gate)
			assert.ErrorIs(t, err, mocap.ErrConfig)
		})
	}
}

func TestNewPacerFPSBounds(t *testing.T) {
	gate := &fakeGate{clock: newFakeClock()}

	slow, err := NewPacer(MinFPS, 0, gate)
	require.NoError(t, err)
	assert.Positive(t, slow.Interval())
	assert.Equal(t, 1000*time.Second, slow.Interval())

	fast, err := NewPacer(MaxFPS, 0, gate)
	require.NoError(t, err)
	assert.Equal(t, time.Microsecond, fast.Interval())
}

func TestPacerSchedule(t *testing.T) {
	clock := newFakeClock()
	gate := &fakeGate{clock: clock}
	p := newTestPacer(t, 10, 5*time.Second, gate)
	start := clock.Now()

	ticks := collect(p, context.Background(), 5, nil)

	require.Len(t, ticks, 5)
	for i, tk := range ticks {
		assert.Equal(t, i, tk.i)
		want := start.Add(5*time.Second + time.Duration(i)*100*time.Millisecond)
		assert.Equal(t, want, tk.due, "frame %d", i)
	}
	assert.Equal(t, 5*time.Second+400*time.Millisecond, clock.Now().Sub(start))
}

func TestPacerIsRestartable(t *testing.T) {
	clock := newFakeClock()
	p := newTestPacer(t, 50, time.Second, &fakeGate{clock: clock})

	first := collect(p, context.Background(), 3, nil)
	mark := clock.Now()
	second := collect(p, context.Background(), 3, nil)

	require.Len(t, first, 3)
	require.Len(t, second, 3)
	assert.Equal(t, mark.Add(time.Second), second[0].due, "warm-up applies to every run")
}

func TestPacerEmpty(t *testing.T) {
	p := newTestPacer(t, 50, time.Second, &fakeGate{clock: newFakeClock()})
	assert.Empty(t, collect(p, context.Background(), 0, nil))
}

func TestPacerConsumerBreak(t *testing.T) {
	p := newTestPacer(t, 50, 0, &fakeGate{clock: newFakeClock()})

	var seen []int
	for i := range p.Frames(context.Background(), 10) {
		seen = append(seen, i)
		if i == 2 {
			break
		}
	}
	assert.Equal(t, []int{0, 1, 2}, seen)
}

func TestPacerStopsOnQuit(t *testing.T) {
	gate := &fakeGate{clock: newFakeClock()}
	p := newTestPacer(t, 50, 0, gate)

	ticks := collect(p, context.Background(), 10, func(i int) {
		if i == 1 {
			gate.quit = true
		}
	})
	assert.Len(t, ticks, 2)
}

func TestPacerPauseDoesNotConsumeFrames(t *testing.T) {
	clock := newFakeClock()
	gate := &fakeGate{clock: clock, hold: 3 * time.Second}
	p := newTestPacer(t, 10, 0, gate)
	start := clock.Now()

	ticks := collect(p, context.Background(), 5, func(i int) {
		if i == 1 {
			gate.paused = true
		}
	})

	require.Len(t, ticks, 5)
	for i, tk := range ticks {
		assert.Equal(t, i, tk.i)
	}
	assert.Equal(t, 1, gate.resumes)
	assert.Equal(t, start.Add(3100*time.Millisecond), ticks[2].due, "schedule restarts at resume")
	assert.Equal(t, start.Add(3200*time.Millisecond), ticks[3].due)
}

func TestPacerStopsOnCancel(t *testing.T) {
	p := newTestPacer(t, 10, time.Hour, &fakeGate{clock: newFakeClock()})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Empty(t, collect(p, ctx, 5, nil))
}

func TestPacerSlowConsumerDoesNotBurst(t *testing.T) {
	clock := newFakeClock()
	p := newTestPacer(t, 10, 0, &fakeGate{clock: clock})
	start := clock.Now()

	ticks := collect(p, context.Background(), 3, func(i int) {
		if i == 0 {
			clock.Advance(time.Second)
		}
	})

	require.Len(t, ticks, 3)
	assert.Equal(t, start.Add(time.Second), ticks[1].due)
	assert.Equal(t, start.Add(1100*time.Millisecond), ticks[2].due)
}

func TestPacerRealTime(t *testing.T) {
	state := NewState()
	p, err := NewPacer(10, 0, NewController(state, nil))
	require.NoError(t, err)

	start := time.Now()
	ticks := collect(p, context.Background(), 5, nil)

	assert.Len(t, ticks, 5)
	assert.GreaterOrEqual(t, time.Since(start), 400*time.Millisecond)
}
