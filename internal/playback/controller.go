package playback

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/san-kum/posereplay/internal/logging"
)

// PollInterval bounds how long any wait goes without checking for quit.
const PollInterval = 100 * time.Millisecond

const (
	keySpace = ' '
	keyCtrlC = 0x03
)

// KeySource delivers key presses. Poll returns ok=false when no key
// arrived within timeout. Close releases the source; for a raw terminal
// this restores the previous settings.
type KeySource interface {
	Poll(ctx context.Context, timeout time.Duration) (r rune, ok bool, err error)
	Close() error
}

// Controller maps key presses onto the pause and quit flags of a State.
type Controller struct {
	state *State
	poll  time.Duration
	log   logging.Logger
}

func NewController(state *State, log logging.Logger) *Controller {
	if log == nil {
		log = logging.Discard()
	}
	return &Controller{state: state, poll: PollInterval, log: log}
}

func (c *Controller) IsPaused() bool      { return c.state.Paused() }
func (c *Controller) QuitRequested() bool { return c.state.QuitRequested() }

// HandleKey applies one key press: space toggles pause (and so confirms a
// pending step), q or Ctrl-C requests quit. Other keys are ignored.
func (c *Controller) HandleKey(r rune) {
	switch r {
	case keySpace:
		if c.state.TogglePause() {
			c.log.Infof("paused at frame %d, press space to resume", c.state.Frame()+1)
		}
	case 'q', 'Q':
		c.log.Infof("quit requested")
		c.state.RequestQuit()
	case keyCtrlC:
		c.log.Infof("interrupted")
		c.state.RequestQuit()
	}
}

// Step pauses after a frame so the next one waits for space.
func (c *Controller) Step() {
	c.state.SetPaused(true)
}

// Stop requests quit without a key press, for context cancellation.
func (c *Controller) Stop() {
	c.state.RequestQuit()
}

// WaitForResume blocks while paused. It returns nil once resumed or when
// quit is requested, and ctx.Err() if the context ends first.
func (c *Controller) WaitForResume(ctx context.Context) error {
	t := time.NewTicker(c.poll)
	defer t.Stop()
	for {
		if !c.state.Paused() || c.state.QuitRequested() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

// Listen polls src until ctx ends or quit is requested. Losing the input
// source ends the run, since nothing could resume a paused player.
func (c *Controller) Listen(ctx context.Context, src KeySource) error {
	for !c.state.QuitRequested() {
		r, ok, err := src.Poll(ctx, c.poll)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.state.RequestQuit()
			if errors.Is(err, io.EOF) {
				c.log.Warnf("input closed, stopping playback")
				return nil
			}
			return err
		}
		if ok {
			c.HandleKey(r)
		}
	}
	return nil
}
