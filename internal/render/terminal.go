package render

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/posereplay/internal/mocap"
	"github.com/san-kum/posereplay/internal/pose"
	"github.com/san-kum/posereplay/internal/robot"
	"github.com/san-kum/posereplay/internal/terminal"
	"golang.org/x/sync/errgroup"
)

type TerminalOptions struct {
	// Order is the quaternion layout of displayed configurations.
	Order pose.Order
	// Keys receives playback keys typed into the program. May be nil.
	Keys *terminal.Keys
	// Paused is polled on every redraw for the status panel. May be nil.
	Paused func() bool
	// Interval reports the frame interval shown as the playback rate. May be nil.
	Interval func() time.Duration
	// Interrupt is called on Ctrl-C. May be nil.
	Interrupt func()
	// Total is the number of frames in the motion, shown as progress.
	Total          int
	ProgramOptions []tea.ProgramOption
}

// Terminal draws configurations as a stick figure inside a bubbletea
// program. The program owns stdin while it runs, so keys reach the
// playback controller through Options.Keys.
type Terminal struct {
	opts    TerminalOptions
	ctx     context.Context
	program *tea.Program
	group   *errgroup.Group
	done    chan struct{}
	model   *robot.Model
	shown   atomic.Int64

	closeOnce sync.Once
	closeErr  error
}

func NewTerminal(opts TerminalOptions) *Terminal {
	return &Terminal{opts: opts}
}

func (t *Terminal) Initialize(ctx context.Context) error {
	if t.program != nil {
		return errors.New("render: terminal already initialized")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	t.ctx = ctx
	popts := append([]tea.ProgramOption{tea.WithContext(ctx)}, t.opts.ProgramOptions...)
	t.program = tea.NewProgram(newView(t.opts), popts...)
	t.done = make(chan struct{})
	t.group = new(errgroup.Group)
	t.group.Go(func() error {
		defer close(t.done)
		// The controller sees EOF and stops playback if the program exits first.
		if t.opts.Keys != nil {
			defer t.opts.Keys.Close()
		}
		_, err := t.program.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})
	return nil
}

func (t *Terminal) LoadScene(model *robot.Model) error {
	if t.program == nil {
		return errors.New("render: terminal not initialized")
	}
	if model == nil {
		return robot.ErrInvalidModel
	}
	if t.closed() {
		return t.closedErr()
	}
	t.model = model
	t.program.Send(sceneMsg{model: model})
	return nil
}

// Display computes the skeleton for q and hands it to the program. It
// returns once the program has accepted the frame. Frames arriving after
// the program stopped because ctx was canceled are dropped.
func (t *Terminal) Display(q mocap.Configuration) error {
	if t.model == nil {
		return ErrNoScene
	}
	sk, err := t.model.Forward(q, t.opts.Order)
	if err != nil {
		return err
	}
	if t.closed() {
		return t.closedErr()
	}
	t.program.Send(poseMsg{q: slices.Clone(q), skeleton: sk})
	t.shown.Add(1)
	return nil
}

// Frames returns the number of frames handed to the program.
func (t *Terminal) Frames() int { return int(t.shown.Load()) }

// Close stops the program and waits for it to restore the terminal.
func (t *Terminal) Close() error {
	if t.program == nil {
		return nil
	}
	t.closeOnce.Do(func() {
		t.program.Quit()
		t.closeErr = t.group.Wait()
	})
	return t.closeErr
}

func (t *Terminal) closed() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

func (t *Terminal) closedErr() error {
	if t.ctx.Err() != nil {
		return nil
	}
	return ErrClosed
}
