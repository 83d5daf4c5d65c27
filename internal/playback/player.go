package playback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/posereplay/internal/logging"
	"github.com/san-kum/posereplay/internal/mocap"
	"github.com/san-kum/posereplay/internal/motion"
	"github.com/san-kum/posereplay/internal/pose"
	"github.com/san-kum/posereplay/internal/robot"
)

// Renderer displays configurations. Display is called once per frame from
// a single goroutine and must not retain q after returning unless it owns it.
type Renderer interface {
	Initialize(ctx context.Context) error
	LoadScene(model *robot.Model) error
	Display(q mocap.Configuration) error
}

type Mode string

const (
	// ModeAuto plays straight through without reading the keyboard.
	ModeAuto Mode = "auto"
	// ModeStep pauses after every frame; space shows the next one.
	ModeStep Mode = "step"
	// ModeInteractive plays continuously; space toggles pause.
	ModeInteractive Mode = "interactive"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeStep, ModeInteractive:
		return m, nil
	}
	return "", &mocap.ConfigError{Field: "mode", Value: s, Reason: "want auto, step or interactive"}
}

const (
	DefaultFPS    = 50.0
	DefaultWarmup = 5 * time.Second
)

type Options struct {
	FPS float64
	// Warmup delays the first frame so the renderer can finish loading the scene.
	Warmup  time.Duration
	Mode    Mode
	Decoder pose.Decoder
	// Input opens the key source for step and interactive modes. The
	// source is closed on every exit path of Run.
	Input  func() (KeySource, error)
	Logger logging.Logger
}

func DefaultOptions() Options {
	return Options{
		FPS:     DefaultFPS,
		Warmup:  DefaultWarmup,
		Mode:    ModeAuto,
		Decoder: pose.NewDecoder(),
	}
}

// Player replays one motion table on one model.
type Player struct {
	model    *robot.Model
	table    *mocap.Table
	renderer Renderer
	opts     Options

	state *State
	ctrl  *Controller
	clock Clock
	log   logging.Logger
}

func New(model *robot.Model, table *mocap.Table, renderer Renderer, opts Options) *Player {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	if opts.Mode == "" {
		opts.Mode = ModeAuto
	}
	state := NewState()
	return &Player{
		model:    model,
		table:    table,
		renderer: renderer,
		opts:     opts,
		state:    state,
		ctrl:     NewController(state, log),
		clock:    realClock{},
		log:      log,
	}
}

// Open loads the model and then the motion table. Nothing is rendered, so a
// missing file is reported before any display happens.
func Open(modelPath, motionPath string, mo robot.Options, ro motion.Options) (*robot.Model, *mocap.Table, error) {
	model, err := robot.Load(modelPath, mo)
	if err != nil {
		return nil, nil, fmt.Errorf("load model: %w", err)
	}
	table, err := motion.ReadFile(motionPath, ro)
	if err != nil {
		return nil, nil, fmt.Errorf("load motion: %w", err)
	}
	return model, table, nil
}

func (p *Player) State() *State { return p.state }

// Controller exposes key handling for renderers that receive keys themselves.
func (p *Player) Controller() *Controller { return p.ctrl }

// Validate checks that the table can be played on the model.
func (p *Player) Validate() error {
	if p.model == nil {
		return errors.New("playback: no model loaded")
	}
	// Frames always lead with a base pose; without a free-flyer those values
	// would land in joint slots.
	if !p.model.FloatingBase {
		return &mocap.ConfigError{Field: "model", Value: p.model.Name, Reason: "must have a floating base to play motion frames"}
	}
	if err := p.table.Validate(); err != nil {
		return err
	}
	if w, dof := p.table.Width(), p.model.DOF(); w+1 != dof {
		return &mocap.DimensionError{
			Expected: dof - 1,
			Actual:   w,
			Row:      -1,
			Msg:      fmt.Sprintf("motion columns do not match model %q (%d DOF)", p.model.Name, dof),
		}
	}
	return nil
}

// Run plays the table once. It returns nil on completion, on a user quit
// and when ctx is canceled; errors are reserved for invalid inputs and
// renderer failures.
func (p *Player) Run(ctx context.Context) (err error) {
	if err := p.Validate(); err != nil {
		return err
	}
	switch p.opts.Mode {
	case ModeAuto:
	case ModeStep, ModeInteractive:
		if p.opts.Input == nil {
			return &mocap.ConfigError{Field: "mode", Value: p.opts.Mode, Reason: "requires a keyboard input"}
		}
	default:
		return &mocap.ConfigError{Field: "mode", Value: p.opts.Mode, Reason: "unknown mode"}
	}

	pacer, err := NewPacer(p.opts.FPS, p.opts.Warmup, p.ctrl)
	if err != nil {
		return err
	}
	pacer.clock = p.clock
	p.state.SetInterval(pacer.Interval())

	log := p.log.WithField("run", uuid.NewString()[:8])

	if err := p.renderer.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize renderer: %w", err)
	}
	if err := p.renderer.LoadScene(p.model); err != nil {
		return fmt.Errorf("load scene: %w", err)
	}

	if p.opts.Mode != ModeAuto {
		stop, lerr := p.listen(ctx)
		if lerr != nil {
			return lerr
		}
		defer func() {
			if serr := stop(); serr != nil && err == nil {
				err = serr
			}
		}()
	}

	for _, v := range p.model.CheckLimits(p.table.Frames) {
		log.Warnf("joint %s leaves its limits [%.3f, %.3f] in %d frames, first at frame %d (worst %.3f)",
			v.Joint, v.Lower, v.Upper, v.Count, v.First+1, v.Worst)
	}

	total := p.table.Len()
	dof := p.model.DOF()
	log.Infof("playing %d frames at %g fps (mode %s)", total, p.opts.FPS, p.opts.Mode)
	if p.opts.Mode == ModeStep {
		log.Infof("press space for the next frame, q to quit")
	}

	for i := range pacer.Frames(ctx, total) {
		q, err := p.opts.Decoder.Decode(p.table.Frames[i], dof)
		if err != nil {
			return fmt.Errorf("decode frame %d: %w", i, err)
		}
		if err := p.renderer.Display(q); err != nil {
			return fmt.Errorf("display frame %d: %w", i, err)
		}
		p.state.SetFrame(i)
		log.Infof("frame %d/%d", i+1, total)

		if p.ctrl.QuitRequested() {
			break
		}
		if p.opts.Mode == ModeStep && i < total-1 {
			p.ctrl.Step()
		}
	}

	shown := p.state.Frame() + 1
	switch {
	case p.ctrl.QuitRequested():
		log.Infof("playback stopped by user after %d/%d frames", shown, total)
	case ctx.Err() != nil:
		p.ctrl.Stop()
		log.Infof("playback interrupted after %d/%d frames", shown, total)
	default:
		log.Infof("playback complete")
	}
	return nil
}

// listen opens the key source and starts the controller. The returned
// function stops the listener and closes the source.
func (p *Player) listen(ctx context.Context) (func() error, error) {
	src, err := p.opts.Input()
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}

	lctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(lctx)
	g.Go(func() error {
		return p.ctrl.Listen(gctx, src)
	})

	return func() error {
		cancel()
		lerr := g.Wait()
		if cerr := src.Close(); cerr != nil {
			return fmt.Errorf("restore input: %w", cerr)
		}
		return lerr
	}, nil
}
