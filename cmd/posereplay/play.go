package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/posereplay/internal/config"
	"github.com/san-kum/posereplay/internal/logging"
	"github.com/san-kum/posereplay/internal/motion"
	"github.com/san-kum/posereplay/internal/playback"
	"github.com/san-kum/posereplay/internal/render"
	"github.com/san-kum/posereplay/internal/robot"
	"github.com/san-kum/posereplay/internal/terminal"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// resolveConfig layers defaults, preset, config file and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		var err error
		if preset == "" {
			cfg, err = config.Load(configFile)
		} else {
			cfg, err = config.LoadOver(configFile, cfg)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("model") {
		cfg.Model.Path = modelPath
	}
	if flags.Changed("motion") {
		cfg.Motion.Path = motionPath
	}
	if flags.Changed("delimiter") {
		cfg.Motion.Delimiter = delimiter
	}
	if flags.Changed("fps") {
		cfg.Playback.FPS = fps
	}
	if flags.Changed("warmup") {
		cfg.Playback.Warmup = warmup
	}
	if flags.Changed("mode") {
		cfg.Playback.Mode = mode
	}
	if flags.Changed("renderer") {
		cfg.Renderer = renderer
	}
	if flags.Changed("z-offset") {
		cfg.Decoder.ZOffset = zOffset
	}
	if flags.Changed("quat-order") {
		cfg.Decoder.QuatOrder = quatOrder
	}
	if flags.Changed("euler") {
		cfg.Decoder.Convention = euler
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	return cfg, cfg.Validate()
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := cfg.PlaybackOptions()
	if err != nil {
		return err
	}

	useTerminal := cfg.Renderer == "terminal"
	if useTerminal && !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "stdout is not a terminal, using the headless renderer")
		useTerminal = false
	}

	var logOut io.Writer = os.Stderr
	switch {
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	case useTerminal:
		// The status panel shows progress; stderr would tear the screen.
		logOut = io.Discard
	case opts.Mode != playback.ModeAuto:
		logOut = terminal.NewCRLFWriter(os.Stderr)
	}
	log := logging.New(cfg.LogLevel, logOut)

	delim, _ := cfg.Delimiter()
	model, table, err := playback.Open(
		cfg.Model.Path,
		cfg.Motion.Path,
		robot.Options{FloatingBase: true},
		motion.Options{Comma: delim, Header: cfg.Motion.Header},
	)
	if err != nil {
		return err
	}
	log.Infof("loaded %s (%d DOF) and %d frames from %s", model.Name, model.DOF(), table.Len(), cfg.Motion.Path)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts.Logger = log
	var (
		player *playback.Player
		view   playback.Renderer
		closer func() error
	)
	if useTerminal {
		// Without a controller only Ctrl-C does anything, so auto mode gets no key source.
		var keys *terminal.Keys
		if opts.Mode != playback.ModeAuto {
			keys = terminal.NewKeys(16)
			opts.Input = func() (playback.KeySource, error) { return keys, nil }
		}
		t := render.NewTerminal(render.TerminalOptions{
			Order:          opts.Decoder.Order,
			Keys:           keys,
			Paused:         func() bool { return player.State().Paused() },
			Interval:       func() time.Duration { return player.State().Interval() },
			Interrupt:      stop,
			Total:          table.Len(),
			ProgramOptions: []tea.ProgramOption{tea.WithAltScreen(), tea.WithoutSignalHandler()},
		})
		view, closer = t, t.Close
	} else {
		h := render.NewHeadless(log)
		if opts.Mode != playback.ModeAuto {
			opts.Input = func() (playback.KeySource, error) { return terminal.Open(os.Stdin) }
		}
		view, closer = h, h.Close
	}

	player = playback.New(model, table, view, opts)
	runErr := player.Run(ctx)
	if err := closer(); err != nil && runErr == nil {
		runErr = fmt.Errorf("close renderer: %w", err)
	}
	return runErr
}
