package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/san-kum/posereplay/internal/config"
	"github.com/san-kum/posereplay/internal/mocap"
	"github.com/spf13/cobra"
)

var (
	configFile   string
	preset       string
	modelPath    string
	motionPath   string
	fps          float64
	warmup       time.Duration
	mode         string
	renderer     string
	zOffset      float64
	quatOrder    string
	euler        string
	logLevel     string
	logFile      string
	delimiter    string
	column       int
	spectrum     bool
	inspectModel string
	saveFile     string
)

// main registers the commands and exits with status 1 when the selected
// command fails. A user quit is not a failure.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", describe(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "posereplay",
		Short:         "replay recorded motion on a robot model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "play a motion file on a robot model",
		Args:  cobra.NoArgs,
		RunE:  runPlay,
	}
	playCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	playCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	playCmd.Flags().StringVar(&modelPath, "model", config.DefaultModelPath, "robot description (urdf)")
	playCmd.Flags().StringVar(&motionPath, "motion", config.DefaultMotionPath, "motion file (csv)")
	playCmd.Flags().Float64Var(&fps, "fps", config.DefaultFPS, "playback frame rate")
	playCmd.Flags().DurationVar(&warmup, "warmup", config.DefaultWarmup, "delay before the first frame")
	playCmd.Flags().StringVar(&mode, "mode", "auto", "auto, step or interactive")
	playCmd.Flags().StringVar(&renderer, "renderer", config.DefaultRenderer, "terminal or headless")
	playCmd.Flags().Float64Var(&zOffset, "z-offset", config.DefaultZOffset, "subtracted from the base height")
	playCmd.Flags().StringVar(&quatOrder, "quat-order", "xyzw", "quaternion layout: xyzw or wxyz")
	playCmd.Flags().StringVar(&euler, "euler", "extrinsic", "euler convention: extrinsic or intrinsic")
	playCmd.Flags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "debug, info, warn or error")
	playCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to a file")
	playCmd.Flags().StringVar(&delimiter, "delimiter", ",", "motion file field separator")

	inspectCmd := &cobra.Command{
		Use:   "inspect [motion-file]",
		Short: "summarize a motion file",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
	inspectCmd.Flags().IntVar(&column, "column", -1, "plot one column")
	inspectCmd.Flags().BoolVar(&spectrum, "spectrum", false, "plot the power spectrum of --column")
	inspectCmd.Flags().Float64Var(&fps, "fps", config.DefaultFPS, "sample rate of the motion file")
	inspectCmd.Flags().StringVar(&delimiter, "delimiter", ",", "motion file field separator")
	inspectCmd.Flags().StringVar(&inspectModel, "model", "", "robot description to label joints and check limits")

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list available presets, or save one as a config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if saveFile != "" {
				return savePreset(cmd, args)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tFPS\tWARMUP\tMODE\tRENDERER")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%g\t%s\t%s\t%s\n", name, cfg.Playback.FPS, cfg.Playback.Warmup, cfg.Playback.Mode, cfg.Renderer)
			}
			return w.Flush()
		},
	}

	presetsCmd.Flags().StringVar(&saveFile, "save", "", "write the named preset to a yaml file")

	rootCmd.AddCommand(playCmd, inspectCmd, presetsCmd)
	return rootCmd
}

func savePreset(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return &mocap.ConfigError{Field: "preset", Value: `""`, Reason: "--save needs a preset name"}
	}
	cfg := config.GetPreset(args[0])
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
	}
	if err := config.Save(saveFile, cfg); err != nil {
		return fmt.Errorf("save preset: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote preset %s to %s\n", args[0], saveFile)
	return nil
}

// describe turns domain errors into a message naming the failing input.
func describe(err error) string {
	var pe *mocap.PathError
	var de *mocap.DimensionError
	var ce *mocap.ConfigError
	switch {
	case errors.As(err, &pe):
		return fmt.Sprintf("%s file not found: %s", pe.Kind, pe.Path)
	case errors.As(err, &de):
		return fmt.Sprintf("dimension mismatch: %v", err)
	case errors.As(err, &ce):
		return fmt.Sprintf("configuration: %v", err)
	default:
		return err.Error()
	}
}
