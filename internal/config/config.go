package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/posereplay/internal/mocap"
	"github.com/san-kum/posereplay/internal/playback"
	"github.com/san-kum/posereplay/internal/pose"
)

const (
	DefaultModelPath  = "g1_description/urdf/g1.urdf"
	DefaultMotionPath = "motions/sample.seq"
	DefaultFPS        = playback.DefaultFPS
	DefaultWarmup     = playback.DefaultWarmup
	DefaultZOffset    = pose.DefaultZOffset
	DefaultRenderer   = "terminal"
	DefaultLogLevel   = "info"
)

type Config struct {
	Model    ModelConfig    `yaml:"model"`
	Motion   MotionConfig   `yaml:"motion"`
	Playback PlaybackConfig `yaml:"playback"`
	Decoder  DecoderConfig  `yaml:"decoder"`
	Renderer string         `yaml:"renderer"`
	LogLevel string         `yaml:"log_level"`
}

type ModelConfig struct {
	Path string `yaml:"path"`
}

type MotionConfig struct {
	Path      string `yaml:"path"`
	Delimiter string `yaml:"delimiter"`
	Header    bool   `yaml:"header"`
}

type PlaybackConfig struct {
	FPS    float64       `yaml:"fps"`
	Warmup time.Duration `yaml:"warmup"`
	Mode   string        `yaml:"mode"`
}

type DecoderConfig struct {
	ZOffset    float64 `yaml:"z_offset"`
	QuatOrder  string  `yaml:"quat_order"`
	Convention string  `yaml:"euler"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:  ModelConfig{Path: DefaultModelPath},
		Motion: MotionConfig{Path: DefaultMotionPath, Delimiter: ","},
		Playback: PlaybackConfig{
			FPS:    DefaultFPS,
			Warmup: DefaultWarmup,
			Mode:   string(playback.ModeAuto),
		},
		Decoder: DecoderConfig{
			ZOffset:    DefaultZOffset,
			QuatOrder:  pose.XYZW.String(),
			Convention: pose.Extrinsic.String(),
		},
		Renderer: DefaultRenderer,
		LogLevel: DefaultLogLevel,
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file on top of base. Keys absent from the file keep
// the values in base.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, mocap.NotFound("config", path)
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return base, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first out of range setting as a ConfigError.
func (c *Config) Validate() error {
	if err := playback.ValidateFPS(c.Playback.FPS); err != nil {
		return err
	}
	if c.Playback.Warmup < 0 {
		return &mocap.ConfigError{Field: "warmup", Value: c.Playback.Warmup, Reason: "must not be negative"}
	}
	if math.IsNaN(c.Decoder.ZOffset) || math.IsInf(c.Decoder.ZOffset, 0) {
		return &mocap.ConfigError{Field: "z_offset", Value: c.Decoder.ZOffset, Reason: "must be finite"}
	}
	if _, err := c.PoseDecoder(); err != nil {
		return err
	}
	if _, err := playback.ParseMode(c.Playback.Mode); err != nil {
		return err
	}
	if _, err := c.Delimiter(); err != nil {
		return err
	}
	switch c.Renderer {
	case "terminal", "headless":
	default:
		return &mocap.ConfigError{Field: "renderer", Value: c.Renderer, Reason: "want terminal or headless"}
	}
	if c.Model.Path == "" {
		return &mocap.ConfigError{Field: "model path", Value: `""`, Reason: "is required"}
	}
	if c.Motion.Path == "" {
		return &mocap.ConfigError{Field: "motion path", Value: `""`, Reason: "is required"}
	}
	return nil
}

func (c *Config) PoseDecoder() (pose.Decoder, error) {
	order, err := pose.ParseOrder(c.Decoder.QuatOrder)
	if err != nil {
		return pose.Decoder{}, err
	}
	conv, err := pose.ParseConvention(c.Decoder.Convention)
	if err != nil {
		return pose.Decoder{}, err
	}
	return pose.Decoder{Convention: conv, Order: order, ZOffset: c.Decoder.ZOffset}, nil
}

// Delimiter returns the motion file field separator. "tab" and "\t" both
// select a tab.
func (c *Config) Delimiter() (rune, error) {
	switch d := c.Motion.Delimiter; d {
	case "":
		return ',', nil
	case "tab", `\t`, "\t":
		return '\t', nil
	default:
		r := []rune(d)
		if len(r) != 1 || strings.ContainsAny(d, "\"\r\n") {
			return 0, &mocap.ConfigError{Field: "delimiter", Value: d, Reason: "must be a single character"}
		}
		return r[0], nil
	}
}

// PlaybackOptions assembles player options from the config. Input and
// Logger are left for the caller.
func (c *Config) PlaybackOptions() (playback.Options, error) {
	if err := c.Validate(); err != nil {
		return playback.Options{}, err
	}
	dec, _ := c.PoseDecoder()
	mode, _ := playback.ParseMode(c.Playback.Mode)
	return playback.Options{
		FPS:     c.Playback.FPS,
		Warmup:  c.Playback.Warmup,
		Mode:    mode,
		Decoder: dec,
	}, nil
}
