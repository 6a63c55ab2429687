package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"hexdial/pkg/picker"
)

// Config is the top-level YAML configuration for the hexdial daemon.
//
// Defaults live in DefaultConfig; a config file is decoded on top of them, flags
// override the result and Validate runs last.
type Config struct {
	// Rotary encoder input
	Input InputConfig `yaml:"input"`

	// Wheel physics, tile animation and artwork
	Picker PickerConfig `yaml:"picker"`

	// Fast-spin acceleration
	Rotary RotaryFileConfig `yaml:"rotary"`

	// IPC configuration (hexdial-ctl, scripts)
	IPC IPCConfig `yaml:"ipc"`

	// State WebSocket
	StateWS StateWSConfig `yaml:"state_ws"`

	// Optional CSV trace of settle events
	Trace TraceConfig `yaml:"trace"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

type InputConfig struct {
	Devices []string `yaml:"devices"`
	Axis    string   `yaml:"axis"` // dial | wheel | misc
	Invert  bool     `yaml:"invert"`
}

type PickerConfig struct {
	UpdateHz       int     `yaml:"update_hz"`
	Friction       float64 `yaml:"friction"`
	AngleStep      float64 `yaml:"angle_step"`
	DebounceMS     int     `yaml:"debounce_ms"`
	DimMS          int     `yaml:"dim_ms"`
	DimScale       float64 `yaml:"dim_scale"`
	HighlightMS    int     `yaml:"highlight_ms"`
	SpringPower    float64 `yaml:"spring_power"`
	IdleColor      string  `yaml:"idle_color"`
	HighlightColor string  `yaml:"highlight_color"`
	AssetDir       string  `yaml:"asset_dir"`
	EdgeLength     float64 `yaml:"edge_length"`
}

// RotaryFileConfig is the YAML form of RotaryConfig.
type RotaryFileConfig struct {
	VelocityWindowMS   int     `yaml:"velocity_window_ms"`
	VelocityThreshold  int     `yaml:"velocity_threshold"`
	VelocityMultiplier float64 `yaml:"velocity_multiplier"`
}

type IPCConfig struct {
	SocketPath string `yaml:"socket_path"`
}

type StateWSConfig struct {
	Port int    `yaml:"port"` // 0 disables the listener
	Path string `yaml:"path"`
}

type TraceConfig struct {
	CSVPath string `yaml:"csv_path"` // empty disables tracing
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a fully-populated Config with defaults.
func DefaultConfig() Config {
	return Config{
		Input: InputConfig{
			Devices: []string{defaultInputDevice},
			Axis:    defaultAxis,
		},
		Picker: PickerConfig{
			UpdateHz:       defaultUpdateHz,
			Friction:       picker.DefaultFriction,
			AngleStep:      picker.DefaultAngleStep,
			DebounceMS:     int(picker.DefaultDebounce / time.Millisecond),
			DimMS:          int(picker.DefaultDimDuration / time.Millisecond),
			DimScale:       picker.DefaultDimScale,
			HighlightMS:    int(picker.DefaultHighlightDuration / time.Millisecond),
			SpringPower:    picker.DefaultSpringPower,
			IdleColor:      defaultIdleColorHex,
			HighlightColor: defaultHighlightColorHex,
			AssetDir:       defaultAssetDir,
			EdgeLength:     picker.DefaultEdgeLength,
		},
		Rotary: RotaryFileConfig{
			VelocityWindowMS:   defaultRotaryVelocityWindowMS,
			VelocityThreshold:  defaultRotaryVelocityThreshold,
			VelocityMultiplier: defaultRotaryVelocityMultiplier,
		},
		IPC: IPCConfig{
			SocketPath: defaultIPCSocket,
		},
		StateWS: StateWSConfig{
			Port: defaultWSPort,
			Path: defaultWSPath,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfigFile reads a YAML config file on top of DefaultConfig.
//
// Unknown fields are rejected (helps catch typos) and only a single document is
// allowed.
func LoadConfigFile(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return parseConfig(b)
}

func parseConfig(b []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}

	// Only whitespace/comments are allowed after the document. Decode into a
	// node so KnownFields doesn't turn a second document into a decode error.
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config yaml: unexpected trailing document")
	}

	return cfg, nil
}

// FlagOverrides holds command-line overrides. A nil pointer means the flag was not
// set; a non-nil pointer is applied even if it holds a zero value.
type FlagOverrides struct {
	InputDevice *string
	InputAxis   *string
	InputInvert *bool

	UpdateHz   *int
	Friction   *float64
	DebounceMS *int
	AssetDir   *string

	IPCSocketPath *string
	StateWSPort   *int
	TraceCSVPath  *string

	LogLevel *string
}

// Apply merges the overrides into cfg.
func (o FlagOverrides) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if o.InputDevice != nil {
		cfg.Input.Devices = []string{*o.InputDevice}
	}
	if o.InputAxis != nil {
		cfg.Input.Axis = *o.InputAxis
	}
	if o.InputInvert != nil {
		cfg.Input.Invert = *o.InputInvert
	}

	if o.UpdateHz != nil {
		cfg.Picker.UpdateHz = *o.UpdateHz
	}
	if o.Friction != nil {
		cfg.Picker.Friction = *o.Friction
	}
	if o.DebounceMS != nil {
		cfg.Picker.DebounceMS = *o.DebounceMS
	}
	if o.AssetDir != nil {
		cfg.Picker.AssetDir = *o.AssetDir
	}

	if o.IPCSocketPath != nil {
		cfg.IPC.SocketPath = *o.IPCSocketPath
	}
	if o.StateWSPort != nil {
		cfg.StateWS.Port = *o.StateWSPort
	}
	if o.TraceCSVPath != nil {
		cfg.Trace.CSVPath = *o.TraceCSVPath
	}

	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
}

// Validate checks config invariants and returns a user-friendly error.
// Call it after defaults, file and overrides are applied.
func (c *Config) Validate() error {
	// Input
	if len(c.Input.Devices) == 0 {
		return errors.New("input.devices must not be empty")
	}
	for i, dev := range c.Input.Devices {
		if dev == "" {
			return fmt.Errorf("input.devices[%d] is empty", i)
		}
	}
	if _, err := axisCode(c.Input.Axis); err != nil {
		return fmt.Errorf("input.axis: %w", err)
	}

	// Picker
	if c.Picker.UpdateHz <= 0 || c.Picker.UpdateHz > 1000 {
		return errors.New("picker.update_hz must be between 1 and 1000")
	}
	if c.Picker.DebounceMS < 0 || c.Picker.DimMS < 0 || c.Picker.HighlightMS < 0 {
		return errors.New("picker durations must be >= 0")
	}
	if _, err := colorful.Hex(c.Picker.IdleColor); err != nil {
		return fmt.Errorf("picker.idle_color: %w", err)
	}
	if _, err := colorful.Hex(c.Picker.HighlightColor); err != nil {
		return fmt.Errorf("picker.highlight_color: %w", err)
	}
	if c.Picker.AssetDir == "" {
		return errors.New("picker.asset_dir must not be empty")
	}
	pc, err := c.ToPickerConfig()
	if err != nil {
		return err
	}
	if err := pc.Validate(); err != nil {
		return fmt.Errorf("picker: %w", err)
	}

	// Rotary
	if c.Rotary.VelocityWindowMS < 0 {
		return errors.New("rotary.velocity_window_ms must be >= 0")
	}
	if c.Rotary.VelocityThreshold < 0 {
		return errors.New("rotary.velocity_threshold must be >= 0")
	}
	if c.Rotary.VelocityMultiplier < 1 {
		return errors.New("rotary.velocity_multiplier must be >= 1")
	}

	// IPC
	if c.IPC.SocketPath == "" {
		return errors.New("ipc.socket_path must not be empty")
	}

	// State WS
	if c.StateWS.Port < 0 || c.StateWS.Port > 65535 {
		return errors.New("state_ws.port must be between 0 and 65535")
	}
	if c.StateWS.Port > 0 && (c.StateWS.Path == "" || c.StateWS.Path[0] != '/') {
		return errors.New("state_ws.path must start with /")
	}

	// Logging
	if _, err := parseLogLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}

	return nil
}

// ToPickerConfig converts the file form into the picker's tuning.
func (c *Config) ToPickerConfig() (picker.Config, error) {
	idle, err := colorful.Hex(c.Picker.IdleColor)
	if err != nil {
		return picker.Config{}, fmt.Errorf("picker.idle_color: %w", err)
	}
	hl, err := colorful.Hex(c.Picker.HighlightColor)
	if err != nil {
		return picker.Config{}, fmt.Errorf("picker.highlight_color: %w", err)
	}

	pc := picker.DefaultConfig()
	pc.Friction = c.Picker.Friction
	pc.AngleStep = c.Picker.AngleStep
	pc.Debounce = time.Duration(c.Picker.DebounceMS) * time.Millisecond
	pc.DimDuration = time.Duration(c.Picker.DimMS) * time.Millisecond
	pc.DimScale = c.Picker.DimScale
	pc.HighlightDuration = time.Duration(c.Picker.HighlightMS) * time.Millisecond
	pc.SpringPower = c.Picker.SpringPower
	pc.IdleColor = idle
	pc.HighlightColor = hl
	pc.EdgeLength = c.Picker.EdgeLength

	// Integrate at most a couple of frames after a stall.
	if c.Picker.UpdateHz > 0 {
		pc.MaxDt = 2 * time.Second / time.Duration(c.Picker.UpdateHz)
	}
	return pc, nil
}

// ToRotaryConfig converts the file form into the fast-spin policy.
func (c *Config) ToRotaryConfig() RotaryConfig {
	return RotaryConfig{
		VelocityWindow:     time.Duration(c.Rotary.VelocityWindowMS) * time.Millisecond,
		VelocityThreshold:  c.Rotary.VelocityThreshold,
		VelocityMultiplier: c.Rotary.VelocityMultiplier,
	}
}

// ExpandPath expands a leading "~" in a path using $HOME.
func ExpandPath(p string) string {
	if p == "" || p[0] != '~' {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	if len(p) >= 2 && (p[1] == '/' || p[1] == '\\') {
		return filepath.Join(home, p[2:])
	}
	return p
}
