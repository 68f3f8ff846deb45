// Package config loads run settings from defaults, an optional config file,
// HYPERSPONGE_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/voxelsplace/hypersponge/sponge"
	"github.com/voxelsplace/hypersponge/vopl"
)

// ErrInvalid marks every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix prefixes environment overrides, e.g. HYPERSPONGE_OUTPUT_DIR.
const EnvPrefix = "HYPERSPONGE"

// Output formats understood by the generate pipeline.
const (
	FormatVOPLPack = "voplpack"
	FormatVOPL     = "vopl"
	FormatGLB      = "glb"
	FormatGIF      = "gif"
	FormatHTML     = "html"
	FormatPlot     = "plot"
	FormatManifest = "manifest"
	FormatDeltas   = "deltas"
)

var knownFormats = []string{FormatVOPLPack, FormatVOPL, FormatGLB, FormatGIF, FormatHTML, FormatPlot, FormatManifest, FormatDeltas}

// gridFormats store every slice as a voxel grid, which limits its side.
var gridFormats = []string{FormatVOPLPack, FormatVOPL, FormatGLB, FormatGIF, FormatDeltas}

type Config struct {
	Level      int          `mapstructure:"level" yaml:"level"`
	Method     string       `mapstructure:"method" yaml:"method"`
	Resolution int          `mapstructure:"resolution" yaml:"resolution"`
	Frames     int          `mapstructure:"frames" yaml:"frames"`
	MaxLevel   int          `mapstructure:"max_level" yaml:"max_level"`
	Workers    int          `mapstructure:"workers" yaml:"workers"`
	Output     OutputConfig `mapstructure:"output" yaml:"output"`
	Log        LogConfig    `mapstructure:"log" yaml:"log"`

	loadedFrom string
}

type OutputConfig struct {
	Dir         string   `mapstructure:"dir" yaml:"dir"`
	Formats     []string `mapstructure:"formats" yaml:"formats"`
	GIFDelay    int      `mapstructure:"gif_delay" yaml:"gif_delay"` // hundredths of a second
	Compression string   `mapstructure:"compression" yaml:"compression"`
	Layout      string   `mapstructure:"layout" yaml:"layout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// LoadedFrom is the config file used, empty when none was read.
func (c *Config) LoadedFrom() string { return c.loadedFrom }

// SetDefaults registers every key with its default: a level 2 rational
// sequence of 10 frames at 20 points per axis, played at 2 frames per second.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("level", 2)
	v.SetDefault("method", "rational")
	v.SetDefault("resolution", 20)
	v.SetDefault("frames", 10)
	v.SetDefault("max_level", sponge.DefaultMaxLatticeLevel)
	v.SetDefault("workers", 0)

	v.SetDefault("output.dir", "output")
	v.SetDefault("output.formats", []string{FormatVOPLPack, FormatGIF, FormatManifest})
	v.SetDefault("output.gif_delay", 50)
	v.SetDefault("output.compression", "zstd")
	v.SetDefault("output.layout", "cdc")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// flagKeys maps config keys to the flag names that override them.
var flagKeys = map[string]string{
	"level":              "level",
	"method":             "method",
	"resolution":         "resolution",
	"frames":             "frames",
	"max_level":          "max-level",
	"workers":            "workers",
	"output.dir":         "out",
	"output.formats":     "formats",
	"output.gif_delay":   "gif-delay",
	"output.compression": "compression",
	"output.layout":      "layout",
	"log.level":          "log-level",
	"log.format":         "log-format",
}

// Load resolves the configuration. path may be empty; flags may be nil or
// define any subset of the override flags.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.loadedFrom = v.ConfigFileUsed()
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Method = strings.ToLower(strings.TrimSpace(c.Method))
	var formats []string
	for _, f := range c.Output.Formats {
		// a single env value like "gif,glb" arrives as one element
		for _, part := range strings.Split(f, ",") {
			if part = strings.ToLower(strings.TrimSpace(part)); part != "" && !slices.Contains(formats, part) {
				formats = append(formats, part)
			}
		}
	}
	c.Output.Formats = formats
}

// Validate fails on the first setting the pipeline could not honour.
func (c *Config) Validate() error {
	if c.Level < 0 {
		return fmt.Errorf("level %d must not be negative: %w", c.Level, ErrInvalid)
	}
	if c.Frames < 1 {
		return fmt.Errorf("frames %d must be at least 1: %w", c.Frames, ErrInvalid)
	}
	if c.MaxLevel < 0 || c.MaxLevel > sponge.LatticeCeiling {
		return fmt.Errorf("max_level %d must be within [0, %d]: %w", c.MaxLevel, sponge.LatticeCeiling, ErrInvalid)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers %d must not be negative: %w", c.Workers, ErrInvalid)
	}
	m, err := c.SpongeMethod()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, ok := m.(sponge.Rational); ok && c.Resolution < 2 {
		return fmt.Errorf("resolution %d must be at least 2 for the rational method: %w", c.Resolution, ErrInvalid)
	}
	if limit := c.latticeLimit(); limit < c.Level {
		if _, ok := m.(sponge.Integer); ok {
			return fmt.Errorf("level %d exceeds max_level %d for the integer method: %w", c.Level, limit, ErrInvalid)
		}
	}
	if side := c.GridSide(); c.WantsGrids() && side > vopl.MaxDim {
		return fmt.Errorf("slices of side %d exceed the voxel grid limit %d (formats %s): %w",
			side, vopl.MaxDim, strings.Join(c.Output.Formats, ", "), ErrInvalid)
	}
	if c.Output.GIFDelay < 1 {
		return fmt.Errorf("output.gif_delay %d must be positive: %w", c.Output.GIFDelay, ErrInvalid)
	}
	if _, err := vopl.ParseCompression(c.Output.Compression); err != nil {
		return fmt.Errorf("output.compression: %w: %w", ErrInvalid, err)
	}
	if _, err := vopl.ParseLayout(c.Output.Layout); err != nil {
		return fmt.Errorf("output.layout: %w: %w", ErrInvalid, err)
	}
	for _, f := range c.Output.Formats {
		if !slices.Contains(knownFormats, f) {
			return fmt.Errorf("output format %q (known: %s): %w", f, strings.Join(knownFormats, ", "), ErrInvalid)
		}
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w: %w", ErrInvalid, err)
	}
	return nil
}

// latticeLimit is max_level with 0 meaning the package default.
func (c *Config) latticeLimit() int {
	if c.MaxLevel == 0 {
		return sponge.DefaultMaxLatticeLevel
	}
	return c.MaxLevel
}

// SpongeMethod returns the configured slicing method.
func (c *Config) SpongeMethod() (sponge.Method, error) {
	return sponge.ParseMethod(c.Method, c.Resolution)
}

// Wants reports whether format is among the requested outputs.
func (c *Config) Wants(format string) bool {
	return slices.Contains(c.Output.Formats, format)
}

// WantsGrids reports whether any requested output stores voxel grids.
func (c *Config) WantsGrids() bool {
	return slices.ContainsFunc(c.Output.Formats, func(f string) bool { return slices.Contains(gridFormats, f) })
}

// GridSide is the side of every slice: the resolution for the rational
// method, 3^level for the integer one. Call it after the level checks.
func (c *Config) GridSide() int {
	if m, err := c.SpongeMethod(); err == nil && m.Name() == (sponge.Integer{}).Name() {
		side := 1
		for range c.Level {
			side *= 3
		}
		return side
	}
	return c.Resolution
}

// Generator builds a sponge generator honouring the worker and level limits.
func (c *Config) Generator(log logrus.FieldLogger) *sponge.Generator {
	return &sponge.Generator{MaxLatticeLevel: c.MaxLevel, Workers: c.Workers, Log: log}
}

// PackOptions returns the parsed pack compression and layout.
func (c *Config) PackOptions() (vopl.PackLayout, vopl.PackCompression) {
	// both were checked by Validate
	layout, _ := vopl.ParseLayout(c.Output.Layout)
	comp, _ := vopl.ParseCompression(c.Output.Compression)
	return layout, comp
}
