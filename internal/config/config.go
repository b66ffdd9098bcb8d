// Package config loads the YAML configuration file of the voxoct command.
//
// Every field is optional; command line flags override file values, and file
// values override the defaults returned by Default.
//
//	volume:
//	  dims: [301, 1335, 1001]
//	  byte_order: big
//	build:
//	  threshold: 50
//	  leaf: point
//	  max_depth: 9
//	  compression: zstd
//	log:
//	  level: debug
//	  encoding: console
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/voxoct/endian"
	"github.com/arloliu/voxoct/errs"
	"github.com/arloliu/voxoct/format"
	"github.com/arloliu/voxoct/octree"
)

// Config is the root of the configuration file.
type Config struct {
	Volume Volume `yaml:"volume"`
	Build  Build  `yaml:"build"`
	Log    Log    `yaml:"log"`
}

// Volume describes raw input volumes.
type Volume struct {
	Dims      []uint32 `yaml:"dims,omitempty"`
	ByteOrder string   `yaml:"byte_order,omitempty"`
}

// Build holds octree builder and output settings.
type Build struct {
	Threshold float32 `yaml:"threshold"`
	Leaf      string  `yaml:"leaf,omitempty"`
	MaxDepth  *int    `yaml:"max_depth,omitempty"`
	// Compression forces the output container codec. Empty derives it from
	// the output file extension.
	Compression string `yaml:"compression,omitempty"`
}

// Log configures the command logger.
type Log struct {
	Level    string `yaml:"level,omitempty"`
	Encoding string `yaml:"encoding,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Volume: Volume{ByteOrder: "big"},
		Build: Build{
			Threshold: octree.DefaultFluctuationThreshold,
			Leaf:      "block",
		},
		Log: Log{Level: "info", Encoding: "console"},
	}
}

// Parse decodes YAML data on top of Default and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return Parse(data)
}

// Validate checks every field that has a fixed set of legal values.
func (c *Config) Validate() error {
	var errList []error

	if d := c.Volume.Dims; len(d) != 0 {
		if len(d) != 3 || d[0] == 0 || d[1] == 0 || d[2] == 0 {
			errList = append(errList, fmt.Errorf("%w: volume.dims must be three positive sizes, got %v", errs.ErrInvalidDimensions, d))
		}
	}
	if _, ok := endian.ByName(c.Volume.ByteOrder); !ok {
		errList = append(errList, fmt.Errorf("volume.byte_order: unknown byte order %q", c.Volume.ByteOrder))
	}

	th := float64(c.Build.Threshold)
	if th < 0 || math.IsNaN(th) || math.IsInf(th, 0) {
		errList = append(errList, fmt.Errorf("%w: build.threshold %v", errs.ErrInvalidThreshold, c.Build.Threshold))
	}
	if _, ok := format.ParseLeafKind(c.Build.Leaf); !ok {
		errList = append(errList, fmt.Errorf("%w: build.leaf %q", errs.ErrInvalidLeafKind, c.Build.Leaf))
	}
	if c.Build.MaxDepth != nil && *c.Build.MaxDepth < 0 {
		errList = append(errList, fmt.Errorf("%w: build.max_depth %d", errs.ErrInvalidMaxDepth, *c.Build.MaxDepth))
	}
	if _, ok := format.ParseCompression(c.Build.Compression); c.Build.Compression != "" && !ok {
		errList = append(errList, fmt.Errorf("%w: build.compression %q", errs.ErrUnsupportedCompression, c.Build.Compression))
	}

	return multierr.Combine(errList...)
}

// Dimensions returns the configured volume dimensions, or false when unset.
func (v Volume) Dimensions() (nx, ny, nz uint32, ok bool) {
	if len(v.Dims) != 3 {
		return 0, 0, 0, false
	}

	return v.Dims[0], v.Dims[1], v.Dims[2], true
}

// BuilderOptions translates the build section into octree builder options.
func (b Build) BuilderOptions() []octree.BuilderOption {
	kind, _ := format.ParseLeafKind(b.Leaf)
	opts := []octree.BuilderOption{
		octree.WithFluctuationThreshold(b.Threshold),
		octree.WithLeafKind(kind),
	}
	if b.MaxDepth != nil {
		opts = append(opts, octree.WithMaxDepth(*b.MaxDepth))
	}

	return opts
}

// CompressionOverride returns the configured container codec, or false when
// it should follow the output file extension.
func (b Build) CompressionOverride() (format.CompressionType, bool) {
	if b.Compression == "" {
		return 0, false
	}

	return format.ParseCompression(b.Compression)
}
