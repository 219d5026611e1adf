package fontengine

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/joshuapare/glyphkit/pkg/types"
)

// BundleConfig names one bundle to register.
type BundleConfig struct {
	Path   string `toml:"path"`
	Offset int64  `toml:"offset,omitempty"`
}

// Config is the on-disk engine configuration:
//
//	region_size = 1048576
//	mapped      = false
//	fallback    = [7, 3]
//
//	[[bundle]]
//	path   = "fonts/ui.bin"
//	offset = 0
//
// Bundles are registered in file order, which is also their fallback order.
type Config struct {
	RegionSize int            `toml:"region_size,omitempty"`
	Mapped     bool           `toml:"mapped,omitempty"`
	Fallback   []uint16       `toml:"fallback,omitempty"`
	Bundles    []BundleConfig `toml:"bundle"`
}

// ParseConfig decodes TOML. Unknown keys are rejected so typos surface.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, &types.Error{Kind: types.ErrKindFormat, Msg: "engine config", Err: err}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig reads and decodes the file at path. Relative bundle paths are
// resolved against the directory holding the config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &types.Error{Kind: types.ErrKindIO, Msg: "read engine config", Err: err}
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	for i, b := range cfg.Bundles {
		if !filepath.IsAbs(b.Path) {
			cfg.Bundles[i].Path = filepath.Join(dir, b.Path)
		}
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.RegionSize < 0 {
		return &types.Error{Kind: types.ErrKindFormat, Msg: fmt.Sprintf("region_size %d is negative", c.RegionSize)}
	}
	for i, b := range c.Bundles {
		if b.Path == "" {
			return &types.Error{Kind: types.ErrKindFormat, Msg: fmt.Sprintf("bundle %d has no path", i)}
		}
		if b.Offset < 0 {
			return &types.Error{Kind: types.ErrKindFormat, Msg: fmt.Sprintf("bundle %q offset %d is negative", b.Path, b.Offset)}
		}
	}
	for _, id := range c.Fallback {
		if id > 0xFF {
			return &types.Error{Kind: types.ErrKindCapacity, Msg: fmt.Sprintf("fallback font id %d exceeds 255", id)}
		}
	}
	return nil
}

// Options converts the file form into engine options.
func (c *Config) Options() Options {
	fb := make([]types.FontID, len(c.Fallback))
	for i, id := range c.Fallback {
		fb[i] = types.FontID(id)
	}
	return Options{
		RegionSize: c.RegionSize,
		Mapped:     c.Mapped,
		Bundles:    append([]BundleConfig(nil), c.Bundles...),
		Fallback:   fb,
	}
}

// Marshal encodes c as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
