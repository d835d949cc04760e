package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"dario.cat/mergo"
	"github.com/BurntSushi/toml"
)

// BuildConfig is the user facing build configuration. It is read from the
// optional TOML config file and overlaid with command line values.
type BuildConfig struct {
	// Compiler is the compiler executable, either a path or a name looked up
	// in PATH.
	Compiler string `toml:"compiler,omitempty"`
	// CompilerArgs are extra arguments passed before "-V", as a single
	// shell-quoted string.
	CompilerArgs string `toml:"compiler_args,omitempty"`

	Mode       LayoutMode `toml:"mode,omitempty"`
	OutputRoot string     `toml:"output_root,omitempty"`

	Extensions []string `toml:"extensions,omitempty"`
	Exclude    []string `toml:"exclude,omitempty"`

	// Concurrency caps concurrent compiler processes. 0 selects the number of
	// CPUs, a negative value removes the cap.
	Concurrency int `toml:"concurrency,omitempty"`
	// Timeout is the limit for the whole build, in seconds. 0 disables it.
	Timeout int `toml:"timeout,omitempty"`
	// OutputLimit caps captured stdout and stderr of each job, in bytes.
	OutputLimit int64 `toml:"output_limit,omitempty"`

	ModTime time.Time `toml:"-"`
	Loaded  bool      `toml:"-"`
}

func NewBuildConfig() *BuildConfig {
	return &BuildConfig{
		Mode:        LayoutSibling,
		Extensions:  append([]string(nil), DefaultExtensions...),
		OutputLimit: DefaultOutputLimit,
	}
}

// LoadConfig decodes configFile into c. A missing file is not an error unless
// required is set.
func (c *BuildConfig) LoadConfig(configFile string, required bool) error {
	info, err := os.Stat(configFile)
	if errors.Is(err, os.ErrNotExist) && !required {
		return nil
	} else if err != nil {
		return NewPathError(configFile, err)
	}

	if _, err = toml.DecodeFile(configFile, c); err != nil {
		return fmt.Errorf("decoding %s: %w", configFile, err)
	}

	c.ModTime = info.ModTime()
	c.Loaded = true
	return nil
}

// Merge overlays every non-empty field of override onto c.
func (c *BuildConfig) Merge(override BuildConfig) error {
	modTime, loaded := c.ModTime, c.Loaded
	defer func() {
		c.ModTime, c.Loaded = modTime, loaded
	}()

	return mergo.Merge(c, override, mergo.WithOverride)
}

func (c *BuildConfig) Validate() error {
	mode, err := ParseLayoutMode(string(c.Mode))
	if err != nil {
		return err
	}
	c.Mode = mode

	if c.Compiler == "" {
		return errors.New("no shader compiler configured")
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %d", c.Timeout)
	}

	if c.OutputLimit <= 0 {
		return fmt.Errorf("output limit must be positive, got %d", c.OutputLimit)
	}

	return nil
}

// EffectiveConcurrency returns the pool size handed to the driver, where
// values lower than 1 mean unbounded.
func (c *BuildConfig) EffectiveConcurrency() int {
	switch {
	case c.Concurrency == 0:
		return runtime.NumCPU()
	case c.Concurrency < 0:
		return 0
	default:
		return c.Concurrency
	}
}

// EffectiveOutputRoot returns the bin-root output directory for root.
func (c *BuildConfig) EffectiveOutputRoot(root string) string {
	if c.OutputRoot != "" {
		return c.OutputRoot
	}

	return filepath.Join(root, DefaultBinRootDir)
}

func (c *BuildConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}
