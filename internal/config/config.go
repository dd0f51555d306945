package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	patcheserrors "patches.dev/patches/internal/errors"
)

const (
	// DefaultFileName is the config file looked up when --config is not given
	DefaultFileName = "patches.yaml"
	// ExampleURL marks a freshly generated config that still needs editing
	ExampleURL = "no://op"

	DefaultBaseRef      = "main"
	DefaultPatchesDir   = "patches"
	DefaultWorkDir      = "_workdir"
	DefaultConvertedDir = "converted"
)

// Config is the content of patches.yaml
type Config struct {
	BaseRepoURL            string `yaml:"baseRepoUrl"`
	BaseRepoRef            string `yaml:"baseRepoRef"`
	PatchesDirectoryPath   string `yaml:"patchesDirectoryPath"`
	WorkDirectoryPath      string `yaml:"workDirectoryPath,omitempty"`
	ConvertedDirectoryPath string `yaml:"convertedDirectoryPath,omitempty"`
	Metadata               *bool  `yaml:"metadata,omitempty"`

	path string
}

// Example returns the config written by init when none exists yet. An empty
// url selects ExampleURL.
func Example(path, url string) *Config {
	if url == "" {
		url = ExampleURL
	}
	path = absolute(path)
	return &Config{
		BaseRepoURL:          url,
		BaseRepoRef:          DefaultBaseRef,
		PatchesDirectoryPath: DefaultPatchesDir,
		path:                 path,
	}
}

// Exists reports whether a config file is present at path
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Load reads and validates the config at path
func Load(path string) (*Config, error) {
	path = absolute(path)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, patcheserrors.NewUsageError("no configuration found at %s (run patches init first)", path)
		}
		return nil, patcheserrors.NewIOError("read", path, err)
	}

	cfg := &Config{path: path}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, &patcheserrors.FormatError{File: path, Message: "invalid configuration", Err: err}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrCreate loads the config at path, writing Example(path, url) first
// when the file does not exist. created reports whether it was written.
func LoadOrCreate(path, url string) (cfg *Config, created bool, err error) {
	if Exists(path) {
		cfg, err = Load(path)
		return cfg, false, err
	}

	cfg = Example(path, url)
	if err := cfg.Save(); err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}

// Validate checks the required keys are set
func (c *Config) Validate() error {
	missing := func(key string) error {
		return patcheserrors.NewUsageError("%s: %s must be set", c.path, key)
	}
	switch {
	case c.BaseRepoURL == "":
		return missing("baseRepoUrl")
	case c.BaseRepoRef == "":
		return missing("baseRepoRef")
	case c.PatchesDirectoryPath == "":
		return missing("patchesDirectoryPath")
	}
	return nil
}

// Save writes the config back to the file it was loaded from
func (c *Config) Save() error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(c.Dir(), 0750); err != nil {
		return patcheserrors.NewIOError("create", c.Dir(), err)
	}
	if err := os.WriteFile(c.path, buf.Bytes(), 0600); err != nil {
		return patcheserrors.NewIOError("write", c.path, err)
	}
	return nil
}

// Path returns the file the config was loaded from
func (c *Config) Path() string {
	return c.path
}

// Dir returns the directory relative paths are resolved against
func (c *Config) Dir() string {
	return filepath.Dir(c.path)
}

// IsExample reports whether the base URL is still the generated placeholder
func (c *Config) IsExample() bool {
	return c.BaseRepoURL == ExampleURL
}

// PatchesDir returns the resolved patches directory
func (c *Config) PatchesDir() string {
	return c.resolve(c.PatchesDirectoryPath, DefaultPatchesDir)
}

// WorkDir returns the resolved working checkout directory
func (c *Config) WorkDir() string {
	return c.resolve(c.WorkDirectoryPath, DefaultWorkDir)
}

// ConvertedDir returns the resolved output directory for plain diffs
func (c *Config) ConvertedDir() string {
	return c.resolve(c.ConvertedDirectoryPath, DefaultConvertedDir)
}

// MetadataEnabled reports whether patch files carry commit metadata. It
// defaults to true.
func (c *Config) MetadataEnabled() bool {
	return c.Metadata == nil || *c.Metadata
}

// SetMetadata sets the metadata flag, dropping the key when it matches the default
func (c *Config) SetMetadata(enabled bool) {
	if enabled {
		c.Metadata = nil
		return
	}
	c.Metadata = &enabled
}

func (c *Config) resolve(p, fallback string) string {
	if p == "" {
		p = fallback
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.Dir(), p)
}

func absolute(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
