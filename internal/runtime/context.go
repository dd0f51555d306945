package runtime

import (
	"context"
	"fmt"

	"patches.dev/patches/internal/config"
	"patches.dev/patches/internal/git"
	"patches.dev/patches/internal/tui"
)

// Context provides access to configuration, output and the repository for commands
type Context struct {
	Context context.Context

	// ConfigPath is where the config is loaded from or created at.
	ConfigPath string
	// Config is nil until LoadConfig succeeds or an action creates one.
	Config *config.Config
	Splog  *tui.Splog

	// OpenBackend opens the working checkout. Defaults to git.Open.
	OpenBackend func(dir string) (git.Backend, error)
	// CloneBackend clones the base repository. Defaults to git.Clone.
	CloneBackend func(ctx context.Context, url, ref, dir string) (git.Backend, error)

	PromptText    func(prompt, defaultValue string, validate func(string) error) (string, error)
	PromptConfirm func(prompt string, defaultValue bool) (bool, error)
}

// NewContext creates a context backed by the real git backend and terminal prompts
func NewContext(ctx context.Context, configPath string, splog *tui.Splog) *Context {
	if splog == nil {
		splog = tui.NewSplog()
	}
	return &Context{
		Context:    ctx,
		ConfigPath: configPath,
		Splog:      splog,
		OpenBackend: func(dir string) (git.Backend, error) {
			return git.Open(dir)
		},
		CloneBackend: func(ctx context.Context, url, ref, dir string) (git.Backend, error) {
			return git.Clone(ctx, url, ref, dir)
		},
		PromptText:    tui.PromptTextInput,
		PromptConfirm: tui.PromptConfirm,
	}
}

// LoadConfig loads the config from ConfigPath unless it is already loaded
func (c *Context) LoadConfig() (*config.Config, error) {
	if c.Config != nil {
		return c.Config, nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	c.Config = cfg
	return cfg, nil
}

// OpenWorkDir loads the config and opens its working checkout
func (c *Context) OpenWorkDir() (*config.Config, git.Backend, error) {
	cfg, err := c.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	backend, err := c.OpenBackend(cfg.WorkDir())
	if err != nil {
		return nil, nil, err
	}
	return cfg, backend, nil
}

type contextKey struct{}

// WithContext stores c in ctx for retrieval by GetContext
func WithContext(ctx context.Context, c *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// GetContext returns the Context stored by WithContext
func GetContext(ctx context.Context) (*Context, error) {
	if ctx != nil {
		if c, ok := ctx.Value(contextKey{}).(*Context); ok && c != nil {
			return c, nil
		}
	}
	return nil, fmt.Errorf("no runtime context available")
}
