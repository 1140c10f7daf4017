// Package hostapi names the capability surface an extensible application
// exposes to the command dispatch layer and to the plugins it installs.
package hostapi

import "context"

// Host is the mutable application the dispatcher drives. All state lives
// behind these methods; callers never copy it.
type Host interface {
	Set(key string, value any) error
	Get(key string) (any, bool)
	Has(key string) bool
	Del(key string) error

	Option(key string, value any) error
	Data(key string, value any) error
	LoadData(path string) error

	Enable(key string) error
	Enabled(key string) bool
	Disable(key string) error
	Disabled(key string) bool

	Define(key string, value any) error

	// Use installs a plugin value. The host decides which values it accepts.
	Use(ctx context.Context, plugin any) error
	Emit(event string, args ...any)

	// Cwd returns the configured working directory or "" when unset.
	Cwd() string
	SetCwd(path string) error

	// Store returns the optional persistent sub-object.
	Store() (Store, bool)
}

// Store is the narrower persistent surface hanging off a Host.
type Store interface {
	Set(ctx context.Context, key string, value any) error
	Get(ctx context.Context, key string) (any, bool, error)
	Has(ctx context.Context, key string) (bool, error)
	HasOwn(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, key string) error
	Define(key string, value any) error
}

// Plugin is the value hosts accept in Use.
type Plugin interface {
	Name() string
	Install(ctx context.Context, host Host) error
}

// PluginFunc adapts a function into a Plugin.
type PluginFunc struct {
	ID string
	Fn func(ctx context.Context, host Host) error
}

func (p PluginFunc) Name() string { return p.ID }

func (p PluginFunc) Install(ctx context.Context, host Host) error {
	return p.Fn(ctx, host)
}
