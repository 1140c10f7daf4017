package service

import (
	"context"
	"path/filepath"

	hclog "github.com/hashicorp/go-hclog"

	"basecli/internal/modules/cli/domain"
	cliout "basecli/internal/modules/cli/port/out"
	"basecli/internal/platform/logging"
)

// Resolver finds plugins by name: first among installed modules, then as a
// path relative to the working directory.
type Resolver struct {
	modules cliout.Loader
	paths   cliout.Loader
	logger  hclog.Logger
}

func NewResolver(modules, paths cliout.Loader, logger hclog.Logger) *Resolver {
	return &Resolver{modules: modules, paths: paths, logger: logging.OrNull(logger)}
}

// Resolve returns the loaded plugin value or a *domain.PluginNotFoundError
// when both lookups fail. Nothing is loaded into the host here.
func (r *Resolver) Resolve(ctx context.Context, name, cwd string) (any, error) {
	if value, err := r.attempt(ctx, "module", r.modules, name, cwd); err == nil {
		return value, nil
	}
	if value, err := r.attempt(ctx, "path", r.paths, absolute(name, cwd), cwd); err == nil {
		return value, nil
	}
	return nil, &domain.PluginNotFoundError{Name: name}
}

func (r *Resolver) attempt(ctx context.Context, step string, loader cliout.Loader, name, cwd string) (any, error) {
	if loader == nil {
		return nil, domain.ErrPluginNotFound
	}
	value, err := loader.Load(ctx, name, cwd)
	if err != nil {
		r.logger.Debug("plugin lookup failed", "step", step, "name", name, "error", err)
		return nil, err
	}
	if value == nil {
		return nil, domain.ErrPluginNotFound
	}
	return value, nil
}

func absolute(name, cwd string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(cwd, name)
}
