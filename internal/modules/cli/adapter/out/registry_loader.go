package out

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	apperrors "basecli/internal/platform/errors"
	"basecli/internal/platform/hostapi"
)

// RegistryLoader resolves bare plugin names: compiled-in plugins first, then
// plugins installed under dir/<name>/plugin.json. Scoped names such as
// "@acme/lint" map to nested directories.
type RegistryLoader struct {
	mu      sync.RWMutex
	plugins map[string]hostapi.Plugin
	dir     string
	logger  hclog.Logger
}

func NewRegistryLoader(dir string, logger hclog.Logger) *RegistryLoader {
	return &RegistryLoader{plugins: map[string]hostapi.Plugin{}, dir: dir, logger: logger}
}

// Register adds a compiled-in plugin under its name.
func (r *RegistryLoader) Register(p hostapi.Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := p.Name()
	if name == "" {
		return fmt.Errorf("%w: plugin name is required", apperrors.ErrInvalidInput)
	}
	if _, exists := r.plugins[name]; exists {
		return fmt.Errorf("plugin %s already registered", name)
	}
	r.plugins[name] = p
	return nil
}

func (r *RegistryLoader) Load(_ context.Context, name, _ string) (any, error) {
	r.mu.RLock()
	p, ok := r.plugins[name]
	r.mu.RUnlock()
	if ok {
		return p, nil
	}
	installed, err := r.installedPath(name)
	if err != nil {
		return nil, err
	}
	manifest, err := loadManifestAt(installed)
	if err != nil {
		return nil, err
	}
	return NewGRPCPlugin(manifest, r.logger), nil
}

func (r *RegistryLoader) installedPath(name string) (string, error) {
	if r.dir == "" {
		return "", fmt.Errorf("%w: plugin %s", apperrors.ErrNotFound, name)
	}
	clean := path.Clean(strings.TrimPrefix(name, "@"))
	if clean == "." || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %s is not a module name", apperrors.ErrInvalidInput, name)
	}
	return filepath.Join(r.dir, filepath.FromSlash(clean)), nil
}
