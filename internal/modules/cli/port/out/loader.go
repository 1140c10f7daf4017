package out

import "context"

// Loader resolves a plugin name into a value a host can install.
// A non-nil error means the name could not be resolved by this loader.
type Loader interface {
	Load(ctx context.Context, name, cwd string) (any, error)
}

// LoaderFunc adapts a function into a Loader.
type LoaderFunc func(ctx context.Context, name, cwd string) (any, error)

func (f LoaderFunc) Load(ctx context.Context, name, cwd string) (any, error) {
	return f(ctx, name, cwd)
}
