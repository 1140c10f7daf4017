package service

import (
	"context"
	"fmt"
	"os"
	"strings"

	hclog "github.com/hashicorp/go-hclog"

	"basecli/internal/modules/cli/domain"
	"basecli/internal/modules/cli/dto"
	"basecli/internal/platform/hostapi"
	"basecli/internal/platform/logging"
)

// Options tunes Build.
type Options struct {
	// Args are processed ahead of every Process call.
	Args   []string
	Logger hclog.Logger
	// Getwd supplies the fallback directory for plugin resolution.
	Getwd func() (string, error)
}

// CLI is the installed dispatch layer: a callable proxy over the host
// dispatcher plus the optional store proxy.
type CLI struct {
	*Proxy
	Store *Proxy

	args []any
}

// Process runs the preseeded args followed by tokens against the host
// dispatcher, strictly left to right.
func (c *CLI) Process(ctx context.Context, tokens ...any) (dto.ProcessOutput, error) {
	seq := make([]any, 0, len(c.args)+len(tokens))
	seq = append(seq, c.args...)
	for _, tok := range tokens {
		if tok == nil {
			continue
		}
		seq = append(seq, tok)
	}
	return c.Proxy.Process(ctx, seq...)
}

// Build wires the fixed command table onto host and defines "cli" on it.
func Build(host hostapi.Host, resolver *Resolver, opts Options) (*CLI, error) {
	logger := logging.OrNull(opts.Logger)
	getwd := opts.Getwd
	if getwd == nil {
		getwd = os.Getwd
	}

	storeProxy, storeHandler, err := buildStore(host, logger)
	if err != nil {
		return nil, err
	}

	d := NewDispatcher(hostMethods(host, logger), logger.Named("app"))
	mustRegister(d.Alias("show", "get"))
	mustRegister(d.Alias("options", "option"))
	for _, name := range []string{"option", "data"} {
		mustRegister(d.Map(name, nil))
	}
	mustRegister(d.Map("store", storeHandler))
	for _, name := range []string{"enable", "enabled", "disable", "disabled", "define", "set", "del"} {
		mustRegister(d.Map(name, nil))
	}
	mustRegister(d.Map("cwd", Handler(func(_ context.Context, value any) error {
		return host.SetCwd(domain.Stringify(value))
	})))
	mustRegister(d.Map("has", Handler(func(_ context.Context, value any) error {
		for _, key := range queryKeys(value) {
			logger.Debug("has", "key", key, "result", host.Has(key))
		}
		return nil
	})))
	mustRegister(d.Map("get", Handler(func(_ context.Context, value any) error {
		for _, key := range queryKeys(value) {
			v, ok := host.Get(key)
			logger.Debug("get", "key", key, "found", ok, "value", v)
		}
		return nil
	})))
	mustRegister(d.Map("use", Handler(func(ctx context.Context, value any) error {
		for _, name := range domain.Keys(value) {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			cwd := host.Cwd()
			if cwd == "" {
				wd, err := getwd()
				if err != nil {
					return fmt.Errorf("get working directory: %w", err)
				}
				cwd = wd
			}
			plugin, err := resolver.Resolve(ctx, name, cwd)
			if err != nil {
				return err
			}
			if err := host.Use(ctx, plugin); err != nil {
				return err
			}
			host.Emit("use", name)
		}
		return nil
	})))

	cli := &CLI{Proxy: NewProxy(d), Store: storeProxy}
	for _, arg := range opts.Args {
		cli.args = append(cli.args, arg)
	}
	if err := host.Define("cli", cli); err != nil {
		return nil, err
	}
	return cli, nil
}

// buildStore returns the store proxy and the handler mapped as "store".
// Without a store the handler does nothing.
func buildStore(host hostapi.Host, logger hclog.Logger) (*Proxy, Handler, error) {
	store, ok := host.Store()
	if !ok || store == nil {
		return nil, func(context.Context, any) error { return nil }, nil
	}
	d := NewDispatcher(storeMethods(store, logger), logger.Named("store"))
	mustRegister(d.Alias("show", "get"))
	for _, name := range []string{"set", "del", "has", "hasOwn", "get"} {
		mustRegister(d.Map(name, nil))
	}
	proxy := NewProxy(d)
	if err := store.Define("cli", proxy); err != nil {
		return nil, nil, err
	}
	return proxy, func(ctx context.Context, value any) error {
		_, err := d.Process(ctx, value)
		return err
	}, nil
}

func hostMethods(host hostapi.Host, logger hclog.Logger) map[string]Handler {
	eachPair := func(fn func(key string, value any) error) Handler {
		return func(_ context.Context, value any) error {
			for _, pair := range domain.Expand(value) {
				if err := fn(pair.Key, pair.Value); err != nil {
					return err
				}
			}
			return nil
		}
	}
	eachKey := func(fn func(key string) error) Handler {
		return func(_ context.Context, value any) error {
			for _, key := range domain.Keys(value) {
				if err := fn(key); err != nil {
					return err
				}
			}
			return nil
		}
	}
	query := func(method string, fn func(key string) bool) Handler {
		return func(_ context.Context, value any) error {
			for _, key := range queryKeys(value) {
				logger.Debug(method, "key", key, "result", fn(key))
			}
			return nil
		}
	}
	return map[string]Handler{
		"option":   eachPair(host.Option),
		"data":     dataHandler(host),
		"enable":   eachKey(host.Enable),
		"enabled":  query("enabled", host.Enabled),
		"disable":  eachKey(host.Disable),
		"disabled": query("disabled", host.Disabled),
		"define":   eachPair(host.Define),
		"set":      eachPair(host.Set),
		"del":      eachKey(host.Del),
	}
}

// dataHandler treats bare fragments as data files and key=value fragments
// as inline data.
func dataHandler(host hostapi.Host) Handler {
	return func(_ context.Context, value any) error {
		if pairs, ok := domain.AsPairs(value); ok {
			for _, pair := range pairs {
				if err := host.Data(pair.Key, pair.Value); err != nil {
					return err
				}
			}
			return nil
		}
		for _, item := range domain.Arrayify(value) {
			s, ok := item.(string)
			if !ok {
				continue
			}
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			if key, v, found := strings.Cut(s, "="); found {
				if err := host.Data(key, v); err != nil {
					return err
				}
				continue
			}
			if err := host.LoadData(s); err != nil {
				return err
			}
		}
		return nil
	}
}

func storeMethods(store hostapi.Store, logger hclog.Logger) map[string]Handler {
	eachKey := func(fn func(ctx context.Context, key string) error) Handler {
		return func(ctx context.Context, value any) error {
			for _, key := range domain.Keys(value) {
				if err := fn(ctx, key); err != nil {
					return err
				}
			}
			return nil
		}
	}
	eachQueried := func(fn func(ctx context.Context, key string) error) Handler {
		return func(ctx context.Context, value any) error {
			for _, key := range queryKeys(value) {
				if err := fn(ctx, key); err != nil {
					return err
				}
			}
			return nil
		}
	}
	query := func(method string, fn func(ctx context.Context, key string) (bool, error)) Handler {
		return eachQueried(func(ctx context.Context, key string) error {
			ok, err := fn(ctx, key)
			if err != nil {
				return err
			}
			logger.Debug(method, "key", key, "result", ok)
			return nil
		})
	}
	return map[string]Handler{
		"set": func(ctx context.Context, value any) error {
			for _, pair := range domain.Expand(value) {
				if err := store.Set(ctx, pair.Key, pair.Value); err != nil {
					return err
				}
			}
			return nil
		},
		"del":    eachKey(store.Del),
		"has":    query("has", store.Has),
		"hasOwn": query("hasOwn", store.HasOwn),
		"get": eachQueried(func(ctx context.Context, key string) error {
			v, ok, err := store.Get(ctx, key)
			if err != nil {
				return err
			}
			logger.Debug("get", "key", key, "found", ok, "value", v)
			return nil
		}),
	}
}

// queryKeys returns the keys a read-only command asks about. A command given
// without a value carries true, which names no key.
func queryKeys(value any) []string {
	if flag, ok := value.(bool); ok && flag {
		return nil
	}
	return domain.Keys(value)
}

// mustRegister panics on registration errors in the fixed command tables.
func mustRegister(err error) {
	if err != nil {
		panic(fmt.Sprintf("register command: %v", err))
	}
}
