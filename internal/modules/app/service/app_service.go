package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	hclog "github.com/hashicorp/go-hclog"

	"basecli/internal/modules/app/domain"
	"basecli/internal/modules/app/dto"
	appout "basecli/internal/modules/app/port/out"
	"basecli/internal/platform/clock"
	apperrors "basecli/internal/platform/errors"
	"basecli/internal/platform/hostapi"
	"basecli/internal/platform/id"
	"basecli/internal/platform/logging"
)

// AppService is the extensible application the dispatch layer drives.
// It is not safe for concurrent use; callers drive it from one goroutine.
type AppService struct {
	cache     map[string]any
	options   map[string]any
	data      map[string]any
	defined   map[string]any
	plugins   []string
	listeners map[string][]domain.Listener

	store   appout.StoreBackend
	loader  appout.DataLoader
	journal appout.EventJournal
	clock   clock.Clock
	ids     id.Generator
	logger  hclog.Logger
}

type Deps struct {
	Store   appout.StoreBackend
	Loader  appout.DataLoader
	Journal appout.EventJournal
	Clock   clock.Clock
	IDs     id.Generator
	Logger  hclog.Logger
}

func NewAppService(deps Deps) *AppService {
	if deps.Clock == nil {
		deps.Clock = clock.SystemClock{}
	}
	if deps.IDs == nil {
		deps.IDs = id.UUID{}
	}
	return &AppService{
		cache:     map[string]any{},
		options:   map[string]any{},
		data:      map[string]any{},
		defined:   map[string]any{},
		listeners: map[string][]domain.Listener{},
		store:     deps.Store,
		loader:    deps.Loader,
		journal:   deps.Journal,
		clock:     deps.Clock,
		ids:       deps.IDs,
		logger:    logging.OrNull(deps.Logger),
	}
}

func validKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key is required", apperrors.ErrInvalidInput)
	}
	return nil
}

func (s *AppService) Set(key string, value any) error {
	if err := validKey(key); err != nil {
		return err
	}
	domain.SetPath(s.cache, key, value)
	s.Emit("set", key, value)
	return nil
}

func (s *AppService) Get(key string) (any, bool) {
	return domain.GetPath(s.cache, key)
}

func (s *AppService) Has(key string) bool {
	v, ok := domain.GetPath(s.cache, key)
	return ok && v != nil
}

func (s *AppService) Del(key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if domain.DelPath(s.cache, key) {
		s.Emit("del", key)
	}
	return nil
}

func (s *AppService) Option(key string, value any) error {
	if err := validKey(key); err != nil {
		return err
	}
	domain.SetPath(s.options, key, value)
	s.Emit("option", key, value)
	return nil
}

func (s *AppService) OptionValue(key string) (any, bool) {
	return domain.GetPath(s.options, key)
}

func (s *AppService) Data(key string, value any) error {
	if err := validKey(key); err != nil {
		return err
	}
	domain.SetPath(s.data, key, value)
	return nil
}

// LoadData merges a data file into the data cache. Relative paths resolve
// against the configured cwd.
func (s *AppService) LoadData(path string) error {
	if s.loader == nil {
		return fmt.Errorf("%w: no data loader configured", apperrors.ErrInvalidInput)
	}
	if !filepath.IsAbs(path) && s.Cwd() != "" {
		path = filepath.Join(s.Cwd(), path)
	}
	loaded, err := s.loader.Load(context.Background(), path)
	if err != nil {
		return err
	}
	domain.Merge(s.data, loaded)
	s.Emit("data", path)
	return nil
}

func (s *AppService) DataValue(key string) (any, bool) {
	return domain.GetPath(s.data, key)
}

func (s *AppService) Enable(key string) error {
	return s.Option(key, true)
}

func (s *AppService) Enabled(key string) bool {
	v, _ := domain.GetPath(s.options, key)
	return domain.Truthy(v)
}

func (s *AppService) Disable(key string) error {
	return s.Option(key, false)
}

func (s *AppService) Disabled(key string) bool {
	return !s.Enabled(key)
}

func (s *AppService) Define(key string, value any) error {
	if err := validKey(key); err != nil {
		return err
	}
	s.defined[key] = value
	return nil
}

func (s *AppService) Defined(key string) (any, bool) {
	v, ok := s.defined[key]
	return v, ok
}

func (s *AppService) Use(ctx context.Context, plugin any) error {
	p, ok := plugin.(hostapi.Plugin)
	if !ok {
		return fmt.Errorf("%w: %T", apperrors.ErrNotPlugin, plugin)
	}
	if err := p.Install(ctx, s); err != nil {
		return fmt.Errorf("install plugin %s: %w", p.Name(), err)
	}
	s.plugins = append(s.plugins, p.Name())
	s.logger.Debug("plugin installed", "plugin", p.Name())
	return nil
}

func (s *AppService) On(event string, fn domain.Listener) {
	s.listeners[event] = append(s.listeners[event], fn)
}

func (s *AppService) Emit(event string, args ...any) {
	for _, fn := range s.listeners[event] {
		fn(args...)
	}
	if s.journal == nil {
		return
	}
	rendered := make([]string, 0, len(args))
	for _, a := range args {
		rendered = append(rendered, fmt.Sprint(a))
	}
	ev := domain.Event{ID: s.ids.New(), Name: event, Args: rendered, At: s.clock.Now()}
	if err := s.journal.Append(context.Background(), ev); err != nil {
		s.logger.Warn("record event", "event", event, "error", err)
	}
}

func (s *AppService) Cwd() string {
	v, ok := s.Get("cwd")
	if !ok {
		return ""
	}
	cwd, _ := v.(string)
	return cwd
}

func (s *AppService) SetCwd(path string) error {
	return s.Set("cwd", path)
}

func (s *AppService) Store() (hostapi.Store, bool) {
	if s.store == nil {
		return nil, false
	}
	return s.store, true
}

func (s *AppService) StoreEntries(ctx context.Context) ([]dto.StoreEntry, error) {
	if s.store == nil {
		return []dto.StoreEntry{}, nil
	}
	entries, err := s.store.Entries(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StoreEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.StoreEntry{Key: e.Key, Value: e.Value})
	}
	return out, nil
}

func (s *AppService) Plugins() []string {
	return append([]string(nil), s.plugins...)
}

func (s *AppService) Snapshot() dto.Snapshot {
	defined := make([]string, 0, len(s.defined))
	for k := range s.defined {
		defined = append(defined, k)
	}
	sort.Strings(defined)
	return dto.Snapshot{
		Cache:   copyMap(s.cache),
		Options: copyMap(s.options),
		Data:    copyMap(s.data),
		Defined: defined,
		Plugins: s.Plugins(),
		Cwd:     s.Cwd(),
	}
}

func (s *AppService) Events(ctx context.Context, limit int) ([]dto.EventOutput, error) {
	if s.journal == nil {
		return []dto.EventOutput{}, nil
	}
	events, err := s.journal.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EventOutput, 0, len(events))
	for _, ev := range events {
		out = append(out, dto.EventOutput{ID: ev.ID, Name: ev.Name, Args: ev.Args, At: ev.At})
	}
	return out, nil
}

func copyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if nested, ok := v.(map[string]any); ok {
			out[k] = copyMap(nested)
			continue
		}
		out[k] = v
	}
	return out
}
