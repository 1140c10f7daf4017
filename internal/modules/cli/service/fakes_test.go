package service_test

import (
	"context"
	"errors"
	"fmt"

	"basecli/internal/platform/hostapi"
)

var errBoom = errors.New("boom")

// recordingHost keeps flat maps and a call log so tests can assert order.
type recordingHost struct {
	cache   map[string]any
	options map[string]any
	data    map[string]any
	defined map[string]any
	loaded  []string
	calls   []string
	events  []string
	queries []string
	cwd     string
	store   *recordingStore
	failSet string
}

func newRecordingHost() *recordingHost {
	return &recordingHost{
		cache:   map[string]any{},
		options: map[string]any{},
		data:    map[string]any{},
		defined: map[string]any{},
	}
}

func (h *recordingHost) log(format string, args ...any) {
	h.calls = append(h.calls, fmt.Sprintf(format, args...))
}

func (h *recordingHost) Set(key string, value any) error {
	if key == h.failSet {
		return errBoom
	}
	h.log("set %s=%v", key, value)
	h.cache[key] = value
	return nil
}

func (h *recordingHost) Get(key string) (any, bool) {
	h.queries = append(h.queries, "get "+key)
	v, ok := h.cache[key]
	return v, ok
}

func (h *recordingHost) Has(key string) bool {
	h.queries = append(h.queries, "has "+key)
	_, ok := h.cache[key]
	return ok
}

func (h *recordingHost) Del(key string) error {
	h.log("del %s", key)
	delete(h.cache, key)
	return nil
}

func (h *recordingHost) Option(key string, value any) error {
	h.log("option %s=%v", key, value)
	h.options[key] = value
	return nil
}

func (h *recordingHost) Data(key string, value any) error {
	h.log("data %s=%v", key, value)
	h.data[key] = value
	return nil
}

func (h *recordingHost) LoadData(path string) error {
	h.log("load %s", path)
	h.loaded = append(h.loaded, path)
	return nil
}

func (h *recordingHost) Enable(key string) error  { return h.Option(key, true) }
func (h *recordingHost) Disable(key string) error { return h.Option(key, false) }

func (h *recordingHost) Enabled(key string) bool {
	v, _ := h.options[key].(bool)
	return v
}

func (h *recordingHost) Disabled(key string) bool { return !h.Enabled(key) }

func (h *recordingHost) Define(key string, value any) error {
	h.log("define %s", key)
	h.defined[key] = value
	return nil
}

func (h *recordingHost) Use(ctx context.Context, plugin any) error {
	p, ok := plugin.(hostapi.Plugin)
	if !ok {
		return fmt.Errorf("not a plugin: %T", plugin)
	}
	if err := p.Install(ctx, h); err != nil {
		return err
	}
	h.log("use %s", p.Name())
	return nil
}

func (h *recordingHost) Emit(event string, args ...any) {
	h.events = append(h.events, event+":"+fmt.Sprint(args...))
	h.log("emit %s %v", event, args)
}

func (h *recordingHost) Cwd() string { return h.cwd }

func (h *recordingHost) SetCwd(path string) error {
	h.log("cwd %s", path)
	h.cwd = path
	return nil
}

func (h *recordingHost) Store() (hostapi.Store, bool) {
	if h.store == nil {
		return nil, false
	}
	return h.store, true
}

type recordingStore struct {
	values  map[string]any
	defined map[string]any
}

func newRecordingStore() *recordingStore {
	return &recordingStore{values: map[string]any{}, defined: map[string]any{}}
}

func (s *recordingStore) Set(_ context.Context, key string, value any) error {
	s.values[key] = value
	return nil
}

func (s *recordingStore) Get(_ context.Context, key string) (any, bool, error) {
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *recordingStore) Has(_ context.Context, key string) (bool, error) {
	v, ok := s.values[key]
	return ok && v != nil, nil
}

func (s *recordingStore) HasOwn(_ context.Context, key string) (bool, error) {
	_, ok := s.values[key]
	return ok, nil
}

func (s *recordingStore) Del(_ context.Context, key string) error {
	delete(s.values, key)
	return nil
}

func (s *recordingStore) Define(key string, value any) error {
	s.defined[key] = value
	return nil
}
