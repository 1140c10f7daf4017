package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"basecli/internal/modules/cli/domain"
	cliout "basecli/internal/modules/cli/port/out"
	"basecli/internal/modules/cli/service"
	"basecli/internal/platform/hostapi"
)

func installer(name string, host *recordingHost) hostapi.Plugin {
	return hostapi.PluginFunc{ID: name, Fn: func(context.Context, hostapi.Host) error {
		host.log("install %s", name)
		return nil
	}}
}

func moduleLoader(host *recordingHost, known ...string) cliout.Loader {
	return cliout.LoaderFunc(func(_ context.Context, name, _ string) (any, error) {
		for _, k := range known {
			if k == name {
				return installer(name, host), nil
			}
		}
		return nil, domain.ErrPluginNotFound
	})
}

func build(t *testing.T, host *recordingHost, resolver *service.Resolver, args ...string) *service.CLI {
	t.Helper()
	if resolver == nil {
		resolver = service.NewResolver(nil, nil, nil)
	}
	cli, err := service.Build(host, resolver, service.Options{
		Args:  args,
		Getwd: func() (string, error) { return "/work", nil },
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return cli
}

func TestBuildRegistersFixedTable(t *testing.T) {
	t.Parallel()
	host := newRecordingHost()
	cli := build(t, host, nil)

	var names []string
	for _, c := range cli.Commands() {
		names = append(names, c.Name)
	}
	want := []string{"option", "data", "store", "enable", "enabled", "disable", "disabled", "define", "set", "del", "cwd", "has", "get", "use"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("unexpected commands:\n got %v\nwant %v", names, want)
	}
	if cli.Resolve("show") != "get" || cli.Resolve("options") != "option" {
		t.Fatalf("expected built-in aliases")
	}
	if defined, ok := host.defined["cli"]; !ok || defined != cli {
		t.Fatalf("expected cli to be defined on host")
	}
}

func TestBuildWithoutStoreMakesStoreNoop(t *testing.T) {
	t.Parallel()
	host := newRecordingHost()
	cli := build(t, host, nil)
	if cli.Store != nil {
		t.Fatalf("expected no store proxy")
	}
	before := len(host.calls)
	out, err := cli.Process(context.Background(), "--store=set=a=b")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !reflect.DeepEqual(out.Dispatched, []string{"store"}) || len(host.calls) != before {
		t.Fatalf("expected a silent no-op, got %v / %v", out.Dispatched, host.calls[before:])
	}
}

func TestBuildWithStoreRoutesStoreTokens(t *testing.T) {
	t.Parallel()
	host := newRecordingHost()
	host.store = newRecordingStore()
	cli := build(t, host, nil)
	if cli.Store == nil {
		t.Fatalf("expected store proxy")
	}
	if _, ok := host.store.defined["cli"]; !ok {
		t.Fatalf("expected cli to be defined on store")
	}
	if _, err := cli.Process(context.Background(), "--store=set=a=b"); err != nil {
		t.Fatalf("process: %v", err)
	}
	if host.store.values["a"] != "b" {
		t.Fatalf("expected store value, got %v", host.store.values)
	}
	if _, err := cli.Store.Process(context.Background(), "--del=a"); err != nil {
		t.Fatalf("store process: %v", err)
	}
	if _, ok := host.store.values["a"]; ok {
		t.Fatalf("expected store delete")
	}
	if cli.Store.Resolve("show") != "get" {
		t.Fatalf("expected store alias show -> get")
	}

	var names []string
	for _, c := range cli.Store.Commands() {
		names = append(names, c.Name)
	}
	if want := []string{"set", "del", "has", "hasOwn", "get"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("unexpected store commands:\n got %v\nwant %v", names, want)
	}
	for _, name := range []string{"use", "enable", "define", "disable", "cwd", "store"} {
		if cli.Store.Has(name) {
			t.Fatalf("store proxy must not expose %q", name)
		}
	}
}

func TestHostCommandsPassValuesThrough(t *testing.T) {
	t.Parallel()
	host := newRecordingHost()
	cli := build(t, host, nil)
	_, err := cli.Process(context.Background(),
		"--set=title=Docs", "--options=theme=dark", "--enable=verbose,color",
		"--data=site=x", "--data=extra.yaml", "--define=k=v", "--del=title")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	want := []string{
		"set title=Docs",
		"option theme=dark",
		"option verbose=true",
		"option color=true",
		"data site=x",
		"load extra.yaml",
		"define k",
		"del title",
	}
	if !reflect.DeepEqual(host.calls[1:], want) {
		t.Fatalf("unexpected calls:\n got %v\nwant %v", host.calls[1:], want)
	}
}

func TestHasAndGetDoNotMutate(t *testing.T) {
	t.Parallel()
	host := newRecordingHost()
	host.cache["title"] = "Docs"
	cli := build(t, host, nil)
	before := len(host.calls)
	if _, err := cli.Process(context.Background(), "--has=title", "--show=title,missing", "--enabled=x"); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(host.calls) != before {
		t.Fatalf("queries should not call mutators: %v", host.calls[before:])
	}
}

func TestBareQueriesAskForNothing(t *testing.T) {
	t.Parallel()
	host := newRecordingHost()
	host.cache["true"] = "trap"
	host.store = newRecordingStore()
	cli := build(t, host, nil)
	before := len(host.calls)
	if _, err := cli.Process(context.Background(), "--get", "--has", "--show", "--enabled"); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(host.queries) != 0 {
		t.Fatalf("expected no key lookups, got %v", host.queries)
	}
	if len(host.calls) != before {
		t.Fatalf("queries should not call mutators: %v", host.calls[before:])
	}
	if _, err := cli.Process(context.Background(), "--get=title"); err != nil {
		t.Fatalf("process: %v", err)
	}
	if !reflect.DeepEqual(host.queries, []string{"get title"}) {
		t.Fatalf("expected a lookup of title, got %v", host.queries)
	}
}

func TestValueAfterBareFlagIsNeverACommand(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		tokens  []any
		calls   []string
		queries []string
	}{
		{name: "use assignment", tokens: []any{"--set", "use=ghost"}, calls: []string{"set use=ghost"}},
		{name: "data assignment", tokens: []any{"--set", "data=x"}, calls: []string{"set data=x"}},
		{name: "cwd assignment", tokens: []any{"--set", "cwd=/tmp"}, calls: []string{"set cwd=/tmp"}},
		{name: "command name as key", tokens: []any{"--get", "set"}, queries: []string{"get set"}},
		{name: "command name after has", tokens: []any{"--has", "use"}, queries: []string{"has use"}},
		{name: "comma continuation", tokens: []any{"--set=a=1,use=ghost"}, calls: []string{"set a=1", "set use=ghost"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			host := newRecordingHost()
			cli := build(t, host, service.NewResolver(moduleLoader(host, "lint"), nil, nil))
			before := len(host.calls)
			if _, err := cli.Process(context.Background(), tt.tokens...); err != nil {
				t.Fatalf("process: %v", err)
			}
			got := host.calls[before:]
			if len(got) == 0 {
				got = nil
			}
			if !reflect.DeepEqual(got, tt.calls) {
				t.Fatalf("unexpected calls:\n got %v\nwant %v", got, tt.calls)
			}
			if !reflect.DeepEqual(host.queries, tt.queries) {
				t.Fatalf("unexpected lookups:\n got %v\nwant %v", host.queries, tt.queries)
			}
			if len(host.events) != 0 || len(host.loaded) != 0 || host.cwd != "" {
				t.Fatalf("value was run as a command: events=%v loaded=%v cwd=%q", host.events, host.loaded, host.cwd)
			}
		})
	}
}

func TestUseInstallsInOrderAndEmitsOncePerPlugin(t *testing.T) {
	t.Parallel()
	host := newRecordingHost()
	resolver := service.NewResolver(moduleLoader(host, "lint", "format"), nil, nil)
	cli := build(t, host, resolver)

	if _, err := cli.Process(context.Background(), "--use=lint,format"); err != nil {
		t.Fatalf("process: %v", err)
	}
	want := []string{
		"install lint", "use lint", "emit use [lint]",
		"install format", "use format", "emit use [format]",
	}
	if !reflect.DeepEqual(host.calls[1:], want) {
		t.Fatalf("unexpected calls:\n got %v\nwant %v", host.calls[1:], want)
	}
	if !reflect.DeepEqual(host.events, []string{"use:lint", "use:format"}) {
		t.Fatalf("unexpected events: %v", host.events)
	}
}

func TestUseUnknownPluginFailsWithoutEvent(t *testing.T) {
	t.Parallel()
	host := newRecordingHost()
	resolver := service.NewResolver(moduleLoader(host, "lint"), nil, nil)
	cli := build(t, host, resolver)

	_, err := cli.Process(context.Background(), "--use=ghost", "--set=after=1")
	var notFound *domain.PluginNotFoundError
	if !errors.As(err, &notFound) || notFound.Name != "ghost" {
		t.Fatalf("expected PluginNotFoundError for ghost, got %v", err)
	}
	if err.Error() != "cannot find plugin: ghost" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if len(host.events) != 0 {
		t.Fatalf("expected no use event, got %v", host.events)
	}
	if _, ok := host.cache["after"]; ok {
		t.Fatalf("commands after the failure must not run")
	}
}

func TestUseResolvesPathsAgainstConfiguredCwd(t *testing.T) {
	t.Parallel()
	host := newRecordingHost()
	var seen []string
	paths := cliout.LoaderFunc(func(_ context.Context, name, _ string) (any, error) {
		seen = append(seen, name)
		return installer(filepath.Base(name), host), nil
	})
	cli := build(t, host, service.NewResolver(nil, paths, nil))

	if _, err := cli.Process(context.Background(), "--cwd=/srv/site", "--use=plugins/local"); err != nil {
		t.Fatalf("process: %v", err)
	}
	if !reflect.DeepEqual(seen, []string{"/srv/site/plugins/local"}) {
		t.Fatalf("expected cwd to apply before use, got %v", seen)
	}

	fresh := newRecordingHost()
	seen = nil
	cli = build(t, fresh, service.NewResolver(nil, paths, nil))
	if _, err := cli.Process(context.Background(), "--use=local"); err != nil {
		t.Fatalf("process: %v", err)
	}
	if !reflect.DeepEqual(seen, []string{"/work/local"}) {
		t.Fatalf("expected process working directory fallback, got %v", seen)
	}
}

func TestPreseededArgsRunFirst(t *testing.T) {
	t.Parallel()
	host := newRecordingHost()
	cli := build(t, host, nil, "--set=a=1", "--enable=x")
	if _, err := cli.Process(context.Background(), "--set=a=2"); err != nil {
		t.Fatalf("process: %v", err)
	}
	want := []string{"set a=1", "option x=true", "set a=2"}
	if !reflect.DeepEqual(host.calls[1:], want) {
		t.Fatalf("unexpected calls: %v", host.calls[1:])
	}
	if host.cache["a"] != "2" {
		t.Fatalf("expected later tokens to win, got %v", host.cache["a"])
	}
}

func TestHostErrorsPropagate(t *testing.T) {
	t.Parallel()
	host := newRecordingHost()
	host.failSet = "bad"
	cli := build(t, host, nil)
	if _, err := cli.Process(context.Background(), "--set=bad=1"); !errors.Is(err, errBoom) {
		t.Fatalf("expected host error, got %v", err)
	}
}
