package out_test

import (
	"context"
	"testing"

	clioutadapter "basecli/internal/modules/cli/adapter/out"
	"basecli/internal/platform/hostapi"
)

type optionHost struct {
	hostapi.Host
	options map[string]any
}

func (h *optionHost) Option(key string, value any) error {
	h.options[key] = value
	return nil
}

func TestEnvPluginCopiesPrefixedVariables(t *testing.T) {
	t.Parallel()
	environ := func() []string {
		return []string{"BASECLI_THEME=dark", "BASECLI_=ignored", "HOME=/root", "BASECLI_URL=a=b", "basecli_lower=x"}
	}
	host := &optionHost{options: map[string]any{}}
	p := clioutadapter.NewEnvPlugin("basecli", environ)
	if p.Name() != "env" {
		t.Fatalf("unexpected name: %s", p.Name())
	}
	if err := p.Install(context.Background(), host); err != nil {
		t.Fatalf("install: %v", err)
	}
	if len(host.options) != 2 || host.options["theme"] != "dark" || host.options["url"] != "a=b" {
		t.Fatalf("unexpected options: %v", host.options)
	}
}
