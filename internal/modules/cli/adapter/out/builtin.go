package out

import (
	"context"
	"os"
	"strings"

	"basecli/internal/platform/hostapi"
)

// NewEnvPlugin returns the compiled-in "env" plugin. It copies
// PREFIX_NAME=value variables into host options as name=value.
func NewEnvPlugin(prefix string, environ func() []string) hostapi.Plugin {
	if environ == nil {
		environ = os.Environ
	}
	marker := strings.ToUpper(prefix) + "_"
	return hostapi.PluginFunc{
		ID: "env",
		Fn: func(_ context.Context, host hostapi.Host) error {
			for _, kv := range environ() {
				key, value, ok := strings.Cut(kv, "=")
				if !ok || !strings.HasPrefix(key, marker) || len(key) == len(marker) {
					continue
				}
				if err := host.Option(strings.ToLower(strings.TrimPrefix(key, marker)), value); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
