package out_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	clioutadapter "basecli/internal/modules/cli/adapter/out"
	"basecli/internal/modules/cli/domain"
	"basecli/internal/platform/hostapi"
)

type installHost struct {
	hostapi.Host
	cwd     string
	cache   map[string]any
	options map[string]any
	defined map[string]any
}

func (h *installHost) Cwd() string { return h.cwd }

func (h *installHost) Set(key string, value any) error {
	h.cache[key] = value
	return nil
}

func (h *installHost) Option(key string, value any) error {
	h.options[key] = value
	return nil
}

func (h *installHost) Enable(key string) error { return h.Option(key, true) }

func (h *installHost) Define(key string, value any) error {
	h.defined[key] = value
	return nil
}

func TestGRPCPluginIntegrationReferencePlugin(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the reference plugin")
	}
	binPath, checksum := buildReferencePlugin(t)
	dir := t.TempDir()
	writeManifest(t, filepath.Join(dir, domain.ManifestFile), domain.Manifest{
		Name:    "reference",
		Version: "1.0.0",
		Binary:  binPath,
		SHA256:  checksum,
	})

	value, err := clioutadapter.NewPathLoader(nil).Load(context.Background(), dir, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	plugin, ok := value.(hostapi.Plugin)
	if !ok {
		t.Fatalf("expected hostapi.Plugin, got %T", value)
	}

	host := &installHost{
		cwd:     filepath.Join(t.TempDir(), "site"),
		cache:   map[string]any{},
		options: map[string]any{},
		defined: map[string]any{},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := plugin.Install(ctx, host); err != nil {
		t.Fatalf("install: %v", err)
	}
	if host.options["reference"] != true {
		t.Fatalf("expected reference to be enabled, got %v", host.options)
	}
	if host.defined["reference.version"] != "1.0.0" {
		t.Fatalf("unexpected defined: %v", host.defined)
	}
	if host.cache["reference.project"] != "site" {
		t.Fatalf("unexpected cache: %v", host.cache)
	}
}

func buildReferencePlugin(t *testing.T) (string, string) {
	t.Helper()
	tmp := t.TempDir()
	binPath := filepath.Join(tmp, "reference-plugin")
	cmd := exec.Command("go", "build", "-o", binPath, "./plugins/reference")
	cmd.Dir = repositoryRoot(t)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build reference plugin: %v\n%s", err, string(out))
	}
	payload, err := os.ReadFile(binPath)
	if err != nil {
		t.Fatalf("read built plugin: %v", err)
	}
	hash := sha256.Sum256(payload)
	return binPath, hex.EncodeToString(hash[:])
}

func repositoryRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller failed")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "../../../../../"))
}
