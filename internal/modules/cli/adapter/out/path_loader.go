package out

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	hclog "github.com/hashicorp/go-hclog"

	"basecli/internal/modules/cli/domain"
	cliout "basecli/internal/modules/cli/port/out"
)

// PathLoader resolves a filesystem path into an executable plugin. The path
// may be a plugin directory holding plugin.json, a manifest file, or the
// plugin binary itself.
type PathLoader struct {
	logger hclog.Logger
}

func NewPathLoader(logger hclog.Logger) cliout.Loader {
	return &PathLoader{logger: logger}
}

func (l *PathLoader) Load(_ context.Context, path, _ string) (any, error) {
	manifest, err := loadManifestAt(path)
	if err != nil {
		return nil, err
	}
	return NewGRPCPlugin(manifest, l.logger), nil
}

func loadManifestAt(path string) (domain.Manifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.Manifest{}, fmt.Errorf("stat plugin path: %w", err)
	}
	switch {
	case info.IsDir():
		return readManifest(filepath.Join(path, domain.ManifestFile))
	case strings.EqualFold(filepath.Ext(path), ".json"):
		return readManifest(path)
	case info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0:
		return domain.Manifest{
			Name:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			Binary: path,
		}, nil
	default:
		return domain.Manifest{}, fmt.Errorf("not a plugin: %s", path)
	}
}

func readManifest(path string) (domain.Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Manifest{}, fmt.Errorf("read plugin manifest: %w", err)
	}
	var manifest domain.Manifest
	decoder := json.NewDecoder(bytes.NewReader(b))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&manifest); err != nil {
		return domain.Manifest{}, fmt.Errorf("decode plugin manifest: %w", err)
	}
	if manifest.Binary != "" && !filepath.IsAbs(manifest.Binary) {
		manifest.Binary = filepath.Clean(filepath.Join(filepath.Dir(path), manifest.Binary))
	}
	if err := manifest.Validate(); err != nil {
		return domain.Manifest{}, err
	}
	if manifest.SHA256 != "" {
		if err := checksumMatches(manifest.Binary, manifest.SHA256); err != nil {
			return domain.Manifest{}, err
		}
	} else if _, err := os.Stat(manifest.Binary); err != nil {
		return domain.Manifest{}, fmt.Errorf("stat plugin binary: %w", err)
	}
	return manifest, nil
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read plugin binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	actual := hex.EncodeToString(hash[:])
	if actual != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}
