package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	appout "basecli/internal/modules/app/port/out"
	apperrors "basecli/internal/platform/errors"
)

// FileDataLoader reads YAML, JSON and TOML data files.
type FileDataLoader struct{}

func NewFileDataLoader() appout.DataLoader {
	return FileDataLoader{}
}

func (FileDataLoader) Load(_ context.Context, path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}
	decoded := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		if err := yaml.Unmarshal(b, &decoded); err != nil {
			return nil, fmt.Errorf("unmarshal data file: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &decoded); err != nil {
			return nil, fmt.Errorf("unmarshal data file: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: data file type %q", apperrors.ErrInvalidInput, filepath.Ext(path))
	}
	if decoded == nil {
		decoded = map[string]any{}
	}
	return decoded, nil
}
