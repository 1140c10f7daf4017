package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const dirName = ".basecli"

type Config struct {
	Cwd       string
	StateDir  string
	DBPath    string
	PluginDir string
	LogLevel  string
	// Args are tokens processed ahead of every explicit invocation.
	Args []string
}

type fileConfig struct {
	Args      []string `yaml:"args"`
	LogLevel  string   `yaml:"log_level"`
	PluginDir string   `yaml:"plugin_dir"`
}

func New(cwd string) (Config, error) {
	if cwd == "" {
		return Config{}, fmt.Errorf("working directory is required")
	}
	abs, err := filepath.Abs(cwd)
	if err != nil {
		return Config{}, fmt.Errorf("resolve working directory: %w", err)
	}
	stateDir := filepath.Join(abs, dirName)
	cfg := Config{
		Cwd:       abs,
		StateDir:  stateDir,
		DBPath:    filepath.Join(stateDir, "basecli.db"),
		PluginDir: filepath.Join(stateDir, "plugins"),
		LogLevel:  "warn",
	}
	if err := cfg.mergeFile(filepath.Join(stateDir, "config.yaml")); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	decoder := yaml.NewDecoder(bytes.NewReader(b))
	decoder.KnownFields(true)
	if err := decoder.Decode(&fc); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if len(fc.Args) > 0 {
		c.Args = fc.Args
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.PluginDir != "" {
		if filepath.IsAbs(fc.PluginDir) {
			c.PluginDir = filepath.Clean(fc.PluginDir)
		} else {
			c.PluginDir = filepath.Clean(filepath.Join(c.Cwd, fc.PluginDir))
		}
	}
	return nil
}
