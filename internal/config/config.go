package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything rackline needs to reach and talk to the
// Foundry controller.
type Config struct {
	ServerAddr  string        `env:"RACKLINE_SERVER"`
	LogDir      string        `env:"RACKLINE_LOG_DIR"`
	DialTimeout time.Duration `env:"RACKLINE_DIAL_TIMEOUT"`
}

const (
	defaultConfigPath  = "~/.config/rackline/config.toml"
	defaultLogDir      = "~/.local/share/rackline/logs"
	defaultServerAddr  = "127.0.0.1:5240"
	defaultDialTimeout = 10 * time.Second
)

// Load locates and parses the rackline config, falling back to defaults
// when missing. Environment variables override anything read from the
// file, so a one-off RACKLINE_SERVER wins without editing it.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		ServerAddr:  defaultServerAddr,
		DialTimeout: defaultDialTimeout,
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.LogDir = mustExpand(defaultLogDir)
			return applyEnv(cfg)
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Server      string `toml:"server"`
		LogDir      string `toml:"log_dir"`
		DialTimeout string `toml:"dial_timeout"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.ServerAddr = strings.TrimSpace(raw.Server)
	if cfg.ServerAddr == "" {
		cfg.ServerAddr = defaultServerAddr
	}

	cfg.LogDir = strings.TrimSpace(raw.LogDir)
	if cfg.LogDir == "" {
		cfg.LogDir = defaultLogDir
	}
	cfg.LogDir = mustExpand(cfg.LogDir)

	if timeout := strings.TrimSpace(raw.DialTimeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse dial_timeout: %w", err)
		}
		cfg.DialTimeout = d
	}

	return applyEnv(cfg)
}

// LogPath returns the path to the rackline log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/rackline.log")
	}
	return filepath.Join(c.LogDir, "rackline.log")
}

func applyEnv(cfg Config) (Config, error) {
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
