package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/numdeck/numdeck/internal/sheet"
)

// Config captures the fields numdeck reads from its config file.
type Config struct {
	SheetURL    string
	CountryCode string
	LogDir      string
	ActivePoll  time.Duration
	IdlePoll    time.Duration
}

const (
	defaultConfigPath = "~/.config/numdeck/config.toml"
	defaultLogDir     = "~/.local/share/numdeck/logs"
	defaultSheetURL   = "127.0.0.1:8090"
	defaultActivePoll = 1000 * time.Millisecond
	defaultIdlePoll   = 2000 * time.Millisecond
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the numdeck config, falling back to defaults
// when the file is missing. A missing file is normal on first run; a
// present but unparseable file is an error worth stopping for.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		SheetURL:    defaultSheetURL,
		CountryCode: sheet.DefaultCountryCode,
		LogDir:      mustExpand(defaultLogDir),
		ActivePoll:  defaultActivePoll,
		IdlePoll:    defaultIdlePoll,
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		SheetURL     string `toml:"sheet_url"`
		CountryCode  string `toml:"country_code"`
		LogDir       string `toml:"log_dir"`
		ActivePollMS int64  `toml:"active_poll_ms"`
		IdlePollMS   int64  `toml:"idle_poll_ms"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.SheetURL); v != "" {
		cfg.SheetURL = v
	}
	if v := strings.TrimSpace(raw.CountryCode); v != "" {
		cfg.CountryCode = v
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.LogDir = mustExpand(v)
	}
	if raw.ActivePollMS > 0 {
		cfg.ActivePoll = time.Duration(raw.ActivePollMS) * time.Millisecond
	}
	if raw.IdlePollMS > 0 {
		cfg.IdlePoll = time.Duration(raw.IdlePollMS) * time.Millisecond
	}

	return cfg, nil
}

// LogPath returns the path of numdeck's own log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/numdeck.log")
	}
	return filepath.Join(c.LogDir, "numdeck.log")
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
