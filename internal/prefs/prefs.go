// Package prefs handles numdeck user preferences persistence.
// Preferences are stored in ~/.config/numdeck/prefs.toml.
package prefs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences. PageSize follows the view convention:
// 0 means every row on one page.
type Prefs struct {
	Theme    string `toml:"theme"`
	PageSize int    `toml:"page_size"`
}

const (
	defaultPrefsPath = "~/.config/numdeck/prefs.toml"
	defaultTheme     = "Dracula"
	defaultPageSize  = 25
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path, falling back to defaults
// if missing or unreadable. Preferences are cosmetic; no load failure is
// worth refusing to start over.
func Load(path string) (Prefs, error) {
	defaults := Prefs{Theme: defaultTheme, PageSize: defaultPageSize}

	resolved, err := resolvePath(path)
	if err != nil {
		return defaults, nil
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaults, nil
		}
		return defaults, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	raw, err := io.ReadAll(file)
	if err != nil {
		return defaults, nil // Graceful degradation
	}

	// PageSize needs a pointer to tell "absent" apart from the stored
	// unbounded sentinel 0.
	var parsed struct {
		Theme    string `toml:"theme"`
		PageSize *int   `toml:"page_size"`
	}
	if err := toml.Unmarshal(raw, &parsed); err != nil {
		return defaults, nil // Graceful degradation
	}

	p := defaults
	if strings.TrimSpace(parsed.Theme) != "" {
		p.Theme = strings.TrimSpace(parsed.Theme)
	}
	if parsed.PageSize != nil && *parsed.PageSize >= 0 {
		p.PageSize = *parsed.PageSize
	}
	return p, nil
}

// Save writes preferences to the given path, creating directories as
// needed. The write is atomic so a crash mid-save cannot truncate the
// file.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	raw, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := atomic.WriteFile(resolved, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
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
