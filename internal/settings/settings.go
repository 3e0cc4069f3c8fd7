// Package settings holds the process-lifetime application options.
//
// Values live only in memory: they are seeded once at startup and are lost
// when the process exits.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Recognised option names for Set.
const (
	OptionDefaultMonth    = "defaultMonth"
	OptionDefaultSavePath = "defaultSavePath"
	OptionTheme           = "theme"
)

var (
	ErrInvalidTheme  = errors.New("invalid theme")
	ErrUnknownOption = errors.New("unknown option")
)

// ParseTheme accepts "light" or "dark" in any case.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	default:
		return "", fmt.Errorf("%w: %q (must be light or dark)", ErrInvalidTheme, s)
	}
}

// Settings is a snapshot of every option.
type Settings struct {
	DefaultMonth    string `json:"default_month"`
	DefaultSavePath string `json:"default_save_path"`
	Theme           Theme  `json:"theme"`
}

// Defaults returns the startup values: the month name of now, the given
// documents directory and the light theme.
func Defaults(now time.Time, documentsDir string) Settings {
	return Settings{
		DefaultMonth:    now.Format("January"),
		DefaultSavePath: documentsDir,
		Theme:           ThemeLight,
	}
}

// DocumentsDir returns the user's documents directory, falling back to the
// working directory when the home directory cannot be determined.
func DocumentsDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, "Documents")
}

// Store guards the current settings.
type Store struct {
	mu sync.RWMutex
	s  Settings
}

// New seeds a store with Defaults(now, documentsDir).
func New(now time.Time, documentsDir string) *Store {
	return &Store{s: Defaults(now, documentsDir)}
}

// Get returns a copy of every option.
func (st *Store) Get() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s
}

func (st *Store) DefaultMonth() string {
	return st.Get().DefaultMonth
}

func (st *Store) DefaultSavePath() string {
	return st.Get().DefaultSavePath
}

func (st *Store) Theme() Theme {
	return st.Get().Theme
}

func (st *Store) SetDefaultMonth(month string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.DefaultMonth = month
}

func (st *Store) SetDefaultSavePath(path string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.DefaultSavePath = path
}

func (st *Store) SetTheme(t Theme) error {
	t, err := ParseTheme(string(t))
	if err != nil {
		return err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Theme = t
	return nil
}

// Set updates one option by name.
func (st *Store) Set(option, value string) error {
	switch option {
	case OptionDefaultMonth:
		st.SetDefaultMonth(value)
	case OptionDefaultSavePath:
		st.SetDefaultSavePath(value)
	case OptionTheme:
		return st.SetTheme(Theme(value))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOption, option)
	}
	return nil
}
