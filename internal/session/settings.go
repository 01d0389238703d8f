package session

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/SeamusWaldron/cubetrainer"
)

// Theme is the UI color scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Settings are the user preferences persisted under KeySettings.
type Settings struct {
	Theme          Theme  `json:"theme"`
	Animations     bool   `json:"animations"`
	Notation       string `json:"notation"`
	Inspection     bool   `json:"inspection"`
	ScrambleLength int    `json:"scramble_length"`
}

// SettingKeys lists the names accepted by Set, in display order.
var SettingKeys = []string{"theme", "animations", "notation", "inspection", "scramble_length"}

// DefaultSettings returns the settings used when nothing is persisted.
func DefaultSettings() Settings {
	return Settings{
		Theme:          ThemeDark,
		Animations:     true,
		Notation:       "WCA",
		Inspection:     false,
		ScrambleLength: cubetrainer.DefaultScrambleLength,
	}
}

// Validate reports the first invalid field.
func (s Settings) Validate() error {
	if s.Theme != ThemeDark && s.Theme != ThemeLight {
		return fmt.Errorf("%w: theme %q", ErrInvalidSetting, s.Theme)
	}
	if s.ScrambleLength < 1 || s.ScrambleLength > 100 {
		return fmt.Errorf("%w: scramble_length %d", ErrInvalidSetting, s.ScrambleLength)
	}
	if strings.TrimSpace(s.Notation) == "" {
		return fmt.Errorf("%w: empty notation", ErrInvalidSetting)
	}
	return nil
}

// Get returns a setting rendered as text.
func (s Settings) Get(key string) (string, error) {
	switch key {
	case "theme":
		return string(s.Theme), nil
	case "animations":
		return strconv.FormatBool(s.Animations), nil
	case "notation":
		return s.Notation, nil
	case "inspection":
		return strconv.FormatBool(s.Inspection), nil
	case "scramble_length":
		return strconv.Itoa(s.ScrambleLength), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSetting, key)
	}
}

// Set parses value into the named setting.
func (s *Settings) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "theme":
		t := Theme(strings.ToLower(value))
		if t != ThemeDark && t != ThemeLight {
			return fmt.Errorf("%w: theme must be dark or light", ErrInvalidSetting)
		}
		s.Theme = t
	case "animations", "inspection":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", ErrInvalidSetting, key)
		}
		if key == "animations" {
			s.Animations = b
		} else {
			s.Inspection = b
		}
	case "notation":
		if value == "" {
			return fmt.Errorf("%w: empty notation", ErrInvalidSetting)
		}
		s.Notation = value
	case "scramble_length":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > 100 {
			return fmt.Errorf("%w: scramble_length must be 1-100", ErrInvalidSetting)
		}
		s.ScrambleLength = n
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSetting, key)
	}
	return nil
}
