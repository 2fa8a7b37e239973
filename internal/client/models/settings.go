package models

import (
	"errors"
	"strconv"
)

const (
	DefaultTheme    = "light"
	DefaultGridSize = "auto"

	// MaxGridColumns bounds a numeric grid density.
	MaxGridColumns = 6
)

var (
	ErrUnknownTheme    = errors.New("unknown theme")
	ErrInvalidGridSize = errors.New("grid size must be auto or 1-6")
)

// Themes lists the accepted theme names.
var Themes = []string{"light", "dark"}

// Settings are the two preferences persisted across restarts.
type Settings struct {
	Theme    string `json:"theme"`
	GridSize string `json:"grid_size"`
}

func DefaultSettings() Settings {
	return Settings{Theme: DefaultTheme, GridSize: DefaultGridSize}
}

func ValidateTheme(theme string) error {
	for _, t := range Themes {
		if t == theme {
			return nil
		}
	}
	return ErrUnknownTheme
}

// GridColumns parses a grid density. "auto" yields 0.
func GridColumns(size string) (int, error) {
	if size == DefaultGridSize {
		return 0, nil
	}
	n, err := strconv.Atoi(size)
	if err != nil || n < 1 || n > MaxGridColumns {
		return 0, ErrInvalidGridSize
	}
	return n, nil
}
