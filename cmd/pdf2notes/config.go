package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// defaults holds the user's standing preferences, loaded from a TOML file
// before flags are applied. Flags the user sets explicitly always win.
type defaults struct {
	CourseName  string  `toml:"course_name"`
	Side        string  `toml:"side"`
	MarginRatio float64 `toml:"margin_ratio"`
	DPI         float64 `toml:"dpi"`
	CacheDir    string  `toml:"cache_dir"`
	Model       string  `toml:"model"`
	Concurrency int     `toml:"concurrency"`
	ChromePath  string  `toml:"chrome_path"`
}

// loadDefaults reads the config file at path, or ~/.pdf2notes.toml when path
// is empty. A missing default file is fine; a missing explicit file is not.
func loadDefaults(path string) (defaults, error) {
	explicit := path != ""
	if !explicit {
		home, err := os.UserHomeDir()
		if err != nil {
			return defaults{}, nil
		}
		path = filepath.Join(home, ".pdf2notes.toml")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return defaults{}, nil
		}
		return defaults{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var d defaults
	if err := toml.Unmarshal(b, &d); err != nil {
		return defaults{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return d, nil
}
