package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors Config with pointer fields so we can distinguish
// "not set" from zero values when merging TOML.
type fileConfig struct {
	TitleToURLPath      *string   `toml:"title_to_url_path"`
	StripBrackets       *bool     `toml:"strip_brackets"`
	StripDefinitionExts *[]string `toml:"strip_definition_exts"`
	LogLevel            *string   `toml:"log_level"`
}

// ConfigDir returns the wikilinks config directory, respecting XDG_CONFIG_HOME.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "wikilinks")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "wikilinks")
}

// ConfigPath returns the full path to config.toml.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LoadFile reads the default config.toml and merges non-nil fields into cfg.
// Returns true if the file existed, false otherwise.
func LoadFile(cfg *Config) (bool, error) {
	return LoadFrom(ConfigPath(), cfg)
}

// LoadFrom is LoadFile for an explicit path.
func LoadFrom(path string, cfg *Config) (bool, error) {
	data, err := os.ReadFile(ExpandHome(path))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return true, fmt.Errorf("parse %s: %w", path, err)
	}

	if fc.TitleToURLPath != nil {
		cfg.TitleToURLPath = *fc.TitleToURLPath
	}
	if fc.StripBrackets != nil {
		cfg.StripBrackets = *fc.StripBrackets
	}
	if fc.StripDefinitionExts != nil {
		cfg.StripDefinitionExts = NormalizeExts(*fc.StripDefinitionExts)
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}

	return true, nil
}

// SaveFile writes cfg to path, creating the parent directory.
func SaveFile(path string, cfg Config) error {
	path = ExpandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	exts := cfg.StripDefinitionExts
	if exts == nil {
		exts = []string{}
	}
	fc := fileConfig{
		TitleToURLPath:      &cfg.TitleToURLPath,
		StripBrackets:       &cfg.StripBrackets,
		StripDefinitionExts: &exts,
		LogLevel:            &cfg.LogLevel,
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(fc)
}

// NormalizeExts prefixes a dot where it was left out ("md" -> ".md") and
// drops empty and repeated entries, keeping order.
func NormalizeExts(exts []string) []string {
	out := make([]string, 0, len(exts))
	seen := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

// ExpandHome replaces a leading "~" or "~/" with the user's home directory.
// Other users' homes ("~bob") are not expanded.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, _ := os.UserHomeDir()
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
