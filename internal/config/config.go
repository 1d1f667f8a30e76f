package config

import (
	"fmt"

	"github.com/pfassina/wikilinks/internal/wikilink"
)

type Config struct {
	TitleToURLPath      string // name of a registered title-to-path policy
	StripBrackets       bool
	StripDefinitionExts []string
	LogLevel            string
}

func Default() Config {
	return Config{
		TitleToURLPath: wikilink.DefaultPolicy,
		LogLevel:       "info",
	}
}

// ResolverOptions turns the config into resolver options, looking the
// title-to-path policy up by name.
func (c Config) ResolverOptions() (wikilink.Options, error) {
	fn, err := wikilink.Lookup(c.TitleToURLPath)
	if err != nil {
		return wikilink.Options{}, fmt.Errorf("config title_to_url_path: %w", err)
	}
	return wikilink.Options{
		TitleToPath:         fn,
		StripBrackets:       c.StripBrackets,
		StripDefinitionExts: append([]string(nil), c.StripDefinitionExts...),
	}, nil
}
