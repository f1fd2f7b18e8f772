package cli

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config holds serialization settings loaded from a TOML file.
//
// Example:
//
//	max-depth = 5
//	base = "http://example.org/"
//
//	[prefixes]
//	ex   = "http://example.org/"
//	foaf = "http://xmlns.com/foaf/0.1/"
type Config struct {
	MaxDepth int               `toml:"max-depth"`
	Base     string            `toml:"base"`
	Prefixes map[string]string `toml:"prefixes"`
}

// loadConfig reads path into a Config. Unknown keys are rejected so that
// typos in a config file surface instead of being silently ignored.
func loadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}
