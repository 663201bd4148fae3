package main

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config seeds the initial application state.
type Config struct {
	Locale string `toml:"locale"`
	Theme  string `toml:"theme"`
}

func defaultConfig() Config {
	return Config{Locale: "en", Theme: "light"}
}

// configPath locates the config file relative to the working directory,
// so the shipped file is found both from inside this directory and from
// the module root via "go run ./example".
func configPath() string {
	for _, p := range []string{"config.toml", filepath.Join("example", "config.toml")} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return "config.toml"
}

// loadConfig reads a TOML config file, falling back to defaults when the
// file is absent. A present-but-broken file is an error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
