// Package config loads workbench configuration from defaults, an optional
// TOML file, environment variables, and command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds all configuration for the workbench.
type Config struct {
	Circuit     string `koanf:"circuit"` // path to a circuit JSON file to load
	WebMode     bool   `koanf:"web"`
	Port        int    `koanf:"port"`
	Watch       bool   `koanf:"watch"` // reload the circuit file when it changes
	OpenBrowser bool   `koanf:"open"`
	Verbosity   string `koanf:"verbosity"`
	VerboseCnt  int    `koanf:"verbose"`
}

const (
	configFile = "workbench.toml"
	envPrefix  = "WORKBENCH_"
)

// Load merges configuration sources with priority
// flags > environment > config file > defaults.
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"circuit":   "",
		"web":       false,
		"port":      8080,
		"watch":     false,
		"open":      true,
		"verbosity": "",
		"verbose":   0,
	}
	if err := k.Load(mapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// The config file is optional; a missing workbench.toml is not an error.
	_ = k.Load(file.Provider(configFile), toml.Parser())

	// WORKBENCH_PORT=9090 etc.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, envPrefix)), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// Flags builds the flag set matching the config fields.
func Flags() *pflag.FlagSet {
	f := pflag.NewFlagSet("workbench", pflag.ContinueOnError)
	f.String("circuit", "", "Path to a circuit JSON file to load")
	f.Bool("web", false, "Start the web UI instead of printing a report")
	f.Int("port", 8080, "Port for the web server")
	f.Bool("watch", false, "Reload the circuit file when it changes on disk")
	f.Bool("open", true, "Open the browser when the web server starts")
	f.String("verbosity", "", "Log level: trace, debug, info, warn, error")
	f.CountP("verbose", "v", "Increase log verbosity (repeatable)")
	return f
}

type staticProvider struct {
	m map[string]interface{}
}

func mapProvider(m map[string]interface{}) *staticProvider {
	return &staticProvider{m: m}
}

func (p *staticProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *staticProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
