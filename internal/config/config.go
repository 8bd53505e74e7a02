package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/packetctl/internal/logging"
	"github.com/danmuck/packetctl/internal/packet"
)

const (
	FormatText = "text"
	FormatYAML = "yaml"

	// StdinInput selects standard input as the transmission source.
	StdinInput = "-"
)

// Config is the resolved packetctl configuration. An empty LogLevel leaves
// the level chosen by the logging profile and its env overrides in place.
type Config struct {
	Input    string
	Format   string
	MaxDepth int
	LogLevel string
}

type fileConfig struct {
	Input    string `toml:"input"`
	Format   string `toml:"format"`
	MaxDepth int    `toml:"max_depth"`
	LogLevel string `toml:"log_level"`
}

func Default() Config {
	return Config{
		Input:    StdinInput,
		Format:   FormatText,
		MaxDepth: packet.DefaultMaxDepth,
	}
}

// Load reads a TOML file over Default. Keys absent from the file keep
// their defaults; unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("config parse failed (%s): unknown keys %s", path, strings.Join(keys, ", "))
	}

	if meta.IsDefined("input") {
		cfg.Input = strings.TrimSpace(raw.Input)
	}
	if meta.IsDefined("format") {
		cfg.Format = strings.ToLower(strings.TrimSpace(raw.Format))
	}
	if meta.IsDefined("max_depth") {
		cfg.MaxDepth = raw.MaxDepth
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	switch cfg.Format {
	case FormatText, FormatYAML:
	default:
		return fmt.Errorf("unknown format %q (want %s|%s)", cfg.Format, FormatText, FormatYAML)
	}
	if cfg.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative: %d", cfg.MaxDepth)
	}
	if cfg.LogLevel == "" {
		return nil
	}
	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}
	return nil
}

// InputPath resolves the configured input; empty and "-" both mean stdin.
func (c Config) InputPath() (string, bool) {
	p := strings.TrimSpace(c.Input)
	if p == "" || p == StdinInput {
		return "", false
	}
	return p, true
}

func (c Config) DecodeOptions() packet.DecodeOptions {
	return packet.DecodeOptions{MaxDepth: c.MaxDepth}
}
