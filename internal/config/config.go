package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload" // .env is read before we look at MIZAN_* vars
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	DefaultConfigFile = "mizan.yml"
	envPrefix         = "MIZAN_"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Data      DataConfig      `koanf:"data"`
	Search    SearchConfig    `koanf:"search"`
	Settings  SettingsConfig  `koanf:"settings"`
	Vector    VectorConfig    `koanf:"vector"`
	Embedding EmbeddingConfig `koanf:"embedding"`
	Share     ShareConfig     `koanf:"share"`
	Log       LogConfig       `koanf:"log"`
}

type ServerConfig struct {
	Addr        string `koanf:"addr"`
	FrontendURL string `koanf:"frontend_url"`
}

// DataConfig - Where volume documents come from. BaseURL wins over Dir when both are set.
type DataConfig struct {
	Dir     string `koanf:"dir"`
	BaseURL string `koanf:"base_url"`
	Pattern string `koanf:"pattern"`
	Volumes []int  `koanf:"volumes"`
}

type SearchConfig struct {
	Debounce time.Duration `koanf:"debounce"`
}

type SettingsConfig struct {
	Path string `koanf:"path"`
}

type VectorConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Addr       string `koanf:"addr"`
	Collection string `koanf:"collection"`
	Workers    int    `koanf:"workers"`
}

type EmbeddingConfig struct {
	URL   string `koanf:"url"`
	Model string `koanf:"model"`
}

type ShareConfig struct {
	BrowserBin string `koanf:"browser_bin"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":1323",
			FrontendURL: "http://localhost:5173",
		},
		Data: DataConfig{
			Dir:     "public/data",
			Pattern: "mizan_al_hikmah_vol%d.json",
			Volumes: []int{1, 2, 3, 4},
		},
		Search: SearchConfig{
			Debounce: 300 * time.Millisecond,
		},
		Settings: SettingsConfig{
			Path: "assets/settings.db",
		},
		Vector: VectorConfig{
			Addr:       "localhost:6334", // 6333 is the http port
			Collection: "mizan",
			Workers:    10,
		},
		Embedding: EmbeddingConfig{
			URL:   "http://localhost:11434/api/embed",
			Model: "mistral",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load - defaults, then the YAML file at path (if it exists), then MIZAN_* env vars.
// Nested keys use a double underscore: MIZAN_SERVER__FRONTEND_URL -> server.frontend_url
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, cfg.Validate()
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
}

func (c *Config) Validate() error {
	if c.Data.Dir == "" && c.Data.BaseURL == "" {
		return fmt.Errorf("one of data.dir or data.base_url is required")
	}
	if !strings.Contains(c.Data.Pattern, "%d") {
		return fmt.Errorf("data.pattern %q must contain %%d", c.Data.Pattern)
	}
	if len(c.Data.Volumes) == 0 {
		return fmt.Errorf("data.volumes must not be empty")
	}
	for _, v := range c.Data.Volumes {
		if v < 1 {
			return fmt.Errorf("invalid volume number %d", v)
		}
	}
	if c.Search.Debounce < 0 {
		return fmt.Errorf("search.debounce must be non-negative")
	}
	if c.Vector.Workers < 1 {
		return fmt.Errorf("vector.workers must be at least 1")
	}
	return nil
}
