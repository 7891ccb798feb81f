package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const DefaultPath = "linkbench.toml"

var ErrUnknownProvider = errors.New("unknown provider")

type ExperimentsConfig struct {
	Root             string `toml:"root"`
	Ext              string `toml:"ext"`
	AllowSingleField bool   `toml:"allow_single_field"`
}

// LinkerConfig selects the entity linker. Provider is one of refined, falcon
// or llm; the llm provider uses the [llm] section.
type LinkerConfig struct {
	Provider  string   `toml:"provider"`
	Model     string   `toml:"model"`
	EntitySet string   `toml:"entity_set"`
	BaseURL   string   `toml:"base_url"`
	APIKey    string   `toml:"api_key"`
	Timeout   Duration `toml:"timeout"`
}

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type RetryConfig struct {
	MaxAttempts int      `toml:"max_attempts"`
	Wait        Duration `toml:"wait"`
	SkipFailed  bool     `toml:"skip_failed"`
}

type ConcurrencyConfig struct {
	Link int `toml:"link"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type ServerConfig struct {
	Port string `toml:"port"`
}

type Config struct {
	Experiments ExperimentsConfig `toml:"experiments"`
	Linker      LinkerConfig      `toml:"linker"`
	LLM         LLMConfig         `toml:"llm"`
	Cache       CacheConfig       `toml:"cache"`
	Retry       RetryConfig       `toml:"retry"`
	Concurrency ConcurrencyConfig `toml:"concurrency"`
	Memgraph    MemgraphConfig    `toml:"memgraph"`
	Server      ServerConfig      `toml:"server"`
}

// Duration is a time.Duration written as a Go duration string ("500ms").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(b), err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func Default() *Config {
	return &Config{
		Experiments: ExperimentsConfig{
			Root: "./experiments",
			Ext:  ".debug",
		},
		Linker: LinkerConfig{
			Provider:  "refined",
			Model:     "questions_model",
			EntitySet: "wikidata",
			Timeout:   Duration{60 * time.Second},
		},
		LLM: LLMConfig{
			Provider: "ollama",
			Model:    "gpt-oss:latest",
			BaseURL:  "http://localhost:11434",
		},
		Cache: CacheConfig{
			Path: "ned_cache.sqlite",
		},
		Retry: RetryConfig{
			MaxAttempts: 2,
			Wait:        Duration{500 * time.Millisecond},
		},
		Concurrency: ConcurrencyConfig{
			Link: 1,
		},
		Memgraph: MemgraphConfig{
			URI: "bolt://localhost:7687",
		},
		Server: ServerConfig{
			Port: "8080",
		},
	}
}

// Load reads the TOML file at path on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// Resolve loads the config for the CLI. An empty path falls back to
// DefaultPath, which may be absent; an explicit path must exist.
// Environment overrides are applied last. Linker settings are not checked
// here; see Validate.
func Resolve(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	cfg, err := Load(path)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = Default()
	}

	ApplyEnv(cfg, os.Getenv)
	return cfg, nil
}

// ApplyEnv overrides config values with non-empty environment variables.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	set(&cfg.Experiments.Root, "LINKBENCH_EXPERIMENTS_ROOT")
	set(&cfg.Linker.Provider, "LINKBENCH_LINKER")
	set(&cfg.Linker.Model, "LINKBENCH_MODEL")
	set(&cfg.Linker.BaseURL, "LINKBENCH_LINKER_URL")
	set(&cfg.Linker.APIKey, "LINKBENCH_LINKER_API_KEY")
	set(&cfg.Cache.Path, "LINKBENCH_CACHE")

	set(&cfg.LLM.Provider, "LLM_PROVIDER")
	set(&cfg.LLM.Model, "LLM_MODEL")
	set(&cfg.LLM.APIKey, "LLM_API_KEY")
	set(&cfg.LLM.BaseURL, "LLM_BASE_URL")

	set(&cfg.Memgraph.URI, "MEMGRAPH_URI")
	set(&cfg.Memgraph.User, "MEMGRAPH_USER")
	set(&cfg.Memgraph.Password, "MEMGRAPH_PASSWORD")

	set(&cfg.Server.Port, "PORT")

	if v := getenv("LINKBENCH_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Concurrency.Link = n
		}
	}
}

// Validate checks the settings a linker run depends on. Comparing
// experiments needs none of them.
func (c *Config) Validate() error {
	switch c.Linker.Provider {
	case "refined", "falcon", "llm":
	default:
		return fmt.Errorf("linker %q: %w", c.Linker.Provider, ErrUnknownProvider)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	if c.Concurrency.Link < 1 {
		return fmt.Errorf("concurrency.link must be at least 1, got %d", c.Concurrency.Link)
	}
	return nil
}
