package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PRIMITIVEDB_STORAGE_DATA_DIR
const EnvPrefix = "PRIMITIVEDB"

type Config struct {
	Storage struct {
		DataDir   string        `mapstructure:"data_dir"`
		MetaFile  string        `mapstructure:"meta_file"`
		TablesDir string        `mapstructure:"tables_dir"`
		CacheTTL  time.Duration `mapstructure:"cache_ttl"`
		Lock      bool          `mapstructure:"lock"`
	} `mapstructure:"storage"`

	Log LogConfig `mapstructure:"log"`

	Shell struct {
		Prompt      string `mapstructure:"prompt"`
		HistoryFile string `mapstructure:"history_file"`
		AssumeYes   bool   `mapstructure:"assume_yes"`
	} `mapstructure:"shell"`

	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	SeqURL string `mapstructure:"seq_url"`
}

// SlogLevel parses Level; an empty level means warn
func (c LogConfig) SlogLevel() (slog.Level, error) {
	if c.Level == "" {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	return level, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.data_dir", "data")
	v.SetDefault("storage.meta_file", "db_meta.json")
	v.SetDefault("storage.tables_dir", "tables")
	v.SetDefault("storage.cache_ttl", 5*time.Minute)
	v.SetDefault("storage.lock", true)

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.seq_url", "")

	v.SetDefault("shell.prompt", "primitive-db> ")
	v.SetDefault("shell.history_file", ".primitive_db_history")
	v.SetDefault("shell.assume_yes", false)

	v.SetDefault("server.addr", "127.0.0.1:4546")
}

// Default returns the built-in configuration, ignoring files and environment
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("default config: %v", err))
	}
	return &cfg
}

// Load layers defaults, the optional YAML file at path and PRIMITIVEDB_*
// environment variables, in increasing priority.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Storage.DataDir) == "" {
		return fmt.Errorf("storage.data_dir must not be empty")
	}
	if strings.TrimSpace(c.Storage.MetaFile) == "" {
		return fmt.Errorf("storage.meta_file must not be empty")
	}
	if c.Storage.CacheTTL < 0 {
		return fmt.Errorf("storage.cache_ttl must not be negative, got %s", c.Storage.CacheTTL)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}
