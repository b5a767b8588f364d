package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/spf13/viper"

	"github.com/goliatone/go-task-repository/cache"
)

// Config is the CLI configuration, loaded from YAML and TODO_* variables.
type Config struct {
	Local  LocalConfig  `mapstructure:"local"`
	Remote RemoteConfig `mapstructure:"remote"`
	Store  StoreConfig  `mapstructure:"store"`
	Cache  cache.Config `mapstructure:"cache"`
	Serve  ServeConfig  `mapstructure:"serve"`
	Log    LogConfig    `mapstructure:"log"`
}

type LocalConfig struct {
	Path string `mapstructure:"path"`
}

type RemoteConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type StoreConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type ServeConfig struct {
	Addr string `mapstructure:"addr"`
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	dir := todoDir()
	return Config{
		Local: LocalConfig{Path: filepath.Join(dir, "tasks.db")},
		Remote: RemoteConfig{
			URL:     "http://localhost:8080",
			Timeout: 10 * time.Second,
		},
		Store: StoreConfig{Timeout: 5 * time.Second},
		Cache: cache.DefaultConfig(),
		Serve: ServeConfig{
			Addr: ":8080",
			Path: filepath.Join(dir, "remote.db"),
		},
		Log: LogConfig{Level: "warn"},
	}
}

// Validate checks the loaded configuration.
func (c Config) Validate() error {
	err := validation.Errors{
		"local.path":     validation.Validate(c.Local.Path, validation.Required),
		"remote.url":     validation.Validate(c.Remote.URL, validation.Required),
		"remote.timeout": validation.Validate(int64(c.Remote.Timeout), validation.Min(int64(0))),
		"store.timeout":  validation.Validate(int64(c.Store.Timeout), validation.Min(int64(0))),
		"serve.addr":     validation.Validate(c.Serve.Addr, validation.Required),
		"log.level": validation.Validate(strings.ToLower(c.Log.Level),
			validation.In("debug", "info", "warn", "error")),
	}.Filter()
	if err != nil {
		return goerrors.FromOzzoValidation(err, "invalid configuration")
	}
	return c.Cache.Validate()
}

// SlogLevel converts the configured level.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelWarn
	}
	return level
}

// LoadConfig reads path (or the default config file when path is empty),
// then applies TODO_* environment overrides. A missing default file is not
// an error.
func LoadConfig(path string) (Config, error) {
	defaults := DefaultConfig()

	v := viper.New()
	setDefaults(v, defaults)
	v.SetEnvPrefix("TODO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigType("yaml")

	explicit := path != ""
	if !explicit {
		path = filepath.Join(todoDir(), "config.yaml")
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		if explicit || !missing {
			return Config{}, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to read config file").
				WithMetadata(map[string]any{"path": path})
		}
	}

	cfg := defaults
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to decode configuration")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("local.path", d.Local.Path)
	v.SetDefault("remote.url", d.Remote.URL)
	v.SetDefault("remote.timeout", d.Remote.Timeout)
	v.SetDefault("store.timeout", d.Store.Timeout)
	v.SetDefault("cache.capacity", d.Cache.Capacity)
	v.SetDefault("cache.num_shards", d.Cache.NumShards)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.eviction_percentage", d.Cache.EvictionPercentage)
	v.SetDefault("cache.eviction_interval", d.Cache.EvictionInterval)
	v.SetDefault("serve.addr", d.Serve.Addr)
	v.SetDefault("serve.path", d.Serve.Path)
	v.SetDefault("log.level", d.Log.Level)
}

func todoDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".todo"
	}
	return filepath.Join(home, ".todo")
}
