// Package config loads service settings from defaults, an optional
// config.yaml and COMPARE_ environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matst80/compare-finder/pkg/common"
	"github.com/matst80/compare-finder/pkg/compare"
	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "COMPARE"
)

type RedisConfig struct {
	Url      string `mapstructure:"url"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type RabbitConfig struct {
	Url    string `mapstructure:"url"`
	Prefix string `mapstructure:"prefix"`
}

type Config struct {
	ListenAddress  string               `mapstructure:"listen_address"`
	CategoriesFile string               `mapstructure:"categories_file"`
	CatalogDir     string               `mapstructure:"catalog_dir"`
	SQLitePath     string               `mapstructure:"sqlite_path"`
	JwtSecret      string               `mapstructure:"jwt_secret"`
	MaxCompare     int                  `mapstructure:"max_compare"`
	SessionTTL     time.Duration        `mapstructure:"session_ttl"`
	Redis          RedisConfig          `mapstructure:"redis"`
	Rabbit         RabbitConfig         `mapstructure:"rabbit"`
	Timeouts       common.TimeoutConfig `mapstructure:"timeouts"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen_address", ":8080")
	v.SetDefault("categories_file", "categories.yaml")
	v.SetDefault("catalog_dir", "data")
	v.SetDefault("sqlite_path", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("max_compare", compare.DefaultMaxSize)
	v.SetDefault("session_ttl", 24*time.Hour)
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("rabbit.url", "")
	v.SetDefault("rabbit.prefix", "compare")
	v.SetDefault("timeouts.read_header", common.DefaultTimeouts.ReadHeader)
	v.SetDefault("timeouts.read", common.DefaultTimeouts.Read)
	v.SetDefault("timeouts.write", common.DefaultTimeouts.Write)
	v.SetDefault("timeouts.idle", common.DefaultTimeouts.Idle)
	v.SetDefault("timeouts.shutdown", common.DefaultTimeouts.Shutdown)
	v.SetDefault("timeouts.hook", common.DefaultTimeouts.Hook)
}

// New returns a viper instance with defaults and environment binding. Nested
// keys map to env names with '_', redis.url is COMPARE_REDIS_URL.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads config.yaml from dirs (first found wins). A missing file is not
// an error.
func Load(dirs ...string) (*Config, error) {
	v := New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}
	if len(dirs) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return FromViper(v)
}

// LoadFile reads an explicit config file path.
func LoadFile(path string) (*Config, error) {
	v := New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return FromViper(v)
}

func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.MaxCompare < 1 {
		cfg.MaxCompare = compare.DefaultMaxSize
	}
	cfg.Timeouts = cfg.Timeouts.WithDefaults(common.DefaultTimeouts)
	return cfg, nil
}
