package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Database struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	PoolSize int    `mapstructure:"pool_size"`
}

type Server struct {
	Addr string `mapstructure:"addr"`
}

type Config struct {
	Server   Server    `mapstructure:"server"`
	Database *Database `mapstructure:"database"`
}

// Load reads the service config. A missing file falls back to its .example
// sibling, so a fresh checkout still starts in degraded mode (no database).
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		example := path + ".example"
		if _, err := os.Stat(example); err != nil {
			return nil, fmt.Errorf("config file %s not found", path)
		}
		path = example
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("server.addr", "0.0.0.0:8000")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
