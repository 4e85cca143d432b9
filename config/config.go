package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Driver string
		URL    string
		Path   string
	}
	Server struct {
		Port int
	}
	Sitemap struct {
		Hostname     string
		TargetFolder string
		Name         string
		ChunkSize    int
		CacheTTL     string
	}
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Default values
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.path", "kb-sitemap.db")
	viper.SetDefault("sitemap.name", "sitemap")
	viper.SetDefault("sitemap.chunksize", 45000)
	viper.SetDefault("sitemap.cachettl", "10m")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) GetCacheTTL() time.Duration {
	ttl, err := time.ParseDuration(c.Sitemap.CacheTTL)
	if err != nil {
		return 10 * time.Minute
	}
	return ttl
}
