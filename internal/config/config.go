package config

import (
	"errors"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort    string `mapstructure:"SERVER_PORT"`
	PostgresURL   string `mapstructure:"POSTGRES_URL"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
}

// ErrMissingPostgresURL makes a missing connection string a startup failure
// instead of a first-request failure.
var ErrMissingPostgresURL = errors.New("POSTGRES_URL is required")

func Load() (Config, error) {
	viper.AutomaticEnv()
	viper.SetDefault("SERVER_PORT", ":8080")

	// REDIS_ADDR is optional, POSTGRES_URL is not
	_ = viper.BindEnv("POSTGRES_URL")
	_ = viper.BindEnv("REDIS_ADDR")
	_ = viper.BindEnv("REDIS_PASSWORD")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.PostgresURL == "" {
		return Config{}, ErrMissingPostgresURL
	}
	return cfg, nil
}
