package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	HTTPServerAddress string        `mapstructure:"HTTP_SERVER_ADDRESS"`
	SweepInterval     time.Duration `mapstructure:"SWEEP_INTERVAL"`
	BidLockWait       time.Duration `mapstructure:"BID_LOCK_WAIT"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	SeedDemoData      bool          `mapstructure:"SEED_DEMO_DATA"`
}

// LoadConfig reads configuration from file or environment variables.
// A missing config file is fine; defaults plus environment cover everything.
func LoadConfig(path string) (config Config, err error) {
	viper.SetDefault("HTTP_SERVER_ADDRESS", "0.0.0.0:8080")
	viper.SetDefault("SWEEP_INTERVAL", "1s")
	viper.SetDefault("BID_LOCK_WAIT", "5s")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SEED_DEMO_DATA", false)

	// Prefer environment variables over config file
	viper.AutomaticEnv()

	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")
	if err = viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	if err = viper.Unmarshal(&config); err != nil {
		return
	}

	err = validateConfig(config)
	return
}

func validateConfig(config Config) error {
	if config.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be positive")
	}
	if config.BidLockWait < 0 {
		return fmt.Errorf("BID_LOCK_WAIT must not be negative")
	}
	return nil
}
