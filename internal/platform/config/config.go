package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	// RateLimit is an ulule/limiter formatted rate, e.g. "100-M" for 100
	// requests per minute per client IP.
	RateLimit string

	// TransferReplayWindow bounds how far apart the two legs of a transfer
	// may have been created and still be correlated during an idempotent
	// replay of the transfer.
	TransferReplayWindow time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("TRANSFER_REPLAY_WINDOW", "1s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	if cfg.RateLimit == "" {
		cfg.RateLimit = "100-M"
		log.Printf("Warning: RATE_LIMIT environment variable not set. Defaulting to %s\n", cfg.RateLimit)
	}

	replayWindowStr := viper.GetString("TRANSFER_REPLAY_WINDOW")
	replayWindow, err := time.ParseDuration(replayWindowStr)
	if err != nil || replayWindow <= 0 {
		replayWindow = time.Second
		if replayWindowStr != "" {
			log.Printf("Warning: Invalid value for TRANSFER_REPLAY_WINDOW ('%s'). Defaulting to %s.\n", replayWindowStr, replayWindow.String())
		}
	}
	cfg.TransferReplayWindow = replayWindow

	return cfg, nil
}
