package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	ProposalTTLHours  int    `mapstructure:"PROPOSAL_TTL_HOURS"`
	MatchPriceKRW     int64  `mapstructure:"MATCH_PRICE_KRW"`
	SweepIntervalMins int    `mapstructure:"SWEEP_INTERVAL_MINUTES"`
}

var AppConfig *Config

// ProposalTTL returns the window a proposal stays actionable.
func (c *Config) ProposalTTL() time.Duration {
	return time.Duration(c.ProposalTTLHours) * time.Hour
}

// SweepInterval returns how often the expiry sweeper runs.
func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMins) * time.Minute
}

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() {
	viper.AddConfigPath(".")
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.SetDefault("PROPOSAL_TTL_HOURS", 72)
	viper.SetDefault("MATCH_PRICE_KRW", 50000)
	viper.SetDefault("SWEEP_INTERVAL_MINUTES", 10)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	err := viper.Unmarshal(&AppConfig)
	if err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
