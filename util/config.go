package util

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	JWTSecret     string `mapstructure:"JWT_SECRET" validate:"required"`
	RedisAddress  string `mapstructure:"REDIS_ADDR" validate:"required"`
	RedisPassword string `mapstructure:"REDIS_PW"`
	Port          string `mapstructure:"PORT" validate:"required,number"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`
	LogJSON       bool   `mapstructure:"LOG_JSON"`

	// SendTimeout bounds a single push to a client's egress. A push that
	// cannot be handed off within this window is classified the same as a
	// gone peer.
	SendTimeout time.Duration `mapstructure:"SEND_TIMEOUT_SECONDS"`

	// StrictTurnOrder alternates turns symmetrically instead of the
	// historical double-turn push and computer-only bonus turn.
	StrictTurnOrder bool `mapstructure:"STRICT_TURN_ORDER"`

	// RejectResolvedCells rejects shots at cells that are already
	// hit, miss or sunk instead of resolving them as a no-op.
	RejectResolvedCells bool `mapstructure:"REJECT_RESOLVED_CELLS"`
}

func LoadConfig() (*Config, error) {
	godotenv.Load()

	config := &Config{
		JWTSecret:           os.Getenv("JWT_SECRET"),
		RedisAddress:        os.Getenv("REDIS_ADDR"),
		RedisPassword:       os.Getenv("REDIS_PW"),
		Port:                os.Getenv("PORT"),
		LogLevel:            os.Getenv("LOG_LEVEL"),
		LogJSON:             os.Getenv("LOG_JSON") == "true",
		SendTimeout:         5 * time.Second,
		StrictTurnOrder:     os.Getenv("STRICT_TURN_ORDER") == "true",
		RejectResolvedCells: os.Getenv("REJECT_RESOLVED_CELLS") == "true",
	}

	if v := os.Getenv("SEND_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.SendTimeout = time.Duration(n) * time.Second
		}
	}

	if err := Validate.Struct(config); err != nil {
		return nil, err
	}

	return config, nil
}
