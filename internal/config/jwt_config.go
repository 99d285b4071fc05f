package config

import (
	"os"
	"time"

	"gitlab.com/judgerunner.net/internal/static/errs"
)

type JwtConfig struct {
	Secret string
	TTL    time.Duration
}

func NewJwtConfig() *JwtConfig {
	return &JwtConfig{
		Secret: os.Getenv("JWT_SECRET"),
		TTL:    getDurationEnv("JWT_TTL", time.Hour),
	}
}

// Validate rejects an empty signing secret, with which anyone could mint tokens
func (c *JwtConfig) Validate() error {
	if c.Secret == "" {
		return errs.ErrMissingJWTSecret
	}
	return nil
}
