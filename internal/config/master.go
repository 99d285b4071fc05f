package config

import (
	"os"
	"time"
)

type AppConfig struct {
	DebugMode       bool
	Judge0Config    *Judge0Config
	RedisConfig     *RedisConfig
	RateLimitConfig *RateLimitConfig
	PostgresConfig  *PostgresConfig
	JwtConfig       *JwtConfig
	GGAuthConfig    *GGAuthConfig
	ServerConfig    *ServerConfig
}

// responseMargin is added on top of the longest judge call so the handler can
// still write its 504 before the server cuts the connection.
const responseMargin = 15 * time.Second

func NewSystemConfig() *AppConfig {
	judge0 := NewJudge0Config()
	server := NewServerConfig()
	server.WriteTimeout = ServerWriteTimeout(judge0)

	return &AppConfig{
		DebugMode:       os.Getenv("DEBUG_MODE") == "true",
		Judge0Config:    judge0,
		RedisConfig:     NewRedisConfig(),
		RateLimitConfig: NewRateLimitConfig(),
		PostgresConfig:  NewPostgresConfig(),
		JwtConfig:       NewJwtConfig(),
		GGAuthConfig:    NewGGAuthConfig(),
		ServerConfig:    server,
	}
}

// ServerWriteTimeout follows the judge bound: an unbounded judge call gets an
// unbounded response.
func ServerWriteTimeout(judge0 *Judge0Config) time.Duration {
	d := judge0.MaxCallDuration()
	if d == 0 {
		return 0
	}
	return d + responseMargin
}
