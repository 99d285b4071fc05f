package config

import "time"

type RedisConfig struct {
	DB       int
	Url      string
	Password string
}

func NewRedisConfig() *RedisConfig {
	return &RedisConfig{
		DB:       getIntEnv("REDIS_DB", 0),
		Url:      getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
	}
}

// RateLimitConfig bounds how many submissions one account may send per window.
// A Limit of zero disables the check.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

func NewRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		Limit:  getIntEnv("RATE_LIMIT_PER_MINUTE", 30),
		Window: time.Minute,
	}
}
