package config

import "time"

type ServerConfig struct {
	Port        int
	ServiceName string
	// AllowedOrigin is echoed in CORS responses for the browser editor.
	AllowedOrigin string
	// WriteTimeout of zero leaves responses unbounded, see NewSystemConfig.
	WriteTimeout time.Duration
}

func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:          getIntEnv("HTTP_PORT", 8000),
		ServiceName:   getEnv("SERVICE_NAME", "judgerunner"),
		AllowedOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),
	}
}
