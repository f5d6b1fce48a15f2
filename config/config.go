package config

import (
	"fmt"
	"os"
)

// minJWTSecretLen matches the HS512 recommendation of a key at least
// as long as the hash output.
const minJWTSecretLen = 64

// Config is loaded once at startup. The JWT secret lives here and
// nowhere else: the token issuer and the auth middleware both receive
// it from this struct.
type Config struct {
	DatabaseURL string
	JWTSecret   []byte
	Port        string
	FrontendURL string
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   []byte(os.Getenv("JWT_SECRET")),
		Port:        os.Getenv("PORT"),
		FrontendURL: os.Getenv("FRONTEND_URL"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if len(cfg.JWTSecret) < minJWTSecretLen {
		return nil, fmt.Errorf("JWT_SECRET must be at least %d bytes", minJWTSecretLen)
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.FrontendURL == "" {
		cfg.FrontendURL = "http://localhost:3000"
	}

	return cfg, nil
}
