package config

import (
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// dotEnvFile is loaded, if present, before the environment is read. Variables
// already set in the process environment win over the file.
var dotEnvFile = ".env"

// EnvConfig maps environment variables onto the server configuration.
type EnvConfig struct {
	Env                          string        `env:"APP_ENV"`
	EndpointAddrHTTP             string        `env:"HTTP_ADDR"`
	EndpointAddrGRPC             string        `env:"GRPC_ADDR"`
	DatabaseDSN                  string        `env:"DATABASE_URL"`
	SecretKey                    string        `env:"JWT_SECRET"`
	AccessTokenValidityDuration  time.Duration `env:"ACCESS_TOKEN_TTL"`
	RefreshTokenValidityDuration time.Duration `env:"REFRESH_TOKEN_TTL"`
	CookieSecure                 string        `env:"COOKIE_SECURE"`
	RevocationStore              string        `env:"REVOCATION_STORE"`
	RedisAddr                    string        `env:"REDIS_ADDR"`
	CORSOrigin                   string        `env:"CORS_ORIGIN"`
}

// parseEnv overlays non-empty environment variables. It panics on malformed
// values, like the other sources.
func parseEnv(config *Config) {
	_ = godotenv.Load(dotEnvFile)

	var e EnvConfig
	if err := cleanenv.ReadEnv(&e); err != nil {
		panic(err)
	}

	setString(&config.Env, e.Env)
	setString(&config.EndpointAddrHTTP, e.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, e.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, e.DatabaseDSN)
	setString(&config.SecretKey, e.SecretKey)
	setString(&config.RevocationStore, e.RevocationStore)
	setString(&config.RedisAddr, e.RedisAddr)
	setString(&config.CORSOrigin, e.CORSOrigin)

	if e.AccessTokenValidityDuration > 0 {
		config.AccessTokenValidityDuration = e.AccessTokenValidityDuration
	}
	if e.RefreshTokenValidityDuration > 0 {
		config.RefreshTokenValidityDuration = e.RefreshTokenValidityDuration
	}
	if e.CookieSecure != "" {
		secure, err := strconv.ParseBool(e.CookieSecure)
		if err != nil {
			panic(err)
		}
		config.CookieSecure = secure
	}
}
