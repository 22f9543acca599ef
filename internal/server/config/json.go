package config

import (
	"encoding/json"
	"os"

	"github.com/bcheng02/flash-cards/internal/flagx"
	"github.com/bcheng02/flash-cards/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Absent keys
// leave the corresponding Config field untouched.
type JsonConfig struct {
	Env                          string          `json:"env"`
	EndpointAddrHTTP             string          `json:"endpoint_addr_http"`
	EndpointAddrGRPC             string          `json:"endpoint_addr_grpc"`
	DatabaseDSN                  string          `json:"database_dsn"`
	SecretKey                    string          `json:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	CookieSecure                 *bool           `json:"cookie_secure"`
	RevocationStore              string          `json:"revocation_store"`
	RedisAddr                    string          `json:"redis_addr"`
	CORSOrigin                   string          `json:"cors_origin"`
}

// parseJson overlays values from the file named by -c/-config. It panics if
// the file cannot be read or parsed; nothing happens when no file is given.
func parseJson(config *Config) {
	path := flagx.ConfigFilePath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.Env, c.Env)
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.RevocationStore, c.RevocationStore)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.CORSOrigin, c.CORSOrigin)

	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
