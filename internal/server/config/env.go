package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors Config with `env` tags. Pointers distinguish "unset"
// from "set to zero", so only variables actually present in the environment
// overwrite earlier layers.
type envConfig struct {
	EndpointAddrGRPC             *string        `env:"GRPC_ADDRESS"`
	DatabaseDSN                  *string        `env:"DATABASE_DSN"`
	SecretKey                    *string        `env:"SECRET_KEY"`
	AccessTokenValidityDuration  *time.Duration `env:"ACCESS_TOKEN_VALIDITY"`
	RefreshTokenValidityDuration *time.Duration `env:"REFRESH_TOKEN_VALIDITY"`
	ClientVersion                *string        `env:"CLIENT_VERSION"`
	S3RootUser                   *string        `env:"S3_ROOT_USER"`
	S3RootPassword               *string        `env:"S3_ROOT_PASSWORD"`
	S3Bucket                     *string        `env:"S3_BUCKET"`
	S3Region                     *string        `env:"S3_REGION"`
	S3BaseEndpoint               *string        `env:"S3_BASE_ENDPOINT"`
}

// parseEnv overlays environment variables onto config. Malformed values
// panic, same as an unreadable JSON config file.
func parseEnv(config *Config) {
	e := &envConfig{}
	if err := env.Parse(e); err != nil {
		panic(err)
	}

	if e.EndpointAddrGRPC != nil {
		config.EndpointAddrGRPC = *e.EndpointAddrGRPC
	}
	if e.DatabaseDSN != nil {
		config.DatabaseDSN = *e.DatabaseDSN
	}
	if e.SecretKey != nil {
		config.SecretKey = *e.SecretKey
	}
	if e.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = *e.AccessTokenValidityDuration
	}
	if e.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = *e.RefreshTokenValidityDuration
	}
	if e.ClientVersion != nil {
		config.ClientVersion = *e.ClientVersion
	}
	if e.S3RootUser != nil {
		config.S3RootUser = *e.S3RootUser
	}
	if e.S3RootPassword != nil {
		config.S3RootPassword = *e.S3RootPassword
	}
	if e.S3Bucket != nil {
		config.S3Bucket = *e.S3Bucket
	}
	if e.S3Region != nil {
		config.S3Region = *e.S3Region
	}
	if e.S3BaseEndpoint != nil {
		config.S3BaseEndpoint = *e.S3BaseEndpoint
	}
}
