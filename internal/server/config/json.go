package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/postplanner/internal/flagx"
	"github.com/dmitrijs2005/postplanner/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "1s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. Only fields present in the file are copied into the
// runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP              string          `json:"endpoint_addr_http"`
	EndpointAddrGRPC              string          `json:"endpoint_addr_grpc"`
	DatabaseDSN                   string          `json:"database_dsn"`
	SecretKey                     string          `json:"secret_key"`
	RegisterTokenValidityDuration *timex.Duration `json:"register_token_validity_duration"`
	LoginTokenValidityDuration    *timex.Duration `json:"login_token_validity_duration"`
	BcryptCost                    int             `json:"bcrypt_cost"`
	CORSOrigins                   []string        `json:"cors_origins"`
	RedisAddr                     string          `json:"redis_addr"`
	RedisPassword                 string          `json:"redis_password"`
	AuthRateLimit                 int             `json:"auth_rate_limit"`
	AuthRateWindow                *timex.Duration `json:"auth_rate_window"`
	TrustedProxies                []string        `json:"trusted_proxies"`
	HealthCheckInterval           *timex.Duration `json:"health_check_interval"`
	S3RootUser                    string          `json:"s3_root_user"`
	S3RootPassword                string          `json:"s3_root_password"`
	S3Bucket                      string          `json:"s3_bucket"`
	S3Region                      string          `json:"s3_region"`
	S3BaseEndpoint                string          `json:"s3_base_endpoint"`
	LogLevel                      string          `json:"log_level"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags. If neither
// is set, no JSON file is loaded. If the file cannot be read or contains
// invalid JSON, the function panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.applyTo(config)
}

func (c *JsonConfig) applyTo(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.RegisterTokenValidityDuration, c.RegisterTokenValidityDuration)
	setDuration(&config.LoginTokenValidityDuration, c.LoginTokenValidityDuration)
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.CORSOrigins != nil {
		config.CORSOrigins = c.CORSOrigins
	}
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	if c.AuthRateLimit != 0 {
		config.AuthRateLimit = c.AuthRateLimit
	}
	setDuration(&config.AuthRateWindow, c.AuthRateWindow)
	if c.TrustedProxies != nil {
		config.TrustedProxies = c.TrustedProxies
	}
	setDuration(&config.HealthCheckInterval, c.HealthCheckInterval)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
