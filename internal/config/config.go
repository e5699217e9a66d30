package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds application level configuration loaded from environment
// variables and an optional config file.
type Config struct {
	ServerPort  string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	TokenTTL    time.Duration
	SwaggerHost string
}

// Load builds Config from the environment with sensible defaults. Environment
// variables use the TASKHIVE_ prefix (e.g. TASKHIVE_JWT_SECRET); a config.yaml
// in the working directory may override defaults.
func Load() *Config {
	v := viper.New()
	v.SetEnvPrefix("TASKHIVE")
	v.AutomaticEnv()

	v.SetDefault("server_port", "8080")
	v.SetDefault("mysql_dsn", "user:password@tcp(localhost:3306)/taskhive?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_password", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("token_ttl", 24*time.Hour)
	v.SetDefault("swagger_host", "")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	return &Config{
		ServerPort:  v.GetString("server_port"),
		MySQLDSN:    v.GetString("mysql_dsn"),
		RedisAddr:   v.GetString("redis_addr"),
		RedisDB:     v.GetInt("redis_db"),
		RedisPass:   v.GetString("redis_password"),
		JWTSecret:   v.GetString("jwt_secret"),
		TokenTTL:    v.GetDuration("token_ttl"),
		SwaggerHost: v.GetString("swagger_host"),
	}
}
