package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT    JWTConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Upload UploadConfig
}

type JWTConfig struct {
	Secret   string        `env:"JWT_SECRET"`
	Issuer   string        `env:"JWT_ISSUER,   default=identity-api"`
	Audience string        `env:"JWT_AUDIENCE, default=identity-api-clients"`
	TokenTTL time.Duration `env:"TOKEN_TTL,    default=30m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=identity_service"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type UploadConfig struct {
	// Dir is where avatar files are written; served back as /uploads/<name>.
	Dir string `env:"UPLOAD_DIR, default=uploads"`
	// MaxBytes caps avatar uploads. The original system documented 2 MiB but
	// enforced 4 MiB; the intended limit is unconfirmed, hence configurable.
	MaxBytes int64 `env:"UPLOAD_MAX_BYTES, default=4194304"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
