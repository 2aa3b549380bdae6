package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	UploadDir string `env:"UPLOAD_DIR, default=uploads"`

	Mongo      MongoConfig
	Redis      RedisConfig
	Superadmin SuperadminConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=civic_report"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// SuperadminConfig holds the well-known bootstrap account. The defaults are
// for development only; production deployments must override them.
type SuperadminConfig struct {
	Name     string `env:"SUPERADMIN_NAME,     default=Super Admin"`
	Email    string `env:"SUPERADMIN_EMAIL,    default=superadmin@civicgrid.local"`
	Password string `env:"SUPERADMIN_PASSWORD, default=superadmin"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
