package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage backend selectors for STORAGE_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendFile     = "file"
)

// Image store selectors for IMAGE_STORE.
const (
	ImageStoreFS    = "fs"
	ImageStoreMinIO = "minio"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL,  default=2h"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL, default=168h"`

	// StorageBackend selects where users and posts live: "postgres" or "file".
	StorageBackend string `env:"STORAGE_BACKEND, default=postgres"`
	// ImageStore selects where uploaded files live: "fs" or "minio".
	ImageStore string `env:"IMAGE_STORE, default=fs"`

	// DataDir holds the JSON snapshots of the file backend.
	DataDir string `env:"DATA_DIR, default=./data"`
	// ImageRoot is the directory of the fs image store.
	ImageRoot string `env:"IMAGE_ROOT, default=./data/images"`

	Postgres PostgresConfig
	Redis    RedisConfig
	MinIO    MinIOConfig
}

type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST,     default=localhost"`
	Port     string `env:"POSTGRES_PORT,     default=5432"`
	User     string `env:"POSTGRES_USER,     default=postgres"`
	Password string `env:"POSTGRES_PASSWORD"`
	Database string `env:"POSTGRES_DB,       default=webblog"`
	SSLMode  string `env:"POSTGRES_SSLMODE,  default=disable"`
}

type RedisConfig struct {
	// Addr left empty disables Redis and, with it, login throttling.
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type MinIOConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT,   default=localhost:9000"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	Bucket    string `env:"MINIO_BUCKET,     default=images"`
	UseSSL    bool   `env:"MINIO_USE_SSL,    default=false"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
