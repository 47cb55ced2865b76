package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/webblog/publishing-api/internal/infrastructure/db/postgres"
)

func processWith(t *testing.T, vars map[string]string) *Config {
	t.Helper()
	var cfg Config
	err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.MapLookuper(vars),
	})
	if err != nil {
		t.Fatalf("process config: %v", err)
	}
	return &cfg
}

func TestConfig_Defaults(t *testing.T) {
	cfg := processWith(t, nil)

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.StorageBackend != BackendPostgres {
		t.Errorf("StorageBackend = %q, want %q", cfg.StorageBackend, BackendPostgres)
	}
	if cfg.ImageStore != ImageStoreFS {
		t.Errorf("ImageStore = %q, want %q", cfg.ImageStore, ImageStoreFS)
	}
	if cfg.AccessTokenTTL != 2*time.Hour {
		t.Errorf("AccessTokenTTL = %v, want 2h", cfg.AccessTokenTTL)
	}
	if cfg.Postgres.Port != "5432" {
		t.Errorf("Postgres.Port = %q, want 5432", cfg.Postgres.Port)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("Redis.Addr = %q, want empty", cfg.Redis.Addr)
	}
}

func TestConfig_PostgresSectionFeedsConnect(t *testing.T) {
	cfg := processWith(t, map[string]string{
		"POSTGRES_HOST": "db.internal",
		"POSTGRES_PORT": "6432",
		"POSTGRES_DB":   "blog",
	})

	// the section must map field for field onto the driver config
	pg := postgres.Config{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
		SSLMode:  cfg.Postgres.SSLMode,
	}
	if pg.Host != "db.internal" || pg.Port != "6432" || pg.Database != "blog" {
		t.Errorf("unexpected driver config: %+v", pg)
	}
	if pg.SSLMode != "disable" {
		t.Errorf("SSLMode = %q, want disable", pg.SSLMode)
	}
}
