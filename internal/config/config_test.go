package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8050 {
		t.Errorf("Server.Port = %d, want 8050", cfg.Server.Port)
	}
	if cfg.Store.Driver != "pgx" {
		t.Errorf("Store.Driver = %q, want pgx", cfg.Store.Driver)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("Metrics.Path = %q, want /metrics", cfg.Metrics.Path)
	}
	if cfg.Address() != "localhost:8050" {
		t.Errorf("Address() = %q", cfg.Address())
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("SERVER_READ_TIMEOUT", "3s")
	t.Setenv("SECURITY_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Store.Driver != "postgres" {
		t.Errorf("Store.Driver = %q, want postgres", cfg.Store.Driver)
	}
	if cfg.Server.ReadTimeout != 3*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 3s", cfg.Server.ReadTimeout)
	}
	if len(cfg.Security.AllowedOrigins) != 2 || cfg.Security.AllowedOrigins[1] != "http://b.test" {
		t.Errorf("AllowedOrigins = %v", cfg.Security.AllowedOrigins)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad port", "SERVER_PORT", "70000"},
		{"bad driver", "STORE_DRIVER", "odbc"},
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"bad log format", "LOG_FORMAT", "xml"},
		{"bad metrics path", "METRICS_PATH", "metrics"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.val)

			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%s should fail", tt.key, tt.val)
			}
		})
	}
}

func TestStoreConfig_DSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  StoreConfig
		want string
	}{
		{
			name: "url wins",
			cfg:  StoreConfig{URL: "postgres://x@db/sales", Host: "ignored"},
			want: "postgres://x@db/sales",
		},
		{
			name: "password",
			cfg:  StoreConfig{Host: "db", Port: 5432, Name: "sales", User: "app", Password: "s3cret", SSLMode: "disable"},
			want: "postgres://app:s3cret@db:5432/sales?sslmode=disable",
		},
		{
			name: "trusted auth drops credentials",
			cfg:  StoreConfig{Host: "db", Port: 5433, Name: "sales", User: "app", Password: "s3cret", TrustedAuth: true},
			want: "postgres://db:5433/sales",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.DSN(); got != tt.want {
				t.Errorf("DSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStoreConfig_Redacted(t *testing.T) {
	cfg := StoreConfig{Host: "db", Port: 5432, Name: "sales", User: "app", Password: "s3cret"}
	if got := cfg.Redacted(); strings.Contains(got, "s3cret") {
		t.Errorf("Redacted() leaked password: %q", got)
	}
}
