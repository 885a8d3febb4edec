package config

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestDatabaseConfig_DSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		want []string
	}{
		{
			name: "sqlserver",
			cfg:  DatabaseConfig{Driver: "sqlserver", Host: "db", Database: "IntegraLive", Username: "sa", Password: "p@ss", Timeout: 30 * time.Second},
			want: []string{"sqlserver://sa:p%40ss@db:1433", "database=IntegraLive", "connection+timeout=30"},
		},
		{
			name: "postgres",
			cfg:  DatabaseConfig{Driver: "postgres", Host: "db", Database: "accounts", Username: "u", Timeout: 10 * time.Second},
			want: []string{"postgres://u@db:5432/accounts?", "sslmode=disable", "connect_timeout=10"},
		},
		{
			name: "mysql",
			cfg:  DatabaseConfig{Driver: "mysql", Host: "db", Database: "accounts", Username: "u", Password: "p"},
			want: []string{"u:p@tcp(db:3306)/accounts", "parseTime=true"},
		},
		{
			name: "sqlite",
			cfg:  DatabaseConfig{Driver: "sqlite", Database: "accounts.db"},
			want: []string{"accounts.db?_busy_timeout=30000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.SetDefaults()
			dsn := tt.cfg.DSN()
			for _, w := range tt.want {
				if !strings.Contains(dsn, w) {
					t.Errorf("DSN %q does not contain %q", dsn, w)
				}
			}
		})
	}
}

func TestDatabaseConfig_DSN_PostgresCredentialsRoundTrip(t *testing.T) {
	cfg := DatabaseConfig{
		Driver:   "postgres",
		Host:     "db",
		Database: "accounts",
		Username: "svc user",
		Password: `p@ss word='x' sslmode=require/?#`,
	}
	cfg.SetDefaults()

	u, err := url.Parse(cfg.DSN())
	if err != nil {
		t.Fatalf("DSN does not parse: %v", err)
	}
	if u.User.Username() != cfg.Username {
		t.Errorf("username = %q, want %q", u.User.Username(), cfg.Username)
	}
	if pass, _ := u.User.Password(); pass != cfg.Password {
		t.Errorf("password = %q, want %q", pass, cfg.Password)
	}
	if u.Path != "/accounts" || u.Host != "db:5432" {
		t.Errorf("unexpected host %q or path %q", u.Host, u.Path)
	}
	if got := u.Query()["sslmode"]; len(got) != 1 || got[0] != "disable" {
		t.Errorf("sslmode = %v, want [disable]", got)
	}
}

func TestDatabaseConfig_Redacted(t *testing.T) {
	cfg := DatabaseConfig{Driver: "postgres", Host: "db", Database: "x", Username: "u", Password: "secret"}
	cfg.SetDefaults()
	if strings.Contains(cfg.Redacted(), "secret") {
		t.Errorf("redacted DSN leaks password: %s", cfg.Redacted())
	}
	if cfg.Password != "secret" {
		t.Error("Redacted must not modify the config")
	}
}

func TestDatabaseConfig_Dialect(t *testing.T) {
	cases := map[string][2]string{
		"mssql":     {"sqlserver", "sqlserver"},
		"sqlserver": {"sqlserver", "sqlserver"},
		"sqlite":    {"sqlite3", "sqlite"},
		"sqlite3":   {"sqlite3", "sqlite"},
		"postgres":  {"postgres", "postgres"},
		"mysql":     {"mysql", "mysql"},
	}
	for driver, want := range cases {
		cfg := DatabaseConfig{Driver: driver}
		if got := cfg.DriverName(); got != want[0] {
			t.Errorf("%s: DriverName() = %s, want %s", driver, got, want[0])
		}
		if got := cfg.Dialect(); got != want[1] {
			t.Errorf("%s: Dialect() = %s, want %s", driver, got, want[1])
		}
	}
}

func TestConnect_SQLite(t *testing.T) {
	cfg := &DatabaseConfig{Driver: "sqlite", Database: t.TempDir() + "/accounts.db"}
	cfg.SetDefaults()

	db, err := Connect(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer db.Close()

	if stats := db.Stats(); stats.MaxOpenConnections != 1 {
		t.Errorf("expected a single connection, got %d", stats.MaxOpenConnections)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	cfg := &DatabaseConfig{Driver: "sqlite", Database: "/nonexistent-dir/sub/accounts.db"}
	cfg.SetDefaults()

	if _, err := Connect(context.Background(), cfg); err == nil {
		t.Fatal("expected connection error")
	}
}
