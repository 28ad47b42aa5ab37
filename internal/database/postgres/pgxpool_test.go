package postgres

import (
	"strings"
	"testing"
	"time"

	"referral-finder/internal/config"
)

func TestDSN_Defaults(t *testing.T) {
	dsn, err := DSN(config.DatabaseConfig{DBHost: " db ", DBName: "referrals", DBUser: "app", DBPassword: "pw"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for _, want := range []string{"host=db", "port=5432", "dbname=referrals", "sslmode=disable", "user=app"} {
		if !strings.Contains(dsn, want) {
			t.Fatalf("dsn %q missing %q", dsn, want)
		}
	}
}

func TestDSN_RequiresHostAndName(t *testing.T) {
	if _, err := DSN(config.DatabaseConfig{DBHost: "db"}); err == nil {
		t.Fatalf("expected error for missing name")
	}
}

func TestPoolConfig_AppliesPoolSettings(t *testing.T) {
	pcfg, err := PoolConfig(config.DatabaseConfig{
		DBHost:              "db",
		DBName:              "referrals",
		PoolMaxConns:        7,
		PoolMaxConnLifetime: 10 * time.Minute,
		ConnectTimeout:      3 * time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if pcfg.MaxConns != 7 {
		t.Fatalf("expected max conns 7, got %d", pcfg.MaxConns)
	}
	if pcfg.MaxConnLifetime != 10*time.Minute {
		t.Fatalf("unexpected lifetime %v", pcfg.MaxConnLifetime)
	}
	if pcfg.ConnConfig.ConnectTimeout != 3*time.Second {
		t.Fatalf("unexpected connect timeout %v", pcfg.ConnConfig.ConnectTimeout)
	}
}

func TestDSN_QuotesPassword(t *testing.T) {
	dsn, err := DSN(config.DatabaseConfig{DBHost: "db", DBName: "referrals", DBPassword: `p w'x`})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.Contains(dsn, `password='p w\'x'`) {
		t.Fatalf("password not quoted: %q", dsn)
	}
}
